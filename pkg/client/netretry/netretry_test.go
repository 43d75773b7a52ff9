package netretry_test

import (
	"errors"
	"testing"
	"time"

	"github.com/slipway-dev/slipway/pkg/client/netretry"
	"github.com/stretchr/testify/assert"
)

// Error messages intentionally match real HTTP/network error patterns including capitalization.
var (
	errGeneric         = errors.New("something went wrong")
	errNotFound        = errors.New("404 Not Found")
	errUnauthorized    = errors.New("unauthorized: authentication required")
	errConnectPort5000 = errors.New("connect to :5000")
	errDownload500     = errors.New("failed to download: 500")
	errBadGateway      = errors.New("response: Bad Gateway error occurred")
	errStatusCode503   = errors.New("got status code 503")
	errConnReset       = errors.New(
		"read tcp 10.1.0.115:37414->98.84.224.111:443: read: connection reset by peer",
	)
	errConnRefused = errors.New(
		"dial tcp 127.0.0.1:443: connect: connection refused",
	)
	errIOTimeout = errors.New(
		"net/http: request canceled (Client.Timeout exceeded): i/o timeout",
	)
	errTLSTimeout = errors.New("net/http: TLS handshake timeout")
	errNoSuchHost = errors.New(
		"dial tcp: lookup registry.digitalocean.com: no such host",
	)
)

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errGeneric, expected: false},
		{name: "404 not found", err: errNotFound, expected: false},
		{name: "auth error", err: errUnauthorized, expected: false},
		{name: "port 5000 not matched", err: errConnectPort5000, expected: false},
		{name: "500 code", err: errDownload500, expected: true},
		{name: "502 text", err: errBadGateway, expected: true},
		{name: "503 code", err: errStatusCode503, expected: true},
		{name: "connection reset by peer", err: errConnReset, expected: true},
		{name: "connection refused", err: errConnRefused, expected: true},
		{name: "i/o timeout", err: errIOTimeout, expected: true},
		{name: "TLS handshake timeout", err: errTLSTimeout, expected: true},
		{name: "no such host", err: errNoSuchHost, expected: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, netretry.IsRetryable(testCase.err))
		})
	}
}

func TestExponentialDelay(t *testing.T) {
	t.Parallel()

	base := 2 * time.Second
	maxWait := 10 * time.Second

	assert.Equal(t, 2*time.Second, netretry.ExponentialDelay(1, base, maxWait))
	assert.Equal(t, 4*time.Second, netretry.ExponentialDelay(2, base, maxWait))
	assert.Equal(t, 8*time.Second, netretry.ExponentialDelay(3, base, maxWait))
	// Capped at maxWait.
	assert.Equal(t, maxWait, netretry.ExponentialDelay(4, base, maxWait))
	assert.Equal(t, maxWait, netretry.ExponentialDelay(10, base, maxWait))
}
