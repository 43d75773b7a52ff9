package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeManifest = `{"schemaVersion":2,` +
	`"mediaType":"application/vnd.docker.distribution.manifest.v2+json",` +
	`"config":{},"layers":[]}`

// fakeRegistry serves a minimal Docker registry v2 API. Manifest responses
// carry the Content-Length and Docker-Content-Digest headers HEAD probes need.
func fakeRegistry(t *testing.T, tagsStatus, manifestStatus int) string {
	t.Helper()

	digest := sha256.Sum256([]byte(fakeManifest))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v2/":
			w.WriteHeader(http.StatusOK)
		case strings.HasSuffix(r.URL.Path, "/tags/list"):
			w.WriteHeader(tagsStatus)
			if tagsStatus == http.StatusOK {
				fmt.Fprint(w, `{"name":"acme/cutout-api","tags":["v1"]}`)
			}
		case strings.Contains(r.URL.Path, "/manifests/"):
			w.Header().Set("Content-Type", "application/vnd.docker.distribution.manifest.v2+json")
			if manifestStatus == http.StatusOK {
				w.Header().Set("Docker-Content-Digest", "sha256:"+hex.EncodeToString(digest[:]))
				w.Header().Set("Content-Length", strconv.Itoa(len(fakeManifest)))
				w.WriteHeader(http.StatusOK)

				if r.Method != http.MethodHead {
					fmt.Fprint(w, fakeManifest)
				}

				return
			}

			w.WriteHeader(manifestStatus)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)

	return strings.TrimPrefix(server.URL, "http://")
}

func TestVerifyAccess(t *testing.T) {
	t.Parallel()

	host := fakeRegistry(t, http.StatusOK, http.StatusOK)

	err := NewVerifier().VerifyAccess(t.Context(), Options{
		Host:       host,
		Repository: "acme/cutout-api",
		Insecure:   true,
	})
	require.NoError(t, err)
}

func TestVerifyAccess_MissingRepositoryIsAcceptable(t *testing.T) {
	t.Parallel()

	host := fakeRegistry(t, http.StatusNotFound, http.StatusNotFound)

	err := NewVerifier().VerifyAccess(t.Context(), Options{
		Host:       host,
		Repository: "acme/new-repo",
		Insecure:   true,
	})
	require.NoError(t, err, "a repository that does not exist yet is created by the first push")
}

func TestVerifyAccess_EmptyHost(t *testing.T) {
	t.Parallel()

	err := NewVerifier().VerifyAccess(t.Context(), Options{})
	require.ErrorIs(t, err, ErrRegistryHostRequired)
}

func TestImageExists(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		manifestStatus int
		expected       bool
	}{
		{name: "existing tag", manifestStatus: http.StatusOK, expected: true},
		{name: "missing tag", manifestStatus: http.StatusNotFound, expected: false},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			host := fakeRegistry(t, http.StatusOK, testCase.manifestStatus)

			exists, err := NewVerifier().ImageExists(t.Context(), Options{
				Host:       host,
				Repository: "acme/cutout-api",
				Tag:        "v1",
				Insecure:   true,
			})
			require.NoError(t, err)
			assert.Equal(t, testCase.expected, exists)
		})
	}
}

func TestImageExists_RequiresTag(t *testing.T) {
	t.Parallel()

	_, err := NewVerifier().ImageExists(t.Context(), Options{Host: "registry.example.com"})
	require.ErrorIs(t, err, ErrTagRequired)
}

func TestClassifyRegistryError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{
			name:     "unauthorized status",
			err:      &transport.Error{StatusCode: http.StatusUnauthorized},
			expected: ErrRegistryAuthRequired,
		},
		{
			name:     "forbidden status",
			err:      &transport.Error{StatusCode: http.StatusForbidden},
			expected: ErrRegistryPermissionDenied,
		},
		{
			name:     "denied message",
			err:      errors.New("push access denied for repository"),
			expected: ErrRegistryPermissionDenied,
		},
		{
			name:     "unreachable host",
			err:      errors.New("dial tcp: lookup registry.example.com: no such host"),
			expected: ErrRegistryUnreachable,
		},
		{
			name:     "name unknown is acceptable",
			err:      errors.New("NAME_UNKNOWN: repository name not known to registry"),
			expected: nil,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			classified := classifyRegistryError(testCase.err)
			if testCase.expected == nil {
				assert.NoError(t, classified)
			} else {
				assert.ErrorIs(t, classified, testCase.expected)
			}
		})
	}
}

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	assert.False(t, isNotFoundError(nil))
	assert.True(t, isNotFoundError(errors.New("manifest unknown")))
	assert.True(t, isNotFoundError(&transport.Error{StatusCode: http.StatusNotFound}))
	assert.False(t, isNotFoundError(errors.New("boom")))
}
