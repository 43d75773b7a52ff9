package docker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/registry"
	"github.com/slipway-dev/slipway/pkg/client/netretry"
)

// ErrImageReferenceRequired is returned when the image reference is empty.
var ErrImageReferenceRequired = errors.New("image reference is required")

// Transient 5xx errors occur on registry endpoints under load, so pushes retry
// with exponential backoff.
const (
	pushMaxRetries    = 3
	pushRetryBaseWait = 2 * time.Second
	pushRetryMaxWait  = 15 * time.Second
)

// PushOptions configures an image push.
type PushOptions struct {
	// Image is the fully qualified image reference to push.
	Image string

	// Username and Password authenticate against the registry. Both may be
	// empty when the daemon already holds credentials (e.g. after
	// `doctl registry login`).
	Username string
	Password string

	// ServerAddress is the registry host, derived from the image reference
	// when empty.
	ServerAddress string
}

// PushImage pushes an image to its registry, retrying transient failures.
// Push progress is streamed to the engine's writer.
func (e *Engine) PushImage(ctx context.Context, opts PushOptions) error {
	if opts.Image == "" {
		return ErrImageReferenceRequired
	}

	auth, err := encodeRegistryAuth(opts)
	if err != nil {
		return err
	}

	var lastErr error

	for attempt := 1; attempt <= pushMaxRetries; attempt++ {
		lastErr = e.pushOnce(ctx, opts.Image, auth)
		if lastErr == nil {
			return nil
		}

		if !netretry.IsRetryable(lastErr) || attempt == pushMaxRetries {
			break
		}

		delay := netretry.ExponentialDelay(attempt, pushRetryBaseWait, pushRetryMaxWait)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}

			return fmt.Errorf("push retry cancelled: %w", ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("push image %s: %w", opts.Image, lastErr)
}

func (e *Engine) pushOnce(ctx context.Context, ref, auth string) error {
	response, err := e.api.ImagePush(ctx, ref, image.PushOptions{RegistryAuth: auth})
	if err != nil {
		return err
	}
	defer response.Close()

	return decodeBuildStream(response, e.writer)
}

// encodeRegistryAuth encodes registry credentials for the X-Registry-Auth header.
func encodeRegistryAuth(opts PushOptions) (string, error) {
	if opts.Username == "" && opts.Password == "" {
		return "", nil
	}

	authConfig := registry.AuthConfig{
		Username:      opts.Username,
		Password:      opts.Password,
		ServerAddress: opts.ServerAddress,
	}

	encoded, err := registry.EncodeAuthConfig(authConfig)
	if err != nil {
		return "", fmt.Errorf("encode registry auth: %w", err)
	}

	return encoded, nil
}
