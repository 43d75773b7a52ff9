// Package registry checks access to container image registries before the
// pipeline pushes the workload image.
package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	"github.com/google/go-containerregistry/pkg/v1/remote"
	"github.com/google/go-containerregistry/pkg/v1/remote/transport"
)

// Verifier checks access to image registries.
type Verifier interface {
	// VerifyAccess checks if the registry is accessible with the given
	// credentials. Returns nil if access is verified, or an actionable error.
	VerifyAccess(ctx context.Context, opts Options) error

	// ImageExists checks if an image with the given tag exists in the repository.
	ImageExists(ctx context.Context, opts Options) (bool, error)
}

// Options describes the registry, repository, and credentials to check.
type Options struct {
	// Host is the registry host[:port] (e.g., "registry.digitalocean.com").
	Host string

	// Repository is the repository path inside the registry.
	Repository string

	// Tag is the image tag for existence checks.
	Tag string

	// Username is the optional username for authentication.
	Username string

	// Password is the optional password/token for authentication.
	Password string

	// Insecure allows HTTP connections (for local registries).
	Insecure bool
}

type verifier struct{}

// NewVerifier creates a registry verifier.
func NewVerifier() Verifier {
	return &verifier{}
}

// VerifyAccess lists repository tags to confirm the registry is reachable and
// the credentials are accepted. A missing repository is fine because the first
// push creates it.
func (v *verifier) VerifyAccess(ctx context.Context, opts Options) error {
	if opts.Host == "" {
		return ErrRegistryHostRequired
	}

	repo, err := buildRepository(opts)
	if err != nil {
		return err
	}

	_, err = remote.List(repo, remoteOptions(ctx, opts)...)
	if err != nil {
		return classifyRegistryError(err)
	}

	return nil
}

// ImageExists checks whether the tag already exists in the repository.
func (v *verifier) ImageExists(ctx context.Context, opts Options) (bool, error) {
	if opts.Host == "" {
		return false, ErrRegistryHostRequired
	}

	if opts.Tag == "" {
		return false, ErrTagRequired
	}

	ref, err := buildReference(opts)
	if err != nil {
		return false, err
	}

	_, err = remote.Head(ref, remoteOptions(ctx, opts)...)
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}

		return false, classifyRegistryError(err)
	}

	return true, nil
}

func buildRepository(opts Options) (name.Repository, error) {
	refStr := fmt.Sprintf("%s/%s", opts.Host, opts.Repository)

	repo, err := name.NewRepository(refStr, nameOptions(opts)...)
	if err != nil {
		return name.Repository{}, fmt.Errorf("parse repository reference: %w", err)
	}

	return repo, nil
}

func buildReference(opts Options) (name.Reference, error) {
	refStr := fmt.Sprintf("%s/%s:%s", opts.Host, opts.Repository, opts.Tag)

	ref, err := name.ParseReference(refStr, nameOptions(opts)...)
	if err != nil {
		return nil, fmt.Errorf("parse image reference: %w", err)
	}

	return ref, nil
}

func nameOptions(opts Options) []name.Option {
	nameOpts := []name.Option{name.WeakValidation}
	if opts.Insecure {
		nameOpts = append(nameOpts, name.Insecure)
	}

	return nameOpts
}

func remoteOptions(ctx context.Context, opts Options) []remote.Option {
	remoteOpts := []remote.Option{remote.WithContext(ctx)}

	if opts.Username != "" || opts.Password != "" {
		remoteOpts = append(remoteOpts, remote.WithAuth(&authn.Basic{
			Username: opts.Username,
			Password: opts.Password,
		}))
	}

	return remoteOpts
}

// isNotFoundError checks if the error indicates the image doesn't exist.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	var transportErr *transport.Error
	if errors.As(err, &transportErr) && transportErr.StatusCode == http.StatusNotFound {
		return true
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "not found") ||
		strings.Contains(errStr, "manifest unknown") ||
		strings.Contains(errStr, "name_unknown") ||
		strings.Contains(errStr, "name unknown")
}

// classifyTransportError maps HTTP status codes to actionable errors.
// A 404 on the tags list is acceptable because the repository may not exist
// until the first push.
func classifyTransportError(transportErr *transport.Error) error {
	switch transportErr.StatusCode {
	case http.StatusUnauthorized:
		return ErrRegistryAuthRequired
	case http.StatusForbidden:
		return ErrRegistryPermissionDenied
	default:
		return nil
	}
}

// classifyErrorByMessage checks error message patterns.
// Returns matched=true with a nil error for acceptable patterns such as a
// repository that does not exist yet.
func classifyErrorByMessage(errStr string) (bool, error) {
	lowerErr := strings.ToLower(errStr)

	switch {
	case strings.Contains(lowerErr, "unauthorized"),
		strings.Contains(lowerErr, "authentication required"):
		return true, ErrRegistryAuthRequired

	case strings.Contains(lowerErr, "denied"),
		strings.Contains(lowerErr, "forbidden"):
		return true, ErrRegistryPermissionDenied

	case strings.Contains(lowerErr, "no such host"),
		strings.Contains(lowerErr, "connection refused"),
		strings.Contains(lowerErr, "dial tcp"):
		return true, fmt.Errorf("%w: %s", ErrRegistryUnreachable, extractErrorDetail(errStr))

	case strings.Contains(lowerErr, "not found"),
		strings.Contains(lowerErr, "name_unknown"),
		strings.Contains(lowerErr, "name unknown"):
		return true, nil

	default:
		return false, nil
	}
}

// classifyRegistryError converts low-level registry errors to actionable errors.
func classifyRegistryError(err error) error {
	if err == nil {
		return nil
	}

	var transportErr *transport.Error
	if errors.As(err, &transportErr) {
		classifiedErr := classifyTransportError(transportErr)
		if classifiedErr != nil {
			return classifiedErr
		}
	}

	matched, classifiedErr := classifyErrorByMessage(err.Error())
	if matched {
		return classifiedErr
	}

	return fmt.Errorf("registry access check failed: %w", err)
}

// extractErrorDetail extracts the most useful part of an error message.
func extractErrorDetail(errStr string) string {
	if idx := strings.Index(errStr, ": "); idx > 0 {
		return errStr[idx+2:]
	}

	return errStr
}
