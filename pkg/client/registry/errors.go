package registry

import "errors"

// Registry verification errors.
var (
	// ErrRegistryHostRequired is returned when the registry host is empty.
	ErrRegistryHostRequired = errors.New("registry host is required")

	// ErrTagRequired is returned when an image tag is required but empty.
	ErrTagRequired = errors.New("image tag is required")

	// ErrRegistryUnreachable is returned when the registry cannot be reached.
	ErrRegistryUnreachable = errors.New("registry is unreachable")

	// ErrRegistryAuthRequired is returned when authentication is required but not provided.
	ErrRegistryAuthRequired = errors.New(
		"registry requires authentication\n" +
			"  - set SLIPWAY_REGISTRY_USERNAME and SLIPWAY_REGISTRY_PASSWORD",
	)

	// ErrRegistryPermissionDenied is returned when credentials are invalid or lack write access.
	ErrRegistryPermissionDenied = errors.New(
		"registry access denied\n" +
			"  - check credentials have write permission to the repository",
	)
)
