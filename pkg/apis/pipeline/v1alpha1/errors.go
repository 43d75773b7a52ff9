package v1alpha1

import "errors"

// ErrInvalidProvider is returned when an invalid provider is specified.
var ErrInvalidProvider = errors.New("invalid provider")

// ErrInvalidGitOpsEngine is returned when an invalid GitOps engine is specified.
var ErrInvalidGitOpsEngine = errors.New("invalid GitOps engine")

// ErrClusterNameTooLong is returned when the cluster name exceeds the maximum length.
var ErrClusterNameTooLong = errors.New("cluster name is too long")

// ErrClusterNameInvalid is returned when the cluster name is not DNS-1123 compliant.
var ErrClusterNameInvalid = errors.New("cluster name is invalid")

// ErrInvalidNodeCount is returned when the node count is below one.
var ErrInvalidNodeCount = errors.New("node count must be at least 1")

// ErrInvalidPort is returned when a port is outside the valid range.
var ErrInvalidPort = errors.New("port is outside the valid range 1-65535")

// ErrRepositoryRequired is returned when a registry repository is needed but not configured.
var ErrRepositoryRequired = errors.New("registry repository is required")
