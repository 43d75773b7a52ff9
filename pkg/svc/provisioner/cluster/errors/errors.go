// Package clustererrors holds sentinel errors shared by the cluster
// provisioner implementations.
package clustererrors

import "errors"

var (
	// ErrClusterNotFound is returned when a lifecycle operation targets a
	// cluster that does not exist.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrClusterAlreadyExists is returned by Create when the target cluster
	// is already present. Callers treat it as an idempotent success.
	ErrClusterAlreadyExists = errors.New("cluster already exists")

	// ErrClusterNameRequired is returned when neither an explicit name nor a
	// configured default is available.
	ErrClusterNameRequired = errors.New("cluster name is required")
)
