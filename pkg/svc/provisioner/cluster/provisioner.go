package clusterprovisioner

import "context"

// ClusterProvisioner defines methods for managing Kubernetes clusters.
// Provisioners handle provider-specific operations (doctl for DigitalOcean,
// the kind and k3d SDKs for local Docker clusters) behind a common surface.
type ClusterProvisioner interface {
	// Create creates a Kubernetes cluster. If name is non-empty, target that
	// name; otherwise use the configured default. Returns
	// ErrClusterAlreadyExists when the cluster is already present.
	Create(ctx context.Context, name string) error

	// Delete deletes a Kubernetes cluster by name or the configured default
	// when name is empty. Returns ErrClusterNotFound when absent.
	Delete(ctx context.Context, name string) error

	// List lists all clusters the provider knows about.
	List(ctx context.Context) ([]string, error)

	// Exists checks if a cluster exists by name or the configured default
	// when name is empty.
	Exists(ctx context.Context, name string) (bool, error)
}
