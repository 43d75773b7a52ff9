package configmanager

import (
	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// FieldSelector defines a field and its metadata for configuration management.
type FieldSelector[T any] struct {
	Selector     func(*T) any // Function that returns a pointer to the field
	Description  string       // Human-readable description for CLI flags
	DefaultValue any          // Default value for the field
}

// DefaultProviderFieldSelector creates a standard field selector for the cluster provider.
func DefaultProviderFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Cluster.Provider },
		Description:  "Cluster provider to use",
		DefaultValue: v1alpha1.ProviderDigitalOcean,
	}
}

// DefaultClusterNameFieldSelector creates a standard field selector for the cluster name.
func DefaultClusterNameFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Cluster.Name },
		Description:  "Name of the cluster",
		DefaultValue: v1alpha1.DefaultClusterName,
	}
}

// DefaultRegionFieldSelector creates a standard field selector for the cloud region.
func DefaultRegionFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Cluster.Region },
		Description:  "Cloud region to provision the cluster in (DigitalOcean only)",
		DefaultValue: v1alpha1.DefaultRegion,
	}
}

// DefaultNodeSizeFieldSelector creates a standard field selector for the node size slug.
func DefaultNodeSizeFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Cluster.NodeSize },
		Description:  "Node size slug for managed cluster node pools (DigitalOcean only)",
		DefaultValue: v1alpha1.DefaultNodeSize,
	}
}

// DefaultNodeCountFieldSelector creates a standard field selector for the node count.
func DefaultNodeCountFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Cluster.NodeCount },
		Description:  "Number of nodes in the cluster node pool",
		DefaultValue: v1alpha1.DefaultNodeCount,
	}
}

// DefaultKubeconfigFieldSelector creates a standard field selector for kubeconfig.
func DefaultKubeconfigFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Connection.Kubeconfig },
		Description:  "Path to kubeconfig file",
		DefaultValue: v1alpha1.DefaultKubeconfigPath,
	}
}

// DefaultContextFieldSelector creates a standard field selector for the kubernetes context.
// No default value is set as the context is provider-specific and derived from
// the cluster name when empty.
func DefaultContextFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:    func(p *v1alpha1.Pipeline) any { return &p.Spec.Connection.Context },
		Description: "Kubernetes context of cluster",
	}
}

// DefaultTimeoutFieldSelector creates a standard field selector for the connection timeout.
func DefaultTimeoutFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Connection.Timeout },
		Description:  "Timeout for cluster readiness and status checks",
		DefaultValue: metav1.Duration{Duration: v1alpha1.DefaultConnectionTimeout},
	}
}

// DefaultRegistryHostFieldSelector creates a standard field selector for the registry host.
func DefaultRegistryHostFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Registry.Host },
		Description:  "Container registry host the image is pushed to",
		DefaultValue: v1alpha1.DefaultRegistryHost,
	}
}

// DefaultRepositoryFieldSelector creates a standard field selector for the image repository.
func DefaultRepositoryFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Registry.Repository },
		Description:  "Image repository within the registry",
		DefaultValue: v1alpha1.DefaultRepository,
	}
}

// DefaultRegistryUsernameFieldSelector creates a field selector for the registry username.
func DefaultRegistryUsernameFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:    func(p *v1alpha1.Pipeline) any { return &p.Spec.Registry.Username },
		Description: "Registry username (SLIPWAY_REGISTRY_USERNAME)",
	}
}

// DefaultRegistryPasswordFieldSelector creates a field selector for the registry password.
func DefaultRegistryPasswordFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:    func(p *v1alpha1.Pipeline) any { return &p.Spec.Registry.Password },
		Description: "Registry password or API token (SLIPWAY_REGISTRY_PASSWORD)",
	}
}

// DefaultTagFieldSelector creates a standard field selector for the image tag.
func DefaultTagFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Image.Tag },
		Description:  "Image tag to build and push",
		DefaultValue: v1alpha1.DefaultImageTag,
	}
}

// DefaultEngineFieldSelector creates a standard field selector for the GitOps engine.
func DefaultEngineFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.GitOps.Engine },
		Description:  "GitOps engine to install (ArgoCD installs Argo CD, Flux installs the Flux operator)",
		DefaultValue: v1alpha1.GitOpsEngineArgoCD,
	}
}

// DefaultRepoURLFieldSelector creates a standard field selector for the sync repository URL.
func DefaultRepoURLFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.GitOps.RepoURL },
		Description:  "Git repository URL the GitOps controller syncs from",
		DefaultValue: v1alpha1.DefaultRepoURL,
	}
}

// DefaultSourceDirectoryFieldSelector creates a standard field selector for the source directory.
func DefaultSourceDirectoryFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Workload.SourceDirectory },
		Description:  "Directory containing workload manifests",
		DefaultValue: v1alpha1.DefaultSourceDirectory,
	}
}

// DefaultWorkloadNameFieldSelector creates a standard field selector for the workload name.
func DefaultWorkloadNameFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Workload.Name },
		Description:  "Name of the workload",
		DefaultValue: v1alpha1.DefaultWorkloadName,
	}
}

// DefaultWorkloadNamespaceFieldSelector creates a field selector for the workload namespace.
func DefaultWorkloadNamespaceFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Workload.Namespace },
		Description:  "Namespace the workload deploys into",
		DefaultValue: v1alpha1.DefaultWorkloadNamespace,
	}
}

// DefaultReplicasFieldSelector creates a standard field selector for the workload replicas.
func DefaultReplicasFieldSelector() FieldSelector[v1alpha1.Pipeline] {
	return FieldSelector[v1alpha1.Pipeline]{
		Selector:     func(p *v1alpha1.Pipeline) any { return &p.Spec.Workload.Replicas },
		Description:  "Number of workload replicas",
		DefaultValue: v1alpha1.DefaultReplicas,
	}
}

// DefaultClusterFieldSelectors returns the field selectors shared by cluster commands.
func DefaultClusterFieldSelectors() []FieldSelector[v1alpha1.Pipeline] {
	return []FieldSelector[v1alpha1.Pipeline]{
		DefaultProviderFieldSelector(),
		DefaultClusterNameFieldSelector(),
		DefaultRegionFieldSelector(),
		DefaultNodeSizeFieldSelector(),
		DefaultNodeCountFieldSelector(),
		DefaultKubeconfigFieldSelector(),
		DefaultContextFieldSelector(),
		DefaultTimeoutFieldSelector(),
	}
}

// DefaultImageFieldSelectors returns the field selectors shared by image commands.
func DefaultImageFieldSelectors() []FieldSelector[v1alpha1.Pipeline] {
	return []FieldSelector[v1alpha1.Pipeline]{
		DefaultRegistryHostFieldSelector(),
		DefaultRepositoryFieldSelector(),
		DefaultRegistryUsernameFieldSelector(),
		DefaultRegistryPasswordFieldSelector(),
		DefaultTagFieldSelector(),
	}
}

// DefaultGitOpsFieldSelectors returns the field selectors shared by gitops commands.
func DefaultGitOpsFieldSelectors() []FieldSelector[v1alpha1.Pipeline] {
	return []FieldSelector[v1alpha1.Pipeline]{
		DefaultEngineFieldSelector(),
		DefaultRepoURLFieldSelector(),
		DefaultKubeconfigFieldSelector(),
		DefaultContextFieldSelector(),
		DefaultTimeoutFieldSelector(),
	}
}

// DefaultWorkloadFieldSelectors returns the field selectors shared by workload commands.
func DefaultWorkloadFieldSelectors() []FieldSelector[v1alpha1.Pipeline] {
	return []FieldSelector[v1alpha1.Pipeline]{
		DefaultWorkloadNameFieldSelector(),
		DefaultWorkloadNamespaceFieldSelector(),
		DefaultReplicasFieldSelector(),
		DefaultSourceDirectoryFieldSelector(),
		DefaultKubeconfigFieldSelector(),
		DefaultContextFieldSelector(),
		DefaultTimeoutFieldSelector(),
	}
}
