package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NewPipeline creates a new Pipeline instance with default values applied.
func NewPipeline() *Pipeline {
	return &Pipeline{
		TypeMeta: metav1.TypeMeta{
			Kind:       Kind,
			APIVersion: APIVersion,
		},
		Metadata: metav1.ObjectMeta{
			Name: DefaultPipelineName,
		},
		Spec: NewPipelineSpec(),
	}
}

// NewPipelineSpec creates a new Spec with default values.
func NewPipelineSpec() Spec {
	return Spec{
		Cluster:    NewClusterSpec(),
		Connection: NewConnectionSpec(),
		Registry:   NewRegistrySpec(),
		Image:      NewImageSpec(),
		GitOps:     NewGitOpsSpec(),
		Workload:   NewWorkloadSpec(),
	}
}

// NewClusterSpec creates a new ClusterSpec with default values.
func NewClusterSpec() ClusterSpec {
	return ClusterSpec{
		Provider:  ProviderDigitalOcean,
		Name:      DefaultClusterName,
		Region:    DefaultRegion,
		NodeSize:  DefaultNodeSize,
		NodeCount: DefaultNodeCount,
	}
}

// NewConnectionSpec creates a new ConnectionSpec with default values.
func NewConnectionSpec() ConnectionSpec {
	return ConnectionSpec{
		Kubeconfig: DefaultKubeconfigPath,
		Context:    "",
		Timeout:    metav1.Duration{Duration: DefaultConnectionTimeout},
	}
}

// NewRegistrySpec creates a new RegistrySpec with default values.
func NewRegistrySpec() RegistrySpec {
	return RegistrySpec{
		Host:       DefaultRegistryHost,
		Repository: DefaultRepository,
		Username:   "",
		Password:   "",
		Insecure:   false,
	}
}

// NewImageSpec creates a new ImageSpec with default values.
func NewImageSpec() ImageSpec {
	return ImageSpec{
		Tag:        DefaultImageTag,
		Dockerfile: DefaultDockerfile,
		Context:    DefaultBuildContext,
	}
}

// NewGitOpsSpec creates a new GitOpsSpec with default values.
func NewGitOpsSpec() GitOpsSpec {
	return GitOpsSpec{
		Engine:         GitOpsEngineArgoCD,
		Namespace:      DefaultGitOpsNamespace,
		ChartVersion:   "",
		RepoURL:        DefaultRepoURL,
		TargetRevision: DefaultTargetRevision,
		Path:           DefaultSyncPath,
	}
}

// NewWorkloadSpec creates a new WorkloadSpec with default values.
func NewWorkloadSpec() WorkloadSpec {
	return WorkloadSpec{
		Name:            DefaultWorkloadName,
		Namespace:       DefaultWorkloadNamespace,
		Replicas:        DefaultReplicas,
		Port:            DefaultServicePort,
		TargetPort:      DefaultTargetPort,
		SourceDirectory: DefaultSourceDirectory,
	}
}
