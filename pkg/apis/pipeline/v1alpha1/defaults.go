package v1alpha1

import "time"

const (
	// DefaultPipelineName is the default metadata name for a Pipeline.
	DefaultPipelineName = "cutout"
	// DefaultClusterName is the default cluster name.
	DefaultClusterName = "cutout-cluster"
	// DefaultRegion is the default DigitalOcean region.
	DefaultRegion = "fra1"
	// DefaultNodeSize is the default DigitalOcean node size slug.
	DefaultNodeSize = "s-2vcpu-4gb"
	// DefaultNodeCount is the default node pool size.
	DefaultNodeCount int32 = 2
	// DefaultKubeconfigPath is the default path to the kubeconfig file.
	DefaultKubeconfigPath = "~/.kube/config"
	// DefaultConnectionTimeout bounds cluster readiness and status checks.
	DefaultConnectionTimeout = 5 * time.Minute
	// DefaultRegistryHost is the default container registry host.
	DefaultRegistryHost = "registry.digitalocean.com"
	// DefaultRepository is the default image repository.
	DefaultRepository = "slipway/cutout-api"
	// DefaultImageTag is the default image tag.
	DefaultImageTag = "latest"
	// DefaultDockerfile is the default Dockerfile path.
	DefaultDockerfile = "Dockerfile"
	// DefaultBuildContext is the default image build context directory.
	DefaultBuildContext = "."
	// DefaultGitOpsNamespace is the namespace the GitOps controller is installed into.
	DefaultGitOpsNamespace = "argocd"
	// DefaultRepoURL is the default Git repository the GitOps controller syncs from.
	DefaultRepoURL = "https://github.com/slipway-dev/slipway"
	// DefaultTargetRevision is the default Git revision to sync.
	DefaultTargetRevision = "HEAD"
	// DefaultSyncPath is the default manifest path within the repository.
	DefaultSyncPath = "k8s"
	// DefaultWorkloadName is the default workload name.
	DefaultWorkloadName = "cutout-api"
	// DefaultWorkloadNamespace is the default workload namespace.
	DefaultWorkloadNamespace = "cutout"
	// DefaultReplicas is the default deployment replica count.
	DefaultReplicas int32 = 1
	// DefaultServicePort is the fixed external Service port.
	DefaultServicePort int32 = 80
	// DefaultTargetPort is the container port the Service forwards to.
	DefaultTargetPort int32 = 8080
	// DefaultSourceDirectory is the default directory for Kubernetes manifests.
	DefaultSourceDirectory = "k8s"
)
