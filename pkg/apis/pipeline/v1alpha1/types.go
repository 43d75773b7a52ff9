package v1alpha1

import metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

const (
	// Group is the API group for Slipway.
	Group = "slipway.dev"
	// Version is the API version for Slipway.
	Version = "v1alpha1"
	// Kind is the kind for Slipway pipelines.
	Kind = "Pipeline"
	// APIVersion is the full API version for Slipway.
	APIVersion = Group + "/" + Version
)

// --- Core Types ---

// Pipeline represents a Slipway deployment pipeline configuration including API
// metadata and desired state. It describes everything slipway needs to take a
// workload from source to a GitOps-synced deployment: the target cluster, the
// registry the image is pushed to, the GitOps engine, and the workload shape.
type Pipeline struct {
	metav1.TypeMeta `json:",inline" mapstructure:",squash"`

	Metadata metav1.ObjectMeta `json:"metadata,omitzero" mapstructure:"metadata,omitempty"`
	Spec     Spec              `json:"spec,omitzero"     mapstructure:"spec,omitempty"`
}

// Spec defines the desired state of a Slipway pipeline.
type Spec struct {
	Cluster    ClusterSpec    `json:"cluster,omitzero"`
	Connection ConnectionSpec `json:"connection,omitzero"`
	Registry   RegistrySpec   `json:"registry,omitzero"`
	Image      ImageSpec      `json:"image,omitzero"`
	GitOps     GitOpsSpec     `json:"gitops,omitzero"`
	Workload   WorkloadSpec   `json:"workload,omitzero"`
}

// ClusterSpec defines the cluster the pipeline targets.
type ClusterSpec struct {
	Provider  Provider `json:"provider,omitzero"  jsonschema:"description=Cluster provider (DigitalOcean provisions via doctl; Kind and K3d run locally in Docker)"` //nolint:lll
	Name      string   `json:"name,omitzero"      default:"cutout-cluster"`
	Region    string   `json:"region,omitzero"    default:"fra1"`
	NodeSize  string   `json:"nodeSize,omitzero"  default:"s-2vcpu-4gb"`
	NodeCount int32    `json:"nodeCount,omitzero" default:"2"`
}

// ConnectionSpec defines how slipway connects to the cluster.
type ConnectionSpec struct {
	Kubeconfig string          `default:"~/.kube/config" json:"kubeconfig,omitzero"`
	Context    string          `                         json:"context,omitzero"`
	Timeout    metav1.Duration `                         json:"timeout,omitzero"`
}

// RegistrySpec defines the container registry the workload image is pushed to.
type RegistrySpec struct {
	Host       string `json:"host,omitzero"       default:"registry.digitalocean.com"`
	Repository string `json:"repository,omitzero" default:"slipway/cutout-api"`
	Username   string `json:"username,omitzero"`
	Password   string `json:"password,omitzero"`
	Insecure   bool   `json:"insecure,omitzero"`
}

// ImageSpec defines the container image build inputs.
type ImageSpec struct {
	Tag        string `json:"tag,omitzero"        default:"latest"`
	Dockerfile string `json:"dockerfile,omitzero" default:"Dockerfile"`
	Context    string `json:"context,omitzero"    default:"."`
}

// GitOpsSpec defines the GitOps engine and the sync target it reconciles.
type GitOpsSpec struct {
	Engine         GitOpsEngine `json:"engine,omitzero"         jsonschema:"description=GitOps engine to install (ArgoCD or Flux)"`
	Namespace      string       `json:"namespace,omitzero"      default:"argocd"`
	ChartVersion   string       `json:"chartVersion,omitzero"`
	RepoURL        string       `json:"repoURL,omitzero"        default:"https://github.com/slipway-dev/slipway"`
	TargetRevision string       `json:"targetRevision,omitzero" default:"HEAD"`
	Path           string       `json:"path,omitzero"           default:"k8s"`
}

// WorkloadSpec defines the deployed workload's shape.
type WorkloadSpec struct {
	Name            string `json:"name,omitzero"            default:"cutout-api"`
	Namespace       string `json:"namespace,omitzero"       default:"cutout"`
	Replicas        int32  `json:"replicas,omitzero"        default:"1"`
	Port            int32  `json:"port,omitzero"            default:"80"`
	TargetPort      int32  `json:"targetPort,omitzero"      default:"8080"`
	SourceDirectory string `json:"sourceDirectory,omitzero" default:"k8s"`
}

// ImageReference returns the fully qualified image reference the pipeline
// builds and pushes: <host>/<repository>:<tag>.
func (s *Spec) ImageReference() string {
	ref := s.Registry.Repository
	if s.Registry.Host != "" {
		ref = s.Registry.Host + "/" + ref
	}

	tag := s.Image.Tag
	if tag == "" {
		tag = DefaultImageTag
	}

	return ref + ":" + tag
}
