// Package argocd provides generators for Argo CD GitOps resources.
package argocd

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
)

// InClusterServer is the Argo CD destination server address for the cluster
// Argo CD itself runs in.
const InClusterServer = "https://kubernetes.default.svc"

// Application represents an Argo CD Application CR for scaffolding.
type Application struct {
	APIVersion string              `json:"apiVersion" yaml:"apiVersion"`
	Kind       string              `json:"kind"       yaml:"kind"`
	Metadata   ApplicationMetadata `json:"metadata"   yaml:"metadata"`
	Spec       ApplicationSpec     `json:"spec"       yaml:"spec"`
}

// ApplicationMetadata contains the metadata for an Argo CD Application.
type ApplicationMetadata struct {
	Name      string            `json:"name"             yaml:"name"`
	Namespace string            `json:"namespace"        yaml:"namespace"`
	Labels    map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// ApplicationSpec contains the source and destination configuration.
type ApplicationSpec struct {
	Project     string                 `json:"project"              yaml:"project"`
	Source      ApplicationSource      `json:"source"               yaml:"source"`
	Destination ApplicationDestination `json:"destination"          yaml:"destination"`
	SyncPolicy  *SyncPolicy            `json:"syncPolicy,omitempty" yaml:"syncPolicy,omitempty"`
}

// ApplicationSource defines where Argo CD should fetch manifests from.
type ApplicationSource struct {
	RepoURL        string `json:"repoURL"        yaml:"repoURL"`
	TargetRevision string `json:"targetRevision" yaml:"targetRevision"`
	Path           string `json:"path,omitempty" yaml:"path,omitempty"`
}

// ApplicationDestination defines where Argo CD should deploy resources.
type ApplicationDestination struct {
	Server    string `json:"server"    yaml:"server"`
	Namespace string `json:"namespace" yaml:"namespace"`
}

// SyncPolicy defines automated sync behavior.
type SyncPolicy struct {
	Automated   *AutomatedSync `json:"automated,omitempty"   yaml:"automated,omitempty"`
	SyncOptions []string       `json:"syncOptions,omitempty" yaml:"syncOptions,omitempty"`
}

// AutomatedSync enables automatic syncing.
type AutomatedSync struct {
	Prune    bool `json:"prune"    yaml:"prune"`
	SelfHeal bool `json:"selfHeal" yaml:"selfHeal"`
}

// ApplicationGenerator generates Argo CD Application CR manifests from a
// pipeline configuration.
type ApplicationGenerator struct {
	yamlGenerator generator.Generator[Application, yamlgenerator.Options]
}

// NewApplicationGenerator creates a new ApplicationGenerator.
func NewApplicationGenerator() *ApplicationGenerator {
	return &ApplicationGenerator{
		yamlGenerator: yamlgenerator.NewYAMLGenerator[Application](),
	}
}

// Generate creates an Argo CD Application CR manifest for the pipeline's
// workload, synced from the configured Git repository.
func (g *ApplicationGenerator) Generate(
	pipeline *v1alpha1.Pipeline,
	opts yamlgenerator.Options,
) (string, error) {
	app := Application{
		APIVersion: "argoproj.io/v1alpha1",
		Kind:       "Application",
		Metadata: ApplicationMetadata{
			Name:      pipeline.Spec.Workload.Name,
			Namespace: pipeline.Spec.GitOps.Namespace,
		},
		Spec: ApplicationSpec{
			Project: "default",
			Source: ApplicationSource{
				RepoURL:        pipeline.Spec.GitOps.RepoURL,
				TargetRevision: pipeline.Spec.GitOps.TargetRevision,
				Path:           pipeline.Spec.GitOps.Path,
			},
			Destination: ApplicationDestination{
				Server:    InClusterServer,
				Namespace: pipeline.Spec.Workload.Namespace,
			},
			SyncPolicy: &SyncPolicy{
				Automated: &AutomatedSync{
					Prune:    true,
					SelfHeal: true,
				},
				SyncOptions: []string{"CreateNamespace=true"},
			},
		},
	}

	output, err := g.yamlGenerator.Generate(app, opts)
	if err != nil {
		return "", fmt.Errorf("generating Argo CD Application manifest: %w", err)
	}

	return output, nil
}
