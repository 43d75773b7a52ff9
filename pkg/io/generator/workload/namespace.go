// Package workload provides generators for the workload's Kubernetes manifests.
package workload

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NamespaceGenerator generates the workload Namespace manifest.
type NamespaceGenerator struct {
	yamlGenerator generator.Generator[*corev1.Namespace, yamlgenerator.Options]
}

// NewNamespaceGenerator creates a new NamespaceGenerator.
func NewNamespaceGenerator() *NamespaceGenerator {
	return &NamespaceGenerator{
		yamlGenerator: yamlgenerator.NewYAMLGenerator[*corev1.Namespace](),
	}
}

// Generate creates the Namespace manifest for the workload.
func (g *NamespaceGenerator) Generate(
	pipeline *v1alpha1.Pipeline,
	opts yamlgenerator.Options,
) (string, error) {
	namespace := &corev1.Namespace{
		TypeMeta: metav1.TypeMeta{
			APIVersion: "v1",
			Kind:       "Namespace",
		},
		ObjectMeta: metav1.ObjectMeta{
			Name:   pipeline.Spec.Workload.Namespace,
			Labels: workloadLabels(pipeline),
		},
	}

	output, err := g.yamlGenerator.Generate(namespace, opts)
	if err != nil {
		return "", fmt.Errorf("generating Namespace manifest: %w", err)
	}

	return output, nil
}

// workloadLabels returns the common labels applied to all workload manifests.
func workloadLabels(pipeline *v1alpha1.Pipeline) map[string]string {
	return map[string]string{
		"app.kubernetes.io/name":       pipeline.Spec.Workload.Name,
		"app.kubernetes.io/managed-by": "slipway",
	}
}

// selectorLabels returns the labels used to match pods to the workload Service
// and Deployment. Kept minimal because selectors are immutable.
func selectorLabels(pipeline *v1alpha1.Pipeline) map[string]string {
	return map[string]string{
		"app": pipeline.Spec.Workload.Name,
	}
}
