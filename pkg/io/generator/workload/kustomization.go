package workload

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	"sigs.k8s.io/kustomize/api/types"
)

// KustomizationGenerator generates the kustomization.yaml tying the workload
// manifests together.
type KustomizationGenerator struct {
	yamlGenerator generator.Generator[*types.Kustomization, yamlgenerator.Options]
}

// NewKustomizationGenerator creates a new KustomizationGenerator.
func NewKustomizationGenerator() *KustomizationGenerator {
	return &KustomizationGenerator{
		yamlGenerator: yamlgenerator.NewYAMLGenerator[*types.Kustomization](),
	}
}

// Generate creates the kustomization.yaml referencing the workload manifests.
func (g *KustomizationGenerator) Generate(
	_ *v1alpha1.Pipeline,
	opts yamlgenerator.Options,
) (string, error) {
	kustomization := &types.Kustomization{
		TypeMeta: types.TypeMeta{
			APIVersion: types.KustomizationVersion,
			Kind:       types.KustomizationKind,
		},
		Resources: []string{
			"namespace.yaml",
			"deployment.yaml",
			"service.yaml",
		},
	}

	output, err := g.yamlGenerator.Generate(kustomization, opts)
	if err != nil {
		return "", fmt.Errorf("generating kustomization manifest: %w", err)
	}

	return output, nil
}
