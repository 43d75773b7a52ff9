package argocd_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/io/generator/argocd"
	yamlgenerator "github.com/slipway-dev/slipway/pkg/io/generator/yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	exitCode := m.Run()

	_, err := snaps.Clean(m, snaps.CleanOpts{Sort: true})
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to clean snapshots: " + err.Error() + "\n")

		os.Exit(1)
	}

	os.Exit(exitCode)
}

func TestApplicationGenerator_Generate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pipeline func() *v1alpha1.Pipeline
	}{
		{
			name:     "with default values",
			pipeline: v1alpha1.NewPipeline,
		},
		{
			name: "with custom repository and revision",
			pipeline: func() *v1alpha1.Pipeline {
				pipeline := v1alpha1.NewPipeline()
				pipeline.Spec.GitOps.RepoURL = "https://github.com/acme/widgets"
				pipeline.Spec.GitOps.TargetRevision = "v1.2.3"
				pipeline.Spec.GitOps.Path = "deploy"
				pipeline.Spec.Workload.Name = "widgets-api"
				pipeline.Spec.Workload.Namespace = "widgets"

				return pipeline
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			gen := argocd.NewApplicationGenerator()
			result, err := gen.Generate(testCase.pipeline(), yamlgenerator.Options{})

			require.NoError(t, err)
			require.NotEmpty(t, result)
			snaps.MatchSnapshot(t, result)
		})
	}
}

func TestApplicationGenerator_GenerateToFile(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "application.yaml")
	gen := argocd.NewApplicationGenerator()

	result, err := gen.Generate(
		v1alpha1.NewPipeline(),
		yamlgenerator.Options{Output: output},
	)
	require.NoError(t, err)

	content, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, result, string(content))
	assert.Contains(t, result, "kind: Application")
	assert.Contains(t, result, "CreateNamespace=true")
}
