package v1alpha1_test

import (
	"strings"
	"testing"

	v1alpha1 "github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateClusterName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty name allowed", input: ""},
		{name: "simple name", input: "cutout-cluster"},
		{name: "single letter", input: "a"},
		{name: "with numbers", input: "cluster-01"},
		{name: "uppercase rejected", input: "Cutout", wantErr: v1alpha1.ErrClusterNameInvalid},
		{name: "leading digit rejected", input: "1cluster", wantErr: v1alpha1.ErrClusterNameInvalid},
		{name: "trailing hyphen rejected", input: "cluster-", wantErr: v1alpha1.ErrClusterNameInvalid},
		{
			name:    "too long rejected",
			input:   strings.Repeat("a", 64),
			wantErr: v1alpha1.ErrClusterNameTooLong,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			err := v1alpha1.ValidateClusterName(testCase.input)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestPipeline_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*v1alpha1.Pipeline)
		wantErr error
	}{
		{name: "defaults are valid", mutate: func(*v1alpha1.Pipeline) {}},
		{
			name: "invalid provider",
			mutate: func(p *v1alpha1.Pipeline) {
				p.Spec.Cluster.Provider = "GKE"
			},
			wantErr: v1alpha1.ErrInvalidProvider,
		},
		{
			name: "invalid engine",
			mutate: func(p *v1alpha1.Pipeline) {
				p.Spec.GitOps.Engine = "Jenkins"
			},
			wantErr: v1alpha1.ErrInvalidGitOpsEngine,
		},
		{
			name: "zero nodes",
			mutate: func(p *v1alpha1.Pipeline) {
				p.Spec.Cluster.NodeCount = 0
			},
			wantErr: v1alpha1.ErrInvalidNodeCount,
		},
		{
			name: "port out of range",
			mutate: func(p *v1alpha1.Pipeline) {
				p.Spec.Workload.Port = 70000
			},
			wantErr: v1alpha1.ErrInvalidPort,
		},
		{
			name: "bad cluster name",
			mutate: func(p *v1alpha1.Pipeline) {
				p.Spec.Cluster.Name = "Bad_Name"
			},
			wantErr: v1alpha1.ErrClusterNameInvalid,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			pipeline := v1alpha1.NewPipeline()
			testCase.mutate(pipeline)

			err := pipeline.Validate()
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestPipeline_ValidateForPush(t *testing.T) {
	t.Parallel()

	pipeline := v1alpha1.NewPipeline()
	require.NoError(t, pipeline.ValidateForPush())

	pipeline.Spec.Registry.Repository = ""
	require.ErrorIs(t, pipeline.ValidateForPush(), v1alpha1.ErrRepositoryRequired)
}

func TestNewPipeline_Defaults(t *testing.T) {
	t.Parallel()

	pipeline := v1alpha1.NewPipeline()

	assert.Equal(t, v1alpha1.Kind, pipeline.Kind)
	assert.Equal(t, v1alpha1.APIVersion, pipeline.APIVersion)
	assert.Equal(t, v1alpha1.ProviderDigitalOcean, pipeline.Spec.Cluster.Provider)
	assert.Equal(t, v1alpha1.GitOpsEngineArgoCD, pipeline.Spec.GitOps.Engine)
	assert.Equal(t, int32(80), pipeline.Spec.Workload.Port)
	assert.Equal(t, int32(8080), pipeline.Spec.Workload.TargetPort)
	assert.Equal(t, "k8s", pipeline.Spec.Workload.SourceDirectory)
}

func TestSpec_ImageReference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		mutate   func(*v1alpha1.Spec)
		expected string
	}{
		{
			name:     "defaults",
			mutate:   func(*v1alpha1.Spec) {},
			expected: "registry.digitalocean.com/slipway/cutout-api:latest",
		},
		{
			name: "no host",
			mutate: func(s *v1alpha1.Spec) {
				s.Registry.Host = ""
			},
			expected: "slipway/cutout-api:latest",
		},
		{
			name: "custom tag",
			mutate: func(s *v1alpha1.Spec) {
				s.Image.Tag = "v1.2.3"
			},
			expected: "registry.digitalocean.com/slipway/cutout-api:v1.2.3",
		},
		{
			name: "empty tag falls back to latest",
			mutate: func(s *v1alpha1.Spec) {
				s.Image.Tag = ""
			},
			expected: "registry.digitalocean.com/slipway/cutout-api:latest",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			spec := v1alpha1.NewPipelineSpec()
			testCase.mutate(&spec)

			assert.Equal(t, testCase.expected, spec.ImageReference())
		})
	}
}
