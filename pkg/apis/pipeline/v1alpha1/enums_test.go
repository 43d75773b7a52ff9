package v1alpha1_test

import (
	"testing"

	v1alpha1 "github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Default() and ValidValues() methods for all enum types.

func TestProvider_Default(t *testing.T) {
	t.Parallel()

	var provider v1alpha1.Provider
	assert.Equal(t, v1alpha1.ProviderDigitalOcean, provider.Default())
}

func TestProvider_ValidValues(t *testing.T) {
	t.Parallel()

	var provider v1alpha1.Provider

	values := provider.ValidValues()
	assert.Contains(t, values, "DigitalOcean")
	assert.Contains(t, values, "Kind")
	assert.Contains(t, values, "K3d")
	assert.Len(t, values, 3)
}

func TestGitOpsEngine_Default(t *testing.T) {
	t.Parallel()

	var engine v1alpha1.GitOpsEngine
	assert.Equal(t, v1alpha1.GitOpsEngineArgoCD, engine.Default())
}

func TestGitOpsEngine_ValidValues(t *testing.T) {
	t.Parallel()

	var engine v1alpha1.GitOpsEngine

	values := engine.ValidValues()
	assert.Contains(t, values, "ArgoCD")
	assert.Contains(t, values, "Flux")
	assert.Len(t, values, 2)
}

func TestProvider_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected v1alpha1.Provider
		wantErr  bool
	}{
		{name: "exact match", input: "DigitalOcean", expected: v1alpha1.ProviderDigitalOcean},
		{name: "case insensitive", input: "kind", expected: v1alpha1.ProviderKind},
		{name: "k3d lowercase", input: "k3d", expected: v1alpha1.ProviderK3d},
		{name: "invalid value", input: "GKE", wantErr: true},
		{name: "empty value", input: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var provider v1alpha1.Provider

			err := provider.Set(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, v1alpha1.ErrInvalidProvider)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, provider)
		})
	}
}

func TestGitOpsEngine_Set(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected v1alpha1.GitOpsEngine
		wantErr  bool
	}{
		{name: "argocd case insensitive", input: "argocd", expected: v1alpha1.GitOpsEngineArgoCD},
		{name: "flux exact", input: "Flux", expected: v1alpha1.GitOpsEngineFlux},
		{name: "invalid value", input: "Jenkins", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			var engine v1alpha1.GitOpsEngine

			err := engine.Set(testCase.input)
			if testCase.wantErr {
				require.ErrorIs(t, err, v1alpha1.ErrInvalidGitOpsEngine)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, testCase.expected, engine)
		})
	}
}

func TestProvider_ContextName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider v1alpha1.Provider
		cluster  string
		region   string
		expected string
	}{
		{
			name:     "digitalocean includes region",
			provider: v1alpha1.ProviderDigitalOcean,
			cluster:  "cutout-cluster",
			region:   "fra1",
			expected: "do-fra1-cutout-cluster",
		},
		{
			name:     "kind prefix",
			provider: v1alpha1.ProviderKind,
			cluster:  "cutout-cluster",
			expected: "kind-cutout-cluster",
		},
		{
			name:     "k3d prefix",
			provider: v1alpha1.ProviderK3d,
			cluster:  "cutout-cluster",
			expected: "k3d-cutout-cluster",
		},
		{
			name:     "empty cluster name",
			provider: v1alpha1.ProviderKind,
			cluster:  "",
			expected: "",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			actual := testCase.provider.ContextName(testCase.cluster, testCase.region)
			assert.Equal(t, testCase.expected, actual)
		})
	}
}

func TestProvider_IsLocal(t *testing.T) {
	t.Parallel()

	kind := v1alpha1.ProviderKind
	k3d := v1alpha1.ProviderK3d
	digitalocean := v1alpha1.ProviderDigitalOcean

	assert.True(t, kind.IsLocal())
	assert.True(t, k3d.IsLocal())
	assert.False(t, digitalocean.IsLocal())
}
