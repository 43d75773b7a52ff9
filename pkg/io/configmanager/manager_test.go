package configmanager_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	v1alpha1 "github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	configmanager "github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `apiVersion: slipway.dev/v1alpha1
kind: Pipeline
metadata:
  name: cutout
spec:
  cluster:
    provider: Kind
    name: test-cluster
    nodeCount: 3
  connection:
    timeout: 2m
  registry:
    host: registry.example.com
    repository: acme/cutout-api
  gitops:
    engine: ArgoCD
  workload:
    namespace: cutout
`

func writeConfigFile(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slipway.yaml"), []byte(content), 0o644))
	t.Chdir(dir)
}

func TestLoadConfig_FromFile(t *testing.T) {
	writeConfigFile(t, sampleConfig)

	manager := configmanager.NewConfigManager(
		io.Discard,
		configmanager.DefaultClusterFieldSelectors()...,
	)

	config, err := manager.LoadConfigSilent()
	require.NoError(t, err)

	assert.Equal(t, v1alpha1.ProviderKind, config.Spec.Cluster.Provider)
	assert.Equal(t, "test-cluster", config.Spec.Cluster.Name)
	assert.Equal(t, int32(3), config.Spec.Cluster.NodeCount)
	assert.Equal(t, 2*time.Minute, config.Spec.Connection.Timeout.Duration)
	assert.Equal(t, "registry.example.com", config.Spec.Registry.Host)
	assert.Equal(t, "acme/cutout-api", config.Spec.Registry.Repository)
	// Unset fields fall back to defaults.
	assert.Equal(t, v1alpha1.DefaultRegion, config.Spec.Cluster.Region)
	assert.Equal(t, v1alpha1.DefaultSourceDirectory, config.Spec.Workload.SourceDirectory)
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	manager := configmanager.NewConfigManager(
		io.Discard,
		configmanager.DefaultClusterFieldSelectors()...,
	)

	config, err := manager.LoadConfigSilent()
	require.NoError(t, err, "a missing config file must not be an error")

	assert.Equal(t, v1alpha1.ProviderDigitalOcean, config.Spec.Cluster.Provider)
	assert.Equal(t, v1alpha1.DefaultClusterName, config.Spec.Cluster.Name)
}

func TestLoadConfig_InvalidAPIVersionRejected(t *testing.T) {
	writeConfigFile(t, "apiVersion: wrong/v1\nkind: Pipeline\n")

	manager := configmanager.NewConfigManager(io.Discard)

	_, err := manager.LoadConfigSilent()
	require.ErrorIs(t, err, configmanager.ErrUnsupportedAPIVersion)
}

func TestLoadConfig_InvalidProviderRejected(t *testing.T) {
	writeConfigFile(t, `apiVersion: slipway.dev/v1alpha1
kind: Pipeline
spec:
  cluster:
    provider: GKE
`)

	manager := configmanager.NewConfigManager(io.Discard)

	_, err := manager.LoadConfigSilent()
	require.ErrorIs(t, err, v1alpha1.ErrInvalidProvider)
}

func TestLoadConfig_EnvOverridesCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SLIPWAY_REGISTRY_USERNAME", "ci-bot")
	t.Setenv("SLIPWAY_REGISTRY_PASSWORD", "token-123")

	manager := configmanager.NewConfigManager(io.Discard)

	config, err := manager.LoadConfigSilent()
	require.NoError(t, err)

	assert.Equal(t, "ci-bot", config.Spec.Registry.Username)
	assert.Equal(t, "token-123", config.Spec.Registry.Password)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	writeConfigFile(t, sampleConfig)

	cmd := &cobra.Command{Use: "test"}
	manager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	require.NoError(t, cmd.Flags().Set("cluster-name", "flag-cluster"))
	require.NoError(t, cmd.Flags().Set("provider", "K3d"))

	config, err := manager.LoadConfigSilent()
	require.NoError(t, err)

	assert.Equal(t, "flag-cluster", config.Spec.Cluster.Name)
	assert.Equal(t, v1alpha1.ProviderK3d, config.Spec.Cluster.Provider)
	// Non-overridden file values survive.
	assert.Equal(t, int32(3), config.Spec.Cluster.NodeCount)
}

func TestLoadConfig_CachesResult(t *testing.T) {
	t.Chdir(t.TempDir())

	manager := configmanager.NewConfigManager(io.Discard)

	first, err := manager.LoadConfigSilent()
	require.NoError(t, err)

	second, err := manager.LoadConfigSilent()
	require.NoError(t, err)

	assert.Same(t, first, second, "repeated loads must return the cached config")
}
