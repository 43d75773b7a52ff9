package installer_test

import (
	"context"
	"testing"
	"time"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/helm"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

type noopHelm struct{}

func (noopHelm) InstallOrUpgradeChart(
	context.Context,
	*helm.ChartSpec,
) (*helm.ReleaseInfo, error) {
	return &helm.ReleaseInfo{}, nil
}

func (noopHelm) UninstallRelease(context.Context, string, string) error { return nil }

func (noopHelm) AddRepository(context.Context, *helm.RepositoryEntry) error { return nil }

func (noopHelm) TemplateChart(context.Context, *helm.ChartSpec) (string, error) {
	return "", nil
}

func TestForEngine(t *testing.T) {
	t.Parallel()

	for _, engine := range v1alpha1.ValidGitOpsEngines() {
		gitops := v1alpha1.GitOpsSpec{Engine: engine}

		inst, err := installer.ForEngine(noopHelm{}, gitops, time.Minute)
		require.NoError(t, err, "engine %s", engine)
		assert.NotNil(t, inst, "engine %s", engine)
	}
}

func TestForEngine_Unknown(t *testing.T) {
	t.Parallel()

	_, err := installer.ForEngine(noopHelm{}, v1alpha1.GitOpsSpec{Engine: "Jenkins"}, time.Minute)
	require.ErrorIs(t, err, installer.ErrEngineNotSupported)
}

func TestGetInstallTimeout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, installer.DefaultInstallTimeout, installer.GetInstallTimeout(nil))

	pipeline := v1alpha1.NewPipeline()
	pipeline.Spec.Connection.Timeout = metav1.Duration{Duration: 10 * time.Minute}
	assert.Equal(t, 10*time.Minute, installer.GetInstallTimeout(pipeline))

	pipeline.Spec.Connection.Timeout = metav1.Duration{}
	assert.Equal(t, installer.DefaultInstallTimeout, installer.GetInstallTimeout(pipeline))
}
