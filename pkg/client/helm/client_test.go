package helm

import (
	"testing"

	"github.com/stretchr/testify/require"
	helmv4action "helm.sh/helm/v4/pkg/action"
)

// Helm v4 replaced the v3 DryRun/ClientOnly booleans with a dry-run strategy.
var _ helmv4action.DryRunStrategy = helmv4action.DryRunClient

func TestTemplateChart_NilSpec(t *testing.T) {
	t.Parallel()

	client := &Client{}

	_, err := client.TemplateChart(t.Context(), nil)
	require.ErrorIs(t, err, errChartSpecRequired)
}

func TestTemplateChart_MissingReleaseName(t *testing.T) {
	t.Parallel()

	client := &Client{}

	_, err := client.TemplateChart(t.Context(), &ChartSpec{ChartName: "argo-cd"})
	require.ErrorIs(t, err, errReleaseNameRequired)
}

func TestInstallOrUpgradeChart_MissingReleaseName(t *testing.T) {
	t.Parallel()

	client := &Client{}

	_, err := client.InstallOrUpgradeChart(t.Context(), &ChartSpec{ChartName: "argo-cd"})
	require.ErrorIs(t, err, errReleaseNameRequired)
}

func TestUninstallRelease_MissingReleaseName(t *testing.T) {
	t.Parallel()

	client := &Client{}

	err := client.UninstallRelease(t.Context(), "", "argocd")
	require.ErrorIs(t, err, errReleaseNameRequired)
}
