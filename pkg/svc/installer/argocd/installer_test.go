package argocdinstaller_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/helm"
	argocdinstaller "github.com/slipway-dev/slipway/pkg/svc/installer/argocd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errHelm = errors.New("helm exploded")

type fakeHelm struct {
	repos      []*helm.RepositoryEntry
	installed  []*helm.ChartSpec
	uninstalls []string
	manifest   string
	err        error
}

func (f *fakeHelm) InstallOrUpgradeChart(
	_ context.Context,
	spec *helm.ChartSpec,
) (*helm.ReleaseInfo, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.installed = append(f.installed, spec)

	return &helm.ReleaseInfo{Name: spec.ReleaseName, Namespace: spec.Namespace}, nil
}

func (f *fakeHelm) UninstallRelease(_ context.Context, releaseName, _ string) error {
	if f.err != nil {
		return f.err
	}

	f.uninstalls = append(f.uninstalls, releaseName)

	return nil
}

func (f *fakeHelm) AddRepository(_ context.Context, entry *helm.RepositoryEntry) error {
	if f.err != nil {
		return f.err
	}

	f.repos = append(f.repos, entry)

	return nil
}

func (f *fakeHelm) TemplateChart(context.Context, *helm.ChartSpec) (string, error) {
	return f.manifest, f.err
}

func gitopsSpec() v1alpha1.GitOpsSpec {
	return v1alpha1.GitOpsSpec{
		Engine:       v1alpha1.GitOpsEngineArgoCD,
		Namespace:    "argocd",
		ChartVersion: "7.7.0",
	}
}

func TestInstall_AddsRepoAndInstallsChart(t *testing.T) {
	t.Parallel()

	fake := &fakeHelm{}
	installer := argocdinstaller.NewInstaller(fake, gitopsSpec(), time.Minute)

	err := installer.Install(t.Context())
	require.NoError(t, err)

	require.Len(t, fake.repos, 1)
	assert.Equal(t, "argo", fake.repos[0].Name)
	assert.Equal(t, "https://argoproj.github.io/argo-helm", fake.repos[0].URL)

	require.Len(t, fake.installed, 1)
	spec := fake.installed[0]
	assert.Equal(t, "argocd", spec.ReleaseName)
	assert.Equal(t, "argo-cd", spec.ChartName)
	assert.Equal(t, "argocd", spec.Namespace)
	assert.Equal(t, "7.7.0", spec.Version)
	assert.True(t, spec.CreateNamespace)
	assert.True(t, spec.Atomic)
	assert.True(t, spec.Wait)
	assert.Equal(t, time.Minute, spec.Timeout)
}

func TestInstall_DefaultsNamespace(t *testing.T) {
	t.Parallel()

	fake := &fakeHelm{}
	installer := argocdinstaller.NewInstaller(fake, v1alpha1.GitOpsSpec{}, time.Minute)

	err := installer.Install(t.Context())
	require.NoError(t, err)
	require.Len(t, fake.installed, 1)
	assert.Equal(t, "argocd", fake.installed[0].Namespace)
}

func TestInstall_PropagatesErrors(t *testing.T) {
	t.Parallel()

	fake := &fakeHelm{err: errHelm}
	installer := argocdinstaller.NewInstaller(fake, gitopsSpec(), time.Minute)

	err := installer.Install(t.Context())
	require.ErrorIs(t, err, errHelm)
}

func TestUninstall_RemovesRelease(t *testing.T) {
	t.Parallel()

	fake := &fakeHelm{}
	installer := argocdinstaller.NewInstaller(fake, gitopsSpec(), time.Minute)

	err := installer.Uninstall(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"argocd"}, fake.uninstalls)
}

func TestImages_ExtractsFromRenderedManifest(t *testing.T) {
	t.Parallel()

	fake := &fakeHelm{manifest: "image: quay.io/argoproj/argocd:v3.0.0\n"}
	installer := argocdinstaller.NewInstaller(fake, gitopsSpec(), time.Minute)

	images, err := installer.Images(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"quay.io/argoproj/argocd:v3.0.0"}, images)
}
