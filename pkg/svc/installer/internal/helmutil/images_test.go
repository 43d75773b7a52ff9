package helmutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slipway-dev/slipway/pkg/client/helm"
	"github.com/slipway-dev/slipway/pkg/svc/installer/internal/helmutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractImagesFromManifest(t *testing.T) {
	t.Parallel()

	manifest := `
apiVersion: apps/v1
kind: Deployment
spec:
  template:
    spec:
      containers:
        - image: quay.io/argoproj/argocd:v3.0.0
        - image: "ghcr.io/dexidp/dex:v2.41.1"
      initContainers:
        - image: quay.io/argoproj/argocd:v3.0.0  # duplicate
`

	images, err := helmutil.ExtractImagesFromManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"quay.io/argoproj/argocd:v3.0.0",
		"ghcr.io/dexidp/dex:v2.41.1",
	}, images)
}

func TestExtractImagesFromManifest_Empty(t *testing.T) {
	t.Parallel()

	images, err := helmutil.ExtractImagesFromManifest("")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestExtractImagesFromManifest_SkipsTemplates(t *testing.T) {
	t.Parallel()

	images, err := helmutil.ExtractImagesFromManifest("image: {{ .Values.image }}\n")
	require.NoError(t, err)
	assert.Empty(t, images)
}

type fakeTemplater struct {
	manifest string
	err      error
}

func (f *fakeTemplater) InstallOrUpgradeChart(
	context.Context,
	*helm.ChartSpec,
) (*helm.ReleaseInfo, error) {
	return nil, nil //nolint:nilnil // unused in these tests
}

func (f *fakeTemplater) UninstallRelease(context.Context, string, string) error { return nil }

func (f *fakeTemplater) AddRepository(context.Context, *helm.RepositoryEntry) error { return nil }

func (f *fakeTemplater) TemplateChart(context.Context, *helm.ChartSpec) (string, error) {
	return f.manifest, f.err
}

func TestImagesFromChart(t *testing.T) {
	t.Parallel()

	fake := &fakeTemplater{manifest: "image: nginx:1.25\n"}

	images, err := helmutil.ImagesFromChart(t.Context(), fake, &helm.ChartSpec{ChartName: "demo"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nginx:1.25"}, images)
}

func TestImagesFromChart_TemplateError(t *testing.T) {
	t.Parallel()

	fake := &fakeTemplater{err: errors.New("render failed")}

	_, err := helmutil.ImagesFromChart(t.Context(), fake, &helm.ChartSpec{ChartName: "demo"})
	require.Error(t, err)
}
