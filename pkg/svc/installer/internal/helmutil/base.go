// Package helmutil provides shared Helm chart lifecycle management for
// repository-based installers.
package helmutil

import (
	"context"
	"fmt"

	"github.com/slipway-dev/slipway/pkg/client/helm"
)

// Base implements the installer.Installer pattern (Install, Uninstall,
// Images) for a single chart from a named Helm repository. Embed *Base in
// installer types that follow this pattern.
type Base struct {
	name   string
	client helm.Interface
	repo   *helm.RepositoryEntry
	spec   *helm.ChartSpec
}

// NewBase creates a new Base. The name parameter identifies the component in
// error messages (e.g. "argocd", "flux").
func NewBase(
	name string,
	client helm.Interface,
	repo *helm.RepositoryEntry,
	spec *helm.ChartSpec,
) *Base {
	return &Base{
		name:   name,
		client: client,
		repo:   repo,
		spec:   spec,
	}
}

// Install adds the Helm repository and installs or upgrades the chart,
// retrying transient registry errors.
func (b *Base) Install(ctx context.Context) error {
	err := b.client.AddRepository(ctx, b.repo)
	if err != nil {
		return fmt.Errorf("failed to add %s repository: %w", b.repo.Name, err)
	}

	err = helm.InstallOrUpgradeWithRetry(ctx, b.client, b.spec)
	if err != nil {
		return fmt.Errorf("installing %s chart: %w", b.name, err)
	}

	return nil
}

// Uninstall removes the Helm release.
func (b *Base) Uninstall(ctx context.Context) error {
	err := b.client.UninstallRelease(ctx, b.spec.ReleaseName, b.spec.Namespace)
	if err != nil {
		return fmt.Errorf("failed to uninstall %s release: %w", b.name, err)
	}

	return nil
}

// Images returns the container images used by the chart by templating it and
// extracting image references from the rendered manifests.
func (b *Base) Images(ctx context.Context) ([]string, error) {
	return ImagesFromChart(ctx, b.client, b.spec)
}

// ChartSpec exposes the chart spec for tests and callers that need the
// release coordinates.
func (b *Base) ChartSpec() *helm.ChartSpec {
	return b.spec
}
