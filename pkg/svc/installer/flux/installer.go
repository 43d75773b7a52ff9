// Package fluxinstaller installs or upgrades Flux via the community Helm
// chart.
package fluxinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/pkg/client/helm"
	"github.com/slipway-dev/slipway/pkg/svc/installer/internal/helmutil"
)

const (
	fluxReleaseName    = "flux2"
	fluxChartName      = "flux2"
	fluxNamespace      = "flux-system"
	fluxRepositoryName = "fluxcd-community"
	fluxRepositoryURL  = "https://fluxcd-community.github.io/helm-charts"
)

// Installer installs or upgrades the Flux controllers.
type Installer struct {
	*helmutil.Base
}

// NewInstaller creates a new Flux installer instance.
func NewInstaller(client helm.Interface, chartVersion string, timeout time.Duration) *Installer {
	return &Installer{
		Base: helmutil.NewBase(
			"flux",
			client,
			&helm.RepositoryEntry{
				Name: fluxRepositoryName,
				URL:  fluxRepositoryURL,
			},
			&helm.ChartSpec{
				ReleaseName:     fluxReleaseName,
				ChartName:       fluxChartName,
				Namespace:       fluxNamespace,
				Version:         chartVersion,
				RepoURL:         fluxRepositoryURL,
				CreateNamespace: true,
				Atomic:          true,
				Wait:            true,
				Timeout:         timeout,
			},
		),
	}
}

// Install installs or upgrades the Flux controllers via the Helm chart.
func (i *Installer) Install(ctx context.Context) error {
	err := i.Base.Install(ctx)
	if err != nil {
		return fmt.Errorf("failed to install Flux: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Flux.
func (i *Installer) Uninstall(ctx context.Context) error {
	err := i.Base.Uninstall(ctx)
	if err != nil {
		return fmt.Errorf("failed to uninstall Flux: %w", err)
	}

	return nil
}
