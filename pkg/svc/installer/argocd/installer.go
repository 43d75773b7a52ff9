// Package argocdinstaller installs or upgrades Argo CD via its Helm chart.
package argocdinstaller

import (
	"context"
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/helm"
	"github.com/slipway-dev/slipway/pkg/svc/installer/internal/helmutil"
)

const (
	argoCDReleaseName      = "argocd"
	argoCDChartName        = "argo-cd"
	argoCDDefaultNamespace = "argocd"
	argoHelmRepositoryName = "argo"
	argoHelmRepositoryURL  = "https://argoproj.github.io/argo-helm"
)

// Installer installs or upgrades Argo CD. The chart renders the namespace and
// installation manifests the runbook applies by hand.
type Installer struct {
	*helmutil.Base
}

// NewInstaller creates a new Argo CD installer instance. The chart version is
// taken from the GitOps config; an empty version installs the latest.
func NewInstaller(
	client helm.Interface,
	gitops v1alpha1.GitOpsSpec,
	timeout time.Duration,
) *Installer {
	namespace := gitops.Namespace
	if namespace == "" {
		namespace = argoCDDefaultNamespace
	}

	return &Installer{
		Base: helmutil.NewBase(
			"argocd",
			client,
			&helm.RepositoryEntry{
				Name: argoHelmRepositoryName,
				URL:  argoHelmRepositoryURL,
			},
			&helm.ChartSpec{
				ReleaseName:     argoCDReleaseName,
				ChartName:       argoCDChartName,
				Namespace:       namespace,
				Version:         gitops.ChartVersion,
				RepoURL:         argoHelmRepositoryURL,
				CreateNamespace: true,
				Atomic:          true,
				Wait:            true,
				Timeout:         timeout,
			},
		),
	}
}

// Install installs or upgrades Argo CD via its Helm chart.
func (i *Installer) Install(ctx context.Context) error {
	err := i.Base.Install(ctx)
	if err != nil {
		return fmt.Errorf("failed to install Argo CD: %w", err)
	}

	return nil
}

// Uninstall removes the Helm release for Argo CD.
func (i *Installer) Uninstall(ctx context.Context) error {
	err := i.Base.Uninstall(ctx)
	if err != nil {
		return fmt.Errorf("failed to uninstall Argo CD: %w", err)
	}

	return nil
}
