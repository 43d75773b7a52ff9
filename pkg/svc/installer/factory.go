package installer

import (
	"errors"
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/helm"
	argocdinstaller "github.com/slipway-dev/slipway/pkg/svc/installer/argocd"
	fluxinstaller "github.com/slipway-dev/slipway/pkg/svc/installer/flux"
)

// ErrEngineNotSupported is returned when no installer exists for the
// configured GitOps engine.
var ErrEngineNotSupported = errors.New("gitops engine not supported")

// ForEngine creates the installer matching the configured GitOps engine.
func ForEngine(
	helmClient helm.Interface,
	gitops v1alpha1.GitOpsSpec,
	timeout time.Duration,
) (Installer, error) {
	switch gitops.Engine {
	case v1alpha1.GitOpsEngineArgoCD:
		return argocdinstaller.NewInstaller(helmClient, gitops, timeout), nil
	case v1alpha1.GitOpsEngineFlux:
		return fluxinstaller.NewInstaller(helmClient, gitops.ChartVersion, timeout), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrEngineNotSupported, gitops.Engine)
	}
}
