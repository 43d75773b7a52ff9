// Package gitops provides the GitOps controller commands.
package gitops

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/argocd"
	"github.com/slipway-dev/slipway/pkg/client/helm"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/fsutil"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
)

var (
	//nolint:gochecknoglobals // dependency injection for tests
	gitOpsInstallerFactory = newGitOpsInstaller
	//nolint:gochecknoglobals // protects gitOpsInstallerFactory
	gitOpsInstallerFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	argoCDManagerFactory = newArgoCDManager
	//nolint:gochecknoglobals // protects argoCDManagerFactory
	argoCDManagerFactoryMu sync.RWMutex
)

// SetGitOpsInstallerFactoryForTests overrides how the install and uninstall
// commands build the engine installer. It returns a restore function.
func SetGitOpsInstallerFactoryForTests(
	factory func(pipeline *v1alpha1.Pipeline) (installer.Installer, error),
) func() {
	gitOpsInstallerFactoryMu.Lock()

	previous := gitOpsInstallerFactory
	gitOpsInstallerFactory = factory

	gitOpsInstallerFactoryMu.Unlock()

	return func() {
		gitOpsInstallerFactoryMu.Lock()

		gitOpsInstallerFactory = previous

		gitOpsInstallerFactoryMu.Unlock()
	}
}

// SetArgoCDManagerFactoryForTests overrides how the register command connects
// to Argo CD. It returns a restore function.
func SetArgoCDManagerFactoryForTests(
	factory func(pipeline *v1alpha1.Pipeline) (argocd.Manager, error),
) func() {
	argoCDManagerFactoryMu.Lock()

	previous := argoCDManagerFactory
	argoCDManagerFactory = factory

	argoCDManagerFactoryMu.Unlock()

	return func() {
		argoCDManagerFactoryMu.Lock()

		argoCDManagerFactory = previous

		argoCDManagerFactoryMu.Unlock()
	}
}

func currentGitOpsInstallerFactory() func(*v1alpha1.Pipeline) (installer.Installer, error) {
	gitOpsInstallerFactoryMu.RLock()
	defer gitOpsInstallerFactoryMu.RUnlock()

	return gitOpsInstallerFactory
}

func currentArgoCDManagerFactory() func(*v1alpha1.Pipeline) (argocd.Manager, error) {
	argoCDManagerFactoryMu.RLock()
	defer argoCDManagerFactoryMu.RUnlock()

	return argoCDManagerFactory
}

func newGitOpsInstaller(pipeline *v1alpha1.Pipeline) (installer.Installer, error) {
	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return nil, err
	}

	helmClient, err := helm.NewClient(kubeconfig, kubeContext)
	if err != nil {
		return nil, fmt.Errorf("failed to create helm client: %w", err)
	}

	return installer.ForEngine(
		helmClient,
		pipeline.Spec.GitOps,
		installer.GetInstallTimeout(pipeline),
	)
}

func newArgoCDManager(pipeline *v1alpha1.Pipeline) (argocd.Manager, error) {
	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return nil, err
	}

	manager, err := argocd.NewManagerFromKubeconfig(
		kubeconfig,
		kubeContext,
		pipeline.Spec.GitOps.Namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Argo CD manager: %w", err)
	}

	return manager, nil
}

// connectionDetails expands the kubeconfig path and derives the context name
// from the provider when the config leaves it empty.
func connectionDetails(pipeline *v1alpha1.Pipeline) (string, string, error) {
	kubeconfig, err := fsutil.ExpandHomePath(pipeline.Spec.Connection.Kubeconfig)
	if err != nil {
		return "", "", fmt.Errorf("failed to expand kubeconfig path: %w", err)
	}

	kubeContext := pipeline.Spec.Connection.Context
	if kubeContext == "" {
		kubeContext = pipeline.Spec.Cluster.Provider.ContextName(
			pipeline.Spec.Cluster.Name,
			pipeline.Spec.Cluster.Region,
		)
	}

	return kubeconfig, kubeContext, nil
}

// NewGitOpsCmd creates the gitops command group.
func NewGitOpsCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gitops",
		Short: "Install the GitOps controller and register the sync target",
		Long: "Install the GitOps controller (Argo CD via its Helm chart, or the Flux " +
			"operator) and register the Argo CD Application that keeps the workload " +
			"synced from Git.",
	}

	cmd.AddCommand(NewInstallCmd(runtimeContainer))
	cmd.AddCommand(NewUninstallCmd(runtimeContainer))
	cmd.AddCommand(NewRegisterCmd(runtimeContainer))

	return cmd
}
