// Package tools provides the third-party CLI install and status commands.
package tools

import (
	"sync"

	"github.com/spf13/cobra"

	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/svc/tools"
)

var (
	//nolint:gochecknoglobals // dependency injection for tests
	toolsInstallerFactory = tools.NewInstaller
	//nolint:gochecknoglobals // protects toolsInstallerFactory
	toolsInstallerFactoryMu sync.RWMutex
)

// SetToolsInstallerFactoryForTests overrides how tool commands build the
// installer. It returns a restore function.
func SetToolsInstallerFactoryForTests(
	factory func(binDir string) (*tools.Installer, error),
) func() {
	toolsInstallerFactoryMu.Lock()

	previous := toolsInstallerFactory
	toolsInstallerFactory = factory

	toolsInstallerFactoryMu.Unlock()

	return func() {
		toolsInstallerFactoryMu.Lock()

		toolsInstallerFactory = previous

		toolsInstallerFactoryMu.Unlock()
	}
}

func currentToolsInstallerFactory() func(string) (*tools.Installer, error) {
	toolsInstallerFactoryMu.RLock()
	defer toolsInstallerFactoryMu.RUnlock()

	return toolsInstallerFactory
}

// NewToolsCmd creates the tools command group.
func NewToolsCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Install and inspect the third-party CLIs the pipeline shells out to",
		Long: "Install pinned releases of doctl, kubectl, and the argocd CLI into a local " +
			"bin directory, and report whether each tool resolves on PATH.",
	}

	cmd.AddCommand(NewInstallCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}
