package tools

import (
	"github.com/spf13/cobra"

	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/svc/tools"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewStatusCmd wires the tools status command.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Report which required CLIs are installed",
		Long:         "Report whether each required CLI is installed, its version, and whether it is on PATH.",
		SilenceUsage: true,
	}

	cmd.Flags().String(binDirFlagName, tools.DefaultBinDir, "Directory installed binaries live in")

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, _ timer.Timer) error {
			return handleStatusRunE(cmd)
		}),
	)

	return cmd
}

func handleStatusRunE(cmd *cobra.Command) error {
	binDir, _ := cmd.Flags().GetString(binDirFlagName)

	installer, err := currentToolsInstallerFactory()(binDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	for _, status := range installer.Status(cmd.Context()) {
		if !status.Found {
			notify.WriteMessage(notify.Message{
				Type:    notify.WarningType,
				Content: "%s: not installed",
				Args:    []any{status.Name},
				Writer:  out,
			})

			continue
		}

		content := "%s: %s (%s)"
		args := []any{status.Name, status.Path, status.Version}

		if !status.InPath {
			content += " [not on PATH]"
		}

		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: content,
			Args:    args,
			Writer:  out,
		})
	}

	if warning := installer.PathWarning(); warning != "" {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: warning,
			Writer:  out,
		})
	}

	return nil
}
