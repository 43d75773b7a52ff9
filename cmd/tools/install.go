package tools

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/svc/tools"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

const (
	onlyFlagName   = "only"
	forceFlagName  = "force"
	binDirFlagName = "bin-dir"
)

// NewInstallCmd wires the tools install command.
func NewInstallCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "install",
		Short:        "Install the pinned CLI releases",
		Long:         "Download and install pinned releases of the required CLIs, verifying each binary.",
		SilenceUsage: true,
	}

	cmd.Flags().StringSlice(onlyFlagName, nil, "Restrict installation to the named tools")
	cmd.Flags().Bool(forceFlagName, false, "Reinstall tools that are already present")
	cmd.Flags().String(binDirFlagName, tools.DefaultBinDir, "Directory to install binaries into")

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleInstallRunE(cmd, tmr)
		}),
	)

	return cmd
}

func handleInstallRunE(cmd *cobra.Command, tmr timer.Timer) error {
	if tmr != nil {
		tmr.Start()
	}

	only, _ := cmd.Flags().GetStringSlice(onlyFlagName)
	force, _ := cmd.Flags().GetBool(forceFlagName)
	binDir, _ := cmd.Flags().GetString(binDirFlagName)

	installer, err := currentToolsInstallerFactory()(binDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Install tools...",
		Emoji:   "🧰",
		Writer:  out,
	})

	results, err := installer.Install(cmd.Context(), tools.InstallOptions{
		Only:  only,
		Force: force,
	})
	if err != nil {
		return fmt.Errorf("failed to install tools: %w", err)
	}

	for _, result := range results {
		if result.Skipped {
			notify.WriteMessage(notify.Message{
				Type:    notify.ActivityType,
				Content: "%s already installed at %s (%s)",
				Args:    []any{result.Name, result.Path, result.Version},
				Writer:  out,
			})

			continue
		}

		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: "%s installed at %s (%s)",
			Args:    []any{result.Name, result.Path, result.Version},
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

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "tools installed",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
