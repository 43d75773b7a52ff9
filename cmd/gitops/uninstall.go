package gitops

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewUninstallCmd wires the gitops uninstall command.
func NewUninstallCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "uninstall",
		Short:        "Uninstall the configured GitOps engine",
		Long:         "Remove the configured GitOps engine's Helm release from the cluster.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultGitOpsFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleUninstallRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleUninstallRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	tmr timer.Timer,
) error {
	if tmr != nil {
		tmr.Start()
	}

	pipeline, err := cfgManager.LoadConfig(cmdhelpers.MaybeTimer(cmd, tmr))
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	engineInstaller, err := currentGitOpsInstallerFactory()(pipeline)
	if err != nil {
		return err
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Uninstall GitOps engine...",
		Emoji:   "🧹",
		Writer:  out,
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "uninstalling %s",
		Args:    []any{pipeline.Spec.GitOps.Engine.String()},
		Writer:  out,
	})

	err = engineInstaller.Uninstall(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to uninstall gitops engine: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "gitops engine uninstalled",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
