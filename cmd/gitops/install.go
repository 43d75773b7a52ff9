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

const listImagesFlagName = "list-images"

// NewInstallCmd wires the gitops install command.
func NewInstallCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "install",
		Short:        "Install the configured GitOps engine",
		Long:         "Install the configured GitOps engine into the cluster through its Helm chart.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultGitOpsFieldSelectors(),
	)

	cmd.Flags().Bool(
		listImagesFlagName,
		false,
		"Print the container images the engine chart deploys instead of installing",
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleInstallRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleInstallRunE(
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

	listImages, _ := cmd.Flags().GetBool(listImagesFlagName)
	if listImages {
		images, err := engineInstaller.Images(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list engine images: %w", err)
		}

		for _, image := range images {
			fmt.Fprintln(cmd.OutOrStdout(), image)
		}

		return nil
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Install GitOps engine...",
		Emoji:   "🔄",
		Writer:  out,
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "installing %s",
		Args:    []any{pipeline.Spec.GitOps.Engine.String()},
		Writer:  out,
	})

	err = engineInstaller.Install(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to install gitops engine: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "gitops engine installed",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
