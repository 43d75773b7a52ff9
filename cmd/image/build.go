package image

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/client/docker"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewBuildCmd wires the image build command.
func NewBuildCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "build",
		Short:        "Build the workload image",
		Long:         "Build the workload container image from the configured Dockerfile and context.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultImageFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleBuildRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleBuildRunE(
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

	engine, err := currentDockerEngineFactory()(cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to connect to Docker: %w", err)
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()
	reference := pipeline.Spec.ImageReference()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Build image...",
		Emoji:   "🔨",
		Writer:  out,
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "building '%s'",
		Args:    []any{reference},
		Writer:  out,
	})

	err = engine.BuildImage(cmd.Context(), docker.BuildOptions{
		ContextDir: pipeline.Spec.Image.Context,
		Dockerfile: pipeline.Spec.Image.Dockerfile,
		Tags:       []string{reference},
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "image built",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
