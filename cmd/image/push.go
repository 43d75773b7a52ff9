package image

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/docker"
	"github.com/slipway-dev/slipway/pkg/client/registry"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewPushCmd wires the image push command.
func NewPushCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Push the workload image to the registry",
		Long: "Verify registry access, push the workload image, and confirm the pushed " +
			"tag is visible.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultImageFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handlePushRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handlePushRunE(
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

	if pipeline.Spec.Registry.Repository == "" {
		return fmt.Errorf("cannot push image: %w", v1alpha1.ErrRepositoryRequired)
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Push image...",
		Emoji:   "📦",
		Writer:  out,
	})

	verifier := currentRegistryVerifierFactory()()
	verifyOpts := registryOptions(pipeline)

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "verifying access to '%s'",
		Args:    []any{pipeline.Spec.Registry.Host},
		Writer:  out,
	})

	err = verifier.VerifyAccess(cmd.Context(), verifyOpts)
	if err != nil {
		return fmt.Errorf("registry access check failed: %w", err)
	}

	engine, err := currentDockerEngineFactory()(out)
	if err != nil {
		return fmt.Errorf("failed to connect to Docker: %w", err)
	}

	reference := pipeline.Spec.ImageReference()

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "pushing '%s'",
		Args:    []any{reference},
		Writer:  out,
	})

	err = engine.PushImage(cmd.Context(), docker.PushOptions{
		Image:         reference,
		Username:      pipeline.Spec.Registry.Username,
		Password:      pipeline.Spec.Registry.Password,
		ServerAddress: pipeline.Spec.Registry.Host,
	})
	if err != nil {
		return fmt.Errorf("failed to push image: %w", err)
	}

	exists, err := verifier.ImageExists(cmd.Context(), verifyOpts)
	if err != nil || !exists {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "pushed tag not yet visible in the registry",
			Writer:  out,
		})
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "image pushed",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}

func registryOptions(pipeline *v1alpha1.Pipeline) registry.Options {
	return registry.Options{
		Host:       pipeline.Spec.Registry.Host,
		Repository: pipeline.Spec.Registry.Repository,
		Tag:        pipeline.Spec.Image.Tag,
		Username:   pipeline.Spec.Registry.Username,
		Password:   pipeline.Spec.Registry.Password,
		Insecure:   pipeline.Spec.Registry.Insecure,
	}
}
