package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	clusterprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// ErrMissingClusterProvisionerDependency indicates that a lifecycle command
// resolved a nil provisioner.
var ErrMissingClusterProvisionerDependency = errors.New("missing cluster provisioner dependency")

// ErrPipelineConfigRequired indicates that a nil pipeline configuration was
// provided.
var ErrPipelineConfigRequired = errors.New("pipeline configuration is required")

// LifecycleAction is a cluster operation executed against a provisioner.
type LifecycleAction func(
	ctx context.Context,
	provisioner clusterprovisioner.ClusterProvisioner,
	clusterName string,
) error

// LifecycleConfig describes the messaging and action behavior for a lifecycle
// command.
type LifecycleConfig struct {
	TitleEmoji         string
	TitleContent       string
	ActivityContent    string
	SuccessContent     string
	ErrorMessagePrefix string
	Action             LifecycleAction
}

// LifecycleDeps groups the injectable collaborators required by lifecycle
// commands.
type LifecycleDeps struct {
	Timer   timer.Timer
	Factory clusterprovisioner.Factory
}

// NewStandardLifecycleRunE creates a RunE handler for simple lifecycle
// commands: resolve dependencies, load config, run the configured action.
func NewStandardLifecycleRunE(
	runtimeContainer *runtime.Runtime,
	cfgManager *configmanager.ConfigManager,
	config LifecycleConfig,
) func(*cobra.Command, []string) error {
	return WrapLifecycleHandler(
		runtimeContainer,
		cfgManager,
		func(cmd *cobra.Command, manager *configmanager.ConfigManager, deps LifecycleDeps) error {
			return HandleLifecycleRunE(cmd, manager, deps, config)
		},
	)
}

// WrapLifecycleHandler resolves lifecycle dependencies from the runtime
// container and invokes the handler with them.
func WrapLifecycleHandler(
	runtimeContainer *runtime.Runtime,
	cfgManager *configmanager.ConfigManager,
	handler func(*cobra.Command, *configmanager.ConfigManager, LifecycleDeps) error,
) func(*cobra.Command, []string) error {
	return runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(
			func(cmd *cobra.Command, injector runtime.Injector, tmr timer.Timer) error {
				factory, err := runtime.ResolveClusterProvisionerFactory(injector)
				if err != nil {
					return fmt.Errorf("resolve provisioner factory dependency: %w", err)
				}

				deps := LifecycleDeps{Timer: tmr, Factory: factory}

				return handler(cmd, cfgManager, deps)
			},
		),
	)
}

// HandleLifecycleRunE orchestrates the standard lifecycle workflow: start the
// timer, load the pipeline configuration, then run the action.
func HandleLifecycleRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	deps LifecycleDeps,
	config LifecycleConfig,
) error {
	if deps.Timer != nil {
		deps.Timer.Start()
	}

	outputTimer := MaybeTimer(cmd, deps.Timer)

	pipeline, err := cfgManager.LoadConfig(outputTimer)
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	return RunLifecycleWithConfig(cmd, deps, config, pipeline)
}

// RunLifecycleWithConfig executes a lifecycle command using a pre-loaded
// pipeline configuration.
func RunLifecycleWithConfig(
	cmd *cobra.Command,
	deps LifecycleDeps,
	config LifecycleConfig,
	pipeline *v1alpha1.Pipeline,
) error {
	if pipeline == nil {
		return ErrPipelineConfigRequired
	}

	provisioner, err := deps.Factory.Create(pipeline, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to resolve cluster provisioner: %w", err)
	}

	if provisioner == nil {
		return ErrMissingClusterProvisionerDependency
	}

	return runLifecycleWithProvisioner(
		cmd,
		deps,
		config,
		provisioner,
		pipeline.Spec.Cluster.Name,
	)
}

func runLifecycleWithProvisioner(
	cmd *cobra.Command,
	deps LifecycleDeps,
	config LifecycleConfig,
	provisioner clusterprovisioner.ClusterProvisioner,
	clusterName string,
) error {
	showLifecycleTitle(cmd, config.TitleEmoji, config.TitleContent)
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: config.ActivityContent,
		Writer:  cmd.OutOrStdout(),
	})

	err := config.Action(cmd.Context(), provisioner, clusterName)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrorMessagePrefix, err)
	}

	outputTimer := MaybeTimer(cmd, deps.Timer)

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: config.SuccessContent,
		Timer:   outputTimer,
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

func showLifecycleTitle(cmd *cobra.Command, emoji, content string) {
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: content,
		Emoji:   emoji,
		Writer:  cmd.OutOrStdout(),
	})
}
