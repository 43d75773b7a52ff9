package workload

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewApplyCmd wires the workload apply command.
func NewApplyCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the workload manifests with kubectl",
		Long: "Apply the source directory's kustomization to the cluster. Useful for a " +
			"first deploy before the GitOps controller takes over.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultWorkloadFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleApplyRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleApplyRunE(
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

	client, err := currentKubectlClientFactory()(pipeline)
	if err != nil {
		return err
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()
	sourceDirectory := pipeline.Spec.Workload.SourceDirectory

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "applying kustomization '%s'",
		Args:    []any{sourceDirectory},
		Writer:  out,
	})

	output, err := client.ApplyKustomization(cmd.Context(), sourceDirectory)
	if err != nil {
		return fmt.Errorf("failed to apply manifests: %w", err)
	}

	if trimmed := strings.TrimSpace(output); trimmed != "" {
		fmt.Fprintln(out, trimmed)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "manifests applied",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
