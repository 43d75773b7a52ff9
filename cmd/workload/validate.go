package workload

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/client/kubeconform"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewValidateCmd wires the workload validate command.
func NewValidateCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate",
		Short:        "Validate the workload manifests with kubeconform",
		Long:         "Validate every manifest in the source directory against Kubernetes schemas.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultWorkloadFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleValidateRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleValidateRunE(
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

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()
	sourceDirectory := pipeline.Spec.Workload.SourceDirectory

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "validating manifests in '%s'",
		Args:    []any{sourceDirectory},
		Writer:  out,
	})

	validator := currentManifestValidatorFactory()()

	err = validator.ValidateDirectory(cmd.Context(), sourceDirectory, &kubeconform.ValidationOptions{
		Strict:            true,
		IncludeCRDSchemas: true,
	})
	if err != nil {
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "manifests are valid",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
