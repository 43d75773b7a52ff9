package cluster

import (
	"fmt"

	"github.com/spf13/cobra"

	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
)

// NewListCmd wires the cluster list command.
func NewListCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "list",
		Short:        "List clusters known to the configured provider",
		Long:         "List the clusters the configured provider knows about.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleListRunE)

	return cmd
}

func handleListRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	pipeline, err := cfgManager.LoadConfig(cmdhelpers.MaybeTimer(cmd, deps.Timer))
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	if deps.Factory == nil {
		return cmdhelpers.ErrMissingClusterProvisionerDependency
	}

	provisioner, err := deps.Factory.Create(pipeline, cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("failed to create cluster provisioner: %w", err)
	}

	clusters, err := provisioner.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list clusters: %w", err)
	}

	if len(clusters) == 0 {
		notify.WriteMessage(notify.Message{
			Type:    notify.InfoType,
			Content: "no clusters found",
			Writer:  cmd.OutOrStdout(),
		})

		return nil
	}

	for _, name := range clusters {
		fmt.Fprintln(cmd.OutOrStdout(), name)
	}

	return nil
}
