// Package cluster provides the cluster lifecycle commands.
package cluster

import (
	"github.com/spf13/cobra"

	runtime "github.com/slipway-dev/slipway/pkg/di"
)

// NewClusterCmd creates the cluster command group.
func NewClusterCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Provision and manage the target Kubernetes cluster",
		Long: "Provision and manage the Kubernetes cluster the pipeline deploys to. " +
			"DigitalOcean clusters are provisioned through doctl; Kind and K3d clusters " +
			"run locally in Docker.",
	}

	cmd.AddCommand(NewCreateCmd(runtimeContainer))
	cmd.AddCommand(NewDeleteCmd(runtimeContainer))
	cmd.AddCommand(NewListCmd(runtimeContainer))
	cmd.AddCommand(NewInfoCmd(runtimeContainer))

	return cmd
}
