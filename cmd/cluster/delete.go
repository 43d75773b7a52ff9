package cluster

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	clusterprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
	"github.com/slipway-dev/slipway/pkg/ui/confirm"
)

// ErrDeletionAborted is returned when the user declines the deletion prompt.
var ErrDeletionAborted = errors.New("cluster deletion aborted")

// NewDeleteCmd wires the cluster delete command.
func NewDeleteCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "delete",
		Short:        "Delete the pipeline's cluster",
		Long:         "Delete the Kubernetes cluster defined by the pipeline configuration.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.Flags().Bool("force", false, "Skip the deletion confirmation prompt")

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleDeleteRunE)

	return cmd
}

func handleDeleteRunE(
	cmd *cobra.Command,
	cfgManager *configmanager.ConfigManager,
	deps cmdhelpers.LifecycleDeps,
) error {
	if deps.Timer != nil {
		deps.Timer.Start()
	}

	pipeline, err := cfgManager.LoadConfig(cmdhelpers.MaybeTimer(cmd, deps.Timer))
	if err != nil {
		return fmt.Errorf("failed to load pipeline configuration: %w", err)
	}

	force, _ := cmd.Flags().GetBool("force")

	if !confirm.ShouldSkipPrompt(force) {
		confirm.ShowDeletionPreview(cmd.OutOrStdout(), deletionPreview(pipeline))

		if !confirm.PromptForConfirmation(cmd.OutOrStdout()) {
			return ErrDeletionAborted
		}
	}

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	return cmdhelpers.RunLifecycleWithConfig(cmd, deps, newDeleteLifecycleConfig(cmd), pipeline)
}

func deletionPreview(pipeline *v1alpha1.Pipeline) *confirm.DeletionPreview {
	preview := &confirm.DeletionPreview{
		ClusterName: pipeline.Spec.Cluster.Name,
		Provider:    pipeline.Spec.Cluster.Provider,
	}

	if pipeline.Spec.Cluster.Provider.IsLocal() {
		preview.Nodes = localNodeContainers(pipeline)
	} else {
		preview.Region = pipeline.Spec.Cluster.Region
		preview.NodePool = fmt.Sprintf(
			"%s x %d",
			pipeline.Spec.Cluster.NodeSize,
			pipeline.Spec.Cluster.NodeCount,
		)
	}

	return preview
}

// localNodeContainers predicts the Docker container names the local provider
// created for the cluster.
func localNodeContainers(pipeline *v1alpha1.Pipeline) []string {
	name := pipeline.Spec.Cluster.Name
	count := int(pipeline.Spec.Cluster.NodeCount)

	if count < 1 {
		count = 1
	}

	var nodes []string

	switch pipeline.Spec.Cluster.Provider {
	case v1alpha1.ProviderKind:
		nodes = append(nodes, name+"-control-plane")
		for i := 1; i < count; i++ {
			suffix := ""
			if i > 1 {
				suffix = fmt.Sprintf("%d", i)
			}

			nodes = append(nodes, name+"-worker"+suffix)
		}
	case v1alpha1.ProviderK3d:
		nodes = append(nodes, "k3d-"+name+"-server-0")
		for i := 0; i < count-1; i++ {
			nodes = append(nodes, fmt.Sprintf("k3d-%s-agent-%d", name, i))
		}
	}

	return nodes
}

func newDeleteLifecycleConfig(cmd *cobra.Command) cmdhelpers.LifecycleConfig {
	return cmdhelpers.LifecycleConfig{
		TitleEmoji:         "🔥",
		TitleContent:       "Delete cluster...",
		ActivityContent:    "deleting cluster",
		SuccessContent:     "cluster deleted",
		ErrorMessagePrefix: "failed to delete cluster",
		Action: func(
			ctx context.Context,
			provisioner clusterprovisioner.ClusterProvisioner,
			clusterName string,
		) error {
			err := provisioner.Delete(ctx, clusterName)
			if errors.Is(err, clustererrors.ErrClusterNotFound) {
				notify.WriteMessage(notify.Message{
					Type:    notify.WarningType,
					Content: "cluster not found, nothing to delete",
					Writer:  cmd.OutOrStdout(),
				})

				return nil
			}

			return err
		},
	}
}
