// Package cmd wires the slipway CLI root command and its command groups.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/cmd/cluster"
	"github.com/slipway-dev/slipway/cmd/gitops"
	"github.com/slipway-dev/slipway/cmd/image"
	"github.com/slipway-dev/slipway/cmd/tools"
	"github.com/slipway-dev/slipway/cmd/workload"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/ui/asciiart"
	"github.com/slipway-dev/slipway/pkg/ui/errorhandler"
)

// NewRootCmd creates the root command with version info and all subcommands.
func NewRootCmd(version, commit, date string) *cobra.Command {
	runtimeContainer := runtime.NewRuntime()

	cmd := &cobra.Command{
		Use:   "slipway",
		Short: "Slipway runs a GitOps delivery pipeline from laptop to cluster",
		Long: "Slipway turns the deploy runbook into commands: install the required CLIs, " +
			"provision a Kubernetes cluster, install the GitOps controller, build and push " +
			"the workload image, generate and apply its manifests, and keep it synced from Git.",
		RunE:         handleRootRunE,
		SilenceUsage: true,
	}

	cmd.Version = fmt.Sprintf("%s (Built on %s from Git SHA %s)", version, date, commit)

	cmd.PersistentFlags().Bool(
		cmdhelpers.TimingFlagName,
		false,
		"Show per-activity timing output",
	)

	cmd.AddCommand(tools.NewToolsCmd(runtimeContainer))
	cmd.AddCommand(cluster.NewClusterCmd(runtimeContainer))
	cmd.AddCommand(gitops.NewGitOpsCmd(runtimeContainer))
	cmd.AddCommand(image.NewImageCmd(runtimeContainer))
	cmd.AddCommand(workload.NewWorkloadCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}

// Execute runs the provided root command and normalizes errors.
func Execute(cmd *cobra.Command) error {
	executor := errorhandler.NewExecutor()

	err := executor.Execute(cmd)
	if err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func handleRootRunE(cmd *cobra.Command, _ []string) error {
	asciiart.PrintSlipwayLogo(cmd.OutOrStdout())

	// Help can not fail at runtime for a fully constructed command.
	_ = cmd.Help()

	return nil
}
