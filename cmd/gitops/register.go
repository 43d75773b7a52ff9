package gitops

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/argocd"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

const (
	refreshFlagName = "refresh"
	deleteFlagName  = "delete"
)

// NewRegisterCmd wires the gitops register command.
func NewRegisterCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register the Argo CD Application sync target",
		Long: "Create or update the Argo CD repository secret and Application so the " +
			"workload manifests sync from Git. Requires the ArgoCD engine.",
		SilenceUsage: true,
	}

	selectors := configmanager.DefaultGitOpsFieldSelectors()
	selectors = append(
		selectors,
		configmanager.DefaultRegistryUsernameFieldSelector(),
		configmanager.DefaultRegistryPasswordFieldSelector(),
	)

	cfgManager := configmanager.NewCommandConfigManager(cmd, selectors)

	cmd.Flags().Bool(
		refreshFlagName,
		false,
		"Update the Application target revision and request a hard refresh",
	)
	cmd.Flags().Bool(deleteFlagName, false, "Delete the Application instead of registering it")

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleRegisterRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleRegisterRunE(
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

	if pipeline.Spec.GitOps.Engine != v1alpha1.GitOpsEngineArgoCD {
		return fmt.Errorf(
			"%w: application registration requires the ArgoCD engine, got %s",
			installer.ErrEngineNotSupported,
			pipeline.Spec.GitOps.Engine,
		)
	}

	manager, err := currentArgoCDManagerFactory()(pipeline)
	if err != nil {
		return err
	}

	if tmr != nil {
		tmr.NewStage()
	}

	deleteApp, _ := cmd.Flags().GetBool(deleteFlagName)
	if deleteApp {
		return deleteApplication(cmd, manager, pipeline, tmr)
	}

	refresh, _ := cmd.Flags().GetBool(refreshFlagName)
	if refresh {
		return refreshApplication(cmd, manager, pipeline, tmr)
	}

	return registerApplication(cmd, manager, pipeline, tmr)
}

func registerApplication(
	cmd *cobra.Command,
	manager argocd.Manager,
	pipeline *v1alpha1.Pipeline,
	tmr timer.Timer,
) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Register sync target...",
		Emoji:   "🔗",
		Writer:  out,
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "ensuring Argo CD Application '%s'",
		Args:    []any{pipeline.Spec.Workload.Name},
		Writer:  out,
	})

	err := manager.Ensure(cmd.Context(), argocd.EnsureOptions{
		RepositoryURL:        pipeline.Spec.GitOps.RepoURL,
		SourcePath:           pipeline.Spec.GitOps.Path,
		ApplicationName:      pipeline.Spec.Workload.Name,
		TargetRevision:       pipeline.Spec.GitOps.TargetRevision,
		DestinationNamespace: pipeline.Spec.Workload.Namespace,
		Username:             pipeline.Spec.Registry.Username,
		Password:             pipeline.Spec.Registry.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to register sync target: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "sync target registered",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}

func refreshApplication(
	cmd *cobra.Command,
	manager argocd.Manager,
	pipeline *v1alpha1.Pipeline,
	tmr timer.Timer,
) error {
	out := cmd.OutOrStdout()

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "refreshing Application '%s' to revision '%s'",
		Args:    []any{pipeline.Spec.Workload.Name, pipeline.Spec.GitOps.TargetRevision},
		Writer:  out,
	})

	err := manager.UpdateTargetRevision(cmd.Context(), argocd.UpdateTargetRevisionOptions{
		ApplicationName: pipeline.Spec.Workload.Name,
		TargetRevision:  pipeline.Spec.GitOps.TargetRevision,
		HardRefresh:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to refresh application: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "application refreshed",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}

func deleteApplication(
	cmd *cobra.Command,
	manager argocd.Manager,
	pipeline *v1alpha1.Pipeline,
	tmr timer.Timer,
) error {
	out := cmd.OutOrStdout()

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "deleting Application '%s'",
		Args:    []any{pipeline.Spec.Workload.Name},
		Writer:  out,
	})

	err := manager.DeleteApplication(cmd.Context(), pipeline.Spec.Workload.Name)
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "application deleted",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}
