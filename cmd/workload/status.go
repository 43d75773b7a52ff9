package workload

import (
	"fmt"

	"github.com/spf13/cobra"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/k8s/readiness"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// NewStatusCmd wires the workload status command.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Check workload deployment readiness",
		Long:         "Wait for the workload Deployment to report all replicas updated and available.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultWorkloadFieldSelectors(),
	)

	cmd.RunE = runtime.RunEWithRuntime(
		runtimeContainer,
		runtime.WithTimer(func(cmd *cobra.Command, _ runtime.Injector, tmr timer.Timer) error {
			return handleStatusRunE(cmd, cfgManager, tmr)
		}),
	)

	return cmd
}

func handleStatusRunE(
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

	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return err
	}

	clientset, err := currentStatusClientsetFactory()(kubeconfig, kubeContext)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	if tmr != nil {
		tmr.NewStage()
	}

	out := cmd.OutOrStdout()
	workload := pipeline.Spec.Workload

	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "waiting for deployment '%s/%s'",
		Args:    []any{workload.Namespace, workload.Name},
		Writer:  out,
	})

	err = readiness.WaitForDeploymentReady(
		cmd.Context(),
		clientset,
		pipeline.Spec.Connection.Timeout.Duration,
		workload.Namespace,
		workload.Name,
	)
	if err != nil {
		return fmt.Errorf("deployment not ready: %w", err)
	}

	reportPods(cmd, clientset, workload)
	reportEndpoints(cmd, clientset, workload)

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "deployment is ready",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}

func reportPods(
	cmd *cobra.Command,
	clientset kubernetes.Interface,
	workload v1alpha1.WorkloadSpec,
) {
	out := cmd.OutOrStdout()

	pods, err := clientset.CoreV1().
		Pods(workload.Namespace).
		List(cmd.Context(), metav1.ListOptions{
			LabelSelector: "app=" + workload.Name,
		})
	if err != nil || len(pods.Items) == 0 {
		return
	}

	for i := range pods.Items {
		pod := &pods.Items[i]

		notify.WriteMessage(notify.Message{
			Type:    notify.InfoType,
			Content: "pod %s: %s",
			Args:    []any{pod.Name, string(pod.Status.Phase)},
			Writer:  out,
		})
	}
}

func reportEndpoints(
	cmd *cobra.Command,
	clientset kubernetes.Interface,
	workload v1alpha1.WorkloadSpec,
) {
	out := cmd.OutOrStdout()

	endpoints, err := clientset.CoreV1().
		Endpoints(workload.Namespace).
		Get(cmd.Context(), workload.Name, metav1.GetOptions{})
	if err != nil {
		return
	}

	ready := 0
	for _, subset := range endpoints.Subsets {
		ready += len(subset.Addresses)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: "service '%s' has %d ready endpoint(s)",
		Args:    []any{workload.Name, ready},
		Writer:  out,
	})
}
