package cluster

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/fsutil"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/k8s"
	"github.com/slipway-dev/slipway/pkg/k8s/readiness"
	"github.com/slipway-dev/slipway/pkg/notify"
)

var (
	//nolint:gochecknoglobals // dependency injection for tests
	infoClientsetFactory = defaultInfoClientsetFactory
	//nolint:gochecknoglobals // protects infoClientsetFactory
	infoClientsetFactoryMu sync.RWMutex
)

// SetInfoClientsetFactoryForTests overrides how the info command connects to
// the cluster. It returns a restore function.
func SetInfoClientsetFactoryForTests(
	factory func(kubeconfig, context string) (kubernetes.Interface, error),
) func() {
	infoClientsetFactoryMu.Lock()

	previous := infoClientsetFactory
	infoClientsetFactory = factory

	infoClientsetFactoryMu.Unlock()

	return func() {
		infoClientsetFactoryMu.Lock()

		infoClientsetFactory = previous

		infoClientsetFactoryMu.Unlock()
	}
}

func defaultInfoClientsetFactory(kubeconfig, context string) (kubernetes.Interface, error) {
	return k8s.NewClientset(kubeconfig, context)
}

// NewInfoCmd wires the cluster info command.
func NewInfoCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "info",
		Short:        "Show cluster existence and node readiness",
		Long:         "Show whether the pipeline's cluster exists and whether its nodes are ready.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleInfoRunE)

	return cmd
}

func handleInfoRunE(
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

	out := cmd.OutOrStdout()
	cluster := pipeline.Spec.Cluster

	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: fmt.Sprintf("Cluster:  %s", cluster.Name),
		Writer:  out,
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.InfoType,
		Content: fmt.Sprintf("Provider: %s", cluster.Provider.String()),
		Writer:  out,
	})

	exists, err := provisioner.Exists(cmd.Context(), cluster.Name)
	if err != nil {
		return fmt.Errorf("failed to check cluster existence: %w", err)
	}

	if !exists {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "cluster does not exist",
			Writer:  out,
		})

		return nil
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "cluster exists",
		Writer:  out,
	})

	return reportNodeReadiness(cmd, pipeline)
}

// reportNodeReadiness connects to the cluster and waits for the configured
// node count to become ready within the connection timeout. Connection
// failures are reported as warnings so the command stays usable when the
// kubeconfig entry is missing.
func reportNodeReadiness(cmd *cobra.Command, pipeline *v1alpha1.Pipeline) error {
	out := cmd.OutOrStdout()

	kubeconfig, err := fsutil.ExpandHomePath(pipeline.Spec.Connection.Kubeconfig)
	if err != nil {
		return fmt.Errorf("failed to expand kubeconfig path: %w", err)
	}

	kubeContext := pipeline.Spec.Connection.Context
	if kubeContext == "" {
		kubeContext = pipeline.Spec.Cluster.Provider.ContextName(
			pipeline.Spec.Cluster.Name,
			pipeline.Spec.Cluster.Region,
		)
	}

	infoClientsetFactoryMu.RLock()

	factory := infoClientsetFactory

	infoClientsetFactoryMu.RUnlock()

	clientset, err := factory(kubeconfig, kubeContext)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: fmt.Sprintf("could not connect to cluster: %v", err),
			Writer:  out,
		})

		return nil
	}

	err = readiness.WaitForNodesReady(
		cmd.Context(),
		clientset,
		pipeline.Spec.Connection.Timeout.Duration,
		int(pipeline.Spec.Cluster.NodeCount),
	)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: fmt.Sprintf("nodes not ready: %v", err),
			Writer:  out,
		})

		return nil
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: fmt.Sprintf("%d node(s) ready", pipeline.Spec.Cluster.NodeCount),
		Writer:  out,
	})

	return nil
}
