package cluster

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	dockerclient "github.com/slipway-dev/slipway/pkg/client/docker"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
	cloudproviderkindinstaller "github.com/slipway-dev/slipway/pkg/svc/installer/cloudproviderkind"
	clusterprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
)

const loadBalancerFlagName = "loadbalancer"

var (
	// loadBalancerInstallerFactory is overridden in tests to stub the
	// cloud-provider-kind installer.
	//nolint:gochecknoglobals // dependency injection for tests
	loadBalancerInstallerFactory = newLoadBalancerInstaller
	//nolint:gochecknoglobals // protects loadBalancerInstallerFactory
	loadBalancerInstallerFactoryMu sync.RWMutex
)

// SetLoadBalancerInstallerFactoryForTests overrides the cloud-provider-kind
// installer factory. It returns a restore function.
func SetLoadBalancerInstallerFactoryForTests(
	factory func() (installer.Installer, error),
) func() {
	loadBalancerInstallerFactoryMu.Lock()

	previous := loadBalancerInstallerFactory
	loadBalancerInstallerFactory = factory

	loadBalancerInstallerFactoryMu.Unlock()

	return func() {
		loadBalancerInstallerFactoryMu.Lock()

		loadBalancerInstallerFactory = previous

		loadBalancerInstallerFactoryMu.Unlock()
	}
}

func newLoadBalancerInstaller() (installer.Installer, error) {
	dockerAPI, err := dockerclient.GetDockerClient()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Docker: %w", err)
	}

	return cloudproviderkindinstaller.NewInstaller(dockerAPI), nil
}

// NewCreateCmd wires the cluster create command.
func NewCreateCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "create",
		Short:        "Create the pipeline's cluster",
		Long:         "Create the Kubernetes cluster defined by the pipeline configuration.",
		SilenceUsage: true,
	}

	cfgManager := configmanager.NewCommandConfigManager(
		cmd,
		configmanager.DefaultClusterFieldSelectors(),
	)

	cmd.Flags().Bool(
		loadBalancerFlagName,
		false,
		"Run cloud-provider-kind so LoadBalancer services get addresses (kind only)",
	)

	cmd.RunE = cmdhelpers.WrapLifecycleHandler(runtimeContainer, cfgManager, handleCreateRunE)

	return cmd
}

func handleCreateRunE(
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

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	err = cmdhelpers.RunLifecycleWithConfig(cmd, deps, newCreateLifecycleConfig(cmd), pipeline)
	if err != nil {
		return err
	}

	return maybeInstallLoadBalancer(cmd, pipeline, deps)
}

func newCreateLifecycleConfig(cmd *cobra.Command) cmdhelpers.LifecycleConfig {
	return cmdhelpers.LifecycleConfig{
		TitleEmoji:         "🚀",
		TitleContent:       "Create cluster...",
		ActivityContent:    "creating cluster",
		SuccessContent:     "cluster created",
		ErrorMessagePrefix: "failed to create cluster",
		Action: func(
			ctx context.Context,
			provisioner clusterprovisioner.ClusterProvisioner,
			clusterName string,
		) error {
			err := provisioner.Create(ctx, clusterName)
			if errors.Is(err, clustererrors.ErrClusterAlreadyExists) {
				notify.WriteMessage(notify.Message{
					Type:    notify.ActivityType,
					Content: "cluster already exists, nothing to create",
					Writer:  cmd.OutOrStdout(),
				})

				return nil
			}

			return err
		},
	}
}

// maybeInstallLoadBalancer runs cloud-provider-kind when requested so kind
// LoadBalancer services receive reachable addresses.
func maybeInstallLoadBalancer(
	cmd *cobra.Command,
	pipeline *v1alpha1.Pipeline,
	deps cmdhelpers.LifecycleDeps,
) error {
	enabled, err := cmd.Flags().GetBool(loadBalancerFlagName)
	if err != nil || !enabled {
		return nil
	}

	if pipeline.Spec.Cluster.Provider != v1alpha1.ProviderKind {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "--loadbalancer only applies to the Kind provider, skipping",
			Writer:  cmd.OutOrStdout(),
		})

		return nil
	}

	if deps.Timer != nil {
		deps.Timer.NewStage()
	}

	cmd.Println()
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Install load balancer support...",
		Emoji:   "⚖️",
		Writer:  cmd.OutOrStdout(),
	})
	notify.WriteMessage(notify.Message{
		Type:    notify.ActivityType,
		Content: "starting cloud-provider-kind",
		Writer:  cmd.OutOrStdout(),
	})

	loadBalancerInstallerFactoryMu.RLock()

	factory := loadBalancerInstallerFactory

	loadBalancerInstallerFactoryMu.RUnlock()

	lbInstaller, err := factory()
	if err != nil {
		return err
	}

	err = lbInstaller.Install(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to start cloud-provider-kind: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "load balancer support installed",
		Timer:   cmdhelpers.MaybeTimer(cmd, deps.Timer),
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}
