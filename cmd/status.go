package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/spf13/cobra"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/argocd"
	cmdhelpers "github.com/slipway-dev/slipway/pkg/cmd"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/fsutil"
	"github.com/slipway-dev/slipway/pkg/io/configmanager"
	"github.com/slipway-dev/slipway/pkg/k8s"
	"github.com/slipway-dev/slipway/pkg/k8s/readiness"
	"github.com/slipway-dev/slipway/pkg/notify"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

const healthProbeTimeout = 10 * time.Second

var (
	//nolint:gochecknoglobals // dependency injection for tests
	statusClientsetFactory = defaultStatusClientsetFactory
	//nolint:gochecknoglobals // protects statusClientsetFactory
	statusClientsetFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	statusManagerFactory = newStatusManager
	//nolint:gochecknoglobals // protects statusManagerFactory
	statusManagerFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	healthProbe = defaultHealthProbe
	//nolint:gochecknoglobals // protects healthProbe
	healthProbeMu sync.RWMutex
)

// SetStatusClientsetFactoryForTests overrides how the status command connects
// to the cluster. It returns a restore function.
func SetStatusClientsetFactoryForTests(
	factory func(kubeconfig, context string) (kubernetes.Interface, error),
) func() {
	statusClientsetFactoryMu.Lock()

	previous := statusClientsetFactory
	statusClientsetFactory = factory

	statusClientsetFactoryMu.Unlock()

	return func() {
		statusClientsetFactoryMu.Lock()

		statusClientsetFactory = previous

		statusClientsetFactoryMu.Unlock()
	}
}

// SetStatusManagerFactoryForTests overrides how the status command reads the
// Argo CD Application. It returns a restore function.
func SetStatusManagerFactoryForTests(
	factory func(pipeline *v1alpha1.Pipeline) (argocd.Manager, error),
) func() {
	statusManagerFactoryMu.Lock()

	previous := statusManagerFactory
	statusManagerFactory = factory

	statusManagerFactoryMu.Unlock()

	return func() {
		statusManagerFactoryMu.Lock()

		statusManagerFactory = previous

		statusManagerFactoryMu.Unlock()
	}
}

// SetHealthProbeForTests overrides the HTTP probe used for the service
// exposure check. It returns a restore function.
func SetHealthProbeForTests(probe func(ctx context.Context, url string) error) func() {
	healthProbeMu.Lock()

	previous := healthProbe
	healthProbe = probe

	healthProbeMu.Unlock()

	return func() {
		healthProbeMu.Lock()

		healthProbe = previous

		healthProbeMu.Unlock()
	}
}

func defaultStatusClientsetFactory(kubeconfig, context string) (kubernetes.Interface, error) {
	return k8s.NewClientset(kubeconfig, context)
}

func newStatusManager(pipeline *v1alpha1.Pipeline) (argocd.Manager, error) {
	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return nil, err
	}

	manager, err := argocd.NewManagerFromKubeconfig(
		kubeconfig,
		kubeContext,
		pipeline.Spec.GitOps.Namespace,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Argo CD manager: %w", err)
	}

	return manager, nil
}

func defaultHealthProbe(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build probe request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("probe failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe failed: %w: %d", errUnexpectedProbeStatus, resp.StatusCode)
	}

	return nil
}

var errUnexpectedProbeStatus = errors.New("unexpected status code")

// connectionDetails expands the kubeconfig path and derives the context name
// from the provider when the config leaves it empty.
func connectionDetails(pipeline *v1alpha1.Pipeline) (string, string, error) {
	kubeconfig, err := fsutil.ExpandHomePath(pipeline.Spec.Connection.Kubeconfig)
	if err != nil {
		return "", "", fmt.Errorf("failed to expand kubeconfig path: %w", err)
	}

	kubeContext := pipeline.Spec.Connection.Context
	if kubeContext == "" {
		kubeContext = pipeline.Spec.Cluster.Provider.ContextName(
			pipeline.Spec.Cluster.Name,
			pipeline.Spec.Cluster.Region,
		)
	}

	return kubeconfig, kubeContext, nil
}

// NewStatusCmd wires the pipeline status command. It walks every link of the
// delivery pipeline and reports each one, turning the runbook's
// troubleshooting section into a single command.
func NewStatusCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Walk the delivery pipeline and report each link",
		Long: "Check cluster reachability, GitOps controller health, Application sync " +
			"state, workload readiness, and external service exposure. Pending or " +
			"unreachable states are reported as warnings, not failures.",
		SilenceUsage: true,
	}

	selectors := configmanager.DefaultClusterFieldSelectors()
	selectors = append(
		selectors,
		configmanager.DefaultWorkloadNameFieldSelector(),
		configmanager.DefaultWorkloadNamespaceFieldSelector(),
	)

	cfgManager := configmanager.NewCommandConfigManager(cmd, selectors)

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

	out := cmd.OutOrStdout()

	fmt.Fprintln(out)
	notify.WriteMessage(notify.Message{
		Type:    notify.TitleType,
		Content: "Pipeline status...",
		Emoji:   "🩺",
		Writer:  out,
	})

	clientset, err := statusClientset(pipeline)
	if err != nil {
		return fmt.Errorf("failed to connect to cluster: %w", err)
	}

	err = checkAPIServer(cmd, pipeline, clientset)
	if err != nil {
		return err
	}

	checkGitOpsController(cmd, pipeline, clientset)
	checkApplication(cmd, pipeline)
	checkWorkload(cmd, pipeline, clientset)
	checkServiceExposure(cmd, pipeline, clientset)

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "status check complete",
		Timer:   cmdhelpers.MaybeTimer(cmd, tmr),
		Writer:  out,
	})

	return nil
}

func statusClientset(pipeline *v1alpha1.Pipeline) (kubernetes.Interface, error) {
	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return nil, err
	}

	statusClientsetFactoryMu.RLock()

	factory := statusClientsetFactory

	statusClientsetFactoryMu.RUnlock()

	return factory(kubeconfig, kubeContext)
}

// checkAPIServer is the only check that fails the command: every later check
// needs a reachable cluster to be evaluated at all.
func checkAPIServer(
	cmd *cobra.Command,
	pipeline *v1alpha1.Pipeline,
	clientset kubernetes.Interface,
) error {
	err := readiness.WaitForAPIServerReady(
		cmd.Context(),
		clientset,
		pipeline.Spec.Connection.Timeout.Duration,
	)
	if err != nil {
		return fmt.Errorf("cluster unreachable: %w", err)
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "cluster reachable",
		Writer:  cmd.OutOrStdout(),
	})

	return nil
}

func checkGitOpsController(
	cmd *cobra.Command,
	pipeline *v1alpha1.Pipeline,
	clientset kubernetes.Interface,
) {
	out := cmd.OutOrStdout()
	namespace := pipeline.Spec.GitOps.Namespace

	deployments, err := clientset.AppsV1().
		Deployments(namespace).
		List(cmd.Context(), metav1.ListOptions{})
	if err != nil || len(deployments.Items) == 0 {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "gitops controller not installed in namespace '%s', run 'slipway gitops install'",
			Args:    []any{namespace},
			Writer:  out,
		})

		return
	}

	notReady := 0

	for i := range deployments.Items {
		deployment := &deployments.Items[i]

		desired := int32(1)
		if deployment.Spec.Replicas != nil {
			desired = *deployment.Spec.Replicas
		}

		if deployment.Status.ReadyReplicas < desired {
			notReady++
		}
	}

	if notReady > 0 {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "%d gitops controller deployment(s) not ready in namespace '%s'",
			Args:    []any{notReady, namespace},
			Writer:  out,
		})

		return
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "gitops controller ready (%d deployment(s) in namespace '%s')",
		Args:    []any{len(deployments.Items), namespace},
		Writer:  out,
	})
}

func checkApplication(cmd *cobra.Command, pipeline *v1alpha1.Pipeline) {
	out := cmd.OutOrStdout()

	statusManagerFactoryMu.RLock()

	factory := statusManagerFactory

	statusManagerFactoryMu.RUnlock()

	manager, err := factory(pipeline)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "could not read Application status: %v",
			Args:    []any{err},
			Writer:  out,
		})

		return
	}

	status, err := manager.GetStatus(cmd.Context(), pipeline.Spec.Workload.Name)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "could not read Application status: %v",
			Args:    []any{err},
			Writer:  out,
		})

		return
	}

	if !status.ApplicationPresent {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "Application '%s' not registered, run 'slipway gitops register'",
			Args:    []any{pipeline.Spec.Workload.Name},
			Writer:  out,
		})

		return
	}

	messageType := notify.SuccessType
	if status.SyncStatus != "Synced" || status.HealthStatus != "Healthy" {
		messageType = notify.WarningType
	}

	notify.WriteMessage(notify.Message{
		Type:    messageType,
		Content: "Application '%s': sync %s, health %s",
		Args:    []any{pipeline.Spec.Workload.Name, status.SyncStatus, status.HealthStatus},
		Writer:  out,
	})
}

func checkWorkload(
	cmd *cobra.Command,
	pipeline *v1alpha1.Pipeline,
	clientset kubernetes.Interface,
) {
	out := cmd.OutOrStdout()
	workload := pipeline.Spec.Workload

	err := readiness.WaitForDeploymentReady(
		cmd.Context(),
		clientset,
		pipeline.Spec.Connection.Timeout.Duration,
		workload.Namespace,
		workload.Name,
	)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "workload deployment '%s/%s' not ready: %v",
			Args:    []any{workload.Namespace, workload.Name, err},
			Writer:  out,
		})

		return
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "workload deployment '%s/%s' ready",
		Args:    []any{workload.Namespace, workload.Name},
		Writer:  out,
	})
}

// checkServiceExposure diagnoses the two load balancer conditions the runbook
// calls out: the address is still pending, or it is assigned but unreachable.
func checkServiceExposure(
	cmd *cobra.Command,
	pipeline *v1alpha1.Pipeline,
	clientset kubernetes.Interface,
) {
	out := cmd.OutOrStdout()
	workload := pipeline.Spec.Workload

	service, err := clientset.CoreV1().
		Services(workload.Namespace).
		Get(cmd.Context(), workload.Name, metav1.GetOptions{})
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type:    notify.WarningType,
			Content: "service '%s/%s' not found, run 'slipway workload apply'",
			Args:    []any{workload.Namespace, workload.Name},
			Writer:  out,
		})

		return
	}

	if service.Spec.Type != corev1.ServiceTypeLoadBalancer {
		notify.WriteMessage(notify.Message{
			Type:    notify.InfoType,
			Content: "service '%s/%s' is type %s, no external exposure to check",
			Args:    []any{workload.Namespace, workload.Name, service.Spec.Type},
			Writer:  out,
		})

		return
	}

	address := ingressAddress(service)
	if address == "" {
		reportPendingAddress(cmd, pipeline)

		return
	}

	url := fmt.Sprintf(
		"http://%s/health",
		net.JoinHostPort(address, strconv.Itoa(int(workload.Port))),
	)

	healthProbeMu.RLock()

	probe := healthProbe

	healthProbeMu.RUnlock()

	err = probe(cmd.Context(), url)
	if err != nil {
		notify.WriteMessage(notify.Message{
			Type: notify.WarningType,
			Content: "load balancer address unreachable at %s (%v), likely causes: " +
				"a firewall blocking the port, or the provider load balancer still initializing",
			Args:   []any{url, err},
			Writer: out,
		})

		return
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.SuccessType,
		Content: "workload reachable at http://%s",
		Args:    []any{net.JoinHostPort(address, strconv.Itoa(int(workload.Port)))},
		Writer:  out,
	})
}

func reportPendingAddress(cmd *cobra.Command, pipeline *v1alpha1.Pipeline) {
	provider := pipeline.Spec.Cluster.Provider

	hint := "the provider may still be allocating the load balancer IP"
	if provider.IsLocal() {
		hint = "run 'slipway cluster create --loadbalancer' to serve LoadBalancer addresses locally"
	}

	notify.WriteMessage(notify.Message{
		Type:    notify.WarningType,
		Content: "static IP assignment pending, %s",
		Args:    []any{hint},
		Writer:  cmd.OutOrStdout(),
	})
}

func ingressAddress(service *corev1.Service) string {
	for _, ingress := range service.Status.LoadBalancer.Ingress {
		if ingress.IP != "" {
			return ingress.IP
		}

		if ingress.Hostname != "" {
			return ingress.Hostname
		}
	}

	return ""
}
