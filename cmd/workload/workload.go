// Package workload provides the workload manifest and deployment commands.
package workload

import (
	"context"
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"k8s.io/client-go/kubernetes"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/kubeconform"
	"github.com/slipway-dev/slipway/pkg/client/kubectl"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/fsutil"
	"github.com/slipway-dev/slipway/pkg/k8s"
)

// ManifestValidator validates manifest files before they are applied.
type ManifestValidator interface {
	ValidateDirectory(ctx context.Context, dir string, opts *kubeconform.ValidationOptions) error
}

var (
	//nolint:gochecknoglobals // dependency injection for tests
	kubectlClientFactory = newKubectlClient
	//nolint:gochecknoglobals // protects kubectlClientFactory
	kubectlClientFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	manifestValidatorFactory = newManifestValidator
	//nolint:gochecknoglobals // protects manifestValidatorFactory
	manifestValidatorFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	statusClientsetFactory = defaultStatusClientsetFactory
	//nolint:gochecknoglobals // protects statusClientsetFactory
	statusClientsetFactoryMu sync.RWMutex
)

// SetKubectlClientFactoryForTests overrides how workload commands build the
// kubectl client. It returns a restore function.
func SetKubectlClientFactoryForTests(
	factory func(pipeline *v1alpha1.Pipeline) (*kubectl.Client, error),
) func() {
	kubectlClientFactoryMu.Lock()

	previous := kubectlClientFactory
	kubectlClientFactory = factory

	kubectlClientFactoryMu.Unlock()

	return func() {
		kubectlClientFactoryMu.Lock()

		kubectlClientFactory = previous

		kubectlClientFactoryMu.Unlock()
	}
}

// SetManifestValidatorForTests overrides the manifest validator. It returns a
// restore function.
func SetManifestValidatorForTests(factory func() ManifestValidator) func() {
	manifestValidatorFactoryMu.Lock()

	previous := manifestValidatorFactory
	manifestValidatorFactory = factory

	manifestValidatorFactoryMu.Unlock()

	return func() {
		manifestValidatorFactoryMu.Lock()

		manifestValidatorFactory = previous

		manifestValidatorFactoryMu.Unlock()
	}
}

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

func currentKubectlClientFactory() func(*v1alpha1.Pipeline) (*kubectl.Client, error) {
	kubectlClientFactoryMu.RLock()
	defer kubectlClientFactoryMu.RUnlock()

	return kubectlClientFactory
}

func currentManifestValidatorFactory() func() ManifestValidator {
	manifestValidatorFactoryMu.RLock()
	defer manifestValidatorFactoryMu.RUnlock()

	return manifestValidatorFactory
}

func currentStatusClientsetFactory() func(string, string) (kubernetes.Interface, error) {
	statusClientsetFactoryMu.RLock()
	defer statusClientsetFactoryMu.RUnlock()

	return statusClientsetFactory
}

func newKubectlClient(pipeline *v1alpha1.Pipeline) (*kubectl.Client, error) {
	kubeconfig, kubeContext, err := connectionDetails(pipeline)
	if err != nil {
		return nil, err
	}

	return kubectl.NewClient(kubeconfig, kubeContext), nil
}

func newManifestValidator() ManifestValidator { //nolint:ireturn // factory seam for tests
	return kubeconform.NewClient()
}

func defaultStatusClientsetFactory(kubeconfig, context string) (kubernetes.Interface, error) {
	return k8s.NewClientset(kubeconfig, context)
}

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

// NewWorkloadCmd creates the workload command group.
func NewWorkloadCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workload",
		Short: "Generate, validate, apply, and inspect the workload manifests",
		Long: "Generate the workload's static Kubernetes manifests, validate them with " +
			"kubeconform, apply them with kubectl, and check deployment readiness.",
	}

	cmd.AddCommand(NewGenCmd(runtimeContainer))
	cmd.AddCommand(NewValidateCmd(runtimeContainer))
	cmd.AddCommand(NewApplyCmd(runtimeContainer))
	cmd.AddCommand(NewStatusCmd(runtimeContainer))

	return cmd
}
