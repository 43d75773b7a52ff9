package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/pkg/k8s"
	"github.com/slipway-dev/slipway/pkg/k8s/readiness"
	"k8s.io/client-go/kubernetes"
)

// WaitForDeploymentsReady waits for the named deployments in a namespace to
// have their desired replicas available.
func WaitForDeploymentsReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	namespace string,
	deployments []string,
	timeout time.Duration,
) error {
	for _, name := range deployments {
		err := readiness.WaitForDeploymentReady(ctx, clientset, timeout, namespace, name)
		if err != nil {
			return fmt.Errorf("wait for deployment %s/%s: %w", namespace, name, err)
		}
	}

	return nil
}

// WaitForDeploymentsReadyFromKubeconfig builds a clientset from kubeconfig
// and waits for the named deployments to become ready.
func WaitForDeploymentsReadyFromKubeconfig(
	ctx context.Context,
	kubeconfig, kubecontext, namespace string,
	deployments []string,
	timeout time.Duration,
) error {
	clientset, err := k8s.NewClientset(kubeconfig, kubecontext)
	if err != nil {
		return fmt.Errorf("create kubernetes client: %w", err)
	}

	return WaitForDeploymentsReady(ctx, clientset, namespace, deployments, timeout)
}
