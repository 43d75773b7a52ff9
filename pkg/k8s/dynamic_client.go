package k8s

import (
	"fmt"

	"k8s.io/client-go/dynamic"
)

// NewDynamicClient creates a dynamic Kubernetes client from kubeconfig path and context.
// Dynamic clients are used for custom resources such as Argo CD Applications.
func NewDynamicClient(kubeconfig, context string) (dynamic.Interface, error) {
	restConfig, err := BuildRESTConfig(kubeconfig, context)
	if err != nil {
		return nil, fmt.Errorf("failed to build rest config: %w", err)
	}

	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	return dynamicClient, nil
}
