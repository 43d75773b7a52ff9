package readiness

import (
	"context"
	"time"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// WaitForDeploymentReady polls until the deployment has all desired replicas
// updated and available.
func WaitForDeploymentReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
	namespace, name string,
) error {
	return PollForReadiness(ctx, deadline, func(ctx context.Context) (bool, error) {
		deployment, err := clientset.AppsV1().
			Deployments(namespace).
			Get(ctx, name, metav1.GetOptions{})
		if err != nil {
			// The deployment may not exist yet while the GitOps controller syncs.
			return false, nil //nolint:nilerr // returning nil to continue polling
		}

		desired := int32(1)
		if deployment.Spec.Replicas != nil {
			desired = *deployment.Spec.Replicas
		}

		status := deployment.Status

		return status.ObservedGeneration >= deployment.Generation &&
			status.UpdatedReplicas >= desired &&
			status.AvailableReplicas >= desired, nil
	})
}
