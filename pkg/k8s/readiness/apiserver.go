package readiness

import (
	"context"
	"time"

	"k8s.io/client-go/kubernetes"
)

// WaitForAPIServerReady waits for the Kubernetes API server to respond.
//
// The API server is polled with a ServerVersion request until it responds
// without error. This is useful after cluster provisioning when the API
// server may still be starting up.
func WaitForAPIServerReady(
	ctx context.Context,
	clientset kubernetes.Interface,
	deadline time.Duration,
) error {
	return PollForReadiness(ctx, deadline, func(_ context.Context) (bool, error) {
		// ServerVersion is a lightweight health check.
		_, err := clientset.Discovery().ServerVersion()
		if err != nil {
			return false, nil //nolint:nilerr // returning nil to continue polling
		}

		return true, nil
	})
}
