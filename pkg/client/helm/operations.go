package helm

import (
	"context"
	"fmt"
	"time"

	"github.com/slipway-dev/slipway/pkg/client/netretry"
)

const (
	// contextTimeoutBuffer is added to the Helm timeout so the Go context does
	// not cancel while Helm's status watcher wait is still running.
	contextTimeoutBuffer = 5 * time.Minute

	// Transient 429/5xx errors occur when chart registries are under load.
	chartInstallMaxRetries    = 5
	chartInstallRetryBaseWait = 3 * time.Second
	chartInstallRetryMaxWait  = 30 * time.Second
)

// InstallOrUpgradeWithRetry installs or upgrades a chart, retrying on
// transient network errors.
func InstallOrUpgradeWithRetry(
	ctx context.Context,
	client Interface,
	spec *ChartSpec,
) error {
	timeout := spec.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout+contextTimeoutBuffer)
	defer cancel()

	var lastErr error

	for attempt := 1; attempt <= chartInstallMaxRetries; attempt++ {
		_, lastErr = client.InstallOrUpgradeChart(timeoutCtx, spec)
		if lastErr == nil {
			return nil
		}

		if !netretry.IsRetryable(lastErr) || attempt == chartInstallMaxRetries {
			break
		}

		delay := netretry.ExponentialDelay(
			attempt,
			chartInstallRetryBaseWait,
			chartInstallRetryMaxWait,
		)

		timer := time.NewTimer(delay)
		select {
		case <-timeoutCtx.Done():
			if !timer.Stop() {
				<-timer.C
			}

			return fmt.Errorf("chart install retry cancelled: %w", timeoutCtx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed to install %s chart: %w", spec.ChartName, lastErr)
}
