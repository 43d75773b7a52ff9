package readiness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
)

// pollInterval is the interval between readiness checks.
const pollInterval = 2 * time.Second

// PollForReadiness polls the condition function until it reports ready, the
// deadline passes, or the context is cancelled. The condition is invoked
// immediately before the first interval.
func PollForReadiness(
	ctx context.Context,
	deadline time.Duration,
	condition func(ctx context.Context) (bool, error),
) error {
	err := wait.PollUntilContextTimeout(ctx, pollInterval, deadline, true, condition)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", ErrTimeoutExceeded, deadline)
		}

		return fmt.Errorf("readiness polling failed: %w", err)
	}

	return nil
}
