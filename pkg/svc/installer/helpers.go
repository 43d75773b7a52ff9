package installer

import (
	"time"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
)

// DefaultInstallTimeout is the default timeout for component installation.
const DefaultInstallTimeout = 5 * time.Minute

// GetInstallTimeout determines the timeout for component installation. Uses
// the configured connection timeout when set, otherwise DefaultInstallTimeout.
func GetInstallTimeout(pipeline *v1alpha1.Pipeline) time.Duration {
	if pipeline == nil {
		return DefaultInstallTimeout
	}

	if pipeline.Spec.Connection.Timeout.Duration > 0 {
		return pipeline.Spec.Connection.Timeout.Duration
	}

	return DefaultInstallTimeout
}
