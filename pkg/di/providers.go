package di

import (
	"github.com/samber/do/v2"

	clusterprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

// Dependency providers.

// NewRuntime constructs the shared runtime container used by the root command
// and tests. It registers default implementations for the timer and the
// cluster provisioner factory.
func NewRuntime() *Runtime {
	return New(
		provideTimer,
		provideClusterProvisionerFactory,
	)
}

func provideTimer(i Injector) error {
	do.Provide(i, func(Injector) (timer.Timer, error) {
		return timer.New(), nil
	})

	return nil
}

func provideClusterProvisionerFactory(i Injector) error {
	do.Provide(i, func(Injector) (clusterprovisioner.Factory, error) {
		return clusterprovisioner.CurrentFactory(), nil
	})

	return nil
}
