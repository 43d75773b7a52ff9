// Package image provides the workload image build and push commands.
package image

import (
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/pkg/client/docker"
	"github.com/slipway-dev/slipway/pkg/client/registry"
	runtime "github.com/slipway-dev/slipway/pkg/di"
)

var (
	//nolint:gochecknoglobals // dependency injection for tests
	dockerEngineFactory = docker.NewEngine
	//nolint:gochecknoglobals // protects dockerEngineFactory
	dockerEngineFactoryMu sync.RWMutex

	//nolint:gochecknoglobals // dependency injection for tests
	registryVerifierFactory = registry.NewVerifier
	//nolint:gochecknoglobals // protects registryVerifierFactory
	registryVerifierFactoryMu sync.RWMutex
)

// SetDockerEngineFactoryForTests overrides how image commands connect to the
// Docker daemon. It returns a restore function.
func SetDockerEngineFactoryForTests(
	factory func(writer io.Writer) (*docker.Engine, error),
) func() {
	dockerEngineFactoryMu.Lock()

	previous := dockerEngineFactory
	dockerEngineFactory = factory

	dockerEngineFactoryMu.Unlock()

	return func() {
		dockerEngineFactoryMu.Lock()

		dockerEngineFactory = previous

		dockerEngineFactoryMu.Unlock()
	}
}

// SetRegistryVerifierFactoryForTests overrides the registry verifier. It
// returns a restore function.
func SetRegistryVerifierFactoryForTests(factory func() registry.Verifier) func() {
	registryVerifierFactoryMu.Lock()

	previous := registryVerifierFactory
	registryVerifierFactory = factory

	registryVerifierFactoryMu.Unlock()

	return func() {
		registryVerifierFactoryMu.Lock()

		registryVerifierFactory = previous

		registryVerifierFactoryMu.Unlock()
	}
}

func currentDockerEngineFactory() func(io.Writer) (*docker.Engine, error) {
	dockerEngineFactoryMu.RLock()
	defer dockerEngineFactoryMu.RUnlock()

	return dockerEngineFactory
}

func currentRegistryVerifierFactory() func() registry.Verifier {
	registryVerifierFactoryMu.RLock()
	defer registryVerifierFactoryMu.RUnlock()

	return registryVerifierFactory
}

// NewImageCmd creates the image command group.
func NewImageCmd(runtimeContainer *runtime.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "image",
		Short: "Build and push the workload container image",
		Long: "Build the workload container image from its Dockerfile and push it to the " +
			"configured registry.",
	}

	cmd.AddCommand(NewBuildCmd(runtimeContainer))
	cmd.AddCommand(NewPushCmd(runtimeContainer))

	return cmd
}
