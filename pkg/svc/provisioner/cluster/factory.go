package clusterprovisioner

import (
	"fmt"
	"io"
	"sync"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/doctl"
	digitaloceanprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/digitalocean"
	k3dprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/k3d"
	kindprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/kind"
)

// Factory creates provider-specific cluster provisioners from the pipeline
// configuration. Output from long-running provider operations is streamed to
// the given writer.
type Factory interface {
	Create(pipeline *v1alpha1.Pipeline, output io.Writer) (ClusterProvisioner, error)
}

// DefaultFactory selects the provisioner matching the configured provider.
type DefaultFactory struct{}

var _ Factory = (*DefaultFactory)(nil)

// Create selects the correct provisioner for the pipeline configuration.
func (DefaultFactory) Create(
	pipeline *v1alpha1.Pipeline,
	output io.Writer,
) (ClusterProvisioner, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline configuration is required: %w", ErrUnsupportedProvider)
	}

	spec := pipeline.Spec

	switch spec.Cluster.Provider {
	case v1alpha1.ProviderDigitalOcean:
		return digitaloceanprovisioner.NewProvisioner(
			doctl.NewClient(),
			spec.Cluster,
		), nil
	case v1alpha1.ProviderKind:
		return kindprovisioner.NewProvisioner(
			spec.Cluster.Name,
			spec.Connection.Kubeconfig,
			spec.Cluster.NodeCount,
			output,
		), nil
	case v1alpha1.ProviderK3d:
		return k3dprovisioner.NewProvisioner(
			spec.Cluster.Name,
			spec.Cluster.NodeCount,
			output,
		), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, spec.Cluster.Provider)
	}
}

var (
	factoryMu sync.Mutex
	factory   Factory = DefaultFactory{}
)

// CurrentFactory returns the active provisioner factory.
func CurrentFactory() Factory {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	return factory
}

// SetFactoryForTests swaps the active factory and returns a restore func.
func SetFactoryForTests(override Factory) func() {
	factoryMu.Lock()
	previous := factory
	factory = override
	factoryMu.Unlock()

	return func() {
		factoryMu.Lock()
		factory = previous
		factoryMu.Unlock()
	}
}
