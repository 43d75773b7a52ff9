// Package kindprovisioner provisions local kind clusters through the kind
// provider Go API.
package kindprovisioner

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/slipway-dev/slipway/pkg/fsutil"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
	"sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/kind/pkg/cluster"
)

// Provisioner manages kind clusters through the injected provider.
type Provisioner struct {
	clusterName string
	kubeconfig  string
	nodeCount   int32
	provider    KindProvider
}

// NewProvisioner creates a kind cluster provisioner streaming progress to the
// given writer.
func NewProvisioner(
	clusterName, kubeconfig string,
	nodeCount int32,
	output io.Writer,
) *Provisioner {
	return NewProvisionerWithProvider(
		clusterName,
		kubeconfig,
		nodeCount,
		NewDefaultProviderAdapter(output),
	)
}

// NewProvisionerWithProvider creates a provisioner with an explicit provider,
// used by tests.
func NewProvisionerWithProvider(
	clusterName, kubeconfig string,
	nodeCount int32,
	provider KindProvider,
) *Provisioner {
	return &Provisioner{
		clusterName: clusterName,
		kubeconfig:  kubeconfig,
		nodeCount:   nodeCount,
		provider:    provider,
	}
}

// Create creates a kind cluster with one control plane and the remaining
// configured nodes as workers.
func (p *Provisioner) Create(ctx context.Context, name string) error {
	target, err := p.resolveName(name)
	if err != nil {
		return err
	}

	exists, err := p.Exists(ctx, target)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterAlreadyExists, target)
	}

	opts := []cluster.CreateOption{
		cluster.CreateWithV1Alpha4Config(p.clusterConfig()),
	}

	kubeconfigPath, err := p.kubeconfigPath()
	if err != nil {
		return err
	}

	if kubeconfigPath != "" {
		opts = append(opts, cluster.CreateWithKubeconfigPath(kubeconfigPath))
	}

	err = p.provider.Create(target, opts...)
	if err != nil {
		return fmt.Errorf("create kind cluster %q: %w", target, err)
	}

	return nil
}

// Delete deletes a kind cluster.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	target, err := p.resolveName(name)
	if err != nil {
		return err
	}

	exists, err := p.Exists(ctx, target)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, target)
	}

	kubeconfigPath, err := p.kubeconfigPath()
	if err != nil {
		return err
	}

	err = p.provider.Delete(target, kubeconfigPath)
	if err != nil {
		return fmt.Errorf("delete kind cluster %q: %w", target, err)
	}

	return nil
}

// List returns all kind clusters.
func (p *Provisioner) List(_ context.Context) ([]string, error) {
	clusters, err := p.provider.List()
	if err != nil {
		return nil, fmt.Errorf("list kind clusters: %w", err)
	}

	return clusters, nil
}

// Exists checks if a kind cluster exists.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	target, err := p.resolveName(name)
	if err != nil {
		return false, err
	}

	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, target), nil
}

func (p *Provisioner) clusterConfig() *v1alpha4.Cluster {
	nodes := []v1alpha4.Node{{Role: v1alpha4.ControlPlaneRole}}

	for workers := p.nodeCount - 1; workers > 0; workers-- {
		nodes = append(nodes, v1alpha4.Node{Role: v1alpha4.WorkerRole})
	}

	return &v1alpha4.Cluster{Nodes: nodes}
}

func (p *Provisioner) kubeconfigPath() (string, error) {
	if p.kubeconfig == "" {
		return "", nil
	}

	path, err := fsutil.ExpandHomePath(p.kubeconfig)
	if err != nil {
		return "", fmt.Errorf("expand kubeconfig path: %w", err)
	}

	return path, nil
}

func (p *Provisioner) resolveName(name string) (string, error) {
	if name != "" {
		return name, nil
	}

	if p.clusterName != "" {
		return p.clusterName, nil
	}

	return "", clustererrors.ErrClusterNameRequired
}
