// Package digitaloceanprovisioner provisions DigitalOcean Kubernetes (DOKS)
// clusters through the doctl CLI.
package digitaloceanprovisioner

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/doctl"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
)

// DoctlClient is the subset of the doctl client used by the provisioner.
type DoctlClient interface {
	CreateCluster(ctx context.Context, opts doctl.CreateClusterOptions) error
	DeleteCluster(ctx context.Context, name string) error
	ListClusters(ctx context.Context) ([]doctl.ClusterInfo, error)
	GetCluster(ctx context.Context, name string) (*doctl.ClusterInfo, error)
	SaveKubeconfig(ctx context.Context, name string) error
}

// Provisioner manages DOKS clusters. doctl handles the provider API; the
// provisioner only builds parameter sets and interprets results.
type Provisioner struct {
	client DoctlClient
	spec   v1alpha1.ClusterSpec
}

// NewProvisioner creates a DigitalOcean cluster provisioner.
func NewProvisioner(client DoctlClient, spec v1alpha1.ClusterSpec) *Provisioner {
	return &Provisioner{client: client, spec: spec}
}

// Create provisions a DOKS cluster and saves its kubeconfig so later pipeline
// stages can connect. Waits for the cluster to reach a running state.
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

	err = p.client.CreateCluster(ctx, doctl.CreateClusterOptions{
		Name:      target,
		Region:    p.spec.Region,
		NodeSize:  p.spec.NodeSize,
		NodeCount: p.spec.NodeCount,
		Wait:      true,
	})
	if err != nil {
		return fmt.Errorf("create DigitalOcean cluster %q: %w", target, err)
	}

	err = p.client.SaveKubeconfig(ctx, target)
	if err != nil {
		return fmt.Errorf("save kubeconfig for cluster %q: %w", target, err)
	}

	return nil
}

// Delete removes a DOKS cluster.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	target, err := p.resolveName(name)
	if err != nil {
		return err
	}

	err = p.client.DeleteCluster(ctx, target)
	if err != nil {
		if errors.Is(err, doctl.ErrClusterNotFound) {
			return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, target)
		}

		return fmt.Errorf("delete DigitalOcean cluster %q: %w", target, err)
	}

	return nil
}

// List returns the names of all DOKS clusters in the account.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	clusters, err := p.client.ListClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("list DigitalOcean clusters: %w", err)
	}

	names := make([]string, 0, len(clusters))
	for _, cluster := range clusters {
		names = append(names, cluster.Name)
	}

	return names, nil
}

// Exists checks whether the target cluster is present.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	target, err := p.resolveName(name)
	if err != nil {
		return false, err
	}

	_, err = p.client.GetCluster(ctx, target)
	if err != nil {
		if errors.Is(err, doctl.ErrClusterNotFound) {
			return false, nil
		}

		return false, fmt.Errorf("get DigitalOcean cluster %q: %w", target, err)
	}

	return true, nil
}

func (p *Provisioner) resolveName(name string) (string, error) {
	if name != "" {
		return name, nil
	}

	if p.spec.Name != "" {
		return p.spec.Name, nil
	}

	return "", clustererrors.ErrClusterNameRequired
}
