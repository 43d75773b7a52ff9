package kindprovisioner

import (
	"fmt"
	"io"

	"sigs.k8s.io/kind/pkg/cluster"
)

// KindProvider describes the subset of methods from kind's Provider used here.
type KindProvider interface {
	Create(name string, opts ...cluster.CreateOption) error
	Delete(name, kubeconfigPath string) error
	List() ([]string, error)
}

// DefaultProviderAdapter wraps the kind library's Provider so it can be
// substituted in tests.
type DefaultProviderAdapter struct {
	provider *cluster.Provider
}

var _ KindProvider = (*DefaultProviderAdapter)(nil)

// NewDefaultProviderAdapter creates a kind provider whose progress output is
// streamed to the given writer.
func NewDefaultProviderAdapter(output io.Writer) *DefaultProviderAdapter {
	return &DefaultProviderAdapter{
		provider: cluster.NewProvider(
			cluster.ProviderWithLogger(&streamLogger{writer: output}),
		),
	}
}

// Create creates a new kind cluster.
func (a *DefaultProviderAdapter) Create(name string, opts ...cluster.CreateOption) error {
	err := a.provider.Create(name, opts...)
	if err != nil {
		return fmt.Errorf("kind create: %w", err)
	}

	return nil
}

// Delete deletes a kind cluster.
func (a *DefaultProviderAdapter) Delete(name, kubeconfigPath string) error {
	err := a.provider.Delete(name, kubeconfigPath)
	if err != nil {
		return fmt.Errorf("kind delete: %w", err)
	}

	return nil
}

// List lists all kind clusters.
func (a *DefaultProviderAdapter) List() ([]string, error) {
	clusters, err := a.provider.List()
	if err != nil {
		return nil, fmt.Errorf("kind list: %w", err)
	}

	return clusters, nil
}
