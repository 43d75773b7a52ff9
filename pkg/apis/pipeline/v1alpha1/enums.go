package v1alpha1

import (
	"fmt"
	"slices"
	"strings"
)

// --- Enum Interface ---

// EnumValuer is implemented by string-based enum types to provide their valid values.
// The schema generator uses this interface to automatically discover enum constraints.
type EnumValuer interface {
	// ValidValues returns all valid string values for this enum type.
	ValidValues() []string
}

// --- Provider Types ---

// Provider defines the cluster provider options for a Slipway pipeline.
type Provider string

const (
	// ProviderDigitalOcean provisions a managed cluster via the doctl CLI.
	ProviderDigitalOcean Provider = "DigitalOcean"
	// ProviderKind provisions a local cluster with kind (Kubernetes in Docker).
	ProviderKind Provider = "Kind"
	// ProviderK3d provisions a local k3s-in-Docker cluster with k3d.
	ProviderK3d Provider = "K3d"
)

// IsLocal returns true for providers that run cluster nodes in local Docker
// containers. DigitalOcean is the managed cloud path.
func (p *Provider) IsLocal() bool {
	switch *p {
	case ProviderKind, ProviderK3d:
		return true
	case ProviderDigitalOcean:
		return false
	default:
		return false
	}
}

// ContextName returns the kubeconfig context name for a given cluster name.
// Each provider has its own context naming convention:
//   - DigitalOcean: do-<region>-<name> (written by doctl kubeconfig save)
//   - Kind: kind-<name>
//   - K3d: k3d-<name>
//
// Returns empty string if name is empty.
func (p *Provider) ContextName(clusterName, region string) string {
	if clusterName == "" {
		return ""
	}

	switch *p {
	case ProviderDigitalOcean:
		return "do-" + region + "-" + clusterName
	case ProviderKind:
		return "kind-" + clusterName
	case ProviderK3d:
		return "k3d-" + clusterName
	default:
		return ""
	}
}

// Set for Provider (pflag.Value interface).
func (p *Provider) Set(value string) error {
	for _, provider := range ValidProviders() {
		if strings.EqualFold(value, string(provider)) {
			*p = provider

			return nil
		}
	}

	return fmt.Errorf(
		"%w: %s (valid options: %s, %s, %s)",
		ErrInvalidProvider,
		value,
		ProviderDigitalOcean,
		ProviderKind,
		ProviderK3d,
	)
}

// IsValid checks if the provider value is supported.
func (p *Provider) IsValid() bool {
	return slices.Contains(ValidProviders(), *p)
}

// String returns the string representation of the Provider.
func (p *Provider) String() string {
	return string(*p)
}

// Type returns the type of the Provider.
func (p *Provider) Type() string {
	return "Provider"
}

// Default returns the default value for Provider (DigitalOcean).
func (p *Provider) Default() any {
	return ProviderDigitalOcean
}

// ValidValues returns all valid Provider values as strings.
func (p *Provider) ValidValues() []string {
	return []string{
		string(ProviderDigitalOcean),
		string(ProviderKind),
		string(ProviderK3d),
	}
}

// --- GitOps Engine Types ---

// GitOpsEngine defines the GitOps controller options for a Slipway pipeline.
type GitOpsEngine string

const (
	// GitOpsEngineArgoCD installs Argo CD and registers an Application sync target.
	GitOpsEngineArgoCD GitOpsEngine = "ArgoCD"
	// GitOpsEngineFlux installs the Flux operator (install-only; application
	// registration is Argo CD specific).
	GitOpsEngineFlux GitOpsEngine = "Flux"
)

// Set for GitOpsEngine (pflag.Value interface).
func (g *GitOpsEngine) Set(value string) error {
	for _, engine := range ValidGitOpsEngines() {
		if strings.EqualFold(value, string(engine)) {
			*g = engine

			return nil
		}
	}

	return fmt.Errorf("%w: %s (valid options: %s, %s)",
		ErrInvalidGitOpsEngine, value, GitOpsEngineArgoCD, GitOpsEngineFlux)
}

// IsValid checks if the GitOps engine value is supported.
func (g *GitOpsEngine) IsValid() bool {
	return slices.Contains(ValidGitOpsEngines(), *g)
}

// String returns the string representation of the GitOpsEngine.
func (g *GitOpsEngine) String() string {
	return string(*g)
}

// Type returns the type of the GitOpsEngine.
func (g *GitOpsEngine) Type() string {
	return "GitOpsEngine"
}

// Default returns the default value for GitOpsEngine (ArgoCD).
func (g *GitOpsEngine) Default() any {
	return GitOpsEngineArgoCD
}

// ValidValues returns all valid GitOpsEngine values as strings.
func (g *GitOpsEngine) ValidValues() []string {
	return []string{string(GitOpsEngineArgoCD), string(GitOpsEngineFlux)}
}
