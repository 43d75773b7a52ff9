package v1alpha1

import (
	"fmt"
	"regexp"
)

// clusterNameRegex matches DNS-1123 subdomain names: lowercase alphanumeric with optional hyphens.
// Must start with a letter, end with alphanumeric, and be at most 63 characters.
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/names/#dns-subdomain-names
var clusterNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*[a-z0-9]$|^[a-z]$`)

// ClusterNameMaxLength is the maximum length for a cluster name.
const ClusterNameMaxLength = 63

// ValidProviders returns supported provider values.
func ValidProviders() []Provider {
	return []Provider{ProviderDigitalOcean, ProviderKind, ProviderK3d}
}

// ValidGitOpsEngines enumerates supported GitOps engine values.
func ValidGitOpsEngines() []GitOpsEngine {
	return []GitOpsEngine{GitOpsEngineArgoCD, GitOpsEngineFlux}
}

// ValidateClusterName validates that a cluster name is DNS-1123 compliant.
// Cluster names end up in Docker container names, kubeconfig contexts, and
// cloud API calls, all of which require DNS-1123 subdomain names.
//
// Returns nil if the name is valid, or an error describing the validation failure.
func ValidateClusterName(name string) error {
	if name == "" {
		return nil // Empty names are allowed (means use default)
	}

	if len(name) > ClusterNameMaxLength {
		return fmt.Errorf(
			"%w: %q exceeds max %d characters (got %d)",
			ErrClusterNameTooLong, name, ClusterNameMaxLength, len(name),
		)
	}

	if !clusterNameRegex.MatchString(name) {
		return fmt.Errorf(
			"%w: %q must be DNS-1123 compliant "+
				"(lowercase letters, numbers, and hyphens; must start with a letter; "+
				"must not end with a hyphen)",
			ErrClusterNameInvalid, name,
		)
	}

	return nil
}

// ValidatePort validates that a port is within the valid TCP range.
func ValidatePort(port int32) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, port)
	}

	return nil
}

// Validate checks the pipeline spec for invalid values. It returns the first
// validation failure encountered, or nil when the spec is valid.
func (p *Pipeline) Validate() error {
	if !p.Spec.Cluster.Provider.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidProvider, p.Spec.Cluster.Provider)
	}

	if !p.Spec.GitOps.Engine.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidGitOpsEngine, p.Spec.GitOps.Engine)
	}

	err := ValidateClusterName(p.Spec.Cluster.Name)
	if err != nil {
		return err
	}

	if p.Spec.Cluster.NodeCount < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidNodeCount, p.Spec.Cluster.NodeCount)
	}

	for _, port := range []int32{p.Spec.Workload.Port, p.Spec.Workload.TargetPort} {
		err := ValidatePort(port)
		if err != nil {
			return err
		}
	}

	return nil
}

// ValidateForPush checks the parts of the spec an image push depends on.
// The full Validate rules apply as well; this adds push-specific requirements.
func (p *Pipeline) ValidateForPush() error {
	if p.Spec.Registry.Repository == "" {
		return ErrRepositoryRequired
	}

	return nil
}
