package argocd

// EnsureOptions configures how slipway ensures Argo CD resources.
type EnsureOptions struct {
	// RepositoryURL is the Git repository URL Argo CD syncs from.
	RepositoryURL string

	// SourcePath is the path inside the repository to the kustomization root.
	// If empty, defaults to "k8s".
	SourcePath string

	// ApplicationName is the Argo CD Application name.
	ApplicationName string

	// TargetRevision is the revision to track (branch, tag, or commit).
	TargetRevision string

	// DestinationNamespace is the namespace the workload deploys into.
	DestinationNamespace string

	// Username for repository authentication (optional, for private repositories).
	Username string

	// Password for repository authentication (optional, for private repositories).
	Password string
}

// UpdateTargetRevisionOptions configures how slipway moves an Application to a
// new revision.
type UpdateTargetRevisionOptions struct {
	ApplicationName string
	TargetRevision  string

	// HardRefresh requests Argo CD to refresh caches when updating revision.
	HardRefresh bool
}
