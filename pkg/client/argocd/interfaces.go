package argocd

import "context"

// Manager ensures Argo CD GitOps resources exist and can update reconciliation
// to a new revision.
//
// Implementations are expected to be idempotent.
type Manager interface {
	Ensure(ctx context.Context, opts EnsureOptions) error
	UpdateTargetRevision(ctx context.Context, opts UpdateTargetRevisionOptions) error
	DeleteApplication(ctx context.Context, name string) error
	GetStatus(ctx context.Context, applicationName string) (Status, error)
}

// Status is a lightweight user-facing summary of Argo CD state.
type Status struct {
	// Installed indicates whether Argo CD appears installed.
	Installed bool

	// ApplicationPresent indicates whether the expected Application exists.
	ApplicationPresent bool

	// SyncStatus is the Application's reported sync status (e.g. "Synced").
	SyncStatus string

	// HealthStatus is the Application's reported health status (e.g. "Healthy").
	HealthStatus string
}
