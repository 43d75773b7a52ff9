// Package argocd manages the Argo CD Application and repository resources that
// keep the workload synced from Git.
package argocd

import (
	"context"
	"errors"
	"fmt"

	"github.com/slipway-dev/slipway/pkg/k8s"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

var (
	errNilContext              = errors.New("context is nil")
	errRepositoryURLRequired   = errors.New("repository url is required")
	errApplicationNameRequired = errors.New("application name is required")
)

// ManagerImpl implements the Argo CD GitOps manager.
type ManagerImpl struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	namespace string
}

var _ Manager = (*ManagerImpl)(nil)

// NewManager creates a manager using provided Kubernetes clients.
//
// This is the primary constructor for unit tests.
func NewManager(clientset kubernetes.Interface, dyn dynamic.Interface, namespace string) *ManagerImpl {
	if namespace == "" {
		namespace = "argocd"
	}

	return &ManagerImpl{clientset: clientset, dynamic: dyn, namespace: namespace}
}

// NewManagerFromKubeconfig creates a manager by building Kubernetes clients from kubeconfig.
func NewManagerFromKubeconfig(kubeconfig, context, namespace string) (*ManagerImpl, error) {
	clientset, err := k8s.NewClientset(kubeconfig, context)
	if err != nil {
		return nil, fmt.Errorf("create kubernetes client: %w", err)
	}

	dyn, err := k8s.NewDynamicClient(kubeconfig, context)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	return NewManager(clientset, dyn, namespace), nil
}

// Ensure creates or updates the Argo CD repository secret and Application.
func (m *ManagerImpl) Ensure(ctx context.Context, opts EnsureOptions) error {
	if ctx == nil {
		return errNilContext
	}

	if opts.RepositoryURL == "" {
		return errRepositoryURLRequired
	}

	err := k8s.EnsureNamespace(ctx, m.clientset, m.namespace)
	if err != nil {
		return err
	}

	err = m.upsertRepositorySecret(ctx, opts)
	if err != nil {
		return err
	}

	return m.upsertApplication(ctx, opts)
}

// UpdateTargetRevision updates the Application target revision and optionally
// requests a hard refresh.
func (m *ManagerImpl) UpdateTargetRevision(
	ctx context.Context,
	opts UpdateTargetRevisionOptions,
) error {
	if ctx == nil {
		return errNilContext
	}

	name := opts.ApplicationName
	if name == "" {
		name = defaultApplicationName
	}

	apps := m.dynamic.Resource(applicationGVR()).Namespace(m.namespace)

	obj, err := apps.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return fmt.Errorf("get Argo CD Application %s: %w", name, err)
	}

	if opts.TargetRevision != "" {
		err := unstructured.SetNestedField(
			obj.Object,
			opts.TargetRevision,
			"spec",
			"source",
			"targetRevision",
		)
		if err != nil {
			return fmt.Errorf("set Application.spec.source.targetRevision: %w", err)
		}
	}

	if opts.HardRefresh {
		annotations := obj.GetAnnotations()
		if annotations == nil {
			annotations = map[string]string{}
		}

		annotations[argoCDRefreshAnnotationKey] = argoCDHardRefreshAnnotation
		obj.SetAnnotations(annotations)
	}

	_, err = apps.Update(ctx, obj, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("update Argo CD Application %s: %w", name, err)
	}

	return nil
}

// DeleteApplication removes the Argo CD Application. A missing Application is
// not an error so teardown is idempotent.
func (m *ManagerImpl) DeleteApplication(ctx context.Context, name string) error {
	if name == "" {
		return errApplicationNameRequired
	}

	err := m.dynamic.Resource(applicationGVR()).
		Namespace(m.namespace).
		Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("delete Argo CD Application %s: %w", name, err)
	}

	return nil
}

// GetStatus reports whether Argo CD and the Application are present, plus the
// Application's sync and health state.
func (m *ManagerImpl) GetStatus(ctx context.Context, applicationName string) (Status, error) {
	if applicationName == "" {
		applicationName = defaultApplicationName
	}

	status := Status{}

	_, err := m.clientset.CoreV1().Namespaces().Get(ctx, m.namespace, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return status, nil
		}

		return status, fmt.Errorf("get namespace %s: %w", m.namespace, err)
	}

	status.Installed = true

	obj, err := m.dynamic.Resource(applicationGVR()).
		Namespace(m.namespace).
		Get(ctx, applicationName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return status, nil
		}

		return status, fmt.Errorf("get Argo CD Application %s: %w", applicationName, err)
	}

	status.ApplicationPresent = true

	syncStatus, _, _ := unstructured.NestedString(obj.Object, "status", "sync", "status")
	status.SyncStatus = syncStatus

	healthStatus, _, _ := unstructured.NestedString(obj.Object, "status", "health", "status")
	status.HealthStatus = healthStatus

	return status, nil
}

func (m *ManagerImpl) upsertRepositorySecret(ctx context.Context, opts EnsureOptions) error {
	desired := buildRepositorySecret(m.namespace, opts)
	secrets := m.clientset.CoreV1().Secrets(m.namespace)

	existing, err := secrets.Get(ctx, repositorySecretName, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			_, err = secrets.Create(ctx, desired, metav1.CreateOptions{})
			if err != nil {
				return fmt.Errorf("create repository secret: %w", err)
			}

			return nil
		}

		return fmt.Errorf("get repository secret: %w", err)
	}

	desired.ResourceVersion = existing.ResourceVersion

	_, err = secrets.Update(ctx, desired, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("update repository secret: %w", err)
	}

	return nil
}

func (m *ManagerImpl) upsertApplication(ctx context.Context, opts EnsureOptions) error {
	desired := buildApplication(m.namespace, opts)
	name := desired.GetName()
	apps := m.dynamic.Resource(applicationGVR()).Namespace(m.namespace)

	existing, err := apps.Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			_, err = apps.Create(ctx, desired, metav1.CreateOptions{})
			if err != nil {
				return fmt.Errorf("create Argo CD Application: %w", err)
			}

			return nil
		}

		return fmt.Errorf("get Argo CD Application: %w", err)
	}

	desired.SetResourceVersion(existing.GetResourceVersion())

	_, err = apps.Update(ctx, desired, metav1.UpdateOptions{})
	if err != nil {
		return fmt.Errorf("update Argo CD Application: %w", err)
	}

	return nil
}
