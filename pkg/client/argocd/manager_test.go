package argocd_test

import (
	"testing"

	"github.com/slipway-dev/slipway/pkg/client/argocd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	dynamicfake "k8s.io/client-go/dynamic/fake"
	k8sfake "k8s.io/client-go/kubernetes/fake"
)

type testManager struct {
	mgr       *argocd.ManagerImpl
	clientset *k8sfake.Clientset
	dyn       *dynamicfake.FakeDynamicClient
	gvr       schema.GroupVersionResource
}

func newTestManager(t *testing.T) testManager {
	t.Helper()

	clientset := k8sfake.NewClientset()
	gvr := schema.GroupVersionResource{
		Group:    "argoproj.io",
		Version:  "v1alpha1",
		Resource: "applications",
	}
	scheme := runtime.NewScheme()
	dyn := dynamicfake.NewSimpleDynamicClientWithCustomListKinds(
		scheme,
		map[schema.GroupVersionResource]string{gvr: "ApplicationList"},
	)

	mgr := argocd.NewManager(clientset, dyn, "argocd")

	return testManager{
		mgr:       mgr,
		clientset: clientset,
		dyn:       dyn,
		gvr:       gvr,
	}
}

func ensureOptions() argocd.EnsureOptions {
	return argocd.EnsureOptions{
		RepositoryURL:        "https://github.com/slipway-dev/cutout-demo",
		ApplicationName:      "cutout-api",
		TargetRevision:       "HEAD",
		SourcePath:           "k8s",
		DestinationNamespace: "cutout",
	}
}

func secretValue(secret *corev1.Secret, key string) string {
	return secret.StringData[key]
}

func TestManagerEnsure_CreatesRepositorySecret(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	opts := ensureOptions()
	opts.Username = "ci-bot"
	opts.Password = "token"

	err := testMgr.mgr.Ensure(t.Context(), opts)
	require.NoError(t, err)

	secret, err := testMgr.clientset.CoreV1().Secrets("argocd").Get(
		t.Context(),
		"slipway-repo",
		metav1.GetOptions{},
	)
	require.NoError(t, err)
	require.Equal(t, "repository", secret.Labels["argocd.argoproj.io/secret-type"])
	require.Equal(t, "git", secretValue(secret, "type"))
	require.Equal(t, "https://github.com/slipway-dev/cutout-demo", secretValue(secret, "url"))
	require.Equal(t, "ci-bot", secretValue(secret, "username"))
	require.Equal(t, "token", secretValue(secret, "password"))
}

func TestManagerEnsure_CreatesApplication(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	err := testMgr.mgr.Ensure(t.Context(), ensureOptions())
	require.NoError(t, err)

	app, err := testMgr.dyn.Resource(testMgr.gvr).
		Namespace("argocd").
		Get(t.Context(), "cutout-api", metav1.GetOptions{})
	require.NoError(t, err)

	repoURL, _, _ := unstructured.NestedString(app.Object, "spec", "source", "repoURL")
	assert.Equal(t, "https://github.com/slipway-dev/cutout-demo", repoURL)

	path, _, _ := unstructured.NestedString(app.Object, "spec", "source", "path")
	assert.Equal(t, "k8s", path)

	destNamespace, _, _ := unstructured.NestedString(app.Object, "spec", "destination", "namespace")
	assert.Equal(t, "cutout", destNamespace)

	prune, _, _ := unstructured.NestedBool(app.Object, "spec", "syncPolicy", "automated", "prune")
	assert.True(t, prune)

	syncOptions, _, _ := unstructured.NestedSlice(app.Object, "spec", "syncPolicy", "syncOptions")
	assert.Contains(t, syncOptions, "CreateNamespace=true")
}

func TestManagerEnsure_IsIdempotent(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	require.NoError(t, testMgr.mgr.Ensure(t.Context(), ensureOptions()))
	require.NoError(t, testMgr.mgr.Ensure(t.Context(), ensureOptions()))
}

func TestManagerEnsure_RequiresRepositoryURL(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	err := testMgr.mgr.Ensure(t.Context(), argocd.EnsureOptions{})
	require.Error(t, err)
}

func TestManagerUpdateTargetRevision(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)
	require.NoError(t, testMgr.mgr.Ensure(t.Context(), ensureOptions()))

	err := testMgr.mgr.UpdateTargetRevision(t.Context(), argocd.UpdateTargetRevisionOptions{
		ApplicationName: "cutout-api",
		TargetRevision:  "v2.0.0",
		HardRefresh:     true,
	})
	require.NoError(t, err)

	app, err := testMgr.dyn.Resource(testMgr.gvr).
		Namespace("argocd").
		Get(t.Context(), "cutout-api", metav1.GetOptions{})
	require.NoError(t, err)

	revision, _, _ := unstructured.NestedString(app.Object, "spec", "source", "targetRevision")
	assert.Equal(t, "v2.0.0", revision)
	assert.Equal(t, "hard", app.GetAnnotations()["argocd.argoproj.io/refresh"])
}

func TestManagerUpdateTargetRevision_MissingApplication(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	err := testMgr.mgr.UpdateTargetRevision(t.Context(), argocd.UpdateTargetRevisionOptions{
		ApplicationName: "ghost",
		TargetRevision:  "v2",
	})
	require.Error(t, err)
}

func TestManagerDeleteApplication(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)
	require.NoError(t, testMgr.mgr.Ensure(t.Context(), ensureOptions()))

	require.NoError(t, testMgr.mgr.DeleteApplication(t.Context(), "cutout-api"))

	_, err := testMgr.dyn.Resource(testMgr.gvr).
		Namespace("argocd").
		Get(t.Context(), "cutout-api", metav1.GetOptions{})
	require.Error(t, err)

	// Deleting again is a no-op.
	require.NoError(t, testMgr.mgr.DeleteApplication(t.Context(), "cutout-api"))
}

func TestManagerGetStatus(t *testing.T) {
	t.Parallel()

	testMgr := newTestManager(t)

	// Before anything exists.
	status, err := testMgr.mgr.GetStatus(t.Context(), "cutout-api")
	require.NoError(t, err)
	assert.False(t, status.Installed)
	assert.False(t, status.ApplicationPresent)

	// After Ensure.
	require.NoError(t, testMgr.mgr.Ensure(t.Context(), ensureOptions()))

	status, err = testMgr.mgr.GetStatus(t.Context(), "cutout-api")
	require.NoError(t, err)
	assert.True(t, status.Installed)
	assert.True(t, status.ApplicationPresent)
}
