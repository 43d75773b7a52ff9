package cluster_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	clusterpkg "github.com/slipway-dev/slipway/cmd/cluster"
	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/svc/installer"
	clusterprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
	"github.com/slipway-dev/slipway/pkg/ui/confirm"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

type fakeProvisioner struct {
	created   []string
	deleted   []string
	clusters  []string
	exists    bool
	createErr error
	deleteErr error
	listErr   error
	existsErr error
}

func (f *fakeProvisioner) Create(_ context.Context, name string) error {
	f.created = append(f.created, name)

	return f.createErr
}

func (f *fakeProvisioner) Delete(_ context.Context, name string) error {
	f.deleted = append(f.deleted, name)

	return f.deleteErr
}

func (f *fakeProvisioner) List(context.Context) ([]string, error) {
	return f.clusters, f.listErr
}

func (f *fakeProvisioner) Exists(context.Context, string) (bool, error) {
	return f.exists, f.existsErr
}

type fakeFactory struct {
	provisioner clusterprovisioner.ClusterProvisioner
}

func (f fakeFactory) Create( //nolint:ireturn // test double matches interface-based factory signature
	_ *v1alpha1.Pipeline,
	_ io.Writer,
) (clusterprovisioner.ClusterProvisioner, error) {
	return f.provisioner, nil
}

type fakeInstaller struct{ called bool }

func (f *fakeInstaller) Install(context.Context) error {
	f.called = true

	return nil
}

func (*fakeInstaller) Uninstall(context.Context) error { return nil }

func (*fakeInstaller) Images(context.Context) ([]string, error) { return nil, nil }

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func writeTestConfig(t *testing.T, workingDir, provider string) {
	t.Helper()

	slipwayYAML := `apiVersion: slipway.dev/v1alpha1
kind: Pipeline
spec:
  cluster:
    provider: ` + provider + `
    name: test-cluster
  connection:
    kubeconfig: ./kubeconfig
    timeout: 5s
`

	writeFile(t, workingDir, "slipway.yaml", slipwayYAML)
	writeFile(
		t,
		workingDir,
		"kubeconfig",
		"apiVersion: v1\nkind: Config\nclusters: []\ncontexts: []\nusers: []\n",
	)
}

func newTestRuntimeContainer(provisioner clusterprovisioner.ClusterProvisioner) *runtime.Runtime {
	return runtime.New(
		func(i runtime.Injector) error {
			do.Provide(i, func(runtime.Injector) (timer.Timer, error) {
				return timer.New(), nil
			})

			return nil
		},
		func(i runtime.Injector) error {
			do.Provide(i, func(runtime.Injector) (clusterprovisioner.Factory, error) {
				return fakeFactory{provisioner: provisioner}, nil
			})

			return nil
		},
	)
}

func executeCommand(t *testing.T, cmd *cobra.Command, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	var buf bytes.Buffer

	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetContext(context.Background())
	cmd.SetArgs(args)

	return &buf, cmd.Execute()
}

//nolint:paralleltest // uses t.Chdir
func TestCreate_CreatesCluster(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{}
	cmd := clusterpkg.NewCreateCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"test-cluster"}, provisioner.created)
	assert.Contains(t, buf.String(), "Create cluster...")
	assert.Contains(t, buf.String(), "cluster created")
}

//nolint:paralleltest // uses t.Chdir
func TestCreate_AlreadyExists_Succeeds(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{createErr: clustererrors.ErrClusterAlreadyExists}
	cmd := clusterpkg.NewCreateCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cluster already exists, nothing to create")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestCreate_LoadBalancerFlag_InstallsOnKind(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	fake := &fakeInstaller{}
	restore := clusterpkg.SetLoadBalancerInstallerFactoryForTests(
		func() (installer.Installer, error) {
			return fake, nil
		},
	)
	defer restore()

	cmd := clusterpkg.NewCreateCmd(newTestRuntimeContainer(&fakeProvisioner{}))

	buf, err := executeCommand(t, cmd, "--loadbalancer")
	require.NoError(t, err)

	assert.True(t, fake.called)
	assert.Contains(t, buf.String(), "Install load balancer support...")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestCreate_LoadBalancerFlag_SkippedOnDigitalOcean(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "DigitalOcean")

	factoryCalled := false
	restore := clusterpkg.SetLoadBalancerInstallerFactoryForTests(
		func() (installer.Installer, error) {
			factoryCalled = true

			return &fakeInstaller{}, nil
		},
	)
	defer restore()

	cmd := clusterpkg.NewCreateCmd(newTestRuntimeContainer(&fakeProvisioner{}))

	buf, err := executeCommand(t, cmd, "--loadbalancer")
	require.NoError(t, err)

	assert.False(t, factoryCalled)
	assert.Contains(t, buf.String(), "only applies to the Kind provider")
}

//nolint:paralleltest // uses t.Chdir
func TestDelete_Force_DeletesCluster(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{}
	cmd := clusterpkg.NewDeleteCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd, "--force")
	require.NoError(t, err)

	assert.Equal(t, []string{"test-cluster"}, provisioner.deleted)
	assert.Contains(t, buf.String(), "cluster deleted")
}

//nolint:paralleltest // uses t.Chdir
func TestDelete_NotFound_Warns(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{deleteErr: clustererrors.ErrClusterNotFound}
	cmd := clusterpkg.NewDeleteCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd, "--force")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cluster not found, nothing to delete")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestDelete_PromptDeclined_Aborts(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return true })
	defer restoreTTY()

	restoreStdin := confirm.SetStdinReaderForTests(strings.NewReader("no\n"))
	defer restoreStdin()

	provisioner := &fakeProvisioner{}
	cmd := clusterpkg.NewDeleteCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd)
	require.ErrorIs(t, err, clusterpkg.ErrDeletionAborted)

	assert.Empty(t, provisioner.deleted)
	assert.Contains(t, buf.String(), "The following resources will be deleted:")
	assert.Contains(t, buf.String(), "test-cluster")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestDelete_PromptConfirmed_Deletes(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	restoreTTY := confirm.SetTTYCheckerForTests(func() bool { return true })
	defer restoreTTY()

	restoreStdin := confirm.SetStdinReaderForTests(strings.NewReader("yes\n"))
	defer restoreStdin()

	provisioner := &fakeProvisioner{}
	cmd := clusterpkg.NewDeleteCmd(newTestRuntimeContainer(provisioner))

	_, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"test-cluster"}, provisioner.deleted)
}

//nolint:paralleltest // uses t.Chdir
func TestList_PrintsClusters(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{clusters: []string{"alpha", "beta"}}
	cmd := clusterpkg.NewListCmd(newTestRuntimeContainer(provisioner))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "alpha")
	assert.Contains(t, buf.String(), "beta")
}

//nolint:paralleltest // uses t.Chdir
func TestList_Empty(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	cmd := clusterpkg.NewListCmd(newTestRuntimeContainer(&fakeProvisioner{}))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "no clusters found")
}

//nolint:paralleltest // uses t.Chdir
func TestList_Error(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	provisioner := &fakeProvisioner{listErr: errors.New("provider unavailable")}
	cmd := clusterpkg.NewListCmd(newTestRuntimeContainer(provisioner))

	_, err := executeCommand(t, cmd)
	require.ErrorContains(t, err, "failed to list clusters")
}

//nolint:paralleltest // uses t.Chdir
func TestInfo_ClusterMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	cmd := clusterpkg.NewInfoCmd(newTestRuntimeContainer(&fakeProvisioner{exists: false}))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cluster does not exist")
}

func readyNode(name string) *corev1.Node {
	return &corev1.Node{
		ObjectMeta: metav1.ObjectMeta{Name: name},
		Status: corev1.NodeStatus{
			Conditions: []corev1.NodeCondition{
				{Type: corev1.NodeReady, Status: corev1.ConditionTrue},
			},
		},
	}
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestInfo_NodesReady(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	clientset := k8sfake.NewClientset(readyNode("node-0"), readyNode("node-1"))
	restore := clusterpkg.SetInfoClientsetFactoryForTests(
		func(string, string) (kubernetes.Interface, error) {
			return clientset, nil
		},
	)
	defer restore()

	cmd := clusterpkg.NewInfoCmd(newTestRuntimeContainer(&fakeProvisioner{exists: true}))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "cluster exists")
	assert.Contains(t, buf.String(), "node(s) ready")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestInfo_ConnectionFailure_Warns(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t, ".", "Kind")

	restore := clusterpkg.SetInfoClientsetFactoryForTests(
		func(string, string) (kubernetes.Interface, error) {
			return nil, errors.New("no such context")
		},
	)
	defer restore()

	cmd := clusterpkg.NewInfoCmd(newTestRuntimeContainer(&fakeProvisioner{exists: true}))

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "could not connect to cluster")
}

// Ensure fake types satisfy interfaces at compile time.
var (
	_ clusterprovisioner.ClusterProvisioner = (*fakeProvisioner)(nil)
	_ clusterprovisioner.Factory            = (fakeFactory{})
	_ installer.Installer                   = (*fakeInstaller)(nil)
)
