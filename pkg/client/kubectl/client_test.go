package kubectl_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slipway-dev/slipway/pkg/client/kubectl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	calls  [][]string
	output []byte
	err    error
}

func (f *fakeRunner) Run(_ context.Context, args ...string) ([]byte, error) {
	f.calls = append(f.calls, args)

	return f.output, f.err
}

func TestApplyKustomization(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{output: []byte("deployment.apps/cutout-api created")}
	client := kubectl.NewClientWithRunner(runner, "/tmp/kubeconfig", "do-fra1-cutout-cluster")

	output, err := client.ApplyKustomization(t.Context(), "k8s")
	require.NoError(t, err)
	assert.Contains(t, output, "created")

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{
		"apply", "-k", "k8s",
		"--kubeconfig", "/tmp/kubeconfig",
		"--context", "do-fra1-cutout-cluster",
	}, runner.calls[0])
}

func TestApplyKustomization_EmptyPath(t *testing.T) {
	t.Parallel()

	client := kubectl.NewClientWithRunner(&fakeRunner{}, "", "")

	_, err := client.ApplyKustomization(t.Context(), "")
	require.ErrorIs(t, err, kubectl.ErrPathRequired)
}

func TestApplyFile_NoConnectionFlags(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	client := kubectl.NewClientWithRunner(runner, "", "")

	_, err := client.ApplyFile(t.Context(), "k8s/application.yaml")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"apply", "-f", "k8s/application.yaml"}, runner.calls[0])
}

func TestDeleteKustomization(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	client := kubectl.NewClientWithRunner(runner, "", "")

	_, err := client.DeleteKustomization(t.Context(), "k8s")
	require.NoError(t, err)

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"delete", "-k", "k8s", "--ignore-not-found"}, runner.calls[0])
}

func TestApplyKustomization_RunnerError(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{err: errors.New("connection refused")}
	client := kubectl.NewClientWithRunner(runner, "", "")

	_, err := client.ApplyKustomization(t.Context(), "k8s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apply kustomization k8s")
}
