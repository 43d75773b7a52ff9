package image_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/docker/docker/api/types/build"
	dockerimage "github.com/docker/docker/api/types/image"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	imagepkg "github.com/slipway-dev/slipway/cmd/image"
	"github.com/slipway-dev/slipway/pkg/client/docker"
	"github.com/slipway-dev/slipway/pkg/client/registry"
	runtime "github.com/slipway-dev/slipway/pkg/di"
	"github.com/slipway-dev/slipway/pkg/ui/timer"
)

type fakeImageAPI struct {
	builtTags  []string
	dockerfile string
	pushed     []string
}

func (f *fakeImageAPI) ImageBuild(
	_ context.Context,
	buildContext io.Reader,
	options build.ImageBuildOptions,
) (build.ImageBuildResponse, error) {
	_, _ = io.Copy(io.Discard, buildContext)
	f.builtTags = append(f.builtTags, options.Tags...)
	f.dockerfile = options.Dockerfile

	stream := `{"stream":"Step 1/1 : FROM scratch\n"}`

	return build.ImageBuildResponse{Body: io.NopCloser(strings.NewReader(stream))}, nil
}

func (f *fakeImageAPI) ImagePush(
	_ context.Context,
	image string,
	_ dockerimage.PushOptions,
) (io.ReadCloser, error) {
	f.pushed = append(f.pushed, image)

	return io.NopCloser(strings.NewReader(`{"status":"pushed"}`)), nil
}

func (*fakeImageAPI) ImageTag(context.Context, string, string) error { return nil }

type fakeVerifier struct {
	accessErr     error
	exists        bool
	verifyCalled  bool
	existsCalled  bool
	verifyOptions registry.Options
}

func (f *fakeVerifier) VerifyAccess(_ context.Context, opts registry.Options) error {
	f.verifyCalled = true
	f.verifyOptions = opts

	return f.accessErr
}

func (f *fakeVerifier) ImageExists(context.Context, registry.Options) (bool, error) {
	f.existsCalled = true

	return f.exists, nil
}

func writeTestConfig(t *testing.T) {
	t.Helper()

	slipwayYAML := `apiVersion: slipway.dev/v1alpha1
kind: Pipeline
spec:
  registry:
    host: registry.digitalocean.com
    repository: slipway/cutout-api
  image:
    tag: v1
    context: .
`

	require.NoError(t, os.WriteFile("slipway.yaml", []byte(slipwayYAML), 0o600))
	require.NoError(t, os.WriteFile("Dockerfile", []byte("FROM scratch\n"), 0o600))
}

func newTestRuntimeContainer() *runtime.Runtime {
	return runtime.New(func(i runtime.Injector) error {
		do.Provide(i, func(runtime.Injector) (timer.Timer, error) {
			return timer.New(), nil
		})

		return nil
	})
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

func stubEngine(t *testing.T, api *fakeImageAPI) {
	t.Helper()

	restore := imagepkg.SetDockerEngineFactoryForTests(
		func(writer io.Writer) (*docker.Engine, error) {
			return docker.NewEngineWithAPI(api, writer)
		},
	)
	t.Cleanup(restore)
}

func stubVerifier(t *testing.T, fake *fakeVerifier) {
	t.Helper()

	restore := imagepkg.SetRegistryVerifierFactoryForTests(func() registry.Verifier {
		return fake
	})
	t.Cleanup(restore)
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestBuild_BuildsTaggedImage(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t)

	api := &fakeImageAPI{}
	stubEngine(t, api)

	cmd := imagepkg.NewBuildCmd(newTestRuntimeContainer())

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Equal(t, []string{"registry.digitalocean.com/slipway/cutout-api:v1"}, api.builtTags)
	assert.Contains(t, buf.String(), "Build image...")
	assert.Contains(t, buf.String(), "image built")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestBuild_TagFlagOverridesConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t)

	api := &fakeImageAPI{}
	stubEngine(t, api)

	cmd := imagepkg.NewBuildCmd(newTestRuntimeContainer())

	_, err := executeCommand(t, cmd, "--tag", "v2")
	require.NoError(t, err)

	assert.Equal(t, []string{"registry.digitalocean.com/slipway/cutout-api:v2"}, api.builtTags)
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestPush_VerifiesThenPushes(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t)

	api := &fakeImageAPI{}
	stubEngine(t, api)

	verifier := &fakeVerifier{exists: true}
	stubVerifier(t, verifier)

	cmd := imagepkg.NewPushCmd(newTestRuntimeContainer())

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.True(t, verifier.verifyCalled)
	assert.True(t, verifier.existsCalled)
	assert.Equal(t, "registry.digitalocean.com", verifier.verifyOptions.Host)
	assert.Equal(t, []string{"registry.digitalocean.com/slipway/cutout-api:v1"}, api.pushed)
	assert.Contains(t, buf.String(), "image pushed")
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestPush_AccessDenied(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t)

	api := &fakeImageAPI{}
	stubEngine(t, api)

	verifier := &fakeVerifier{accessErr: registry.ErrRegistryPermissionDenied}
	stubVerifier(t, verifier)

	cmd := imagepkg.NewPushCmd(newTestRuntimeContainer())

	_, err := executeCommand(t, cmd)
	require.ErrorIs(t, err, registry.ErrRegistryPermissionDenied)

	assert.Empty(t, api.pushed)
}

//nolint:paralleltest // uses t.Chdir and mutates shared test hooks
func TestPush_TagNotVisible_Warns(t *testing.T) {
	t.Chdir(t.TempDir())
	writeTestConfig(t)

	api := &fakeImageAPI{}
	stubEngine(t, api)

	verifier := &fakeVerifier{exists: false}
	stubVerifier(t, verifier)

	cmd := imagepkg.NewPushCmd(newTestRuntimeContainer())

	buf, err := executeCommand(t, cmd)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "pushed tag not yet visible in the registry")
}

// Ensure fake types satisfy interfaces at compile time.
var (
	_ docker.ImageAPI   = (*fakeImageAPI)(nil)
	_ registry.Verifier = (*fakeVerifier)(nil)
)
