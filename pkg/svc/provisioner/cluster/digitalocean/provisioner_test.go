package digitaloceanprovisioner_test

import (
	"context"
	"errors"
	"testing"

	"github.com/slipway-dev/slipway/pkg/apis/pipeline/v1alpha1"
	"github.com/slipway-dev/slipway/pkg/client/doctl"
	digitaloceanprovisioner "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/digitalocean"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDoctl = errors.New("doctl exploded")

type fakeDoctl struct {
	clusters        map[string]doctl.ClusterInfo
	createCalls     []doctl.CreateClusterOptions
	deleteCalls     []string
	kubeconfigCalls []string
	err             error
}

func newFakeDoctl(names ...string) *fakeDoctl {
	clusters := make(map[string]doctl.ClusterInfo, len(names))
	for _, name := range names {
		clusters[name] = doctl.ClusterInfo{Name: name, Region: "fra1"}
	}

	return &fakeDoctl{clusters: clusters}
}

func (f *fakeDoctl) CreateCluster(_ context.Context, opts doctl.CreateClusterOptions) error {
	if f.err != nil {
		return f.err
	}

	f.createCalls = append(f.createCalls, opts)
	f.clusters[opts.Name] = doctl.ClusterInfo{Name: opts.Name, Region: opts.Region}

	return nil
}

func (f *fakeDoctl) DeleteCluster(_ context.Context, name string) error {
	if f.err != nil {
		return f.err
	}

	if _, ok := f.clusters[name]; !ok {
		return doctl.ErrClusterNotFound
	}

	f.deleteCalls = append(f.deleteCalls, name)
	delete(f.clusters, name)

	return nil
}

func (f *fakeDoctl) ListClusters(context.Context) ([]doctl.ClusterInfo, error) {
	if f.err != nil {
		return nil, f.err
	}

	infos := make([]doctl.ClusterInfo, 0, len(f.clusters))
	for _, info := range f.clusters {
		infos = append(infos, info)
	}

	return infos, nil
}

func (f *fakeDoctl) GetCluster(_ context.Context, name string) (*doctl.ClusterInfo, error) {
	if f.err != nil {
		return nil, f.err
	}

	info, ok := f.clusters[name]
	if !ok {
		return nil, doctl.ErrClusterNotFound
	}

	return &info, nil
}

func (f *fakeDoctl) SaveKubeconfig(_ context.Context, name string) error {
	f.kubeconfigCalls = append(f.kubeconfigCalls, name)

	return nil
}

func clusterSpec() v1alpha1.ClusterSpec {
	return v1alpha1.ClusterSpec{
		Provider:  v1alpha1.ProviderDigitalOcean,
		Name:      "cutout-cluster",
		Region:    "fra1",
		NodeSize:  "s-2vcpu-4gb",
		NodeCount: 2,
	}
}

func TestCreate_ProvisionsAndSavesKubeconfig(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl()
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	err := provisioner.Create(t.Context(), "")
	require.NoError(t, err)

	require.Len(t, fake.createCalls, 1)
	assert.Equal(t, doctl.CreateClusterOptions{
		Name:      "cutout-cluster",
		Region:    "fra1",
		NodeSize:  "s-2vcpu-4gb",
		NodeCount: 2,
		Wait:      true,
	}, fake.createCalls[0])
	assert.Equal(t, []string{"cutout-cluster"}, fake.kubeconfigCalls)
}

func TestCreate_ExistingClusterReturnsSentinel(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl("cutout-cluster")
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	err := provisioner.Create(t.Context(), "")
	require.ErrorIs(t, err, clustererrors.ErrClusterAlreadyExists)
	assert.Empty(t, fake.createCalls)
}

func TestCreate_NoNameConfigured(t *testing.T) {
	t.Parallel()

	provisioner := digitaloceanprovisioner.NewProvisioner(
		newFakeDoctl(),
		v1alpha1.ClusterSpec{},
	)

	err := provisioner.Create(t.Context(), "")
	require.ErrorIs(t, err, clustererrors.ErrClusterNameRequired)
}

func TestDelete_RemovesCluster(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl("cutout-cluster")
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	err := provisioner.Delete(t.Context(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"cutout-cluster"}, fake.deleteCalls)
}

func TestDelete_MissingClusterReturnsSentinel(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl()
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	err := provisioner.Delete(t.Context(), "ghost")
	require.ErrorIs(t, err, clustererrors.ErrClusterNotFound)
}

func TestList_ReturnsClusterNames(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl("alpha")
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	names, err := provisioner.List(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha"}, names)
}

func TestExists(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl("cutout-cluster")
	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	exists, err := provisioner.Exists(t.Context(), "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = provisioner.Exists(t.Context(), "ghost")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestExists_PropagatesErrors(t *testing.T) {
	t.Parallel()

	fake := newFakeDoctl()
	fake.err = errDoctl

	provisioner := digitaloceanprovisioner.NewProvisioner(fake, clusterSpec())

	_, err := provisioner.Exists(t.Context(), "cutout-cluster")
	require.ErrorIs(t, err, errDoctl)
}
