// Package cloudproviderkindinstaller runs the cloud-provider-kind controller
// as a Docker container so LoadBalancer services on kind clusters get
// addresses assigned locally.
package cloudproviderkindinstaller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	// ContainerName is the name of the cloud-provider-kind container managed
	// by slipway.
	ContainerName = "slipway-cloud-provider-kind"

	// KindNetworkName is the Docker network used by kind clusters.
	KindNetworkName = "kind"

	// Image is the pinned cloud-provider-kind controller image.
	Image = "registry.k8s.io/cloud-provider-kind/cloud-controller-manager:v0.7.0"

	dockerSocketPath = "/var/run/docker.sock"

	// cpkContainerPrefix is the prefix cloud-provider-kind uses for the
	// per-service LoadBalancer containers it spawns.
	cpkContainerPrefix = "cpk-"
)

// ContainerAPI is the subset of the Docker Engine API used by the installer.
type ContainerAPI interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
	ContainerCreate(
		ctx context.Context,
		config *container.Config,
		hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig,
		platform *ocispec.Platform,
		containerName string,
	) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ImageInspect(
		ctx context.Context,
		imageID string,
		opts ...client.ImageInspectOption,
	) (image.InspectResponse, error)
	ImagePull(
		ctx context.Context,
		refStr string,
		options image.PullOptions,
	) (io.ReadCloser, error)
	NetworkInspect(
		ctx context.Context,
		networkID string,
		options network.InspectOptions,
	) (network.Inspect, error)
	NetworkCreate(
		ctx context.Context,
		name string,
		options network.CreateOptions,
	) (network.CreateResponse, error)
}

// Installer manages the cloud-provider-kind controller container.
type Installer struct {
	dockerClient ContainerAPI
}

// NewInstaller creates a new cloud-provider-kind installer instance.
func NewInstaller(dockerClient ContainerAPI) *Installer {
	return &Installer{dockerClient: dockerClient}
}

// Install starts the cloud-provider-kind controller container if not already
// running. The controller watches all kind clusters for LoadBalancer services
// and creates forwarding containers for their traffic.
func (c *Installer) Install(ctx context.Context) error {
	running, err := c.isContainerRunning(ctx)
	if err != nil {
		return fmt.Errorf("check container status: %w", err)
	}

	if running {
		return nil
	}

	exists, err := c.containerExists(ctx)
	if err != nil {
		return fmt.Errorf("check container exists: %w", err)
	}

	if exists {
		err = c.dockerClient.ContainerStart(ctx, ContainerName, container.StartOptions{})
		if err != nil {
			return fmt.Errorf("start existing container: %w", err)
		}

		return nil
	}

	err = c.createAndStartContainer(ctx)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}

	return nil
}

// Uninstall stops and removes the controller container along with any cpk-*
// containers it created for LoadBalancer services.
func (c *Installer) Uninstall(ctx context.Context) error {
	err := c.removeContainer(ctx, ContainerName)
	if err != nil {
		return fmt.Errorf("remove controller container: %w", err)
	}

	err = c.cleanupCPKContainers(ctx)
	if err != nil {
		return fmt.Errorf("cleanup cpk containers: %w", err)
	}

	return nil
}

// Images returns the controller image.
func (c *Installer) Images(_ context.Context) ([]string, error) {
	return []string{Image}, nil
}

// --- internals ---

func (c *Installer) isContainerRunning(ctx context.Context) (bool, error) {
	containers, err := c.listContainersByName(ctx, ContainerName)
	if err != nil {
		return false, err
	}

	if len(containers) == 0 {
		return false, nil
	}

	return strings.EqualFold(containers[0].State, "running"), nil
}

func (c *Installer) containerExists(ctx context.Context) (bool, error) {
	containers, err := c.listContainersByName(ctx, ContainerName)
	if err != nil {
		return false, err
	}

	return len(containers) > 0, nil
}

func (c *Installer) listContainersByName(
	ctx context.Context,
	name string,
) ([]container.Summary, error) {
	filterArgs := filters.NewArgs()
	filterArgs.Add("name", "^/"+name+"$")

	containers, err := c.dockerClient.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("list containers: %w", err)
	}

	return containers, nil
}

func (c *Installer) createAndStartContainer(ctx context.Context) error {
	err := c.ensureImage(ctx, Image)
	if err != nil {
		return fmt.Errorf("ensure image: %w", err)
	}

	err = c.ensureKindNetwork(ctx)
	if err != nil {
		return fmt.Errorf("ensure kind network: %w", err)
	}

	containerConfig := &container.Config{
		Image: Image,
		Labels: map[string]string{
			"app.kubernetes.io/name":       "cloud-provider-kind",
			"app.kubernetes.io/managed-by": "slipway",
		},
	}

	hostConfig := &container.HostConfig{
		RestartPolicy: container.RestartPolicy{
			Name: container.RestartPolicyUnlessStopped,
		},
		Mounts: []mount.Mount{
			{
				Type:   mount.TypeBind,
				Source: dockerSocketPath,
				Target: dockerSocketPath,
			},
		},
	}

	networkConfig := &network.NetworkingConfig{
		EndpointsConfig: map[string]*network.EndpointSettings{
			KindNetworkName: {},
		},
	}

	resp, err := c.dockerClient.ContainerCreate(
		ctx,
		containerConfig,
		hostConfig,
		networkConfig,
		nil,
		ContainerName,
	)
	if err != nil {
		return fmt.Errorf("create container: %w", err)
	}

	err = c.dockerClient.ContainerStart(ctx, resp.ID, container.StartOptions{})
	if err != nil {
		return fmt.Errorf("start container: %w", err)
	}

	return nil
}

func (c *Installer) ensureImage(ctx context.Context, imageName string) error {
	_, err := c.dockerClient.ImageInspect(ctx, imageName)
	if err == nil {
		return nil
	}

	reader, err := c.dockerClient.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("pull image: %w", err)
	}

	defer func() { _ = reader.Close() }()

	// Consume pull output to complete the operation.
	_, err = io.Copy(io.Discard, reader)
	if err != nil {
		return fmt.Errorf("read pull output: %w", err)
	}

	return nil
}

func (c *Installer) ensureKindNetwork(ctx context.Context) error {
	_, err := c.dockerClient.NetworkInspect(ctx, KindNetworkName, network.InspectOptions{})
	if err == nil {
		return nil
	}

	_, err = c.dockerClient.NetworkCreate(ctx, KindNetworkName, network.CreateOptions{})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		return fmt.Errorf("create network: %w", err)
	}

	return nil
}

func (c *Installer) removeContainer(ctx context.Context, name string) error {
	containers, err := c.listContainersByName(ctx, name)
	if err != nil {
		return err
	}

	if len(containers) == 0 {
		return nil
	}

	containerID := containers[0].ID

	if strings.EqualFold(containers[0].State, "running") {
		err = c.dockerClient.ContainerStop(ctx, containerID, container.StopOptions{})
		if err != nil {
			return fmt.Errorf("stop container: %w", err)
		}
	}

	err = c.dockerClient.ContainerRemove(ctx, containerID, container.RemoveOptions{})
	if err != nil {
		return fmt.Errorf("remove container: %w", err)
	}

	return nil
}

func (c *Installer) cleanupCPKContainers(ctx context.Context) error {
	filterArgs := filters.NewArgs()
	filterArgs.Add("name", cpkContainerPrefix)

	containers, err := c.dockerClient.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return fmt.Errorf("list cpk containers: %w", err)
	}

	for _, cont := range containers {
		if strings.EqualFold(cont.State, "running") {
			_ = c.dockerClient.ContainerStop(ctx, cont.ID, container.StopOptions{})
		}

		_ = c.dockerClient.ContainerRemove(ctx, cont.ID, container.RemoveOptions{})
	}

	return nil
}
