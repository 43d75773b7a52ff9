// Package docker builds and pushes the workload image through the Docker
// engine API.
package docker

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
)

// ErrAPIClientNil is returned when the engine API client is nil.
var ErrAPIClientNil = errors.New("docker API client cannot be nil")

// ImageAPI is the subset of the Docker engine API slipway uses.
type ImageAPI interface {
	ImageBuild(
		ctx context.Context,
		buildContext io.Reader,
		options build.ImageBuildOptions,
	) (build.ImageBuildResponse, error)
	ImagePush(
		ctx context.Context,
		image string,
		options image.PushOptions,
	) (io.ReadCloser, error)
	ImageTag(ctx context.Context, source, target string) error
}

// GetDockerClient creates a Docker client using environment configuration.
func GetDockerClient() (client.APIClient, error) {
	dockerClient, err := client.NewClientWithOpts(
		client.FromEnv,
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return dockerClient, nil
}

// Engine provides image build and push operations on top of the Docker
// engine API.
type Engine struct {
	api    ImageAPI
	writer io.Writer
}

// NewEngine creates an Engine backed by the local Docker daemon.
func NewEngine(writer io.Writer) (*Engine, error) {
	apiClient, err := GetDockerClient()
	if err != nil {
		return nil, err
	}

	return NewEngineWithAPI(apiClient, writer)
}

// NewEngineWithAPI creates an Engine with a custom API client.
//
// This is the primary constructor for unit tests.
func NewEngineWithAPI(api ImageAPI, writer io.Writer) (*Engine, error) {
	if api == nil {
		return nil, ErrAPIClientNil
	}

	if writer == nil {
		writer = io.Discard
	}

	return &Engine{api: api, writer: writer}, nil
}
