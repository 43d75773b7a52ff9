package docker

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/docker/api/types/build"
)

var (
	// ErrContextDirRequired is returned when the build context directory is empty.
	ErrContextDirRequired = errors.New("build context directory is required")

	// ErrImageTagRequired is returned when no image tag is given.
	ErrImageTagRequired = errors.New("at least one image tag is required")
)

// BuildOptions configures an image build.
type BuildOptions struct {
	// ContextDir is the directory sent to the daemon as build context.
	ContextDir string

	// Dockerfile is the Dockerfile path relative to the context directory.
	// Defaults to "Dockerfile" when empty.
	Dockerfile string

	// Tags are the references applied to the built image.
	Tags []string
}

// BuildImage builds an image from the context directory and tags it.
// Build output is streamed to the engine's writer.
func (e *Engine) BuildImage(ctx context.Context, opts BuildOptions) error {
	if opts.ContextDir == "" {
		return ErrContextDirRequired
	}

	if len(opts.Tags) == 0 {
		return ErrImageTagRequired
	}

	dockerfile := opts.Dockerfile
	if dockerfile == "" {
		dockerfile = "Dockerfile"
	}

	buildContext, err := tarBuildContext(opts.ContextDir)
	if err != nil {
		return fmt.Errorf("prepare build context: %w", err)
	}
	defer buildContext.Close()

	response, err := e.api.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:       opts.Tags,
		Dockerfile: dockerfile,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("build image: %w", err)
	}
	defer response.Body.Close()

	err = decodeBuildStream(response.Body, e.writer)
	if err != nil {
		return fmt.Errorf("build image: %w", err)
	}

	return nil
}

// TagImage applies an additional reference to an existing local image.
func (e *Engine) TagImage(ctx context.Context, source, target string) error {
	err := e.api.ImageTag(ctx, source, target)
	if err != nil {
		return fmt.Errorf("tag image %s as %s: %w", source, target, err)
	}

	return nil
}
