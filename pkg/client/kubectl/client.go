// Package kubectl wraps the kubectl CLI for applying and deleting manifests.
package kubectl

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

const binaryName = "kubectl"

// ErrPathRequired is returned when a manifest path is required but empty.
var ErrPathRequired = errors.New("manifest path is required")

// Runner executes the kubectl binary. It exists so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binaryName, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf(
			"kubectl %s: %w\n%s",
			strings.Join(args, " "),
			err,
			string(output),
		)
	}

	return output, nil
}

// Client provides manifest apply and delete operations via the kubectl CLI.
type Client struct {
	runner Runner

	// Kubeconfig is an optional explicit kubeconfig path.
	Kubeconfig string

	// Context is an optional kubeconfig context name.
	Context string
}

// NewClient creates a kubectl client that executes the kubectl binary on PATH.
func NewClient(kubeconfig, context string) *Client {
	return &Client{
		runner:     execRunner{},
		Kubeconfig: kubeconfig,
		Context:    context,
	}
}

// NewClientWithRunner creates a kubectl client with a custom runner.
//
// This is the primary constructor for unit tests.
func NewClientWithRunner(runner Runner, kubeconfig, context string) *Client {
	return &Client{
		runner:     runner,
		Kubeconfig: kubeconfig,
		Context:    context,
	}
}

// ApplyKustomization applies the kustomization rooted at dir.
func (c *Client) ApplyKustomization(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		return "", ErrPathRequired
	}

	output, err := c.runner.Run(ctx, c.withConnectionFlags("apply", "-k", dir)...)
	if err != nil {
		return string(output), fmt.Errorf("apply kustomization %s: %w", dir, err)
	}

	return string(output), nil
}

// ApplyFile applies a single manifest file.
func (c *Client) ApplyFile(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "", ErrPathRequired
	}

	output, err := c.runner.Run(ctx, c.withConnectionFlags("apply", "-f", path)...)
	if err != nil {
		return string(output), fmt.Errorf("apply manifest %s: %w", path, err)
	}

	return string(output), nil
}

// DeleteKustomization deletes the resources of the kustomization rooted at dir.
// Missing resources are ignored so deletion is idempotent.
func (c *Client) DeleteKustomization(ctx context.Context, dir string) (string, error) {
	if dir == "" {
		return "", ErrPathRequired
	}

	args := c.withConnectionFlags("delete", "-k", dir, "--ignore-not-found")

	output, err := c.runner.Run(ctx, args...)
	if err != nil {
		return string(output), fmt.Errorf("delete kustomization %s: %w", dir, err)
	}

	return string(output), nil
}

// Version returns the kubectl client version, used for tool status reporting.
func (c *Client) Version(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "version", "--client", "--output", "yaml")
	if err != nil {
		return "", fmt.Errorf("kubectl version: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// withConnectionFlags appends kubeconfig and context flags when configured.
func (c *Client) withConnectionFlags(args ...string) []string {
	if c.Kubeconfig != "" {
		args = append(args, "--kubeconfig", c.Kubeconfig)
	}

	if c.Context != "" {
		args = append(args, "--context", c.Context)
	}

	return args
}
