// Package doctl wraps the DigitalOcean doctl CLI for managed Kubernetes
// cluster operations.
package doctl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// binaryName is the doctl executable looked up on PATH.
const binaryName = "doctl"

var (
	// ErrClusterNotFound is returned when the requested cluster does not exist.
	ErrClusterNotFound = errors.New("cluster not found")

	// ErrClusterNameRequired is returned when a cluster name is required but empty.
	ErrClusterNameRequired = errors.New("cluster name is required")
)

// Runner executes the doctl binary. It exists so tests can substitute a fake.
type Runner interface {
	Run(ctx context.Context, args ...string) ([]byte, error)
}

// execRunner runs doctl via os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binaryName, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("doctl %s: %w\n%s", strings.Join(args, " "), err, string(output))
	}

	return output, nil
}

// Client provides DigitalOcean Kubernetes operations via the doctl CLI.
type Client struct {
	runner Runner
}

// NewClient creates a doctl client that executes the doctl binary on PATH.
func NewClient() *Client {
	return &Client{runner: execRunner{}}
}

// NewClientWithRunner creates a doctl client with a custom runner.
//
// This is the primary constructor for unit tests.
func NewClientWithRunner(runner Runner) *Client {
	return &Client{runner: runner}
}

// ClusterInfo describes a DigitalOcean Kubernetes cluster.
type ClusterInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Region string `json:"region"`
	Status struct {
		State string `json:"state"`
	} `json:"status"`
	NodePools []struct {
		Name  string `json:"name"`
		Size  string `json:"size"`
		Count int    `json:"count"`
	} `json:"node_pools"`
}

// NodeCount returns the total node count across all node pools.
func (c *ClusterInfo) NodeCount() int {
	total := 0
	for _, pool := range c.NodePools {
		total += pool.Count
	}

	return total
}

// CreateClusterOptions configures cluster creation.
type CreateClusterOptions struct {
	Name      string
	Region    string
	NodeSize  string
	NodeCount int32

	// Wait blocks until the cluster is provisioned.
	Wait bool
}

// CreateCluster provisions a managed Kubernetes cluster.
// doctl updates the local kubeconfig with the new cluster's credentials.
func (c *Client) CreateCluster(ctx context.Context, opts CreateClusterOptions) error {
	if opts.Name == "" {
		return ErrClusterNameRequired
	}

	args := []string{
		"kubernetes", "cluster", "create", opts.Name,
		"--region", opts.Region,
		"--size", opts.NodeSize,
		"--count", strconv.Itoa(int(opts.NodeCount)),
	}
	if opts.Wait {
		args = append(args, "--wait")
	}

	_, err := c.runner.Run(ctx, args...)
	if err != nil {
		return fmt.Errorf("create cluster %s: %w", opts.Name, err)
	}

	return nil
}

// DeleteCluster tears down a managed Kubernetes cluster without prompting.
func (c *Client) DeleteCluster(ctx context.Context, name string) error {
	if name == "" {
		return ErrClusterNameRequired
	}

	_, err := c.runner.Run(ctx, "kubernetes", "cluster", "delete", name, "--force")
	if err != nil {
		if isNotFoundOutput(err.Error()) {
			return fmt.Errorf("%w: %s", ErrClusterNotFound, name)
		}

		return fmt.Errorf("delete cluster %s: %w", name, err)
	}

	return nil
}

// ListClusters returns all clusters in the account.
func (c *Client) ListClusters(ctx context.Context) ([]ClusterInfo, error) {
	output, err := c.runner.Run(ctx, "kubernetes", "cluster", "list", "--output", "json")
	if err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}

	var clusters []ClusterInfo

	err = json.Unmarshal(output, &clusters)
	if err != nil {
		return nil, fmt.Errorf("parse cluster list: %w", err)
	}

	return clusters, nil
}

// GetCluster returns a single cluster by name.
// Returns ErrClusterNotFound when no cluster with that name exists.
func (c *Client) GetCluster(ctx context.Context, name string) (*ClusterInfo, error) {
	if name == "" {
		return nil, ErrClusterNameRequired
	}

	output, err := c.runner.Run(ctx, "kubernetes", "cluster", "get", name, "--output", "json")
	if err != nil {
		if isNotFoundOutput(err.Error()) {
			return nil, fmt.Errorf("%w: %s", ErrClusterNotFound, name)
		}

		return nil, fmt.Errorf("get cluster %s: %w", name, err)
	}

	// doctl get returns a single-element array.
	var clusters []ClusterInfo

	err = json.Unmarshal(output, &clusters)
	if err != nil {
		return nil, fmt.Errorf("parse cluster %s: %w", name, err)
	}

	if len(clusters) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrClusterNotFound, name)
	}

	return &clusters[0], nil
}

// SaveKubeconfig merges the cluster's credentials into the local kubeconfig
// and switches the current context to it.
func (c *Client) SaveKubeconfig(ctx context.Context, name string) error {
	if name == "" {
		return ErrClusterNameRequired
	}

	_, err := c.runner.Run(ctx, "kubernetes", "cluster", "kubeconfig", "save", name)
	if err != nil {
		return fmt.Errorf("save kubeconfig for cluster %s: %w", name, err)
	}

	return nil
}

// RegistryLogin logs the local Docker daemon into the DigitalOcean container
// registry using the doctl-managed credentials.
func (c *Client) RegistryLogin(ctx context.Context) error {
	_, err := c.runner.Run(ctx, "registry", "login")
	if err != nil {
		return fmt.Errorf("registry login: %w", err)
	}

	return nil
}

// Version returns the doctl version string, used for tool status reporting.
func (c *Client) Version(ctx context.Context) (string, error) {
	output, err := c.runner.Run(ctx, "version")
	if err != nil {
		return "", fmt.Errorf("doctl version: %w", err)
	}

	return strings.TrimSpace(string(output)), nil
}

// isNotFoundOutput reports whether doctl output indicates a missing cluster.
func isNotFoundOutput(output string) bool {
	lower := strings.ToLower(output)

	return strings.Contains(lower, "not found") || strings.Contains(lower, "404")
}
