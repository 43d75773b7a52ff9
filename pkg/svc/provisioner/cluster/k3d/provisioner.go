// Package k3dprovisioner provisions local k3d clusters through the k3d v5
// Cobra commands.
package k3dprovisioner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"sync"

	clustercommand "github.com/k3d-io/k3d/v5/cmd/cluster"
	"github.com/sirupsen/logrus"
	"github.com/slipway-dev/slipway/pkg/runner"
	clustererrors "github.com/slipway-dev/slipway/pkg/svc/provisioner/cluster/errors"
	"github.com/spf13/cobra"
)

// logrusConfigOnce ensures logrus is configured exactly once. k3d logs through
// the logrus standard logger, so concurrent reconfiguration would race.
var logrusConfigOnce sync.Once //nolint:gochecknoglobals // one-time logrus setup

// Provisioner executes k3d lifecycle commands via Cobra.
type Provisioner struct {
	clusterName string
	nodeCount   int32
	runner      runner.CommandRunner

	// listRunner captures without mirroring so the JSON list output does not
	// leak into user-facing output.
	listRunner runner.CommandRunner
}

// NewProvisioner constructs a command-backed k3d provisioner streaming output
// to the given writer.
func NewProvisioner(clusterName string, nodeCount int32, output io.Writer) *Provisioner {
	logrusConfigOnce.Do(func() {
		if output != nil {
			logrus.SetOutput(output)
		}

		logrus.SetFormatter(&logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   false,
			TimestampFormat: "2006-01-02T15:04:05Z",
		})
		logrus.SetLevel(logrus.InfoLevel)
	})

	prov := NewProvisionerWithRunner(
		clusterName,
		nodeCount,
		runner.NewCobraCommandRunner(output, output),
	)
	prov.listRunner = runner.NewCobraCommandRunner(nil, nil)

	return prov
}

// NewProvisionerWithRunner constructs a provisioner with an explicit command
// runner, used by tests.
func NewProvisionerWithRunner(
	clusterName string,
	nodeCount int32,
	cmdRunner runner.CommandRunner,
) *Provisioner {
	return &Provisioner{
		clusterName: clusterName,
		nodeCount:   nodeCount,
		runner:      cmdRunner,
		listRunner:  cmdRunner,
	}
}

// Create provisions a k3d cluster with one server and the remaining
// configured nodes as agents.
func (p *Provisioner) Create(ctx context.Context, name string) error {
	target, err := p.resolveName(name)
	if err != nil {
		return err
	}

	exists, err := p.Exists(ctx, target)
	if err != nil {
		return err
	}

	if exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterAlreadyExists, target)
	}

	args := []string{"--wait"}

	if agents := p.nodeCount - 1; agents > 0 {
		args = append(args, "--agents", strconv.Itoa(int(agents)))
	}

	return p.runLifecycleCommand(
		ctx,
		clustercommand.NewCmdClusterCreate,
		args,
		target,
		"cluster create",
	)
}

// Delete removes a k3d cluster via the Cobra command.
func (p *Provisioner) Delete(ctx context.Context, name string) error {
	target, err := p.resolveName(name)
	if err != nil {
		return err
	}

	exists, err := p.Exists(ctx, target)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("%w: %s", clustererrors.ErrClusterNotFound, target)
	}

	return p.runLifecycleCommand(
		ctx,
		clustercommand.NewCmdClusterDelete,
		nil,
		target,
		"cluster delete",
	)
}

// List returns cluster names reported by the Cobra command.
func (p *Provisioner) List(ctx context.Context) ([]string, error) {
	cmd := clustercommand.NewCmdClusterList()
	args := []string{"--output", "json"}

	res, err := p.listRunner.Run(ctx, cmd, args)
	if err != nil {
		return nil, fmt.Errorf("cluster list: %w", err)
	}

	return parseClusterNames(res.Stdout)
}

// Exists returns whether the target cluster is present.
func (p *Provisioner) Exists(ctx context.Context, name string) (bool, error) {
	target, err := p.resolveName(name)
	if err != nil {
		return false, err
	}

	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}

	return slices.Contains(clusters, target), nil
}

// --- internals ---

func (p *Provisioner) runLifecycleCommand(
	ctx context.Context,
	builder func() *cobra.Command,
	args []string,
	target string,
	errorPrefix string,
) error {
	cmd := builder()
	args = append(args, target)

	_, err := p.runner.Run(ctx, cmd, args)
	if err != nil {
		return fmt.Errorf("%s: %w", errorPrefix, err)
	}

	return nil
}

func (p *Provisioner) resolveName(name string) (string, error) {
	if name != "" {
		return name, nil
	}

	if p.clusterName != "" {
		return p.clusterName, nil
	}

	return "", clustererrors.ErrClusterNameRequired
}

// parseClusterNames parses the JSON cluster list output into names.
func parseClusterNames(output string) ([]string, error) {
	if output == "" {
		return nil, nil
	}

	var entries []struct {
		Name string `json:"name"`
	}

	err := json.Unmarshal([]byte(output), &entries)
	if err != nil {
		return nil, fmt.Errorf("cluster list: parse output: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Name != "" {
			names = append(names, entry.Name)
		}
	}

	return names, nil
}
