// Package runner executes Cobra commands from embedded CLI toolkits (kind,
// k3d) while capturing their output streams.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Result holds the captured output of a command execution.
type Result struct {
	Stdout string
	Stderr string
}

// CommandRunner runs a Cobra command with the given arguments.
type CommandRunner interface {
	Run(ctx context.Context, cmd *cobra.Command, args []string) (Result, error)
}

// CobraCommandRunner runs Cobra commands, teeing their output to the
// configured writers while also capturing it for the caller.
type CobraCommandRunner struct {
	stdout io.Writer
	stderr io.Writer
}

var _ CommandRunner = (*CobraCommandRunner)(nil)

// NewCobraCommandRunner creates a runner that mirrors command output to the
// given writers. Nil writers discard the mirrored output.
func NewCobraCommandRunner(stdout, stderr io.Writer) *CobraCommandRunner {
	return &CobraCommandRunner{stdout: stdout, stderr: stderr}
}

// Run executes the command with args and returns the captured output.
func (r *CobraCommandRunner) Run(
	ctx context.Context,
	cmd *cobra.Command,
	args []string,
) (Result, error) {
	var outBuf, errBuf bytes.Buffer

	outWriter := io.Writer(&outBuf)
	if r.stdout != nil {
		outWriter = io.MultiWriter(&outBuf, r.stdout)
	}

	errWriter := io.Writer(&errBuf)
	if r.stderr != nil {
		errWriter = io.MultiWriter(&errBuf, r.stderr)
	}

	cmd.SetOut(outWriter)
	cmd.SetErr(errWriter)
	cmd.SetArgs(args)
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(ctx)
	result := Result{Stdout: outBuf.String(), Stderr: errBuf.String()}

	if err != nil {
		return result, fmt.Errorf("execute %s: %w", cmd.Name(), err)
	}

	return result, nil
}
