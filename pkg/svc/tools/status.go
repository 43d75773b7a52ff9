package tools

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ToolStatus reports whether a tool is installed and reachable.
type ToolStatus struct {
	Name string

	// Found reports whether the binary exists in the bin dir or on PATH.
	Found bool

	// Path is the resolved binary location when found.
	Path string

	// Version is the first line of the tool's version probe output.
	Version string

	// InPath reports whether the binary's directory is on PATH. A tool that
	// is installed but not on PATH still breaks the runbook's shell steps.
	InPath bool
}

// Status probes each tool descriptor and reports its installation state.
func (i *Installer) Status(ctx context.Context) []ToolStatus {
	statuses := make([]ToolStatus, 0, len(i.descriptors))

	for _, desc := range i.descriptors {
		statuses = append(statuses, i.statusOne(ctx, desc))
	}

	return statuses
}

func (i *Installer) statusOne(ctx context.Context, desc Descriptor) ToolStatus {
	status := ToolStatus{Name: desc.Name}

	path, err := exec.LookPath(desc.Name)
	if err == nil {
		status.Found = true
		status.Path = path
		status.InPath = true
	} else {
		// Not on PATH; fall back to the managed bin dir.
		candidate := filepath.Join(i.binDir, desc.Name)

		_, statErr := os.Stat(candidate)
		if statErr != nil {
			return status
		}

		status.Found = true
		status.Path = candidate
	}

	version, err := i.probeVersion(ctx, status.Path, desc)
	if err == nil {
		status.Version = version
	}

	return status
}

// PathWarning returns a hint when the bin dir is missing from PATH, empty
// otherwise.
func (i *Installer) PathWarning() string {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == i.binDir {
			return ""
		}
	}

	return strings.TrimSpace(
		"add " + i.binDir + " to PATH so installed tools resolve in new shells",
	)
}
