package tools

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/slipway-dev/slipway/pkg/fsutil"
)

// DefaultBinDir is where installed binaries are placed unless overridden.
const DefaultBinDir = "~/.local/bin"

const binaryFileMode = 0o755

var (
	// ErrUnknownTool is returned when --only names a tool without a
	// descriptor.
	ErrUnknownTool = errors.New("unknown tool")

	errUnexpectedStatus = errors.New("unexpected status code")
)

// Runner executes an installed binary, separated out so tests can fake the
// verification step.
type Runner interface {
	Run(ctx context.Context, bin string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	output, err := exec.CommandContext(ctx, bin, args...).CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s %s: %w\n%s", bin, strings.Join(args, " "), err, output)
	}

	return output, nil
}

// InstallOptions configures an install run.
type InstallOptions struct {
	// Only restricts installation to the named tools. Empty installs all.
	Only []string

	// Force reinstalls tools that are already present.
	Force bool

	// Versions overrides the pinned release per tool name.
	Versions map[string]string
}

// InstallResult reports what happened for a single tool.
type InstallResult struct {
	Name    string
	Path    string
	Version string
	Skipped bool
}

// Installer downloads tool releases and places their binaries in a bin
// directory.
type Installer struct {
	binDir      string
	httpClient  *http.Client
	runner      Runner
	descriptors []Descriptor
}

// NewInstaller creates an installer targeting binDir (home-relative paths are
// expanded). An empty binDir uses DefaultBinDir.
func NewInstaller(binDir string) (*Installer, error) {
	if binDir == "" {
		binDir = DefaultBinDir
	}

	expanded, err := fsutil.ExpandHomePath(binDir)
	if err != nil {
		return nil, fmt.Errorf("expand bin dir: %w", err)
	}

	return &Installer{
		binDir:      expanded,
		httpClient:  http.DefaultClient,
		runner:      execRunner{},
		descriptors: DefaultDescriptors(),
	}, nil
}

// NewInstallerWithDeps creates an installer with explicit dependencies for
// testing.
func NewInstallerWithDeps(
	binDir string,
	httpClient *http.Client,
	runner Runner,
	descriptors []Descriptor,
) *Installer {
	return &Installer{
		binDir:      binDir,
		httpClient:  httpClient,
		runner:      runner,
		descriptors: descriptors,
	}
}

// BinDir returns the resolved installation directory.
func (i *Installer) BinDir() string {
	return i.binDir
}

// Install downloads and installs the selected tools, verifying each binary by
// running its version probe.
func (i *Installer) Install(ctx context.Context, opts InstallOptions) ([]InstallResult, error) {
	selected, err := i.selectDescriptors(opts.Only)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(i.binDir, binaryFileMode)
	if err != nil {
		return nil, fmt.Errorf("create bin dir %s: %w", i.binDir, err)
	}

	results := make([]InstallResult, 0, len(selected))

	for _, desc := range selected {
		result, err := i.installOne(ctx, desc, opts)
		if err != nil {
			return results, fmt.Errorf("install %s: %w", desc.Name, err)
		}

		results = append(results, result)
	}

	return results, nil
}

// --- internals ---

func (i *Installer) selectDescriptors(only []string) ([]Descriptor, error) {
	if len(only) == 0 {
		return i.descriptors, nil
	}

	byName := make(map[string]Descriptor, len(i.descriptors))
	for _, desc := range i.descriptors {
		byName[desc.Name] = desc
	}

	selected := make([]Descriptor, 0, len(only))

	for _, name := range only {
		desc, ok := byName[strings.TrimSpace(name)]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}

		selected = append(selected, desc)
	}

	return selected, nil
}

func (i *Installer) installOne(
	ctx context.Context,
	desc Descriptor,
	opts InstallOptions,
) (InstallResult, error) {
	target := filepath.Join(i.binDir, desc.Name)

	if !opts.Force {
		_, statErr := os.Stat(target)
		if statErr == nil {
			version, _ := i.probeVersion(ctx, target, desc)

			return InstallResult{
				Name:    desc.Name,
				Path:    target,
				Version: version,
				Skipped: true,
			}, nil
		}
	}

	binary, err := i.download(ctx, desc, opts.Versions[desc.Name])
	if err != nil {
		return InstallResult{}, err
	}

	err = os.WriteFile(target, binary, binaryFileMode)
	if err != nil {
		return InstallResult{}, fmt.Errorf("write binary %s: %w", target, err)
	}

	version, err := i.probeVersion(ctx, target, desc)
	if err != nil {
		return InstallResult{}, fmt.Errorf("verify %s: %w", desc.Name, err)
	}

	return InstallResult{Name: desc.Name, Path: target, Version: version}, nil
}

func (i *Installer) download(
	ctx context.Context,
	desc Descriptor,
	version string,
) ([]byte, error) {
	url := desc.DownloadURL(version)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create HTTP request: %w", err)
	}

	resp, err := i.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: %w %d", url, errUnexpectedStatus, resp.StatusCode)
	}

	if desc.ArchiveEntry != "" {
		return extractEntryFromTarGz(resp.Body, desc.ArchiveEntry)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxBinarySize))
	if err != nil {
		return nil, fmt.Errorf("read download: %w", err)
	}

	return content, nil
}

func (i *Installer) probeVersion(
	ctx context.Context,
	binary string,
	desc Descriptor,
) (string, error) {
	output, err := i.runner.Run(ctx, binary, desc.VersionArgs...)
	if err != nil {
		return "", err
	}

	return firstLine(string(output)), nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")

	return strings.TrimSpace(line)
}
