// Package tools installs and inspects the third-party CLIs the pipeline
// depends on (doctl, kubectl, argocd).
package tools

import (
	"runtime"
	"strings"
)

// Descriptor describes an installable CLI tool release.
type Descriptor struct {
	// Name is the binary name the tool installs as.
	Name string

	// URLTemplate is the release download URL with {version}, {os} and
	// {arch} placeholders.
	URLTemplate string

	// ArchiveEntry names the binary inside a tar.gz release archive. Empty
	// means the download is the bare binary.
	ArchiveEntry string

	// DefaultVersion pins the release installed when no version is given.
	DefaultVersion string

	// VersionArgs probe the installed binary for its version.
	VersionArgs []string
}

// DefaultDescriptors returns the descriptors for the CLIs the runbook
// installs.
func DefaultDescriptors() []Descriptor {
	return []Descriptor{
		{
			Name:           "doctl",
			URLTemplate:    "https://github.com/digitalocean/doctl/releases/download/v{version}/doctl-{version}-{os}-{arch}.tar.gz",
			ArchiveEntry:   "doctl",
			DefaultVersion: "1.135.0",
			VersionArgs:    []string{"version"},
		},
		{
			Name:           "kubectl",
			URLTemplate:    "https://dl.k8s.io/release/v{version}/bin/{os}/{arch}/kubectl",
			DefaultVersion: "1.33.2",
			VersionArgs:    []string{"version", "--client"},
		},
		{
			Name:           "argocd",
			URLTemplate:    "https://github.com/argoproj/argo-cd/releases/download/v{version}/argocd-{os}-{arch}",
			DefaultVersion: "2.14.2",
			VersionArgs:    []string{"version", "--client", "--short"},
		},
	}
}

// DownloadURL expands the URL template for the given version and the current
// platform.
func (d Descriptor) DownloadURL(version string) string {
	if version == "" {
		version = d.DefaultVersion
	}

	replacer := strings.NewReplacer(
		"{version}", version,
		"{os}", runtime.GOOS,
		"{arch}", runtime.GOARCH,
	)

	return replacer.Replace(d.URLTemplate)
}
