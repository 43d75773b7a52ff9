// Package installer provides functionality for installing and uninstalling
// GitOps controllers and supporting components on Kubernetes clusters.
package installer
