// Package k8s provides shared Kubernetes client helpers used by the
// provisioners, installers, and GitOps managers.
package k8s
