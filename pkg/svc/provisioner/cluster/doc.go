// Package clusterprovisioner defines the provider-agnostic cluster lifecycle
// interface and a factory that selects the right provisioner for a pipeline
// configuration.
package clusterprovisioner
