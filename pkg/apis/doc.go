// Package apis provides the versioned API types for slipway resources.
//
// The pipeline types follow Kubernetes API conventions and serialize to YAML
// for the declarative slipway.yaml configuration file.
package apis
