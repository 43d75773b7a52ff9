// Package pipeline provides pipeline configuration API types.
//
// This package contains versioned API types for Slipway pipeline configuration:
//
//   - v1alpha1: Current API version for pipeline configuration
//
// The pipeline types define the declarative configuration format used
// in slipway.yaml files.
package pipeline
