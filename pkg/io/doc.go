// Package io provides configuration-oriented input and output utilities.
//
// Subpackages:
//   - configmanager: pipeline configuration loading with flag, env, and file binding
//   - generator: Kubernetes manifest generation for the workload and its Application
//   - marshaller: YAML serialization helpers shared by the generators
package io
