// Package generator defines the interface implemented by manifest generators.
package generator

// Generator is implemented by specific manifest generators (workload, argocd).
// The Options type parameter allows each implementation to define its own options structure.
type Generator[T any, Options any] interface {
	Generate(model T, opts Options) (string, error)
}
