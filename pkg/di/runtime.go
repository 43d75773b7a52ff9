// Package di provides the dependency injection runtime shared by the CLI
// commands and their tests.
package di

import (
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

// Injector aliases the samber/do injector so callers only import this package.
type Injector = do.Injector

// Module registers dependencies on an injector.
type Module func(Injector) error

// Runtime holds the base modules and builds a fresh injector per invocation.
type Runtime struct {
	modules []Module
}

// New creates a runtime with the given base modules.
func New(modules ...Module) *Runtime {
	return &Runtime{modules: modules}
}

// Invoke builds a fresh injector, applies the base modules followed by any
// extra modules, and runs the handler. The injector is shut down afterwards.
func (r *Runtime) Invoke(handler func(Injector) error, extra ...Module) error {
	injector := do.New()
	defer func() {
		_ = injector.Shutdown()
	}()

	all := make([]Module, 0, len(r.modules)+len(extra))
	all = append(all, r.modules...)
	all = append(all, extra...)

	for _, module := range all {
		if module == nil {
			continue
		}

		err := module(injector)
		if err != nil {
			return err
		}
	}

	return handler(injector)
}

// RunEWithRuntime adapts an injector-aware handler into a cobra RunE.
func RunEWithRuntime(
	runtime *Runtime,
	handler func(cmd *cobra.Command, injector Injector) error,
) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return runtime.Invoke(func(injector Injector) error {
			return handler(cmd, injector)
		})
	}
}
