// Package yamlgenerator provides a generic YAML generator that marshals a
// model and optionally writes it to a file.
package yamlgenerator

import (
	"fmt"

	"github.com/slipway-dev/slipway/pkg/fsutil"
	"github.com/slipway-dev/slipway/pkg/io/marshaller"
)

// Options controls where generated YAML is written.
type Options struct {
	// Output is the file path to write to. When empty the YAML is only returned.
	Output string

	// Force overwrites an existing file at Output.
	Force bool
}

// YAMLGenerator marshals any model to YAML and writes it to the configured output.
type YAMLGenerator[T any] struct {
	marshaller marshaller.Marshaller[T]
}

// NewYAMLGenerator creates a new YAMLGenerator for the given model type.
func NewYAMLGenerator[T any]() *YAMLGenerator[T] {
	return &YAMLGenerator[T]{
		marshaller: marshaller.NewYAMLMarshaller[T](),
	}
}

// Generate marshals the model to YAML and, when opts.Output is set, writes the
// result to that path.
func (g *YAMLGenerator[T]) Generate(model T, opts Options) (string, error) {
	out, err := g.marshaller.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("marshal model: %w", err)
	}

	if opts.Output != "" {
		result, err := fsutil.TryWriteFile(out, opts.Output, opts.Force)
		if err != nil {
			return "", fmt.Errorf("write generated YAML: %w", err)
		}

		return result, nil
	}

	return out, nil
}
