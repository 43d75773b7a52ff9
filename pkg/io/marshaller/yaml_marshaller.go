package marshaller

import (
	"fmt"

	"sigs.k8s.io/yaml"
)

// YAMLMarshaller implements Marshaller using sigs.k8s.io/yaml, which honors
// JSON struct tags so Kubernetes API types serialize with their wire names.
type YAMLMarshaller[T any] struct{}

// NewYAMLMarshaller creates a YAML marshaller for models of type T.
func NewYAMLMarshaller[T any]() *YAMLMarshaller[T] {
	return &YAMLMarshaller[T]{}
}

// Marshal serializes the model to a YAML string.
func (m *YAMLMarshaller[T]) Marshal(model T) (string, error) {
	data, err := yaml.Marshal(model)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	return string(data), nil
}

// Unmarshal deserializes YAML data into the provided model.
func (m *YAMLMarshaller[T]) Unmarshal(data []byte, model *T) error {
	err := yaml.Unmarshal(data, model)
	if err != nil {
		return fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	return nil
}

// UnmarshalString deserializes a YAML string into the provided model.
func (m *YAMLMarshaller[T]) UnmarshalString(data string, model *T) error {
	return m.Unmarshal([]byte(data), model)
}
