// Package marshaller provides generic serialization for configuration models
// and generated Kubernetes manifests.
package marshaller

// Marshaller converts models of type T to and from their textual representation.
type Marshaller[T any] interface {
	// Marshal serializes the model and returns the textual representation.
	Marshal(model T) (string, error)
	// Unmarshal deserializes data into the provided model.
	Unmarshal(data []byte, model *T) error
	// UnmarshalString deserializes a string into the provided model.
	UnmarshalString(data string, model *T) error
}
