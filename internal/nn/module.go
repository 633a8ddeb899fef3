// Package nn provides the neural network building blocks of the
// classifier: layers, activations, initialization, loss and metrics.
//
// Modules are written against the generic tensor API, so the same model
// code runs on the plain CPU backend or on the autodiff decorator; only
// the decorator makes the activation, dropout and loss capabilities
// available (they are looked up through narrow interfaces at runtime).
package nn

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// Module is the base interface for all network components.
type Module[B tensor.Backend] interface {
	// Forward computes the module's output for the given input.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters, empty for parameter-free
	// modules such as activations and pooling.
	Parameters() []*Parameter[B]
}
