// Package ops defines the differentiable operations recorded on the
// gradient tape. Each operation captures its input and output RawTensors
// during the forward pass and computes input gradients during the
// backward pass.
package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// Operation is one node of the recorded computation graph.
type Operation interface {
	// Backward computes the gradients for the operation's inputs given
	// the gradient of the loss w.r.t. its output. The returned slice is
	// index-aligned with Inputs().
	Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor

	// Inputs returns the input tensors of this operation.
	Inputs() []*tensor.RawTensor

	// Output returns the tensor produced by this operation.
	Output() *tensor.RawTensor
}
