package nn

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// Parameter is a named trainable tensor. The optimizer matches gradients
// to parameters through the RawTensor identity of the wrapped tensor.
type Parameter[B tensor.Backend] struct {
	name   string
	tensor *tensor.Tensor[float32, B]
}

// NewParameter wraps an initialized tensor as a trainable parameter.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return &Parameter[B]{name: name, tensor: t}
}

// Name returns the parameter name, e.g. "conv1.weight".
func (p *Parameter[B]) Name() string { return p.name }

// Tensor returns the underlying parameter tensor.
func (p *Parameter[B]) Tensor() *tensor.Tensor[float32, B] { return p.tensor }

// NumElements returns the element count of the parameter.
func (p *Parameter[B]) NumElements() int { return p.tensor.NumElements() }
