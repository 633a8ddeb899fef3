package nn

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// DropoutBackend is the capability interface for backends that implement
// inverted dropout with gradient tracking.
type DropoutBackend interface {
	Dropout(x *tensor.RawTensor, p float32, training bool) *tensor.RawTensor
}

// Dropout randomly zeroes elements with probability p during training,
// scaling survivors by 1/(1-p). In eval mode it is the identity.
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout creates a dropout module in training mode.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("dropout probability must be in [0, 1), got %v", p))
	}
	return &Dropout[B]{p: p, training: true}
}

// SetTraining switches between training and eval behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Forward applies dropout, or passes through in eval mode.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}
	backend := input.Backend()
	dropBackend, ok := any(backend).(DropoutBackend)
	if !ok {
		panic("Dropout: backend must implement the Dropout operation (use autodiff.AutodiffBackend)")
	}
	raw := dropBackend.Dropout(input.Raw(), d.p, d.training)
	return tensor.New[float32, B](raw, backend)
}

// Parameters returns an empty slice; dropout has no trainable state.
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the module.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%v)", d.p)
}
