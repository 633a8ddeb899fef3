package nn

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Linear is a fully connected layer: y = x @ Wᵀ + b.
//
// Weight shape is [outFeatures, inFeatures]; the transpose happens inside
// Forward (and is recorded on the tape so the weight gets its gradient).
type Linear[B tensor.Backend] struct {
	weight *Parameter[B]
	bias   *Parameter[B]
	in     int
	out    int
}

// NewLinear creates a fully connected layer with He-normal weights and
// zero bias.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	w := HeNormal(inFeatures, tensor.Shape{outFeatures, inFeatures}, backend)
	b := Zeros(tensor.Shape{outFeatures}, backend)
	return &Linear[B]{
		weight: NewParameter("linear.weight", w),
		bias:   NewParameter("linear.bias", b),
		in:     inFeatures,
		out:    outFeatures,
	}
}

// Forward computes x @ Wᵀ + b for input [batch, inFeatures].
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 2 || shape[1] != l.in {
		panic(fmt.Sprintf("Linear expects [batch, %d] input, got %v", l.in, shape))
	}
	out := input.MatMul(l.weight.Tensor().T())
	return out.Add(l.bias.Tensor())
}

// Parameters returns weight and bias.
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// String describes the layer.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in=%d, out=%d)", l.in, l.out)
}
