package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// SoftmaxOp records a softmax over the last dimension.
type SoftmaxOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewSoftmaxOp creates a softmax operation.
func NewSoftmaxOp(input, output *tensor.RawTensor) *SoftmaxOp {
	return &SoftmaxOp{input: input, output: output}
}

// Inputs returns the logits tensor.
func (op *SoftmaxOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the probability tensor.
func (op *SoftmaxOp) Output() *tensor.RawTensor { return op.output }

// Backward applies the softmax Jacobian row by row:
//
//	dL/dx_i = p_i * (dL/dp_i - Σ_j dL/dp_j * p_j)
//
// Composed with the cross-entropy gradient this yields the familiar
// (p - onehot)/batch logits gradient.
func (op *SoftmaxOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.output.Shape()
	rowLen := shape[len(shape)-1]

	inputGrad := tensor.MustNewRaw(op.input.Shape(), tensor.Float32, backend.Device())
	probs := op.output.AsFloat32()
	og := outputGrad.AsFloat32()
	ig := inputGrad.AsFloat32()

	for base := 0; base < len(probs); base += rowLen {
		var dot float32
		for i := base; i < base+rowLen; i++ {
			dot += og[i] * probs[i]
		}
		for i := base; i < base+rowLen; i++ {
			ig[i] = probs[i] * (og[i] - dot)
		}
	}
	return []*tensor.RawTensor{inputGrad}
}
