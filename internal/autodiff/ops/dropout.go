package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// DropoutOp records inverted dropout: surviving elements are scaled by
// 1/(1-p) during training so no rescaling is needed at inference. The
// Bernoulli mask drawn in the forward pass is reused for the backward
// pass, so gradients flow exactly through the elements that survived.
type DropoutOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	mask   []float32 // 0 for dropped elements, 1/(1-p) for kept ones
}

// NewDropoutOp creates a dropout operation with a precomputed mask.
func NewDropoutOp(input, output *tensor.RawTensor, mask []float32) *DropoutOp {
	return &DropoutOp{input: input, output: output, mask: mask}
}

// Inputs returns the masked tensor.
func (op *DropoutOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the masked result.
func (op *DropoutOp) Output() *tensor.RawTensor { return op.output }

// Backward multiplies the gradient by the same mask used forward.
func (op *DropoutOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := tensor.MustNewRaw(op.input.Shape(), tensor.Float32, backend.Device())
	og, ig := outputGrad.AsFloat32(), inputGrad.AsFloat32()
	for i := range ig {
		ig[i] = og[i] * op.mask[i]
	}
	return []*tensor.RawTensor{inputGrad}
}
