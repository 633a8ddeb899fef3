package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// ReshapeOp records a reshape so gradients flow back to the original
// tensor. Without it, a parameter reshaped for broadcasting (the Conv2D
// bias viewed as [1, C, 1, 1]) would never receive its gradient.
type ReshapeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewReshapeOp creates a reshape operation.
func NewReshapeOp(input, output *tensor.RawTensor) *ReshapeOp {
	return &ReshapeOp{input: input, output: output}
}

// Inputs returns the reshaped tensor.
func (op *ReshapeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the reshaped view.
func (op *ReshapeOp) Output() *tensor.RawTensor { return op.output }

// Backward reshapes the gradient back to the input's shape.
func (op *ReshapeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{backend.Reshape(outputGrad, op.input.Shape())}
}

// TransposeOp records a transpose. Like ReshapeOp, it exists so that
// gradients reach the original parameter; Linear transposes its weight
// before every matmul.
type TransposeOp struct {
	input  *tensor.RawTensor
	output *tensor.RawTensor
	axes   []int
}

// NewTransposeOp creates a transpose operation.
func NewTransposeOp(input, output *tensor.RawTensor, axes []int) *TransposeOp {
	return &TransposeOp{input: input, output: output, axes: axes}
}

// Inputs returns the transposed tensor.
func (op *TransposeOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the transposed result.
func (op *TransposeOp) Output() *tensor.RawTensor { return op.output }

// Backward applies the inverse permutation to the gradient.
func (op *TransposeOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inverse := make([]int, len(op.axes))
	for i, ax := range op.axes {
		inverse[ax] = i
	}
	return []*tensor.RawTensor{backend.Transpose(outputGrad, inverse...)}
}
