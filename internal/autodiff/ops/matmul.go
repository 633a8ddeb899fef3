package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// MatMulOp records y = a @ b for 2D matrices.
type MatMulOp struct {
	a, b, output *tensor.RawTensor
}

// NewMatMulOp creates a matrix multiplication operation.
func NewMatMulOp(a, b, output *tensor.RawTensor) *MatMulOp {
	return &MatMulOp{a: a, b: b, output: output}
}

// Inputs returns the operands.
func (op *MatMulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the product matrix.
func (op *MatMulOp) Output() *tensor.RawTensor { return op.output }

// Backward uses d(A@B)/dA = grad @ Bᵀ and d(A@B)/dB = Aᵀ @ grad.
func (op *MatMulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.MatMul(outputGrad, backend.Transpose(op.b))
	gradB := backend.MatMul(backend.Transpose(op.a), outputGrad)
	return []*tensor.RawTensor{gradA, gradB}
}
