package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// AddOp records y = a + b (with broadcasting).
type AddOp struct {
	a, b, output *tensor.RawTensor
}

// NewAddOp creates an addition operation.
func NewAddOp(a, b, output *tensor.RawTensor) *AddOp {
	return &AddOp{a: a, b: b, output: output}
}

// Inputs returns the operands.
func (op *AddOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the sum.
func (op *AddOp) Output() *tensor.RawTensor { return op.output }

// Backward passes the gradient through unchanged, reduced over any
// broadcast dimensions.
func (op *AddOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape(), backend),
		reduceBroadcast(outputGrad, op.b.Shape(), backend),
	}
}

// SubOp records y = a - b (with broadcasting).
type SubOp struct {
	a, b, output *tensor.RawTensor
}

// NewSubOp creates a subtraction operation.
func NewSubOp(a, b, output *tensor.RawTensor) *SubOp {
	return &SubOp{a: a, b: b, output: output}
}

// Inputs returns the operands.
func (op *SubOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the difference.
func (op *SubOp) Output() *tensor.RawTensor { return op.output }

// Backward negates the gradient for the subtrahend.
func (op *SubOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(outputGrad, op.a.Shape(), backend),
		reduceBroadcast(backend.MulScalar(outputGrad, float32(-1)), op.b.Shape(), backend),
	}
}

// MulOp records y = a * b element-wise (with broadcasting).
type MulOp struct {
	a, b, output *tensor.RawTensor
}

// NewMulOp creates a multiplication operation.
func NewMulOp(a, b, output *tensor.RawTensor) *MulOp {
	return &MulOp{a: a, b: b, output: output}
}

// Inputs returns the operands.
func (op *MulOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the product.
func (op *MulOp) Output() *tensor.RawTensor { return op.output }

// Backward applies the product rule: d(a*b)/da = b, d(a*b)/db = a.
func (op *MulOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		reduceBroadcast(backend.Mul(outputGrad, op.b), op.a.Shape(), backend),
		reduceBroadcast(backend.Mul(outputGrad, op.a), op.b.Shape(), backend),
	}
}

// DivOp records y = a / b element-wise (with broadcasting).
type DivOp struct {
	a, b, output *tensor.RawTensor
}

// NewDivOp creates a division operation.
func NewDivOp(a, b, output *tensor.RawTensor) *DivOp {
	return &DivOp{a: a, b: b, output: output}
}

// Inputs returns the operands.
func (op *DivOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.a, op.b} }

// Output returns the quotient.
func (op *DivOp) Output() *tensor.RawTensor { return op.output }

// Backward: d(a/b)/da = 1/b, d(a/b)/db = -a/b².
func (op *DivOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	gradA := backend.Div(outputGrad, op.b)
	// -grad * a / b² = -grad * output / b
	gradB := backend.MulScalar(backend.Div(backend.Mul(outputGrad, op.output), op.b), float32(-1))
	return []*tensor.RawTensor{
		reduceBroadcast(gradA, op.a.Shape(), backend),
		reduceBroadcast(gradB, op.b.Shape(), backend),
	}
}
