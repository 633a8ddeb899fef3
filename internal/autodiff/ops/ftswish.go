package ops

import (
	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// FTSwishOp records the Flatten-T Swish activation
//
//	y = max(t, relu(x) * sigmoid(x) + t)
//
// with a negative threshold t. For x <= 0 the relu gate zeroes the swish
// term and the output is exactly t, so the function is flat left of zero.
type FTSwishOp struct {
	input     *tensor.RawTensor
	output    *tensor.RawTensor
	threshold float32
}

// NewFTSwishOp creates an FTSwish operation with the given threshold.
func NewFTSwishOp(input, output *tensor.RawTensor, threshold float32) *FTSwishOp {
	return &FTSwishOp{input: input, output: output, threshold: threshold}
}

// Inputs returns the activated tensor.
func (op *FTSwishOp) Inputs() []*tensor.RawTensor { return []*tensor.RawTensor{op.input} }

// Output returns the activation result.
func (op *FTSwishOp) Output() *tensor.RawTensor { return op.output }

// Backward computes the FTSwish derivative:
//
//	dy/dx = 0                                          for x <= 0
//	dy/dx = sigmoid(x) + x*sigmoid(x)*(1 - sigmoid(x)) for x >  0
//
// The sub-gradient at exactly x = 0 is taken as 0, consistent with the
// flat region.
func (op *FTSwishOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	x := op.input
	inputGrad := tensor.MustNewRaw(x.Shape(), x.DType(), backend.Device())

	xData := x.AsFloat32()
	gradData := inputGrad.AsFloat32()
	outGradData := outputGrad.AsFloat32()

	for i, v := range xData {
		if v <= 0 {
			continue // flat region, derivative 0 (buffer starts zeroed)
		}
		sig := stableSigmoid(v)
		gradData[i] = outGradData[i] * (sig + v*sig*(1-sig))
	}
	return []*tensor.RawTensor{inputGrad}
}

// FTSwishForward evaluates the activation element-wise into a new tensor.
// Shared between the autodiff decorator and any plain backend use.
//
// The relu gate and the clamp are written with comparisons that are false
// for NaN, so a NaN input flows through to a NaN output instead of being
// flushed to the threshold.
func FTSwishForward(x *tensor.RawTensor, threshold float32, device tensor.Device) *tensor.RawTensor {
	out := tensor.MustNewRaw(x.Shape(), x.DType(), device)
	xData, outData := x.AsFloat32(), out.AsFloat32()
	for i, v := range xData {
		r := v
		if r < 0 {
			r = 0
		}
		y := r*stableSigmoid(v) + threshold
		if y < threshold {
			y = threshold
		}
		outData[i] = y
	}
	return out
}

// stableSigmoid computes 1/(1+exp(-x)) without overflow for large |x|.
func stableSigmoid(x float32) float32 {
	if x >= 0 {
		return 1 / (1 + math32.Exp(-x))
	}
	e := math32.Exp(x)
	return e / (1 + e)
}
