package ops

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// reduceBroadcast sums a gradient down to the target shape, undoing any
// broadcasting that happened in the forward pass.
//
// Example: bias [64] broadcast into [N, 64] during the forward add means
// its gradient is the [N, 64] output gradient summed over the batch dim.
func reduceBroadcast(grad *tensor.RawTensor, targetShape tensor.Shape, backend tensor.Backend) *tensor.RawTensor {
	if grad.Shape().Equal(targetShape) {
		// Clone so tape accumulation cannot alias a shared gradient.
		return grad.Clone()
	}

	result := grad
	// Broadcasting aligns from the right: sum away extra leading dims.
	for len(result.Shape()) > len(targetShape) {
		result = sumAlongDim(result, 0, false)
	}
	// Then sum dims the target holds at size 1.
	for d := 0; d < len(targetShape); d++ {
		if targetShape[d] == 1 && result.Shape()[d] > 1 {
			result = sumAlongDim(result, d, true)
		}
	}

	if !result.Shape().Equal(targetShape) {
		result = backend.Reshape(result, targetShape)
	}
	return result
}

// sumAlongDim sums a float32 tensor along one dimension. With keepDim the
// reduced dimension stays as size 1, otherwise it is removed.
func sumAlongDim(t *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	shape := t.Shape()
	if dim < 0 || dim >= len(shape) {
		panic(fmt.Sprintf("sumAlongDim: dimension %d out of range for shape %v", dim, shape))
	}

	outShape := make(tensor.Shape, 0, len(shape))
	for d, size := range shape {
		switch {
		case d != dim:
			outShape = append(outShape, size)
		case keepDim:
			outShape = append(outShape, 1)
		}
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	out := tensor.MustNewRaw(outShape, tensor.Float32, t.Device())
	inData, outData := t.AsFloat32(), out.AsFloat32()

	// Flat index decomposition: outer indexes dims before 'dim', inner
	// indexes dims after it.
	inner := 1
	for d := dim + 1; d < len(shape); d++ {
		inner *= shape[d]
	}
	outer := len(inData) / (inner * shape[dim])

	for o := 0; o < outer; o++ {
		for k := 0; k < shape[dim]; k++ {
			base := (o*shape[dim] + k) * inner
			outBase := o * inner
			for i := 0; i < inner; i++ {
				outData[outBase+i] += inData[base+i]
			}
		}
	}
	return out
}
