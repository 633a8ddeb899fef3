package cpu

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Softmax normalizes values along dim into probabilities. Only the last
// dimension is supported; the tensor is treated as a stack of rows.
func (b *Backend) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if dim < 0 {
		dim += len(shape)
	}
	if dim != len(shape)-1 {
		panic(fmt.Sprintf("Softmax only supports the last dimension, got dim %d for shape %v", dim, shape))
	}

	rowLen := shape[len(shape)-1]
	out := tensor.MustNewRaw(shape, tensor.Float32, b.Device())
	xd, od := x.AsFloat32(), out.AsFloat32()

	for base := 0; base < len(xd); base += rowLen {
		softmaxRow(xd[base:base+rowLen], od[base:base+rowLen])
	}
	return out
}

// softmaxRow computes softmax for one row with the max-subtraction trick.
func softmaxRow(row, out []float32) {
	maxV := row[0]
	for _, v := range row[1:] {
		if v > maxV {
			maxV = v
		}
	}
	var sum float32
	for i, v := range row {
		e := math32.Exp(v - maxV)
		out[i] = e
		sum += e
	}
	inv := 1 / sum
	for i := range out {
		out[i] *= inv
	}
}
