package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Sum reduces all elements to a single-element tensor of shape [1].
func (b *Backend) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	out := tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32, b.Device())
	var sum float32
	for _, v := range x.AsFloat32() {
		sum += v
	}
	out.AsFloat32()[0] = sum
	return out
}

// Argmax returns int32 indices of the row maxima. Only 2D tensors with
// dim=1 are supported, which covers class prediction from [batch, classes].
func (b *Backend) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	if len(shape) != 2 || dim != 1 {
		panic(fmt.Sprintf("Argmax supports 2D tensors with dim=1, got shape %v dim %d", shape, dim))
	}
	rows, cols := shape[0], shape[1]
	out := tensor.MustNewRaw(tensor.Shape{rows}, tensor.Int32, b.Device())
	xd, od := x.AsFloat32(), out.AsInt32()

	for r := 0; r < rows; r++ {
		row := xd[r*cols : (r+1)*cols]
		best := 0
		for i, v := range row {
			if v > row[best] {
				best = i
			}
		}
		od[r] = int32(best)
	}
	return out
}
