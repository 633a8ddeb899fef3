package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Add returns a + b with broadcasting.
func (b *Backend) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a + c })
}

// Sub returns a - b with broadcasting.
func (b *Backend) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a - c })
}

// Mul returns the element-wise product with broadcasting.
func (b *Backend) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a * c })
}

// Div returns the element-wise quotient with broadcasting.
func (b *Backend) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	return b.binaryOp(x, y, func(a, c float32) float32 { return a / c })
}

// binaryOp dispatches to a fast same-shape loop or the general broadcast
// path. Only float32 operands are supported.
func (b *Backend) binaryOp(x, y *tensor.RawTensor, f func(a, c float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 || y.DType() != tensor.Float32 {
		panic(fmt.Sprintf("binary op requires float32 operands, got %s and %s", x.DType(), y.DType()))
	}

	if x.Shape().Equal(y.Shape()) {
		out := tensor.MustNewRaw(x.Shape(), tensor.Float32, b.Device())
		xd, yd, od := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()
		for i := range od {
			od[i] = f(xd[i], yd[i])
		}
		return out
	}

	outShape, err := tensor.BroadcastShapes(x.Shape(), y.Shape())
	if err != nil {
		panic(err)
	}
	out := tensor.MustNewRaw(outShape, tensor.Float32, b.Device())

	xStrides := broadcastStrides(x.Shape(), outShape)
	yStrides := broadcastStrides(y.Shape(), outShape)
	xd, yd, od := x.AsFloat32(), y.AsFloat32(), out.AsFloat32()

	coords := make([]int, len(outShape))
	for i := range od {
		xi, yi := 0, 0
		for d := range coords {
			xi += coords[d] * xStrides[d]
			yi += coords[d] * yStrides[d]
		}
		od[i] = f(xd[xi], yd[yi])

		for d := len(coords) - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < outShape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}

// broadcastStrides returns strides for indexing a tensor of the given
// shape as if it had the (broadcast) output shape. Stretched dimensions
// get a stride of zero.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	bs := make([]int, len(outShape))
	offset := len(outShape) - len(shape)
	for i := range outShape {
		src := i - offset
		if src < 0 || shape[src] == 1 {
			bs[i] = 0
		} else {
			bs[i] = strides[src]
		}
	}
	return bs
}
