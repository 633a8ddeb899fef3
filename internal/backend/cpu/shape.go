package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Reshape returns a tensor with the same elements and a new shape.
// The data is copied so the result is an independent graph node.
func (b *Backend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("cannot reshape %v into %v", t.Shape(), newShape))
	}
	out := tensor.MustNewRaw(newShape, t.DType(), b.Device())
	copy(out.Data(), t.Data())
	return out
}

// Transpose permutes dimensions according to axes. With no axes given,
// all dimensions are reversed.
func (b *Backend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	shape := t.Shape()
	ndim := len(shape)

	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("Transpose got %d axes for %dD tensor", len(axes), ndim))
	}

	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim {
			panic(fmt.Sprintf("Transpose axis %d out of range for %dD tensor", ax, ndim))
		}
		outShape[i] = shape[ax]
	}

	out := tensor.MustNewRaw(outShape, tensor.Float32, b.Device())
	inData, outData := t.AsFloat32(), out.AsFloat32()
	inStrides := shape.ComputeStrides()

	// Walk the output in order, mapping each coordinate back to the input.
	coords := make([]int, ndim)
	for i := range outData {
		src := 0
		for d := 0; d < ndim; d++ {
			src += coords[d] * inStrides[axes[d]]
		}
		outData[i] = inData[src]

		for d := ndim - 1; d >= 0; d-- {
			coords[d]++
			if coords[d] < outShape[d] {
				break
			}
			coords[d] = 0
		}
	}
	return out
}
