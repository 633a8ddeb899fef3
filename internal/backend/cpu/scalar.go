package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// MulScalar multiplies every element by a scalar.
func (b *Backend) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	return b.unaryOp(x, func(v float32) float32 { return v * s })
}

// AddScalar adds a scalar to every element.
func (b *Backend) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	s := toFloat32(scalar)
	return b.unaryOp(x, func(v float32) float32 { return v + s })
}

func (b *Backend) unaryOp(x *tensor.RawTensor, f func(float32) float32) *tensor.RawTensor {
	if x.DType() != tensor.Float32 {
		panic(fmt.Sprintf("scalar op requires float32 operand, got %s", x.DType()))
	}
	out := tensor.MustNewRaw(x.Shape(), tensor.Float32, b.Device())
	xd, od := x.AsFloat32(), out.AsFloat32()
	for i := range od {
		od[i] = f(xd[i])
	}
	return out
}

// toFloat32 converts the accepted scalar types to float32.
func toFloat32(scalar any) float32 {
	switch s := scalar.(type) {
	case float32:
		return s
	case float64:
		return float32(s)
	case int:
		return float32(s)
	case int32:
		return float32(s)
	default:
		panic(fmt.Sprintf("unsupported scalar type %T", scalar))
	}
}
