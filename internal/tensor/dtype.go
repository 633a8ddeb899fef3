package tensor

import "fmt"

// DataType is the runtime element type of a RawTensor.
type DataType int

// Supported element types.
//
// Float32 is the working dtype for all network computation. Int32 carries
// class labels and argmax results. Uint8 holds raw image bytes before
// normalization. Float64 exists for high-precision checks.
const (
	Float32 DataType = iota
	Float64
	Int32
	Uint8
)

// Size returns the size of one element in bytes.
func (dt DataType) Size() int {
	switch dt {
	case Float32, Int32:
		return 4
	case Float64:
		return 8
	case Uint8:
		return 1
	default:
		panic(fmt.Sprintf("unknown dtype %d", int(dt)))
	}
}

// String returns a human-readable dtype name.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Int32:
		return "int32"
	case Uint8:
		return "uint8"
	default:
		return "unknown"
	}
}

// DType constrains the element types a generic Tensor may carry.
type DType interface {
	float32 | float64 | int32 | uint8
}

// inferDataType maps a Go type parameter to its runtime DataType.
func inferDataType[T DType](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case int32:
		return Int32
	case uint8:
		return Uint8
	default:
		panic("unsupported element type")
	}
}
