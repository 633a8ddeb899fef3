package tensor

import (
	"fmt"
	"unsafe"
)

// Device represents the compute device for tensor operations.
type Device int

// Supported compute devices. Only CPU is implemented; the constant set
// leaves room for GPU backends behind the same Backend interface.
const (
	CPU Device = iota
)

// String returns a human-readable device name.
func (d Device) String() string {
	switch d {
	case CPU:
		return "CPU"
	default:
		return "Unknown"
	}
}

// RawTensor is the untyped, low-level tensor representation: a contiguous
// byte buffer plus shape, strides and runtime dtype. Typed access goes
// through the As* views, which reinterpret the buffer without copying.
//
// Identity matters: the autodiff tape keys gradients by *RawTensor, so an
// operation's output must always be a fresh RawTensor. Backends never
// mutate their inputs.
type RawTensor struct {
	data   []byte
	shape  Shape
	stride []int
	dtype  DataType
	device Device
}

// NewRaw allocates a zero-filled RawTensor with the given shape and dtype.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	byteSize := shape.NumElements() * dtype.Size()
	return &RawTensor{
		data:   make([]byte, byteSize),
		shape:  shape.Clone(),
		stride: shape.ComputeStrides(),
		dtype:  dtype,
		device: device,
	}, nil
}

// MustNewRaw is NewRaw that panics on error. Kernels use it for outputs
// whose shapes are derived from already-validated inputs.
func MustNewRaw(shape Shape, dtype DataType, device Device) *RawTensor {
	r, err := NewRaw(shape, dtype, device)
	if err != nil {
		panic(err)
	}
	return r
}

// Shape returns the tensor's shape.
func (r *RawTensor) Shape() Shape {
	return r.shape
}

// Strides returns the tensor's row-major strides.
func (r *RawTensor) Strides() []int {
	return r.stride
}

// DType returns the tensor's element type.
func (r *RawTensor) DType() DataType {
	return r.dtype
}

// Device returns the compute device the tensor lives on.
func (r *RawTensor) Device() Device {
	return r.device
}

// NumElements returns the total element count.
func (r *RawTensor) NumElements() int {
	return r.shape.NumElements()
}

// ByteSize returns the buffer size in bytes.
func (r *RawTensor) ByteSize() int {
	return len(r.data)
}

// Data returns the raw byte buffer.
func (r *RawTensor) Data() []byte {
	return r.data
}

// AsFloat32 reinterprets the buffer as []float32. Panics on dtype mismatch.
func (r *RawTensor) AsFloat32() []float32 {
	if r.dtype != Float32 {
		panic(fmt.Sprintf("AsFloat32 called on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsFloat64 reinterprets the buffer as []float64. Panics on dtype mismatch.
func (r *RawTensor) AsFloat64() []float64 {
	if r.dtype != Float64 {
		panic(fmt.Sprintf("AsFloat64 called on %s tensor", r.dtype))
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsInt32 reinterprets the buffer as []int32. Panics on dtype mismatch.
func (r *RawTensor) AsInt32() []int32 {
	if r.dtype != Int32 {
		panic(fmt.Sprintf("AsInt32 called on %s tensor", r.dtype))
	}
	return unsafe.Slice((*int32)(unsafe.Pointer(&r.data[0])), r.NumElements())
}

// AsUint8 reinterprets the buffer as []uint8. Panics on dtype mismatch.
func (r *RawTensor) AsUint8() []uint8 {
	if r.dtype != Uint8 {
		panic(fmt.Sprintf("AsUint8 called on %s tensor", r.dtype))
	}
	return r.data[:r.NumElements()]
}

// Clone returns a deep copy of the tensor.
func (r *RawTensor) Clone() *RawTensor {
	out := MustNewRaw(r.shape, r.dtype, r.device)
	copy(out.data, r.data)
	return out
}

// String returns a short description like "float32[4 3 32 32] on CPU".
func (r *RawTensor) String() string {
	return fmt.Sprintf("%s%v on %s", r.dtype, r.shape, r.device)
}
