package tensor

// Backend is the interface compute backends implement. It covers exactly
// the operations the classifier's forward and backward passes need; the
// autodiff decorator wraps any Backend and records these calls on a tape.
//
// All operations allocate and return a fresh RawTensor; inputs are never
// modified. Shape or dtype violations panic.
type Backend interface {
	// Element-wise binary operations with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor
	Sub(a, b *RawTensor) *RawTensor
	Mul(a, b *RawTensor) *RawTensor
	Div(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D matrices: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D performs 2D cross-correlation in NCHW layout.
	// input [N, C_in, H, W], kernel [C_out, C_in, KH, KW].
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// Conv2DInputBackward computes the gradient of Conv2D w.r.t. its input.
	Conv2DInputBackward(input, kernel, outputGrad *RawTensor, stride, padding int) *RawTensor

	// Conv2DKernelBackward computes the gradient of Conv2D w.r.t. its kernel.
	Conv2DKernelBackward(input, kernel, outputGrad *RawTensor, stride, padding int) *RawTensor

	// MaxPool2D performs max pooling over kernelSize windows in NCHW layout.
	MaxPool2D(input *RawTensor, kernelSize, stride int) *RawTensor

	// MaxPool2DBackward routes outputGrad back to the argmax positions.
	MaxPool2DBackward(input, outputGrad *RawTensor, kernelSize, stride int) *RawTensor

	// Shape operations.
	Reshape(t *RawTensor, newShape Shape) *RawTensor
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Scalar operations.
	MulScalar(x *RawTensor, scalar any) *RawTensor
	AddScalar(x *RawTensor, scalar any) *RawTensor

	// Softmax normalizes along dim (only the last dimension is supported).
	Softmax(x *RawTensor, dim int) *RawTensor

	// Reductions.
	Sum(x *RawTensor) *RawTensor              // scalar result with shape [1]
	Argmax(x *RawTensor, dim int) *RawTensor  // int32 indices along dim

	// Metadata.
	Name() string
	Device() Device
}
