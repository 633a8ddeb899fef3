package ops

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// Conv2DOp records a 2D convolution. The backward pass is pure
// orchestration; the per-element work lives in the backend.
type Conv2DOp struct {
	input   *tensor.RawTensor
	kernel  *tensor.RawTensor
	output  *tensor.RawTensor
	stride  int
	padding int
}

// NewConv2DOp creates a convolution operation.
func NewConv2DOp(input, kernel, output *tensor.RawTensor, stride, padding int) *Conv2DOp {
	return &Conv2DOp{input: input, kernel: kernel, output: output, stride: stride, padding: padding}
}

// Inputs returns input and kernel.
func (op *Conv2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input, op.kernel}
}

// Output returns the feature map.
func (op *Conv2DOp) Output() *tensor.RawTensor { return op.output }

// Backward computes gradients for the input (transposed convolution of the
// output gradient with the kernel) and the kernel (correlation of the
// input with the output gradient).
func (op *Conv2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	inputGrad := backend.Conv2DInputBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	kernelGrad := backend.Conv2DKernelBackward(op.input, op.kernel, outputGrad, op.stride, op.padding)
	return []*tensor.RawTensor{inputGrad, kernelGrad}
}

// MaxPool2DOp records a max pooling operation.
type MaxPool2DOp struct {
	input      *tensor.RawTensor
	output     *tensor.RawTensor
	kernelSize int
	stride     int
}

// NewMaxPool2DOp creates a max pooling operation.
func NewMaxPool2DOp(input, output *tensor.RawTensor, kernelSize, stride int) *MaxPool2DOp {
	return &MaxPool2DOp{input: input, output: output, kernelSize: kernelSize, stride: stride}
}

// Inputs returns the pooled tensor.
func (op *MaxPool2DOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.input}
}

// Output returns the pooled feature map.
func (op *MaxPool2DOp) Output() *tensor.RawTensor { return op.output }

// Backward routes the gradient to the argmax positions only.
func (op *MaxPool2DOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	return []*tensor.RawTensor{
		backend.MaxPool2DBackward(op.input, outputGrad, op.kernelSize, op.stride),
	}
}
