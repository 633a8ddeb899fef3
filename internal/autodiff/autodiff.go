// Package autodiff adds reverse-mode automatic differentiation on top of
// any tensor.Backend using the decorator pattern.
//
// AutodiffBackend[B] wraps a backend, forwards every operation to it and
// records the operation on a GradientTape. Walking the tape backwards
// applies the chain rule and yields a gradient per participating tensor.
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//	probs := model.Forward(images)
//	loss := criterion.Forward(probs, labels)
//	grads := autodiff.Backward(loss, backend)
package autodiff

import (
	"math/rand"

	"github.com/HwayGuo/keras-cnn/internal/autodiff/ops"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// AutodiffBackend decorates a Backend with gradient tracking.
type AutodiffBackend[B tensor.Backend] struct {
	inner B
	tape  *GradientTape
}

// New wraps a backend with autodiff capability.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{inner: backend, tape: NewGradientTape()}
}

// Tape returns the gradient tape for recording control and backward passes.
func (b *AutodiffBackend[B]) Tape() *GradientTape { return b.tape }

// Inner returns the wrapped backend.
func (b *AutodiffBackend[B]) Inner() B { return b.inner }

// Name returns the decorated backend name.
func (b *AutodiffBackend[B]) Name() string { return "autodiff(" + b.inner.Name() + ")" }

// Device returns the compute device of the wrapped backend.
func (b *AutodiffBackend[B]) Device() tensor.Device { return b.inner.Device() }

// Add performs element-wise addition and records the operation.
func (b *AutodiffBackend[B]) Add(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Add(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewAddOp(x, y, result))
	}
	return result
}

// Sub performs element-wise subtraction and records the operation.
func (b *AutodiffBackend[B]) Sub(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Sub(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSubOp(x, y, result))
	}
	return result
}

// Mul performs element-wise multiplication and records the operation.
func (b *AutodiffBackend[B]) Mul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Mul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMulOp(x, y, result))
	}
	return result
}

// Div performs element-wise division and records the operation.
func (b *AutodiffBackend[B]) Div(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.Div(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDivOp(x, y, result))
	}
	return result
}

// MatMul performs matrix multiplication and records the operation.
func (b *AutodiffBackend[B]) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	result := b.inner.MatMul(x, y)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMatMulOp(x, y, result))
	}
	return result
}

// Conv2D performs 2D convolution and records the operation.
func (b *AutodiffBackend[B]) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	result := b.inner.Conv2D(input, kernel, stride, padding)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewConv2DOp(input, kernel, result, stride, padding))
	}
	return result
}

// Conv2DInputBackward delegates to the wrapped backend (gradient
// arithmetic itself is never recorded).
func (b *AutodiffBackend[B]) Conv2DInputBackward(input, kernel, outputGrad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DInputBackward(input, kernel, outputGrad, stride, padding)
}

// Conv2DKernelBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) Conv2DKernelBackward(input, kernel, outputGrad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	return b.inner.Conv2DKernelBackward(input, kernel, outputGrad, stride, padding)
}

// MaxPool2D performs max pooling and records the operation.
func (b *AutodiffBackend[B]) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	result := b.inner.MaxPool2D(input, kernelSize, stride)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewMaxPool2DOp(input, result, kernelSize, stride))
	}
	return result
}

// MaxPool2DBackward delegates to the wrapped backend.
func (b *AutodiffBackend[B]) MaxPool2DBackward(input, outputGrad *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	return b.inner.MaxPool2DBackward(input, outputGrad, kernelSize, stride)
}

// Reshape reshapes a tensor and records the operation so gradients reach
// the original tensor (Conv2D reshapes its bias for broadcasting).
func (b *AutodiffBackend[B]) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	result := b.inner.Reshape(t, newShape)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewReshapeOp(t, result))
	}
	return result
}

// Transpose transposes a tensor and records the operation. Linear layers
// transpose their weight every forward pass; without recording, the
// weight parameter would never receive a gradient.
func (b *AutodiffBackend[B]) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	ndim := len(t.Shape())
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	result := b.inner.Transpose(t, axes...)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewTransposeOp(t, result, axes))
	}
	return result
}

// MulScalar delegates without recording; it only appears in gradient and
// metric arithmetic, never on the training forward path.
func (b *AutodiffBackend[B]) MulScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.inner.MulScalar(x, scalar)
}

// AddScalar delegates without recording.
func (b *AutodiffBackend[B]) AddScalar(x *tensor.RawTensor, scalar any) *tensor.RawTensor {
	return b.inner.AddScalar(x, scalar)
}

// Softmax normalizes along dim and records the operation.
func (b *AutodiffBackend[B]) Softmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	result := b.inner.Softmax(x, dim)
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewSoftmaxOp(x, result))
	}
	return result
}

// Sum delegates without recording.
func (b *AutodiffBackend[B]) Sum(x *tensor.RawTensor) *tensor.RawTensor {
	return b.inner.Sum(x)
}

// Argmax delegates without recording.
func (b *AutodiffBackend[B]) Argmax(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	return b.inner.Argmax(x, dim)
}

// FTSwish applies the Flatten-T Swish activation with the given threshold
// and records the operation.
func (b *AutodiffBackend[B]) FTSwish(x *tensor.RawTensor, threshold float32) *tensor.RawTensor {
	result := ops.FTSwishForward(x, threshold, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewFTSwishOp(x, result, threshold))
	}
	return result
}

// Dropout applies inverted dropout with drop probability p. In eval mode
// (training=false) or with p=0 it returns the input unchanged and records
// nothing.
func (b *AutodiffBackend[B]) Dropout(x *tensor.RawTensor, p float32, training bool) *tensor.RawTensor {
	if !training || p <= 0 {
		return x
	}
	if p >= 1 {
		panic("dropout probability must be < 1")
	}

	result := tensor.MustNewRaw(x.Shape(), x.DType(), b.Device())
	mask := make([]float32, x.NumElements())
	scale := 1 / (1 - p)

	xData, outData := x.AsFloat32(), result.AsFloat32()
	for i := range mask {
		if rand.Float32() >= p {
			mask[i] = scale
			outData[i] = xData[i] * scale
		}
	}

	if b.tape.IsRecording() {
		b.tape.Record(ops.NewDropoutOp(x, result, mask))
	}
	return result
}

// CrossEntropy computes categorical cross-entropy over probabilities and
// records the operation. probs is [batch, classes], targets is [batch]
// int32 class indices; the result has shape [1].
func (b *AutodiffBackend[B]) CrossEntropy(probs, targets *tensor.RawTensor) *tensor.RawTensor {
	result := ops.CrossEntropyForward(probs, targets, b.Device())
	if b.tape.IsRecording() {
		b.tape.Record(ops.NewCrossEntropyOp(probs, targets, result))
	}
	return result
}
