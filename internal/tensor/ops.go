package tensor

import "fmt"

// Add returns t + other with broadcasting.
func (t *Tensor[T, B]) Add(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Add(t.raw, other.raw), t.backend)
}

// Sub returns t - other with broadcasting.
func (t *Tensor[T, B]) Sub(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Sub(t.raw, other.raw), t.backend)
}

// Mul returns the element-wise product with broadcasting.
func (t *Tensor[T, B]) Mul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Mul(t.raw, other.raw), t.backend)
}

// Div returns the element-wise quotient with broadcasting.
func (t *Tensor[T, B]) Div(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.Div(t.raw, other.raw), t.backend)
}

// MatMul performs 2D matrix multiplication: [M, K] @ [K, N] -> [M, N].
func (t *Tensor[T, B]) MatMul(other *Tensor[T, B]) *Tensor[T, B] {
	return New[T, B](t.backend.MatMul(t.raw, other.raw), t.backend)
}

// Conv2D performs 2D cross-correlation with the given kernel.
func (t *Tensor[T, B]) Conv2D(kernel *Tensor[T, B], stride, padding int) *Tensor[T, B] {
	return New[T, B](t.backend.Conv2D(t.raw, kernel.raw, stride, padding), t.backend)
}

// MaxPool2D applies max pooling over kernelSize windows.
func (t *Tensor[T, B]) MaxPool2D(kernelSize, stride int) *Tensor[T, B] {
	return New[T, B](t.backend.MaxPool2D(t.raw, kernelSize, stride), t.backend)
}

// Reshape returns a tensor with a new shape and the same elements.
func (t *Tensor[T, B]) Reshape(dims ...int) *Tensor[T, B] {
	newShape := Shape(dims)
	if newShape.NumElements() != t.NumElements() {
		panic(fmt.Sprintf("cannot reshape %v into %v", t.Shape(), newShape))
	}
	return New[T, B](t.backend.Reshape(t.raw, newShape), t.backend)
}

// Flatten collapses all dimensions after the first into one, turning
// [N, ...] into [N, rest].
func (t *Tensor[T, B]) Flatten() *Tensor[T, B] {
	shape := t.Shape()
	if len(shape) < 2 {
		return t
	}
	return t.Reshape(shape[0], t.NumElements()/shape[0])
}

// Transpose permutes dimensions. With no axes given, reverses them all.
func (t *Tensor[T, B]) Transpose(axes ...int) *Tensor[T, B] {
	return New[T, B](t.backend.Transpose(t.raw, axes...), t.backend)
}

// T is shorthand for a full transpose.
func (t *Tensor[T, B]) T() *Tensor[T, B] {
	return t.Transpose()
}

// MulScalar multiplies every element by a scalar.
func (t *Tensor[T, B]) MulScalar(scalar any) *Tensor[T, B] {
	return New[T, B](t.backend.MulScalar(t.raw, scalar), t.backend)
}

// AddScalar adds a scalar to every element.
func (t *Tensor[T, B]) AddScalar(scalar any) *Tensor[T, B] {
	return New[T, B](t.backend.AddScalar(t.raw, scalar), t.backend)
}

// Softmax normalizes values along dim into probabilities.
func (t *Tensor[T, B]) Softmax(dim int) *Tensor[T, B] {
	return New[T, B](t.backend.Softmax(t.raw, dim), t.backend)
}

// Sum reduces all elements to a single-element tensor.
func (t *Tensor[T, B]) Sum() *Tensor[T, B] {
	return New[T, B](t.backend.Sum(t.raw), t.backend)
}

// Argmax returns int32 indices of the maximum values along dim.
func (t *Tensor[T, B]) Argmax(dim int) *Tensor[int32, B] {
	return New[int32, B](t.backend.Argmax(t.raw, dim), t.backend)
}
