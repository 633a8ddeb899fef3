package autodiff

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// BackwardCapable is satisfied by backends that carry a gradient tape.
type BackwardCapable interface {
	tensor.Backend
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward seeds the backward pass with ones at the given tensor and
// returns the gradient map. For a scalar loss this is the standard
// dL/dL = 1 seed.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) map[*tensor.RawTensor]*tensor.RawTensor {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		panic("backward: no operations recorded (did you forget Tape().StartRecording()?)")
	}
	if t.DType() != tensor.Float32 {
		panic(fmt.Sprintf("backward: unsupported dtype %s", t.DType()))
	}

	seed := tensor.Ones[float32](t.Shape(), backend)
	return tape.Backward(t.Raw(), seed.Raw(), backend)
}
