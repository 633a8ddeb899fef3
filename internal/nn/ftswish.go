package nn

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// DefaultThreshold is the FTSwish threshold used throughout the model.
const DefaultThreshold float32 = -1.0

// FTSwishBackend is the capability interface for backends that implement
// the Flatten-T Swish activation with gradient tracking.
type FTSwishBackend interface {
	FTSwish(x *tensor.RawTensor, threshold float32) *tensor.RawTensor
}

// FTSwish is the Flatten-T Swish activation module:
//
//	f(x) = max(t, relu(x) * sigmoid(x) + t),  t < 0
//
// Positive inputs follow the swish curve shifted down by |t|; everything
// at or below zero is flattened to exactly t. The threshold is a
// per-instance value passed at construction, not a package global.
type FTSwish[B tensor.Backend] struct {
	threshold float32
}

// NewFTSwish creates the activation with an explicit threshold.
// The threshold must be negative; use DefaultThreshold for t = -1.0.
func NewFTSwish[B tensor.Backend](threshold float32) *FTSwish[B] {
	if threshold >= 0 {
		panic(fmt.Sprintf("FTSwish threshold must be negative, got %v", threshold))
	}
	return &FTSwish[B]{threshold: threshold}
}

// Threshold returns the configured threshold.
func (f *FTSwish[B]) Threshold() float32 { return f.threshold }

// Forward applies the activation element-wise.
func (f *FTSwish[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	backend := input.Backend()
	ftBackend, ok := any(backend).(FTSwishBackend)
	if !ok {
		panic("FTSwish: backend must implement the FTSwish operation (use autodiff.AutodiffBackend)")
	}
	raw := ftBackend.FTSwish(input.Raw(), f.threshold)
	return tensor.New[float32, B](raw, backend)
}

// Parameters returns an empty slice; the activation has no trainable state.
func (f *FTSwish[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the activation.
func (f *FTSwish[B]) String() string {
	return fmt.Sprintf("FTSwish(t=%v)", f.threshold)
}
