package nn

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// MaxPool2D downsamples spatially by taking window maxima.
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
}

// NewMaxPool2D creates a pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int) *MaxPool2D[B] {
	return &MaxPool2D[B]{kernelSize: kernelSize, stride: stride}
}

// Forward pools input [batch, C, H, W].
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.MaxPool2D(m.kernelSize, m.stride)
}

// Parameters returns an empty slice; pooling has no trainable state.
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel=%d, stride=%d)", m.kernelSize, m.stride)
}
