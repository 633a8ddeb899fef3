package nn

import (
	"math/rand"

	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// HeNormal initializes weights from a truncated normal distribution with
// stddev sqrt(2/fan_in), truncated at two standard deviations. This is
// the initialization of choice for layers followed by relu-family
// activations (He et al., 2015) and is applied to every layer here.
func HeNormal[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	stddev := math32.Sqrt(2 / float32(fanIn))

	t := tensor.Zeros[float32](shape, backend)
	data := t.Data()
	for i := range data {
		data[i] = truncatedNormal() * stddev
	}
	return t
}

// truncatedNormal samples N(0, 1) rejecting values beyond two standard
// deviations.
func truncatedNormal() float32 {
	for {
		v := rand.NormFloat64()
		if v > -2 && v < 2 {
			return float32(v)
		}
	}
}

// Zeros creates a zero-filled tensor, the usual bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
