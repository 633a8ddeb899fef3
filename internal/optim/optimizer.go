// Package optim implements parameter optimization for training.
package optim

import (
	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Optimizer updates model parameters from gradients computed by the tape.
type Optimizer interface {
	// Step applies one update from the gradient map returned by
	// GradientTape.Backward. Parameters without a gradient are skipped.
	Step(grads map[*tensor.RawTensor]*tensor.RawTensor)

	// GetLR returns the current learning rate.
	GetLR() float32
}

// getGradient looks a parameter's gradient up by RawTensor identity.
func getGradient[B tensor.Backend](param *nn.Parameter[B], grads map[*tensor.RawTensor]*tensor.RawTensor) *tensor.RawTensor {
	if param == nil {
		return nil
	}
	return grads[param.Tensor().Raw()]
}
