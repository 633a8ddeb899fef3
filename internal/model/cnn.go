// Package model defines the FTSwish CNN image classifier.
package model

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/dataset"
	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Name identifies the model in evaluation reports.
const Name = "FTSwish CNN"

// DropoutRate is applied after each pooling stage.
const DropoutRate = 0.5

// FTSwishCNN classifies 32x32 RGB images into the ten CIFAR-10 classes.
//
// Architecture (valid padding throughout):
//
//	Input [N, 3, 32, 32]
//	Conv2D 3->64, 3x3, FTSwish      -> [N, 64, 30, 30]
//	MaxPool 2x2                     -> [N, 64, 15, 15]
//	Dropout 0.5
//	Conv2D 64->128, 3x3, FTSwish    -> [N, 128, 13, 13]
//	MaxPool 2x2                     -> [N, 128, 6, 6]
//	Dropout 0.5
//	Flatten                         -> [N, 4608]
//	Linear 4608->512, FTSwish
//	Linear 512->256, FTSwish
//	Linear 256->10, Softmax         -> [N, 10] probabilities
//
// Every hidden layer uses the same FTSwish instance, so the one threshold
// passed at construction governs the whole network.
type FTSwishCNN[B tensor.Backend] struct {
	conv1 *nn.Conv2D[B]
	pool1 *nn.MaxPool2D[B]
	drop1 *nn.Dropout[B]
	conv2 *nn.Conv2D[B]
	pool2 *nn.MaxPool2D[B]
	drop2 *nn.Dropout[B]
	fc1   *nn.Linear[B]
	fc2   *nn.Linear[B]
	fc3   *nn.Linear[B]
	act   *nn.FTSwish[B]
}

// flatFeatures is the flattened width after the second pooling stage:
// 128 channels x 6 x 6.
const flatFeatures = 128 * 6 * 6

// NewFTSwishCNN builds the network. The FTSwish threshold is an explicit
// argument; pass nn.DefaultThreshold for the standard t = -1.0.
func NewFTSwishCNN[B tensor.Backend](threshold float32, backend B) *FTSwishCNN[B] {
	return &FTSwishCNN[B]{
		conv1: nn.NewConv2D(dataset.Channels, 64, 3, 3, 1, 0, backend),
		pool1: nn.NewMaxPool2D[B](2, 2),
		drop1: nn.NewDropout[B](DropoutRate),
		conv2: nn.NewConv2D(64, 128, 3, 3, 1, 0, backend),
		pool2: nn.NewMaxPool2D[B](2, 2),
		drop2: nn.NewDropout[B](DropoutRate),
		fc1:   nn.NewLinear(flatFeatures, 512, backend),
		fc2:   nn.NewLinear(512, 256, backend),
		fc3:   nn.NewLinear(256, dataset.NumClasses, backend),
		act:   nn.NewFTSwish[B](threshold),
	}
}

// Forward maps a batch of images [N, 3, 32, 32] to class probabilities
// [N, 10]. Each output row sums to one.
func (m *FTSwishCNN[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != dataset.Channels || shape[2] != dataset.Height || shape[3] != dataset.Width {
		panic(fmt.Sprintf("expected [batch, %d, %d, %d] input, got %v",
			dataset.Channels, dataset.Height, dataset.Width, shape))
	}

	x := m.act.Forward(m.conv1.Forward(input)) // [N, 64, 30, 30]
	x = m.pool1.Forward(x)                     // [N, 64, 15, 15]
	x = m.drop1.Forward(x)

	x = m.act.Forward(m.conv2.Forward(x)) // [N, 128, 13, 13]
	x = m.pool2.Forward(x)                // [N, 128, 6, 6]
	x = m.drop2.Forward(x)

	x = x.Flatten() // [N, 4608]

	x = m.act.Forward(m.fc1.Forward(x))
	x = m.act.Forward(m.fc2.Forward(x))
	x = m.fc3.Forward(x)

	return x.Softmax(1) // [N, 10]
}

// SetTraining toggles dropout between training and eval behavior.
func (m *FTSwishCNN[B]) SetTraining(training bool) {
	m.drop1.SetTraining(training)
	m.drop2.SetTraining(training)
}

// Threshold returns the FTSwish threshold the network was built with.
func (m *FTSwishCNN[B]) Threshold() float32 {
	return m.act.Threshold()
}

// Parameters returns all trainable parameters.
func (m *FTSwishCNN[B]) Parameters() []*nn.Parameter[B] {
	params := make([]*nn.Parameter[B], 0, 10)
	params = append(params, m.conv1.Parameters()...)
	params = append(params, m.conv2.Parameters()...)
	params = append(params, m.fc1.Parameters()...)
	params = append(params, m.fc2.Parameters()...)
	params = append(params, m.fc3.Parameters()...)
	return params
}

// NumParameters returns the total trainable element count.
func (m *FTSwishCNN[B]) NumParameters() int {
	total := 0
	for _, p := range m.Parameters() {
		total += p.NumElements()
	}
	return total
}

// String summarizes the architecture.
func (m *FTSwishCNN[B]) String() string {
	return fmt.Sprintf(`FTSwishCNN(
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  %s
  activation: %s
)`,
		m.conv1, m.pool1, m.drop1,
		m.conv2, m.pool2, m.drop2,
		m.fc1, m.fc2, m.fc3,
		m.act)
}
