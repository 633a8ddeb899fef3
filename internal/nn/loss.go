package nn

import (
	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// lossEpsilon clips probabilities before taking logs in the fallback path,
// matching the clipping the autodiff op applies.
const lossEpsilon = 1e-7

// CrossEntropyBackend is the capability interface for backends that
// compute categorical cross-entropy with gradient tracking.
type CrossEntropyBackend interface {
	CrossEntropy(probs, targets *tensor.RawTensor) *tensor.RawTensor
}

// CrossEntropyLoss is categorical cross-entropy over probabilities:
//
//	loss = -mean_b log(p[b, target_b])
//
// The model's final softmax produces the probabilities, so this is the
// Keras softmax + categorical_crossentropy pairing; composed through the
// recorded softmax the logits gradient is (p - onehot)/batch.
type CrossEntropyLoss[B tensor.Backend] struct {
	backend B
}

// NewCrossEntropyLoss creates the loss function.
func NewCrossEntropyLoss[B tensor.Backend](backend B) *CrossEntropyLoss[B] {
	return &CrossEntropyLoss[B]{backend: backend}
}

// Forward computes the mean loss for probs [batch, classes] and targets
// [batch] (int32 class indices), returning a tensor of shape [1].
//
// On an autodiff-aware backend the computation is recorded on the tape;
// otherwise a direct computation is used (forward-only evaluation).
func (c *CrossEntropyLoss[B]) Forward(
	probs *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) *tensor.Tensor[float32, B] {
	if ceBackend, ok := any(c.backend).(CrossEntropyBackend); ok {
		raw := ceBackend.CrossEntropy(probs.Raw(), targets.Raw())
		return tensor.New[float32, B](raw, c.backend)
	}

	shape := probs.Shape()
	if len(shape) != 2 {
		panic("CrossEntropyLoss: probabilities must be 2D [batch, classes]")
	}
	batch, classes := shape[0], shape[1]
	pData := probs.Raw().AsFloat32()
	tData := targets.Raw().AsInt32()
	if len(tData) != batch {
		panic("CrossEntropyLoss: targets must have shape [batch]")
	}

	var total float32
	for b := 0; b < batch; b++ {
		t := int(tData[b])
		if t < 0 || t >= classes {
			panic("CrossEntropyLoss: target index out of range")
		}
		p := pData[b*classes+t]
		if p < lossEpsilon {
			p = lossEpsilon
		}
		total -= math32.Log(p)
	}

	out := tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32, c.backend.Device())
	out.AsFloat32()[0] = total / float32(batch)
	return tensor.New[float32, B](out, c.backend)
}

// Parameters returns an empty slice; the loss has no trainable state.
func (c *CrossEntropyLoss[B]) Parameters() []*Parameter[B] {
	return nil
}

// Accuracy computes the fraction of rows whose argmax matches the target.
func Accuracy[B tensor.Backend](
	probs *tensor.Tensor[float32, B],
	targets *tensor.Tensor[int32, B],
) float32 {
	shape := probs.Shape()
	batch, classes := shape[0], shape[1]
	pData := probs.Raw().AsFloat32()
	tData := targets.Raw().AsInt32()

	correct := 0
	for b := 0; b < batch; b++ {
		row := pData[b*classes : (b+1)*classes]
		best := 0
		for i, v := range row {
			if v > row[best] {
				best = i
			}
		}
		if int32(best) == tData[b] {
			correct++
		}
	}
	return float32(correct) / float32(batch)
}
