package ops

import (
	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Epsilon clips probabilities away from 0 and 1 before taking logs,
// the same guard Keras applies in its categorical cross-entropy.
const Epsilon = 1e-7

// CrossEntropyOp records categorical cross-entropy over probabilities:
//
//	loss = -mean_b log(p[b, target_b])
//
// The model's softmax is a separate recorded op, so this op differentiates
// w.r.t. the probabilities; chained through SoftmaxOp.Backward the logits
// gradient works out to (p - onehot)/batch.
type CrossEntropyOp struct {
	probs   *tensor.RawTensor
	targets *tensor.RawTensor
	output  *tensor.RawTensor
}

// NewCrossEntropyOp creates a cross-entropy operation.
// probs is [batch, classes] float32, targets is [batch] int32 class indices.
func NewCrossEntropyOp(probs, targets, output *tensor.RawTensor) *CrossEntropyOp {
	return &CrossEntropyOp{probs: probs, targets: targets, output: output}
}

// Inputs returns the probability tensor. Targets carry no gradient.
func (op *CrossEntropyOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.probs}
}

// Output returns the scalar loss tensor of shape [1].
func (op *CrossEntropyOp) Output() *tensor.RawTensor { return op.output }

// Backward computes dL/dp[b,j] = -1/(batch * p[b,target_b]) for j equal to
// the target class and 0 elsewhere, scaled by the upstream scalar gradient.
func (op *CrossEntropyOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) []*tensor.RawTensor {
	shape := op.probs.Shape()
	batch, classes := shape[0], shape[1]

	grad := tensor.MustNewRaw(shape, tensor.Float32, backend.Device())
	gData := grad.AsFloat32()
	pData := op.probs.AsFloat32()
	targets := op.targets.AsInt32()
	upstream := outputGrad.AsFloat32()[0]

	for b := 0; b < batch; b++ {
		t := int(targets[b])
		p := clipProb(pData[b*classes+t])
		gData[b*classes+t] = -upstream / (float32(batch) * p)
	}
	return []*tensor.RawTensor{grad}
}

// CrossEntropyForward computes the mean negative log-likelihood loss.
func CrossEntropyForward(probs, targets *tensor.RawTensor, device tensor.Device) *tensor.RawTensor {
	shape := probs.Shape()
	if len(shape) != 2 {
		panic("cross-entropy requires [batch, classes] probabilities")
	}
	batch, classes := shape[0], shape[1]
	pData := probs.AsFloat32()
	tData := targets.AsInt32()
	if len(tData) != batch {
		panic("cross-entropy targets must have shape [batch]")
	}

	var total float32
	for b := 0; b < batch; b++ {
		t := int(tData[b])
		if t < 0 || t >= classes {
			panic("cross-entropy target index out of range")
		}
		total -= math32.Log(clipProb(pData[b*classes+t]))
	}

	out := tensor.MustNewRaw(tensor.Shape{1}, tensor.Float32, device)
	out.AsFloat32()[0] = total / float32(batch)
	return out
}

func clipProb(p float32) float32 {
	if p < Epsilon {
		return Epsilon
	}
	if p > 1-Epsilon {
		return 1 - Epsilon
	}
	return p
}
