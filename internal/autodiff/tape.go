package autodiff

import (
	"github.com/HwayGuo/keras-cnn/internal/autodiff/ops"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// GradientTape records operations during the forward pass and replays
// them in reverse to compute gradients.
type GradientTape struct {
	operations []ops.Operation
	recording  bool
}

// NewGradientTape creates a tape. Recording starts disabled; call
// StartRecording before the first training forward pass.
func NewGradientTape() *GradientTape {
	return &GradientTape{operations: make([]ops.Operation, 0, 64)}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() { t.recording = true }

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() { t.recording = false }

// IsRecording reports whether the tape is currently recording.
func (t *GradientTape) IsRecording() bool { return t.recording }

// Record appends an operation if recording is enabled.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear drops all recorded operations. Recording state is preserved; call
// it after every optimizer step so the tape does not grow across batches.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int { return len(t.operations) }

// Backward walks the tape in reverse, propagating outputGrad from the
// given output tensor back to every tensor that contributed to it.
// Operations that did not feed into output are skipped, so recording
// extra ops after the loss does not corrupt the result. Gradients for
// tensors used more than once are accumulated.
//
// Returns a map keyed by *RawTensor identity; look parameters up via
// their Raw() pointer.
func (t *GradientTape) Backward(output, outputGrad *tensor.RawTensor, backend tensor.Backend) map[*tensor.RawTensor]*tensor.RawTensor {
	grads := make(map[*tensor.RawTensor]*tensor.RawTensor)
	if len(t.operations) == 0 {
		return grads
	}

	// Recording stays off during backward so gradient arithmetic does
	// not append to the very tape being walked.
	wasRecording := t.recording
	t.recording = false
	defer func() { t.recording = wasRecording }()

	grads[output] = outputGrad

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outGrad, ok := grads[op.Output()]
		if !ok {
			continue // nothing downstream consumed this op's output
		}
		inputGrads := op.Backward(outGrad, backend)
		for j, input := range op.Inputs() {
			if j >= len(inputGrads) || inputGrads[j] == nil {
				continue
			}
			if existing, ok := grads[input]; ok {
				grads[input] = backend.Add(existing, inputGrads[j])
			} else {
				grads[input] = inputGrads[j]
			}
		}
	}
	return grads
}
