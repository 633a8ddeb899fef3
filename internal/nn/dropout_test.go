package nn

import (
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

func TestDropoutEvalIsIdentity(t *testing.T) {
	backend := autodiff.New(cpu.New())
	drop := NewDropout[autodiffCPU](0.5)
	drop.SetTraining(false)

	in := []float32{1, 2, 3, 4}
	x, _ := tensor.FromSlice(in, tensor.Shape{4}, backend)
	out := drop.Forward(x).Data()
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("eval dropout changed element %d: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestDropoutZeroRateIsIdentity(t *testing.T) {
	backend := autodiff.New(cpu.New())
	drop := NewDropout[autodiffCPU](0)
	drop.SetTraining(true)

	in := []float32{1, 2, 3, 4}
	x, _ := tensor.FromSlice(in, tensor.Shape{4}, backend)
	out := drop.Forward(x).Data()
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("p=0 dropout changed element %d: %v -> %v", i, in[i], out[i])
		}
	}
}

func TestDropoutTrainingScalesSurvivors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	drop := NewDropout[autodiffCPU](0.5)
	drop.SetTraining(true)

	in := make([]float32, 1000)
	for i := range in {
		in[i] = 1
	}
	x, _ := tensor.FromSlice(in, tensor.Shape{len(in)}, backend)
	out := drop.Forward(x).Data()

	kept := 0
	for i, v := range out {
		switch v {
		case 0:
		case 2: // inverted scaling 1/(1-p)
			kept++
		default:
			t.Fatalf("element %d = %v, want 0 or 2", i, v)
		}
	}
	// Keep rate should be near 0.5; a band of ±10% is ~10 sigma wide.
	if kept < 400 || kept > 600 {
		t.Errorf("kept %d of 1000 elements, want about 500", kept)
	}
}

func TestDropoutRejectsInvalidRate(t *testing.T) {
	for _, p := range []float32{-0.1, 1, 1.5} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for rate %v", p)
				}
			}()
			NewDropout[autodiffCPU](p)
		}()
	}
}
