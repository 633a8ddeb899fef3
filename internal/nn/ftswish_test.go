package nn

import (
	"math"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

type autodiffCPU = *autodiff.AutodiffBackend[*cpu.Backend]

func floatEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func applyFTSwish(t *testing.T, inputs []float32, threshold float32) []float32 {
	t.Helper()
	backend := autodiff.New(cpu.New())
	act := NewFTSwish[autodiffCPU](threshold)
	x, err := tensor.FromSlice(inputs, tensor.Shape{len(inputs)}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return act.Forward(x).Data()
}

func TestFTSwishNegativeInputsSaturateAtThreshold(t *testing.T) {
	const threshold = -1.0
	inputs := []float32{-100, -5, -1, -0.001, 0}
	out := applyFTSwish(t, inputs, threshold)
	for i, v := range out {
		if v != threshold {
			t.Errorf("ftswish(%v) = %v, want exactly %v", inputs[i], v, threshold)
		}
	}
}

func TestFTSwishPositiveInputs(t *testing.T) {
	const threshold = -1.0
	inputs := []float32{0.5, 1, 2, 50}
	out := applyFTSwish(t, inputs, threshold)

	for i, x := range inputs {
		sig := float32(1 / (1 + math.Exp(-float64(x))))
		want := x*sig + threshold
		if want < threshold {
			want = threshold
		}
		if !floatEqual(out[i], want, 1e-5) {
			t.Errorf("ftswish(%v) = %v, want %v", x, out[i], want)
		}
	}
	// x·sigmoid(x) approaches x for large x.
	if !floatEqual(out[3], 50+threshold, 1e-4) {
		t.Errorf("ftswish(50) = %v, want ~%v", out[3], 50+threshold)
	}
}

func TestFTSwishNeverBelowThreshold(t *testing.T) {
	for _, threshold := range []float32{-0.5, -1.0, -2.0} {
		inputs := []float32{-3, -1, -0.2, 0, 0.1, 0.2, 0.4, 1, 3}
		out := applyFTSwish(t, inputs, threshold)
		for i, v := range out {
			if v < threshold {
				t.Errorf("threshold %v: ftswish(%v) = %v below threshold", threshold, inputs[i], v)
			}
		}
	}
}

func TestFTSwishNaNPropagates(t *testing.T) {
	nan := float32(math.NaN())
	out := applyFTSwish(t, []float32{-1, nan, 2}, -1.0)

	if out[0] != -1 {
		t.Errorf("ftswish(-1) = %v, want -1", out[0])
	}
	if !math.IsNaN(float64(out[1])) {
		t.Errorf("ftswish(NaN) = %v, want NaN", out[1])
	}
	if math.IsNaN(float64(out[2])) {
		t.Error("NaN leaked into a neighboring element")
	}
}

func TestFTSwishRejectsNonNegativeThreshold(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for threshold 0")
		}
	}()
	NewFTSwish[autodiffCPU](0)
}
