package optim

import (
	"math"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

func floatEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func paramFrom(t *testing.T, data []float32, shape tensor.Shape) *nn.Parameter[*cpu.Backend] {
	t.Helper()
	tn, err := tensor.FromSlice(data, shape, cpu.New())
	if err != nil {
		t.Fatal(err)
	}
	return nn.NewParameter("w", tn)
}

func gradFor(t *testing.T, param *nn.Parameter[*cpu.Backend], data []float32) map[*tensor.RawTensor]*tensor.RawTensor {
	t.Helper()
	raw := tensor.MustNewRaw(param.Tensor().Shape(), tensor.Float32, tensor.CPU)
	copy(raw.AsFloat32(), data)
	return map[*tensor.RawTensor]*tensor.RawTensor{param.Tensor().Raw(): raw}
}

func TestAdamFirstStep(t *testing.T) {
	param := paramFrom(t, []float32{1.0}, tensor.Shape{1})
	opt := NewAdam([]*nn.Parameter[*cpu.Backend]{param}, AdamConfig{})

	opt.Step(gradFor(t, param, []float32{0.5}))

	// First step: mHat = g, vHat = g², so the update is lr·g/(|g|+eps) ≈ lr.
	got := param.Tensor().Data()[0]
	if !floatEqual(got, 0.999, 1e-6) {
		t.Errorf("param after one step = %v, want 0.999", got)
	}
	if opt.Timestep() != 1 {
		t.Errorf("timestep = %d, want 1", opt.Timestep())
	}
}

func TestAdamNegativeGradientMovesUp(t *testing.T) {
	param := paramFrom(t, []float32{1.0}, tensor.Shape{1})
	opt := NewAdam([]*nn.Parameter[*cpu.Backend]{param}, AdamConfig{LR: 0.01})

	opt.Step(gradFor(t, param, []float32{-0.5}))

	got := param.Tensor().Data()[0]
	if !floatEqual(got, 1.01, 1e-5) {
		t.Errorf("param after one step = %v, want 1.01", got)
	}
}

func TestAdamSkipsParameterWithoutGradient(t *testing.T) {
	used := paramFrom(t, []float32{1.0}, tensor.Shape{1})
	unused := paramFrom(t, []float32{3.0}, tensor.Shape{1})
	opt := NewAdam([]*nn.Parameter[*cpu.Backend]{used, unused}, AdamConfig{})

	opt.Step(gradFor(t, used, []float32{0.5}))

	if got := unused.Tensor().Data()[0]; got != 3.0 {
		t.Errorf("unused param changed to %v", got)
	}
}

func TestAdamConvergesOnQuadratic(t *testing.T) {
	// Minimize (w - 2)² from w = 0 with the defaults.
	param := paramFrom(t, []float32{0}, tensor.Shape{1})
	opt := NewAdam([]*nn.Parameter[*cpu.Backend]{param}, AdamConfig{LR: 0.1})

	for i := 0; i < 300; i++ {
		w := param.Tensor().Data()[0]
		grad := 2 * (w - 2)
		opt.Step(gradFor(t, param, []float32{grad}))
	}

	got := param.Tensor().Data()[0]
	if !floatEqual(got, 2.0, 0.05) {
		t.Errorf("w after 300 steps = %v, want ~2.0", got)
	}
}

func TestAdamSetLR(t *testing.T) {
	param := paramFrom(t, []float32{1.0}, tensor.Shape{1})
	opt := NewAdam([]*nn.Parameter[*cpu.Backend]{param}, AdamConfig{})

	if opt.GetLR() != 0.001 {
		t.Errorf("default lr = %v, want 0.001", opt.GetLR())
	}
	opt.SetLR(0.0005)
	if opt.GetLR() != 0.0005 {
		t.Errorf("lr after SetLR = %v, want 0.0005", opt.GetLR())
	}
}
