package nn

import (
	"math"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

func TestCrossEntropyKnownValue(t *testing.T) {
	backend := autodiff.New(cpu.New())
	criterion := NewCrossEntropyLoss[autodiffCPU](backend)

	probs, _ := tensor.FromSlice([]float32{
		0.7, 0.2, 0.1,
		0.1, 0.1, 0.8,
	}, tensor.Shape{2, 3}, backend)
	targets, _ := tensor.FromSlice([]int32{0, 2}, tensor.Shape{2}, backend)

	loss := criterion.Forward(probs, targets).Item()
	want := float32(-(math.Log(0.7) + math.Log(0.8)) / 2)
	if !floatEqual(loss, want, 1e-5) {
		t.Errorf("loss = %v, want %v", loss, want)
	}
}

func TestCrossEntropyClipsZeroProbability(t *testing.T) {
	backend := autodiff.New(cpu.New())
	criterion := NewCrossEntropyLoss[autodiffCPU](backend)

	probs, _ := tensor.FromSlice([]float32{0, 1}, tensor.Shape{1, 2}, backend)
	targets, _ := tensor.FromSlice([]int32{0}, tensor.Shape{1}, backend)

	loss := criterion.Forward(probs, targets).Item()
	if math.IsInf(float64(loss), 0) || math.IsNaN(float64(loss)) {
		t.Fatalf("loss = %v, want finite value from epsilon clipping", loss)
	}
	want := float32(-math.Log(1e-7))
	if !floatEqual(loss, want, 1e-1) {
		t.Errorf("loss = %v, want ~%v", loss, want)
	}
}

func TestAccuracy(t *testing.T) {
	backend := autodiff.New(cpu.New())
	probs, _ := tensor.FromSlice([]float32{
		0.9, 0.05, 0.05,
		0.1, 0.6, 0.3,
		0.2, 0.3, 0.5,
		0.4, 0.4, 0.2,
	}, tensor.Shape{4, 3}, backend)
	targets, _ := tensor.FromSlice([]int32{0, 1, 0, 2}, tensor.Shape{4}, backend)

	got := Accuracy(probs, targets)
	if !floatEqual(got, 0.5, 1e-6) {
		t.Errorf("accuracy = %v, want 0.5", got)
	}
}
