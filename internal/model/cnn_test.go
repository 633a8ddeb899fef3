package model

import (
	"math"
	"math/rand"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/autodiff"
	"github.com/HwayGuo/keras-cnn/internal/backend/cpu"
	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

type autodiffCPU = *autodiff.AutodiffBackend[*cpu.Backend]

func randomImages(t *testing.T, batch int, backend autodiffCPU) *tensor.Tensor[float32, autodiffCPU] {
	t.Helper()
	data := make([]float32, batch*3*32*32)
	for i := range data {
		data[i] = rand.Float32()
	}
	x, err := tensor.FromSlice(data, tensor.Shape{batch, 3, 32, 32}, backend)
	if err != nil {
		t.Fatal(err)
	}
	return x
}

func TestForwardShapeAndDistribution(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := NewFTSwishCNN(nn.DefaultThreshold, backend)
	m.SetTraining(false)

	out := m.Forward(randomImages(t, 4, backend))
	if !out.Shape().Equal(tensor.Shape{4, 10}) {
		t.Fatalf("output shape = %v, want [4 10]", out.Shape())
	}

	data := out.Data()
	for b := 0; b < 4; b++ {
		var sum float32
		for c := 0; c < 10; c++ {
			v := data[b*10+c]
			if v < 0 || v > 1 {
				t.Errorf("prob[%d][%d] = %v outside [0, 1]", b, c, v)
			}
			sum += v
		}
		if math.Abs(float64(sum)-1) > 1e-5 {
			t.Errorf("row %d sums to %v, want 1", b, sum)
		}
	}
}

func TestNumParameters(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := NewFTSwishCNN(nn.DefaultThreshold, backend)

	// conv1 64·3·3·3+64, conv2 128·64·3·3+128, fc 4608·512+512,
	// 512·256+256, 256·10+10.
	const want = 1792 + 73856 + 2359808 + 131328 + 2570
	if got := m.NumParameters(); got != want {
		t.Errorf("NumParameters() = %d, want %d", got, want)
	}
}

func TestForwardRejectsBadShape(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := NewFTSwishCNN(nn.DefaultThreshold, backend)

	defer func() {
		if recover() == nil {
			t.Error("expected panic for non-image input")
		}
	}()
	x, _ := tensor.FromSlice(make([]float32, 12), tensor.Shape{3, 4}, backend)
	m.Forward(x)
}

func TestTrainingStepReducesTapeToGradients(t *testing.T) {
	backend := autodiff.New(cpu.New())
	m := NewFTSwishCNN(nn.DefaultThreshold, backend)
	m.SetTraining(true)

	backend.Tape().StartRecording()
	defer backend.Tape().StopRecording()

	probs := m.Forward(randomImages(t, 2, backend))
	targets, _ := tensor.FromSlice([]int32{1, 7}, tensor.Shape{2}, backend)
	loss := nn.NewCrossEntropyLoss[autodiffCPU](backend).Forward(probs, targets)

	grads := autodiff.Backward(loss, backend)
	backend.Tape().Clear()

	for _, p := range m.Parameters() {
		grad, ok := grads[p.Tensor().Raw()]
		if !ok {
			t.Fatalf("no gradient for parameter %s", p.Name())
		}
		if !grad.Shape().Equal(p.Tensor().Shape()) {
			t.Errorf("gradient shape %v for parameter %s shape %v",
				grad.Shape(), p.Name(), p.Tensor().Shape())
		}
	}
}
