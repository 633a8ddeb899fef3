package cpu

import (
	"math"
	"testing"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

func floatEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) <= float64(tol)
}

func rawFrom(t *testing.T, data []float32, shape tensor.Shape) *tensor.RawTensor {
	t.Helper()
	raw := tensor.MustNewRaw(shape, tensor.Float32, tensor.CPU)
	copy(raw.AsFloat32(), data)
	return raw
}

func TestMatMul(t *testing.T) {
	b := New()
	a := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	c := rawFrom(t, []float32{7, 8, 9, 10, 11, 12}, tensor.Shape{3, 2})

	out := b.MatMul(a, c)
	want := []float32{58, 64, 139, 154}
	got := out.AsFloat32()
	for i := range want {
		if !floatEqual(got[i], want[i], 1e-6) {
			t.Fatalf("MatMul[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAddBroadcastBias(t *testing.T) {
	b := New()
	x := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
	bias := rawFrom(t, []float32{10, 20, 30}, tensor.Shape{3})

	out := b.Add(x, bias)
	want := []float32{11, 22, 33, 14, 25, 36}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Add[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAddBroadcastChannelBias(t *testing.T) {
	b := New()
	// [1, 2, 1, 1] bias against [1, 2, 2, 2] feature map.
	x := rawFrom(t, []float32{1, 1, 1, 1, 2, 2, 2, 2}, tensor.Shape{1, 2, 2, 2})
	bias := rawFrom(t, []float32{10, 20}, tensor.Shape{1, 2, 1, 1})

	out := b.Add(x, bias)
	want := []float32{11, 11, 11, 11, 22, 22, 22, 22}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Add[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTranspose2D(t *testing.T) {
	b := New()
	x := rawFrom(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})

	out := b.Transpose(x)
	if !out.Shape().Equal(tensor.Shape{3, 2}) {
		t.Fatalf("Transpose shape = %v, want [3 2]", out.Shape())
	}
	want := []float32{1, 4, 2, 5, 3, 6}
	got := out.AsFloat32()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Transpose[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSoftmaxRowsSumToOne(t *testing.T) {
	b := New()
	x := rawFrom(t, []float32{1, 2, 3, -1000, 0, 1000}, tensor.Shape{2, 3})

	out := b.Softmax(x, 1)
	got := out.AsFloat32()
	for r := 0; r < 2; r++ {
		var sum float32
		for c := 0; c < 3; c++ {
			v := got[r*3+c]
			if v < 0 || v > 1 {
				t.Fatalf("softmax value out of range: %v", v)
			}
			sum += v
		}
		if !floatEqual(sum, 1, 1e-5) {
			t.Fatalf("row %d sums to %v, want 1", r, sum)
		}
	}
	// Extreme logits must not produce NaN.
	for i, v := range got {
		if math.IsNaN(float64(v)) {
			t.Fatalf("softmax produced NaN at %d", i)
		}
	}
}

func TestArgmax(t *testing.T) {
	b := New()
	x := rawFrom(t, []float32{0.1, 0.7, 0.2, 0.9, 0.05, 0.05}, tensor.Shape{2, 3})

	out := b.Argmax(x, 1)
	got := out.AsInt32()
	if got[0] != 1 || got[1] != 0 {
		t.Errorf("Argmax = %v, want [1 0]", got)
	}
}

func TestSum(t *testing.T) {
	b := New()
	x := rawFrom(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	if got := b.Sum(x).AsFloat32()[0]; got != 10 {
		t.Errorf("Sum = %v, want 10", got)
	}
}
