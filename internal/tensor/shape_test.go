package tensor

import "testing"

func TestShapeNumElements(t *testing.T) {
	tests := []struct {
		shape Shape
		want  int
	}{
		{Shape{4, 3, 32, 32}, 12288},
		{Shape{10}, 10},
		{Shape{}, 1},
	}
	for _, tt := range tests {
		if got := tt.shape.NumElements(); got != tt.want {
			t.Errorf("NumElements(%v) = %d, want %d", tt.shape, got, tt.want)
		}
	}
}

func TestComputeStrides(t *testing.T) {
	strides := Shape{2, 3, 4}.ComputeStrides()
	want := []int{12, 4, 1}
	for i := range want {
		if strides[i] != want[i] {
			t.Fatalf("ComputeStrides = %v, want %v", strides, want)
		}
	}
}

func TestBroadcastShapes(t *testing.T) {
	got, err := BroadcastShapes(Shape{4, 64, 15, 15}, Shape{1, 64, 1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Shape{4, 64, 15, 15}) {
		t.Errorf("broadcast = %v, want [4 64 15 15]", got)
	}

	got, err = BroadcastShapes(Shape{250, 10}, Shape{10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(Shape{250, 10}) {
		t.Errorf("broadcast = %v, want [250 10]", got)
	}

	if _, err := BroadcastShapes(Shape{3, 4}, Shape{5, 4}); err == nil {
		t.Error("expected error for incompatible shapes")
	}
}

func TestRawTensorTypedViews(t *testing.T) {
	raw := MustNewRaw(Shape{2, 3}, Float32, CPU)
	data := raw.AsFloat32()
	if len(data) != 6 {
		t.Fatalf("AsFloat32 length = %d, want 6", len(data))
	}
	data[4] = 2.5

	clone := raw.Clone()
	if clone.AsFloat32()[4] != 2.5 {
		t.Error("clone did not copy data")
	}
	clone.AsFloat32()[4] = 0
	if data[4] != 2.5 {
		t.Error("clone aliases the original buffer")
	}
}
