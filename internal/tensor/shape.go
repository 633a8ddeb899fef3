package tensor

import "fmt"

// Shape describes tensor dimensions in row-major order.
type Shape []int

// NumElements returns the total element count. A zero-length shape is a
// scalar and counts as one element.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate reports an error if any dimension is non-positive.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim <= 0 {
			return fmt.Errorf("dimension %d has invalid size %d", i, dim)
		}
	}
	return nil
}

// Equal reports whether two shapes have identical dimensions.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy of the shape.
func (s Shape) Clone() Shape {
	out := make(Shape, len(s))
	copy(out, s)
	return out
}

// String renders the shape like [3 32 32].
func (s Shape) String() string {
	return fmt.Sprintf("%v", []int(s))
}

// ComputeStrides returns row-major strides for the shape.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	acc := 1
	for i := len(s) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= s[i]
	}
	return strides
}

// BroadcastShapes computes the NumPy-style broadcast of two shapes.
// Shapes are aligned from the right; a dimension of 1 stretches to match.
func BroadcastShapes(a, b Shape) (Shape, error) {
	ndim := len(a)
	if len(b) > ndim {
		ndim = len(b)
	}
	out := make(Shape, ndim)
	for i := 0; i < ndim; i++ {
		da, db := 1, 1
		if idx := len(a) - ndim + i; idx >= 0 {
			da = a[idx]
		}
		if idx := len(b) - ndim + i; idx >= 0 {
			db = b[idx]
		}
		switch {
		case da == db:
			out[i] = da
		case da == 1:
			out[i] = db
		case db == 1:
			out[i] = da
		default:
			return nil, fmt.Errorf("shapes %v and %v are not broadcastable", a, b)
		}
	}
	return out, nil
}
