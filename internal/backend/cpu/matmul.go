package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// MatMul multiplies 2D matrices: [M, K] @ [K, N] -> [M, N].
func (b *Backend) MatMul(x, y *tensor.RawTensor) *tensor.RawTensor {
	xShape, yShape := x.Shape(), y.Shape()
	if len(xShape) != 2 || len(yShape) != 2 {
		panic(fmt.Sprintf("MatMul requires 2D tensors, got %v and %v", xShape, yShape))
	}
	if xShape[1] != yShape[0] {
		panic(fmt.Sprintf("MatMul inner dimensions mismatch: %v @ %v", xShape, yShape))
	}

	m, k, n := xShape[0], xShape[1], yShape[1]
	out := tensor.MustNewRaw(tensor.Shape{m, n}, tensor.Float32, b.Device())
	matmulFloat32(x.AsFloat32(), y.AsFloat32(), out.AsFloat32(), m, k, n)
	return out
}

// matmulFloat32 computes c = a @ b using an i-k-j loop order so the inner
// loop streams over contiguous rows of b and c.
func matmulFloat32(a, b, c []float32, m, k, n int) {
	for i := 0; i < m; i++ {
		aRow := a[i*k : (i+1)*k]
		cRow := c[i*n : (i+1)*n]
		for p := 0; p < k; p++ {
			av := aRow[p]
			if av == 0 {
				continue
			}
			bRow := b[p*n : (p+1)*n]
			for j := range cRow {
				cRow[j] += av * bRow[j]
			}
		}
	}
}
