package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Conv2D performs 2D cross-correlation in NCHW layout via im2col + matmul.
//
//	input  [N, C_in, H, W]
//	kernel [C_out, C_in, KH, KW]
//	output [N, C_out, outH, outW]
//
// where outH = (H + 2*padding - KH)/stride + 1 and likewise for outW.
func (b *Backend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape := input.Shape(), kernel.Shape()
	if len(inShape) != 4 || len(kShape) != 4 {
		panic(fmt.Sprintf("Conv2D requires 4D input and kernel, got %v and %v", inShape, kShape))
	}
	if inShape[1] != kShape[1] {
		panic(fmt.Sprintf("Conv2D channel mismatch: input %v, kernel %v", inShape, kShape))
	}
	if stride < 1 {
		panic("Conv2D stride must be >= 1")
	}

	batch, cin, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cout, kh, kw := kShape[0], kShape[2], kShape[3]
	outH := (h+2*padding-kh)/stride + 1
	outW := (w+2*padding-kw)/stride + 1
	if outH < 1 || outW < 1 {
		panic(fmt.Sprintf("Conv2D kernel %dx%d does not fit input %dx%d", kh, kw, h, w))
	}

	out := tensor.MustNewRaw(tensor.Shape{batch, cout, outH, outW}, tensor.Float32, b.Device())
	inData, kData, outData := input.AsFloat32(), kernel.AsFloat32(), out.AsFloat32()

	colRows := cin * kh * kw
	colCols := outH * outW
	cols := make([]float32, colRows*colCols)

	for n := 0; n < batch; n++ {
		im2col(inData[n*cin*h*w:(n+1)*cin*h*w], cols, cin, h, w, kh, kw, stride, padding, outH, outW)

		// [C_out, colRows] @ [colRows, colCols] -> [C_out, colCols]
		outSample := outData[n*cout*colCols : (n+1)*cout*colCols]
		matmulFloat32(kData, cols, outSample, cout, colRows, colCols)
	}
	return out
}

// im2col unfolds conv windows of one sample into a [cin*kh*kw, outH*outW]
// column matrix. Out-of-bounds (padded) positions contribute zeros.
func im2col(img, cols []float32, cin, h, w, kh, kw, stride, padding, outH, outW int) {
	colCols := outH * outW
	row := 0
	for c := 0; c < cin; c++ {
		channel := img[c*h*w : (c+1)*h*w]
		for ky := 0; ky < kh; ky++ {
			for kx := 0; kx < kw; kx++ {
				dst := cols[row*colCols : (row+1)*colCols]
				row++
				i := 0
				for oy := 0; oy < outH; oy++ {
					iy := oy*stride - padding + ky
					for ox := 0; ox < outW; ox++ {
						ix := ox*stride - padding + kx
						if iy >= 0 && iy < h && ix >= 0 && ix < w {
							dst[i] = channel[iy*w+ix]
						} else {
							dst[i] = 0
						}
						i++
					}
				}
			}
		}
	}
}
