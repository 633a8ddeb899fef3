package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Conv2DInputBackward computes the gradient of Conv2D w.r.t. its input:
// every output-gradient element is scattered back through the kernel taps
// that produced it.
func (b *Backend) Conv2DInputBackward(input, kernel, outputGrad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape, ogShape := input.Shape(), kernel.Shape(), outputGrad.Shape()
	batch, cin, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cout, kh, kw := kShape[0], kShape[2], kShape[3]
	outH, outW := ogShape[2], ogShape[3]
	checkConvGradShapes(inShape, kShape, ogShape)

	grad := tensor.MustNewRaw(inShape, tensor.Float32, b.Device())
	gData, kData, ogData := grad.AsFloat32(), kernel.AsFloat32(), outputGrad.AsFloat32()

	for n := 0; n < batch; n++ {
		for co := 0; co < cout; co++ {
			ogBase := (n*cout + co) * outH * outW
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					og := ogData[ogBase+oy*outW+ox]
					if og == 0 {
						continue
					}
					for ci := 0; ci < cin; ci++ {
						kBase := ((co*cin + ci) * kh) * kw
						gBase := (n*cin + ci) * h * w
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride - padding + ky
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride - padding + kx
								if ix < 0 || ix >= w {
									continue
								}
								gData[gBase+iy*w+ix] += og * kData[kBase+ky*kw+kx]
							}
						}
					}
				}
			}
		}
	}
	return grad
}

// Conv2DKernelBackward computes the gradient of Conv2D w.r.t. its kernel:
// a correlation of the input with the output gradient, accumulated over
// the batch.
func (b *Backend) Conv2DKernelBackward(input, kernel, outputGrad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inShape, kShape, ogShape := input.Shape(), kernel.Shape(), outputGrad.Shape()
	batch, cin, h, w := inShape[0], inShape[1], inShape[2], inShape[3]
	cout, kh, kw := kShape[0], kShape[2], kShape[3]
	outH, outW := ogShape[2], ogShape[3]
	checkConvGradShapes(inShape, kShape, ogShape)

	grad := tensor.MustNewRaw(kShape, tensor.Float32, b.Device())
	gData, inData, ogData := grad.AsFloat32(), input.AsFloat32(), outputGrad.AsFloat32()

	for n := 0; n < batch; n++ {
		for co := 0; co < cout; co++ {
			ogBase := (n*cout + co) * outH * outW
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					og := ogData[ogBase+oy*outW+ox]
					if og == 0 {
						continue
					}
					for ci := 0; ci < cin; ci++ {
						kBase := ((co*cin + ci) * kh) * kw
						inBase := (n*cin + ci) * h * w
						for ky := 0; ky < kh; ky++ {
							iy := oy*stride - padding + ky
							if iy < 0 || iy >= h {
								continue
							}
							for kx := 0; kx < kw; kx++ {
								ix := ox*stride - padding + kx
								if ix < 0 || ix >= w {
									continue
								}
								gData[kBase+ky*kw+kx] += og * inData[inBase+iy*w+ix]
							}
						}
					}
				}
			}
		}
	}
	return grad
}

func checkConvGradShapes(inShape, kShape, ogShape tensor.Shape) {
	if len(inShape) != 4 || len(kShape) != 4 || len(ogShape) != 4 {
		panic("Conv2D backward requires 4D tensors")
	}
	if inShape[0] != ogShape[0] || kShape[0] != ogShape[1] || inShape[1] != kShape[1] {
		panic(fmt.Sprintf("Conv2D backward shape mismatch: input %v, kernel %v, outputGrad %v",
			inShape, kShape, ogShape))
	}
}
