package cpu

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// MaxPool2D applies max pooling over kernelSize x kernelSize windows with
// the given stride. No padding: trailing rows/columns that do not fill a
// window are dropped, matching the usual "valid" pooling.
//
//	input  [N, C, H, W]
//	output [N, C, (H-k)/stride+1, (W-k)/stride+1]
func (b *Backend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	batch, channels, h, w, outH, outW := poolDims(input.Shape(), kernelSize, stride)

	out := tensor.MustNewRaw(tensor.Shape{batch, channels, outH, outW}, tensor.Float32, b.Device())
	inData, outData := input.AsFloat32(), out.AsFloat32()

	for n := 0; n < batch; n++ {
		for c := 0; c < channels; c++ {
			plane := inData[(n*channels+c)*h*w:]
			outPlane := outData[(n*channels+c)*outH*outW:]
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					outPlane[oy*outW+ox] = plane[poolArgmax(plane, w, oy*stride, ox*stride, kernelSize)]
				}
			}
		}
	}
	return out
}

// MaxPool2DBackward routes the output gradient back to the positions that
// won the max in the forward pass. The argmax is recomputed from the saved
// input; ties resolve to the first (row-major) maximum, the same position
// the forward pass selected.
func (b *Backend) MaxPool2DBackward(input, outputGrad *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	batch, channels, h, w, outH, outW := poolDims(input.Shape(), kernelSize, stride)
	ogShape := outputGrad.Shape()
	if len(ogShape) != 4 || ogShape[2] != outH || ogShape[3] != outW {
		panic(fmt.Sprintf("MaxPool2DBackward gradient shape %v does not match pooled shape", ogShape))
	}

	grad := tensor.MustNewRaw(input.Shape(), tensor.Float32, b.Device())
	inData, gData, ogData := input.AsFloat32(), grad.AsFloat32(), outputGrad.AsFloat32()

	for n := 0; n < batch; n++ {
		for c := 0; c < channels; c++ {
			base := (n*channels + c) * h * w
			plane := inData[base:]
			gPlane := gData[base:]
			ogPlane := ogData[(n*channels+c)*outH*outW:]
			for oy := 0; oy < outH; oy++ {
				for ox := 0; ox < outW; ox++ {
					idx := poolArgmax(plane, w, oy*stride, ox*stride, kernelSize)
					gPlane[idx] += ogPlane[oy*outW+ox]
				}
			}
		}
	}
	return grad
}

// poolArgmax returns the flat plane index of the maximum inside one window.
func poolArgmax(plane []float32, w, startY, startX, k int) int {
	best := startY*w + startX
	bestVal := plane[best]
	for ky := 0; ky < k; ky++ {
		rowBase := (startY + ky) * w
		for kx := 0; kx < k; kx++ {
			idx := rowBase + startX + kx
			if plane[idx] > bestVal {
				bestVal = plane[idx]
				best = idx
			}
		}
	}
	return best
}

func poolDims(shape tensor.Shape, kernelSize, stride int) (batch, channels, h, w, outH, outW int) {
	if len(shape) != 4 {
		panic(fmt.Sprintf("MaxPool2D requires 4D input, got %v", shape))
	}
	if kernelSize < 1 || stride < 1 {
		panic("MaxPool2D kernelSize and stride must be >= 1")
	}
	batch, channels, h, w = shape[0], shape[1], shape[2], shape[3]
	outH = (h-kernelSize)/stride + 1
	outW = (w-kernelSize)/stride + 1
	if outH < 1 || outW < 1 {
		panic(fmt.Sprintf("MaxPool2D window %d does not fit input %dx%d", kernelSize, h, w))
	}
	return
}
