package nn

import (
	"fmt"

	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Conv2D is a 2D convolution layer in NCHW layout.
//
// Weight shape is [outChannels, inChannels, KH, KW]. The bias is stored
// as [outChannels] and reshaped to [1, C, 1, 1] in Forward so it
// broadcasts over batch and spatial dimensions; the reshape is a recorded
// op, so the bias parameter receives its gradient.
type Conv2D[B tensor.Backend] struct {
	weight      *Parameter[B]
	bias        *Parameter[B]
	inChannels  int
	outChannels int
	kernelH     int
	kernelW     int
	stride      int
	padding     int
}

// NewConv2D creates a convolution layer with He-normal weights
// (fan_in = inChannels * KH * KW) and zero bias.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelH, kernelW, stride, padding int, backend B) *Conv2D[B] {
	fanIn := inChannels * kernelH * kernelW
	w := HeNormal(fanIn, tensor.Shape{outChannels, inChannels, kernelH, kernelW}, backend)
	b := Zeros(tensor.Shape{outChannels}, backend)
	return &Conv2D[B]{
		weight:      NewParameter("conv2d.weight", w),
		bias:        NewParameter("conv2d.bias", b),
		inChannels:  inChannels,
		outChannels: outChannels,
		kernelH:     kernelH,
		kernelW:     kernelW,
		stride:      stride,
		padding:     padding,
	}
}

// Forward convolves input [batch, inChannels, H, W] and adds the bias.
func (c *Conv2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) != 4 || shape[1] != c.inChannels {
		panic(fmt.Sprintf("Conv2D expects [batch, %d, H, W] input, got %v", c.inChannels, shape))
	}
	out := input.Conv2D(c.weight.Tensor(), c.stride, c.padding)
	biasView := c.bias.Tensor().Reshape(1, c.outChannels, 1, 1)
	return out.Add(biasView)
}

// Parameters returns weight and bias.
func (c *Conv2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{c.weight, c.bias}
}

// String describes the layer.
func (c *Conv2D[B]) String() string {
	return fmt.Sprintf("Conv2D(in=%d, out=%d, kernel=%dx%d, stride=%d, padding=%d)",
		c.inChannels, c.outChannels, c.kernelH, c.kernelW, c.stride, c.padding)
}
