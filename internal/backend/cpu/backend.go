// Package cpu implements the tensor.Backend interface in pure Go.
//
// Kernels work on float32 (the training dtype); integer dtypes appear only
// in the Argmax output. Every kernel allocates a fresh output tensor and
// leaves its inputs untouched, which the autodiff tape relies on.
package cpu

import "github.com/HwayGuo/keras-cnn/internal/tensor"

// Backend is the CPU compute backend.
type Backend struct{}

// New creates a CPU backend.
func New() *Backend {
	return &Backend{}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "cpu"
}

// Device returns the compute device.
func (b *Backend) Device() tensor.Device {
	return tensor.CPU
}
