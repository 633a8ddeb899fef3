package optim

import (
	"github.com/chewxy/math32"

	"github.com/HwayGuo/keras-cnn/internal/nn"
	"github.com/HwayGuo/keras-cnn/internal/tensor"
)

// Adam implements Adam (Kingma & Ba, 2014): per-parameter exponential
// moving averages of the gradient and its square, with bias correction.
//
//	m_t = beta1*m + (1-beta1)*g
//	v_t = beta2*v + (1-beta2)*g²
//	param -= lr * (m_t/(1-beta1^t)) / (sqrt(v_t/(1-beta2^t)) + eps)
type Adam[B tensor.Backend] struct {
	params  []*nn.Parameter[B]
	lr      float32
	beta1   float32
	beta2   float32
	eps     float32
	t       int
	m       map[*nn.Parameter[B]][]float32
	v       map[*nn.Parameter[B]][]float32
}

// AdamConfig holds the optimizer hyperparameters. Zero values fall back
// to the standard defaults (lr 0.001, betas 0.9/0.999, eps 1e-8).
type AdamConfig struct {
	LR    float32
	Betas [2]float32
	Eps   float32
}

// NewAdam creates an Adam optimizer over the given parameters.
func NewAdam[B tensor.Backend](params []*nn.Parameter[B], config AdamConfig) *Adam[B] {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam[B]{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*nn.Parameter[B]][]float32),
		v:      make(map[*nn.Parameter[B]][]float32),
	}
}

// Step applies one Adam update.
func (a *Adam[B]) Step(grads map[*tensor.RawTensor]*tensor.RawTensor) {
	a.t++
	biasCorrection1 := 1 - math32.Pow(a.beta1, float32(a.t))
	biasCorrection2 := 1 - math32.Pow(a.beta2, float32(a.t))

	for _, param := range a.params {
		grad := getGradient(param, grads)
		if grad == nil {
			continue // parameter did not participate in this forward pass
		}

		m, ok := a.m[param]
		if !ok {
			m = make([]float32, param.NumElements())
			a.m[param] = m
		}
		v, ok := a.v[param]
		if !ok {
			v = make([]float32, param.NumElements())
			a.v[param] = v
		}

		gradData := grad.AsFloat32()
		paramData := param.Tensor().Raw().AsFloat32()

		for i := range paramData {
			g := gradData[i]
			m[i] = a.beta1*m[i] + (1-a.beta1)*g
			v[i] = a.beta2*v[i] + (1-a.beta2)*g*g

			mHat := m[i] / biasCorrection1
			vHat := v[i] / biasCorrection2

			paramData[i] -= a.lr * mHat / (math32.Sqrt(vHat) + a.eps)
		}
	}
}

// GetLR returns the current learning rate.
func (a *Adam[B]) GetLR() float32 { return a.lr }

// SetLR updates the learning rate, for scheduling.
func (a *Adam[B]) SetLR(lr float32) { a.lr = lr }

// Timestep returns the number of steps applied so far.
func (a *Adam[B]) Timestep() int { return a.t }
