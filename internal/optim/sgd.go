package optim

import (
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// GradientDescent implements plain gradient descent.
//
// Update rule:
//
//	param = param - lr * gradient
//
// It keeps no per-parameter state.
type GradientDescent struct {
	lr float64
}

// NewGradientDescent creates a gradient descent optimizer.
func NewGradientDescent(config Config) *GradientDescent {
	return &GradientDescent{lr: defaultLR(config.LR)}
}

// Name returns "gd".
func (g *GradientDescent) Name() string { return "gd" }

// Update applies param -= lr * grad.
func (g *GradientDescent) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("GradientDescent.Update", p, grad)
	p.Tensor().JoinScaled(-g.lr, grad)
}

// GetLR returns the current learning rate.
func (g *GradientDescent) GetLR() float64 { return g.lr }

// SetLR updates the learning rate.
func (g *GradientDescent) SetLR(lr float64) { g.lr = lr }

// Reset is a no-op; gradient descent is stateless.
func (g *GradientDescent) Reset() {}

// SGD implements stochastic gradient descent with weight decay.
//
// Update rule:
//
//	alpha = 1 - lr * decay
//	param = alpha * param - lr * gradient
//
// With Decay == 0 it is identical to GradientDescent.
type SGD struct {
	lr    float64
	decay float64
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR    float64 // Learning rate (default: 0.01)
	Decay float64 // Weight decay factor (default: 0)
}

// NewSGD creates a new SGD optimizer.
func NewSGD(config SGDConfig) *SGD {
	return &SGD{
		lr:    defaultLR(config.LR),
		decay: config.Decay,
	}
}

// Name returns "sgd".
func (s *SGD) Name() string { return "sgd" }

// Update applies param = (1 - lr*decay)*param - lr*grad.
func (s *SGD) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("SGD.Update", p, grad)
	alpha := 1 - s.lr*s.decay
	p.Tensor().Join(alpha).JoinScaled(-s.lr, grad)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 { return s.lr }

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) { s.lr = lr }

// Decay returns the weight decay factor.
func (s *SGD) Decay() float64 { return s.decay }

// Reset is a no-op; SGD is stateless.
func (s *SGD) Reset() {}
