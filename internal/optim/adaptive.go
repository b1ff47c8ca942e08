package optim

import (
	"math"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// AdaGrad scales each coordinate by the root of its accumulated squared
// gradients.
//
// Update rule:
//
//	v = v + gradient²
//	param = param - lr * gradient / sqrt(eps + v)
type AdaGrad struct {
	lr    float64
	state stateTable
}

// NewAdaGrad creates a new AdaGrad optimizer.
func NewAdaGrad(config Config) *AdaGrad {
	return &AdaGrad{
		lr:    defaultLR(config.LR),
		state: newStateTable(false),
	}
}

// Name returns "adagrad".
func (o *AdaGrad) Name() string { return "adagrad" }

// Update applies the AdaGrad rule to p.
func (o *AdaGrad) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("AdaGrad.Update", p, grad)
	v := o.state.get(p).v.Data()
	w := p.Tensor().Data()
	g := grad.Data()

	for i := range w {
		v[i] += g[i] * g[i]
		w[i] -= o.lr * g[i] / math.Sqrt(Epsilon+v[i])
	}
}

// GetLR returns the current learning rate.
func (o *AdaGrad) GetLR() float64 { return o.lr }

// SetLR updates the learning rate.
func (o *AdaGrad) SetLR(lr float64) { o.lr = lr }

// Reset zeroes every accumulator.
func (o *AdaGrad) Reset() { o.state.reset() }

// Slots returns the number of parameters with state.
func (o *AdaGrad) Slots() int { return len(o.state.slots) }

// RMSProp scales each coordinate by the root of a running average of
// squared gradients.
//
// Update rule:
//
//	v = beta * v + (1 - beta) * gradient²
//	param = param - lr * gradient / sqrt(eps + v)
type RMSProp struct {
	lr    float64
	beta  float64
	state stateTable
}

// RMSPropConfig holds configuration for RMSProp optimizer.
type RMSPropConfig struct {
	LR   float64 // Learning rate (default: 0.01)
	Beta float64 // Decay of the running average (default: 0.9)
}

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) *RMSProp {
	if config.Beta == 0 {
		config.Beta = 0.9
	}
	return &RMSProp{
		lr:    defaultLR(config.LR),
		beta:  config.Beta,
		state: newStateTable(false),
	}
}

// Name returns "rmsprop".
func (o *RMSProp) Name() string { return "rmsprop" }

// Update applies the RMSProp rule to p.
func (o *RMSProp) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("RMSProp.Update", p, grad)
	v := o.state.get(p).v.Data()
	w := p.Tensor().Data()
	g := grad.Data()

	for i := range w {
		v[i] = o.beta*v[i] + (1-o.beta)*g[i]*g[i]
		w[i] -= o.lr * g[i] / math.Sqrt(Epsilon+v[i])
	}
}

// GetLR returns the current learning rate.
func (o *RMSProp) GetLR() float64 { return o.lr }

// SetLR updates the learning rate.
func (o *RMSProp) SetLR(lr float64) { o.lr = lr }

// Reset zeroes every running average.
func (o *RMSProp) Reset() { o.state.reset() }

// Slots returns the number of parameters with state.
func (o *RMSProp) Slots() int { return len(o.state.slots) }
