package optim

import (
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Momentum implements gradient descent with an exponential moving average
// of gradients.
//
// Update rule:
//
//	velocity = beta * velocity + (1 - beta) * gradient
//	param = param - lr * velocity
//
// Example:
//
//	opt := optim.NewMomentum(optim.MomentumConfig{LR: 0.1, Beta: 0.9})
type Momentum struct {
	lr    float64
	beta  float64
	state stateTable
}

// MomentumConfig holds configuration for Momentum optimizer.
type MomentumConfig struct {
	LR   float64 // Learning rate (default: 0.01)
	Beta float64 // Averaging coefficient (default: 0.9, range: [0, 1))
}

// NewMomentum creates a new Momentum optimizer.
func NewMomentum(config MomentumConfig) *Momentum {
	if config.Beta == 0 {
		config.Beta = 0.9
	}
	return &Momentum{
		lr:    defaultLR(config.LR),
		beta:  config.Beta,
		state: newStateTable(false),
	}
}

// Name returns "momentum".
func (o *Momentum) Name() string { return "momentum" }

// Update applies the momentum rule to p.
func (o *Momentum) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("Momentum.Update", p, grad)
	v := o.state.get(p).v

	// v = beta*v + (1-beta)*g
	v.Join(o.beta).JoinScaled(1-o.beta, grad)

	// w -= lr*v
	p.Tensor().JoinScaled(-o.lr, v)
}

// GetLR returns the current learning rate.
func (o *Momentum) GetLR() float64 { return o.lr }

// SetLR updates the learning rate.
func (o *Momentum) SetLR(lr float64) { o.lr = lr }

// Reset zeroes every velocity buffer.
func (o *Momentum) Reset() { o.state.reset() }

// Slots returns the number of parameters with state.
func (o *Momentum) Slots() int { return len(o.state.slots) }

// Velocity returns a copy of p's velocity, if any.
func (o *Momentum) Velocity(p *nn.Parameter) (*tensor.Tensor, bool) {
	st, ok := o.state.lookup(p)
	if !ok {
		return nil, false
	}
	return st.v.Clone(), true
}

// Nesterov implements Nesterov accelerated gradient with the look-ahead
// correction folded into the parameter update.
//
// Update rule:
//
//	velocity = mu * velocity - lr * gradient
//	param = param + mu * velocity - lr * gradient
type Nesterov struct {
	lr    float64
	mu    float64
	state stateTable
}

// NesterovConfig holds configuration for Nesterov optimizer.
type NesterovConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor mu (default: 0.9, range: [0, 1))
}

// NewNesterov creates a new Nesterov optimizer.
func NewNesterov(config NesterovConfig) *Nesterov {
	if config.Momentum == 0 {
		config.Momentum = 0.9
	}
	return &Nesterov{
		lr:    defaultLR(config.LR),
		mu:    config.Momentum,
		state: newStateTable(false),
	}
}

// Name returns "nesterov".
func (o *Nesterov) Name() string { return "nesterov" }

// Update applies the Nesterov rule to p.
func (o *Nesterov) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("Nesterov.Update", p, grad)
	v := o.state.get(p).v.Data()
	w := p.Tensor().Data()
	g := grad.Data()

	for i := range w {
		v[i] = o.mu*v[i] - o.lr*g[i]
		w[i] += o.mu*v[i] - o.lr*g[i]
	}
}

// GetLR returns the current learning rate.
func (o *Nesterov) GetLR() float64 { return o.lr }

// SetLR updates the learning rate.
func (o *Nesterov) SetLR(lr float64) { o.lr = lr }

// Reset zeroes every velocity buffer.
func (o *Nesterov) Reset() { o.state.reset() }

// Slots returns the number of parameters with state.
func (o *Nesterov) Slots() int { return len(o.state.slots) }
