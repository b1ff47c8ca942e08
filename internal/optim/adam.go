package optim

import (
	"math"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam combines ideas from RMSProp and momentum:
//   - Maintains exponential moving averages of gradients (first moment)
//   - Maintains exponential moving averages of squared gradients (second moment)
//   - Applies bias correction to compensate for initialization at zero
//
// Update rule:
//
//	t = t + 1                                          // Per parameter
//	m_t = beta1 * m_{t-1} + (1-beta1) * gradient       // First moment
//	v_t = beta2 * v_{t-1} + (1-beta2) * gradient²      // Second moment
//	m_hat = m_t / (1 - beta1^t)                        // Bias correction
//	v_hat = v_t / (1 - beta2^t)                        // Bias correction
//	param = param - lr * m_hat / sqrt(eps + v_hat)     // Parameter update
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014)
//
// Example:
//
//	opt := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
//
//	for _, layer := range net.Layers() {
//	    layer.Update(opt, 1)
//	}
type Adam struct {
	lr    float64
	beta1 float64
	beta2 float64
	state stateTable
}

// AdamConfig holds configuration for Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.01)
	Betas [2]float64 // Coefficients for computing running averages (default: [0.9, 0.999])
}

// NewAdam creates a new Adam optimizer.
//
// Default hyperparameters:
//   - LR: 0.01
//   - Beta1: 0.9
//   - Beta2: 0.999
func NewAdam(config AdamConfig) *Adam {
	if config.Betas[0] == 0 {
		config.Betas[0] = 0.9
	}
	if config.Betas[1] == 0 {
		config.Betas[1] = 0.999
	}

	return &Adam{
		lr:    defaultLR(config.LR),
		beta1: config.Betas[0],
		beta2: config.Betas[1],
		state: newStateTable(true),
	}
}

// Name returns "adam".
func (a *Adam) Name() string { return "adam" }

// Update applies one Adam step to p.
//
// The timestep is tracked per parameter, so bias correction stays exact
// even when layers are updated a different number of times.
func (a *Adam) Update(p *nn.Parameter, grad *tensor.Tensor) {
	checkGrad("Adam.Update", p, grad)
	st := a.state.get(p)
	st.t++

	// bias_correction = 1 - beta^t
	bc1 := 1 - math.Pow(a.beta1, float64(st.t))
	bc2 := 1 - math.Pow(a.beta2, float64(st.t))

	w := p.Tensor().Data()
	g := grad.Data()
	m := st.m.Data()
	v := st.v.Data()

	for i := range w {
		m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
		v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]

		mHat := m[i] / bc1
		vHat := v[i] / bc2
		w[i] -= a.lr * mHat / math.Sqrt(Epsilon+vHat)
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 { return a.lr }

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) { a.lr = lr }

// Reset zeroes moments and timesteps of every parameter.
func (a *Adam) Reset() { a.state.reset() }

// Slots returns the number of parameters with state.
func (a *Adam) Slots() int { return len(a.state.slots) }

// Moments returns copies of p's moment estimates and its timestep.
// ok is false if p has never been updated.
func (a *Adam) Moments(p *nn.Parameter) (m, v *tensor.Tensor, t int, ok bool) {
	st, found := a.state.lookup(p)
	if !found {
		return nil, nil, 0, false
	}
	return st.m.Clone(), st.v.Clone(), st.t, true
}
