// Package optim implements gradient-based optimizers for the mlp engine.
//
// This package provides:
//   - Optimizer interface: update a parameter in place from its gradient
//   - GradientDescent, SGD (weight decay), Momentum, Nesterov
//   - AdaGrad, RMSProp, Adam
//
// Stateful optimizers keep one auxiliary entry per parameter, keyed by the
// parameter's stable ID and created on first use, so a single optimizer
// instance serves every layer of a network.
//
// Example usage:
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//
//	for _, layer := range net.Layers() {
//	    layer.Update(opt, 1.0/float64(batchSize))
//	}
package optim

import (
	"errors"
	"fmt"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// Epsilon is added to variance estimates before taking the square root.
const Epsilon = 1e-9

// ErrUnknownOptimizer is returned by New for unregistered names.
var ErrUnknownOptimizer = errors.New("unknown optimizer")

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers are not safe for concurrent use: updates for a given parameter
// must be serialized by the caller.
type Optimizer interface {
	// Name returns the registry identifier (e.g. "adam").
	Name() string

	// Update mutates p in place using grad. grad must have p's shape.
	Update(p *nn.Parameter, grad *tensor.Tensor)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate.
	//
	// Useful for learning rate scheduling during training.
	SetLR(lr float64)

	// Reset zeroes all auxiliary state without discarding entries.
	Reset()
}

// checkGrad panics if grad does not have the parameter's shape.
func checkGrad(op string, p *nn.Parameter, grad *tensor.Tensor) {
	if !p.Shape().Equal(grad.Shape()) {
		tensor.Mismatch(op, p.Shape(), grad.Shape(), fmt.Sprintf("gradient for %q must match parameter", p.Name()))
	}
}

// slot is the auxiliary state of one parameter.
type slot struct {
	v *tensor.Tensor // velocity / accumulated or running second moment
	m *tensor.Tensor // first moment (Adam only)
	t int            // timestep (Adam only)
}

// stateTable maps parameter IDs to lazily created slots.
type stateTable struct {
	slots   map[nn.ParamID]*slot
	moments bool // allocate m in addition to v
}

func newStateTable(moments bool) stateTable {
	return stateTable{
		slots:   make(map[nn.ParamID]*slot),
		moments: moments,
	}
}

// get returns p's slot, creating zeroed state shaped like p on first use.
// State is reallocated if the parameter's shape no longer matches.
func (s *stateTable) get(p *nn.Parameter) *slot {
	st, ok := s.slots[p.ID()]
	if ok && st.v.Shape().Equal(p.Shape()) {
		return st
	}

	st = &slot{v: tensor.New(p.Shape())}
	if s.moments {
		st.m = tensor.New(p.Shape())
	}
	s.slots[p.ID()] = st
	return st
}

// lookup returns p's slot without creating it.
func (s *stateTable) lookup(p *nn.Parameter) (*slot, bool) {
	st, ok := s.slots[p.ID()]
	return st, ok
}

// reset zeroes every slot in place.
func (s *stateTable) reset() {
	for _, st := range s.slots {
		st.v.Zero()
		if st.m != nil {
			st.m.Zero()
		}
		st.t = 0
	}
}

// Options selects and configures an optimizer by name.
//
// Zero-valued fields take the chosen optimizer's defaults.
type Options struct {
	Name     string  `yaml:"name"`
	LR       float64 `yaml:"lr"`
	Decay    float64 `yaml:"decay"`    // sgd
	Momentum float64 `yaml:"momentum"` // momentum (β), nesterov (μ)
	Beta     float64 `yaml:"beta"`     // rmsprop
	Beta1    float64 `yaml:"beta1"`    // adam
	Beta2    float64 `yaml:"beta2"`    // adam
}

// Names returns the names accepted by New.
func Names() []string {
	return []string{"adagrad", "adam", "gd", "momentum", "nesterov", "rmsprop", "sgd"}
}

// New creates the optimizer named by opts.Name.
func New(opts Options) (Optimizer, error) {
	switch opts.Name {
	case "gd", "gradient_descent":
		return NewGradientDescent(Config{LR: opts.LR}), nil
	case "sgd":
		return NewSGD(SGDConfig{LR: opts.LR, Decay: opts.Decay}), nil
	case "momentum":
		return NewMomentum(MomentumConfig{LR: opts.LR, Beta: opts.Momentum}), nil
	case "nesterov":
		return NewNesterov(NesterovConfig{LR: opts.LR, Momentum: opts.Momentum}), nil
	case "adagrad":
		return NewAdaGrad(Config{LR: opts.LR}), nil
	case "rmsprop":
		return NewRMSProp(RMSPropConfig{LR: opts.LR, Beta: opts.Beta}), nil
	case "adam":
		return NewAdam(AdamConfig{LR: opts.LR, Betas: [2]float64{opts.Beta1, opts.Beta2}}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOptimizer, opts.Name)
	}
}

// Config is the base configuration for optimizers with only a learning rate.
type Config struct {
	LR float64 // Learning rate (default: 0.01)
}

func defaultLR(lr float64) float64 {
	if lr == 0 {
		return 0.01
	}
	return lr
}
