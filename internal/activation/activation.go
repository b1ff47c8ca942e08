// Package activation implements elementwise activation functions.
//
// Every activation exposes its forward map F and its derivative DF. DF is
// expressed in terms of the activation's output, which is what a layer keeps
// after its forward pass.
package activation

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownActivation is returned by ByName for unregistered names.
var ErrUnknownActivation = errors.New("unknown activation")

// Activation is an elementwise nonlinearity.
//
// F and DF write into dst, which must have the same length as the source and
// may alias it. Neither allocates.
type Activation interface {
	// Name returns the registry identifier (e.g. "sigmoid").
	Name() string

	// F computes dst[i] = f(src[i]).
	F(dst, src []float64)

	// DF computes dst[i] = f'(x) where value[i] = f(x).
	DF(dst, value []float64)
}

func checkLen(op string, dst, src []float64) {
	if len(dst) != len(src) {
		panic(fmt.Sprintf("%s: length mismatch %d vs %d", op, len(dst), len(src)))
	}
}

// Identity passes values through unchanged.
type Identity struct{}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// F copies src into dst.
func (Identity) F(dst, src []float64) {
	checkLen("Identity.F", dst, src)
	copy(dst, src)
}

// DF writes ones.
func (Identity) DF(dst, value []float64) {
	checkLen("Identity.DF", dst, value)
	for i := range dst {
		dst[i] = 1
	}
}

// Sigmoid is σ(x) = 1 / (1 + exp(-x)).
type Sigmoid struct{}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// F applies σ.
func (Sigmoid) F(dst, src []float64) {
	checkLen("Sigmoid.F", dst, src)
	for i, x := range src {
		dst[i] = 1 / (1 + math.Exp(-x))
	}
}

// DF computes σ(x)·(1-σ(x)).
func (Sigmoid) DF(dst, value []float64) {
	checkLen("Sigmoid.DF", dst, value)
	for i, v := range value {
		dst[i] = v * (1 - v)
	}
}

// Tanh is the hyperbolic tangent.
type Tanh struct{}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }

// F applies tanh.
func (Tanh) F(dst, src []float64) {
	checkLen("Tanh.F", dst, src)
	for i, x := range src {
		dst[i] = math.Tanh(x)
	}
}

// DF computes 1 - tanh²(x).
func (Tanh) DF(dst, value []float64) {
	checkLen("Tanh.DF", dst, value)
	for i, v := range value {
		dst[i] = 1 - v*v
	}
}

// ReLU is max(0, x).
type ReLU struct{}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// F applies max(0, x).
func (ReLU) F(dst, src []float64) {
	checkLen("ReLU.F", dst, src)
	for i, x := range src {
		dst[i] = math.Max(0, x)
	}
}

// DF writes 1 where the unit is active, else 0.
func (ReLU) DF(dst, value []float64) {
	checkLen("ReLU.DF", dst, value)
	for i, v := range value {
		if v > 0 {
			dst[i] = 1
		} else {
			dst[i] = 0
		}
	}
}

// LeakyReLU is x for x > 0, Slope·x otherwise. Slope must be non-negative.
type LeakyReLU struct {
	Slope float64
}

// DefaultLeakySlope is the slope used by the registry.
const DefaultLeakySlope = 0.01

// leakyPrefix introduces an explicit slope in a name, e.g. "leaky_relu:0.2".
const leakyPrefix = "leaky_relu:"

// Name returns "leaky_relu" for the default slope and "leaky_relu:<slope>"
// otherwise, so ByName(l.Name()) reproduces l.
func (l LeakyReLU) Name() string {
	if l.Slope == DefaultLeakySlope {
		return "leaky_relu"
	}
	return leakyPrefix + strconv.FormatFloat(l.Slope, 'g', -1, 64)
}

// F applies the leaky rectifier.
func (l LeakyReLU) F(dst, src []float64) {
	checkLen("LeakyReLU.F", dst, src)
	for i, x := range src {
		if x > 0 {
			dst[i] = x
		} else {
			dst[i] = l.Slope * x
		}
	}
}

// DF writes 1 for positive outputs, Slope otherwise.
func (l LeakyReLU) DF(dst, value []float64) {
	checkLen("LeakyReLU.DF", dst, value)
	for i, v := range value {
		if v > 0 {
			dst[i] = 1
		} else {
			dst[i] = l.Slope
		}
	}
}

// Softplus is log(1 + exp(x)).
type Softplus struct{}

// Name returns "softplus".
func (Softplus) Name() string { return "softplus" }

// F applies softplus without overflowing for large x.
func (Softplus) F(dst, src []float64) {
	checkLen("Softplus.F", dst, src)
	for i, x := range src {
		if x > 0 {
			dst[i] = x + math.Log1p(math.Exp(-x))
		} else {
			dst[i] = math.Log1p(math.Exp(x))
		}
	}
}

// DF computes σ(x) = 1 - exp(-softplus(x)).
func (Softplus) DF(dst, value []float64) {
	checkLen("Softplus.DF", dst, value)
	for i, v := range value {
		dst[i] = -math.Expm1(-v)
	}
}

var registry = map[string]Activation{
	"identity":   Identity{},
	"sigmoid":    Sigmoid{},
	"tanh":       Tanh{},
	"relu":       ReLU{},
	"leaky_relu": LeakyReLU{Slope: DefaultLeakySlope},
	"softplus":   Softplus{},
}

// ByName returns the activation registered under name.
// An empty name resolves to Identity; "leaky_relu:<slope>" builds a LeakyReLU
// with a non-negative slope.
func ByName(name string) (Activation, error) {
	if name == "" {
		return Identity{}, nil
	}
	if v, ok := strings.CutPrefix(name, leakyPrefix); ok {
		slope, err := strconv.ParseFloat(v, 64)
		if err != nil || !(slope >= 0) || math.IsInf(slope, 0) {
			return nil, fmt.Errorf("%w: %q: bad slope", ErrUnknownActivation, name)
		}
		return LeakyReLU{Slope: slope}, nil
	}
	a, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
	return a, nil
}

// Names returns the registered activation names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
