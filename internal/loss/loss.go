// Package loss implements the loss functions used by the training driver.
package loss

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrUnknownLoss is returned by ByName for unregistered names.
var ErrUnknownLoss = errors.New("unknown loss")

// clip bounds probabilities away from 0 and 1 before taking logarithms.
const clip = 1e-12

// Loss compares a prediction to a target.
type Loss interface {
	// Name returns the registry identifier (e.g. "mse").
	Name() string

	// F returns the scalar loss.
	F(target, pred []float64) float64

	// DF writes ∂loss/∂pred into grad.
	DF(grad, target, pred []float64)
}

func checkLen(op string, target, pred []float64) {
	if len(target) != len(pred) {
		panic(fmt.Sprintf("%s: target has %d elements, prediction has %d", op, len(target), len(pred)))
	}
	if len(pred) == 0 {
		panic(op + ": empty prediction")
	}
}

// MSE is the mean squared error: mean((pred - target)²).
type MSE struct{}

// Name returns "mse".
func (MSE) Name() string { return "mse" }

// F computes the mean squared error.
func (MSE) F(target, pred []float64) float64 {
	checkLen("MSE.F", target, pred)
	var sum float64
	for i, p := range pred {
		d := p - target[i]
		sum += d * d
	}
	return sum / float64(len(pred))
}

// DF computes 2·(pred - target)/n.
func (MSE) DF(grad, target, pred []float64) {
	checkLen("MSE.DF", target, pred)
	checkLen("MSE.DF", grad, pred)
	scale := 2 / float64(len(pred))
	for i, p := range pred {
		grad[i] = scale * (p - target[i])
	}
}

// MAE is the mean absolute error: mean(|pred - target|).
type MAE struct{}

// Name returns "mae".
func (MAE) Name() string { return "mae" }

// F computes the mean absolute error.
func (MAE) F(target, pred []float64) float64 {
	checkLen("MAE.F", target, pred)
	var sum float64
	for i, p := range pred {
		sum += math.Abs(p - target[i])
	}
	return sum / float64(len(pred))
}

// DF computes sign(pred - target)/n.
func (MAE) DF(grad, target, pred []float64) {
	checkLen("MAE.DF", target, pred)
	checkLen("MAE.DF", grad, pred)
	scale := 1 / float64(len(pred))
	for i, p := range pred {
		switch d := p - target[i]; {
		case d > 0:
			grad[i] = scale
		case d < 0:
			grad[i] = -scale
		default:
			grad[i] = 0
		}
	}
}

// CrossEntropy is the categorical cross-entropy -Σ target·log(pred).
//
// Predictions are expected to be probabilities.
type CrossEntropy struct{}

// Name returns "cross_entropy".
func (CrossEntropy) Name() string { return "cross_entropy" }

// F computes the categorical cross-entropy.
func (CrossEntropy) F(target, pred []float64) float64 {
	checkLen("CrossEntropy.F", target, pred)
	var sum float64
	for i, p := range pred {
		sum -= target[i] * math.Log(math.Max(p, clip))
	}
	return sum
}

// DF computes -target/pred.
func (CrossEntropy) DF(grad, target, pred []float64) {
	checkLen("CrossEntropy.DF", target, pred)
	checkLen("CrossEntropy.DF", grad, pred)
	for i, p := range pred {
		grad[i] = -target[i] / math.Max(p, clip)
	}
}

// BinaryCrossEntropy is -mean(t·log(p) + (1-t)·log(1-p)).
type BinaryCrossEntropy struct{}

// Name returns "binary_cross_entropy".
func (BinaryCrossEntropy) Name() string { return "binary_cross_entropy" }

// F computes the binary cross-entropy.
func (BinaryCrossEntropy) F(target, pred []float64) float64 {
	checkLen("BinaryCrossEntropy.F", target, pred)
	var sum float64
	for i, p := range pred {
		p = math.Min(math.Max(p, clip), 1-clip)
		t := target[i]
		sum -= t*math.Log(p) + (1-t)*math.Log(1-p)
	}
	return sum / float64(len(pred))
}

// DF computes (p - t) / (p·(1-p)·n).
func (BinaryCrossEntropy) DF(grad, target, pred []float64) {
	checkLen("BinaryCrossEntropy.DF", target, pred)
	checkLen("BinaryCrossEntropy.DF", grad, pred)
	n := float64(len(pred))
	for i, p := range pred {
		p = math.Min(math.Max(p, clip), 1-clip)
		grad[i] = (p - target[i]) / (p * (1 - p) * n)
	}
}

var registry = map[string]Loss{
	"mse":                  MSE{},
	"mae":                  MAE{},
	"cross_entropy":        CrossEntropy{},
	"binary_cross_entropy": BinaryCrossEntropy{},
}

// ByName returns the loss registered under name.
func ByName(name string) (Loss, error) {
	l, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLoss, name)
	}
	return l, nil
}

// Names returns the registered loss names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
