package nn

import (
	"sync/atomic"

	"github.com/born-ml/mlp/internal/tensor"
)

// ParamID is a process-unique identifier assigned to every Parameter at
// construction. Optimizers key their per-parameter state by it.
type ParamID uint64

var lastParamID atomic.Uint64

// Parameter represents a trainable parameter in a neural network.
//
// The ID never changes for the lifetime of the parameter, so optimizer
// state follows the parameter even if layers are reordered.
//
// Example:
//
//	weight := nn.NewParameter("weight", tensor.New(tensor.Mat(4, 2)))
//	opt.Update(weight, grad)
type Parameter struct {
	id     ParamID
	name   string         // Parameter name (e.g., "weight", "bias")
	tensor *tensor.Tensor // The parameter values, updated in place
}

// NewParameter creates a new trainable parameter with a fresh ID.
func NewParameter(name string, t *tensor.Tensor) *Parameter {
	return &Parameter{
		id:     ParamID(lastParamID.Add(1)),
		name:   name,
		tensor: t,
	}
}

// ID returns the parameter's stable identifier.
func (p *Parameter) ID() ParamID {
	return p.id
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter tensor.
func (p *Parameter) Tensor() *tensor.Tensor {
	return p.tensor
}

// Shape returns the parameter's shape.
func (p *Parameter) Shape() tensor.Shape {
	return p.tensor.Shape()
}
