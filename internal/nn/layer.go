// Package nn implements the layer abstraction and the network pipeline.
//
// This package provides:
//   - Parameter: trainable tensor with a stable integer ID
//   - Layer interface: forward/backward/accumulate/update/reset contract
//   - Dense: fully connected layer
//   - Network: ordered, exclusively owned sequence of layers
//   - Initializers: scalar generators for Init
//
// Gradients are derived by hand in each layer; there is no autodiff tape.
package nn

import (
	"errors"

	"github.com/born-ml/mlp/internal/tensor"
)

// Common errors.
var (
	ErrEmptyNetwork = errors.New("network has no layers")
	ErrNoForward    = errors.New("backward called before forward")
)

// Optimizer is the capability a layer needs to apply its gradients.
//
// It is satisfied by every optimizer in the optim package.
type Optimizer interface {
	// Update mutates p in place using grad.
	Update(p *Parameter, grad *tensor.Tensor)
}

// Layer is the contract every layer kind implements.
//
// A layer cycles through Forward → Backward → (Accumulate) → Update on each
// training step. Forward output and backward deltas are owned by the layer
// and are overwritten by the next call.
type Layer interface {
	// Kind returns the layer kind identifier (e.g. "dense").
	Kind() string

	// InputShape returns the per-sample input shape.
	InputShape() tensor.Shape

	// OutputShape returns the per-sample output shape.
	OutputShape() tensor.Shape

	// Init seeds every parameter from gen.
	Init(gen func() float64)

	// Forward computes the layer output for input, whose rows are samples.
	Forward(input *tensor.Tensor) *tensor.Tensor

	// Backward computes parameter gradients for the last Forward call.
	//
	// input must be the tensor passed to that Forward call and delta the
	// gradient of the loss with respect to this layer's output. If full is
	// true it returns the gradient with respect to input; otherwise nil.
	Backward(input, delta *tensor.Tensor, full bool) *tensor.Tensor

	// Accumulate adds the last Backward gradients into a running sum.
	Accumulate()

	// Update applies opt to every parameter with gradients scaled by alpha,
	// then resets the gradients.
	Update(opt Optimizer, alpha float64)

	// Reset zeroes gradients and accumulators.
	Reset()

	// Value returns the output of the last Forward call.
	Value() *tensor.Tensor

	// Parameters returns all trainable parameters of the layer.
	Parameters() []*Parameter

	// Spec describes the layer for serialization.
	Spec() LayerSpec
}
