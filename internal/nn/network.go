package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
)

// Network is an ordered sequence of layers.
//
// The network exclusively owns its layers. Layer i's output shape always
// equals layer i+1's input shape; Add and Remove panic rather than break
// that chain.
//
// Example:
//
//	net := nn.NewNetwork(
//	    nn.NewDense(2, 4, activation.Tanh{}),
//	    nn.NewDense(4, 1, activation.Sigmoid{}),
//	)
//	net.Init(nn.Uniform(rng, -0.5, 0.5))
//	out := net.Feedforward(tensor.Vector(0, 1))
type Network struct {
	layers []Layer
}

// NewNetwork creates a network from layers, checking the chain.
func NewNetwork(layers ...Layer) *Network {
	n := &Network{}
	for _, l := range layers {
		n.Add(l)
	}
	return n
}

// Add appends a layer.
// Panics if its input shape differs from the current output shape.
func (n *Network) Add(l Layer) {
	if len(n.layers) > 0 {
		last := n.layers[len(n.layers)-1]
		if !last.OutputShape().Equal(l.InputShape()) {
			tensor.Mismatch("Network.Add", last.OutputShape(), l.InputShape(),
				fmt.Sprintf("layer %d input must match layer %d output", len(n.layers), len(n.layers)-1))
		}
	}
	n.layers = append(n.layers, l)
}

// Remove detaches and returns the layer at index.
// Panics if index is out of bounds or the removal would break the chain.
func (n *Network) Remove(index int) Layer {
	if index < 0 || index >= len(n.layers) {
		panic(fmt.Sprintf("Network.Remove: index %d out of bounds for %d layers", index, len(n.layers)))
	}
	if index > 0 && index < len(n.layers)-1 {
		prev, next := n.layers[index-1], n.layers[index+1]
		if !prev.OutputShape().Equal(next.InputShape()) {
			tensor.Mismatch("Network.Remove", prev.OutputShape(), next.InputShape(),
				fmt.Sprintf("removing layer %d would break the chain", index))
		}
	}

	l := n.layers[index]
	n.layers = append(n.layers[:index], n.layers[index+1:]...)
	return l
}

// Len returns the number of layers.
func (n *Network) Len() int {
	return len(n.layers)
}

// Layer returns the layer at index.
//
// Panics if index is out of bounds.
func (n *Network) Layer(index int) Layer {
	if index < 0 || index >= len(n.layers) {
		panic("Network.Layer: index out of bounds")
	}
	return n.layers[index]
}

// Layers returns the layers in order. The slice is a copy; the layers are not.
func (n *Network) Layers() []Layer {
	out := make([]Layer, len(n.layers))
	copy(out, n.layers)
	return out
}

// Init seeds every layer's parameters from gen.
func (n *Network) Init(gen func() float64) {
	for _, l := range n.layers {
		l.Init(gen)
	}
}

// Feedforward runs sample through every layer and returns the last output.
//
// The result is owned by the last layer and overwritten by the next call.
// Panics with ErrEmptyNetwork if the network has no layers.
func (n *Network) Feedforward(sample *tensor.Tensor) *tensor.Tensor {
	if len(n.layers) == 0 {
		panic(fmt.Errorf("Network.Feedforward: %w", ErrEmptyNetwork))
	}

	out := n.layers[0].Forward(sample)
	for _, l := range n.layers[1:] {
		out = l.Forward(out)
	}
	return out
}

// Predict runs Feedforward and returns an owning copy of the output.
func (n *Network) Predict(sample *tensor.Tensor) *tensor.Tensor {
	return n.Feedforward(sample).Clone()
}

// Parameters returns all trainable parameters in layer order.
func (n *Network) Parameters() []*Parameter {
	var params []*Parameter
	for _, l := range n.layers {
		params = append(params, l.Parameters()...)
	}
	return params
}

// Reset zeroes the gradients of every layer.
func (n *Network) Reset() {
	for _, l := range n.layers {
		l.Reset()
	}
}

// InputShape returns the first layer's input shape.
func (n *Network) InputShape() tensor.Shape {
	if len(n.layers) == 0 {
		panic(fmt.Errorf("Network.InputShape: %w", ErrEmptyNetwork))
	}
	return n.layers[0].InputShape()
}

// OutputShape returns the last layer's output shape.
func (n *Network) OutputShape() tensor.Shape {
	if len(n.layers) == 0 {
		panic(fmt.Errorf("Network.OutputShape: %w", ErrEmptyNetwork))
	}
	return n.layers[len(n.layers)-1].OutputShape()
}
