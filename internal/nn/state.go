package nn

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/born-ml/mlp/internal/activation"
	"github.com/born-ml/mlp/internal/tensor"
)

// ErrUnknownLayer is returned by NewLayer for unsupported kinds.
var ErrUnknownLayer = errors.New("unknown layer kind")

// LayerSpec describes a layer's structure independent of its values.
type LayerSpec struct {
	Kind       string `json:"kind" yaml:"kind"`
	In         int    `json:"in" yaml:"in"`
	Out        int    `json:"out" yaml:"out"`
	Activation string `json:"activation,omitempty" yaml:"activation,omitempty"`
}

// Topology is the ordered list of layer specs of a network.
type Topology struct {
	Layers []LayerSpec `json:"layers" yaml:"layers"`
}

// Topology describes the network's structure.
func (n *Network) Topology() Topology {
	t := Topology{Layers: make([]LayerSpec, len(n.layers))}
	for i, l := range n.layers {
		t.Layers[i] = l.Spec()
	}
	return t
}

// NewLayer builds a layer from its spec. An empty kind means "dense".
func NewLayer(spec LayerSpec) (Layer, error) {
	switch spec.Kind {
	case "", "dense":
		if spec.In <= 0 || spec.Out <= 0 {
			return nil, fmt.Errorf("dense layer sizes must be positive, got %d -> %d", spec.In, spec.Out)
		}
		if spec.In > math.MaxInt/spec.Out {
			return nil, fmt.Errorf("dense layer %d -> %d: weight size overflows int", spec.In, spec.Out)
		}
		act, err := activation.ByName(spec.Activation)
		if err != nil {
			return nil, err
		}
		return NewDense(spec.In, spec.Out, act), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayer, spec.Kind)
	}
}

// FromTopology builds an uninitialized network from t.
//
// Unlike Add, a broken layer chain is reported as an error because topologies
// usually come from files or configuration.
func FromTopology(t Topology) (*Network, error) {
	if len(t.Layers) == 0 {
		return nil, ErrEmptyNetwork
	}

	n := &Network{}
	for i, spec := range t.Layers {
		l, err := NewLayer(spec)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		if i > 0 {
			prev := n.layers[i-1].OutputShape()
			if !prev.Equal(l.InputShape()) {
				return nil, fmt.Errorf("layer %d: input %v does not match previous output %v: %w",
					i, l.InputShape(), prev, tensor.ErrShapeMismatch)
			}
		}
		n.layers = append(n.layers, l)
	}
	return n, nil
}

// StateDict returns a map of parameter names to tensors.
//
// Parameters are prefixed with their layer index (e.g., "0.weight",
// "0.bias", "1.weight"). The tensors are shared, not copied.
func (n *Network) StateDict() map[string]*tensor.Tensor {
	stateDict := make(map[string]*tensor.Tensor)
	for i, l := range n.layers {
		for _, p := range l.Parameters() {
			stateDict[fmt.Sprintf("%d.%s", i, p.Name())] = p.Tensor()
		}
	}
	return stateDict
}

// LoadStateDict copies parameter values from a state dictionary.
//
// Every parameter must be present with a matching shape. Keys that do not
// belong to any layer are reported as an error.
func (n *Network) LoadStateDict(stateDict map[string]*tensor.Tensor) error {
	used := 0
	for i, l := range n.layers {
		for _, p := range l.Parameters() {
			key := fmt.Sprintf("%d.%s", i, p.Name())
			src, ok := stateDict[key]
			if !ok {
				return fmt.Errorf("failed to load layer %d: missing %s in state dict", i, key)
			}
			if !src.Shape().Equal(p.Shape()) {
				return fmt.Errorf("failed to load layer %d: %s shape mismatch: expected %v, got %v: %w",
					i, key, p.Shape(), src.Shape(), tensor.ErrShapeMismatch)
			}
			p.Tensor().CopyFrom(src)
			used++
		}
	}

	if used != len(stateDict) {
		var extra []string
		for key := range stateDict {
			if !n.hasKey(key) {
				extra = append(extra, key)
			}
		}
		return fmt.Errorf("unexpected keys in state dict: %s", strings.Join(extra, ", "))
	}
	return nil
}

func (n *Network) hasKey(key string) bool {
	for i, l := range n.layers {
		for _, p := range l.Parameters() {
			if key == fmt.Sprintf("%d.%s", i, p.Name()) {
				return true
			}
		}
	}
	return false
}
