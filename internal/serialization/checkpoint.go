package serialization

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

// FormatName is stored under MetaFormat in every checkpoint.
const FormatName = "mlp"

// Checkpoint is a persisted network with its training provenance.
//
// Example:
//
//	err := serialization.SaveCheckpoint("xor.safetensors", &serialization.Checkpoint{
//	    Network: net,
//	    Loss:    "mse",
//	    RunID:   history.RunID,
//	})
type Checkpoint struct {
	Network   *nn.Network       // Network with its parameter values
	Loss      string            // Name of the loss it was trained with
	RunID     string            // Training run identifier
	CreatedAt time.Time         // When the checkpoint was written
	Metadata  map[string]string // Additional string metadata
}

// SaveCheckpoint writes c to path.
//
// The network's topology is stored as JSON metadata next to its state dict,
// so LoadCheckpoint can rebuild it without any other input. Reserved
// metadata keys override entries in c.Metadata.
func SaveCheckpoint(path string, c *Checkpoint) error {
	if c == nil || c.Network == nil || c.Network.Len() == 0 {
		return fmt.Errorf("failed to save checkpoint: %w", nn.ErrEmptyNetwork)
	}

	topology, err := json.Marshal(c.Network.Topology())
	if err != nil {
		return fmt.Errorf("failed to marshal topology: %w", err)
	}

	created := c.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	meta := make(map[string]string, len(c.Metadata)+5)
	for k, v := range c.Metadata {
		meta[k] = v
	}
	meta[MetaFormat] = FormatName
	meta[MetaTopology] = string(topology)
	meta[MetaLoss] = c.Loss
	meta[MetaRunID] = c.RunID
	meta[MetaCreatedAt] = created.UTC().Format(time.RFC3339)

	if err := WriteSafeTensors(path, c.Network.StateDict(), meta); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// LoadCheckpoint reads a checkpoint written by SaveCheckpoint and rebuilds
// its network.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := ReadSafeTensors(path)
	if err != nil {
		return nil, err
	}

	raw, ok := f.Metadata[MetaTopology]
	if !ok || f.Metadata[MetaFormat] != FormatName {
		return nil, fmt.Errorf("%s: %w", path, ErrNotCheckpoint)
	}

	var topology nn.Topology
	if err := json.Unmarshal([]byte(raw), &topology); err != nil {
		return nil, fmt.Errorf("failed to parse topology: %w", err)
	}
	if err := checkTopology(topology, f.Tensors); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	net, err := nn.FromTopology(topology)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild network: %w", err)
	}
	if err := net.LoadStateDict(f.Tensors); err != nil {
		return nil, fmt.Errorf("failed to load parameters: %w", err)
	}

	c := &Checkpoint{
		Network:  net,
		Loss:     f.Metadata[MetaLoss],
		RunID:    f.Metadata[MetaRunID],
		Metadata: make(map[string]string),
	}
	if ts, ok := f.Metadata[MetaCreatedAt]; ok {
		if c.CreatedAt, err = time.Parse(time.RFC3339, ts); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", MetaCreatedAt, err)
		}
	}
	for k, v := range f.Metadata {
		switch k {
		case MetaChecksum, MetaFormat, MetaTopology, MetaLoss, MetaRunID, MetaCreatedAt:
		default:
			c.Metadata[k] = v
		}
	}

	return c, nil
}

// checkTopology verifies that every layer's parameters are present in tensors
// with the shapes its spec implies, so no layer is allocated from sizes the
// data section does not back.
func checkTopology(t nn.Topology, tensors map[string]*tensor.Tensor) error {
	for i, spec := range t.Layers {
		if spec.In <= 0 || spec.Out <= 0 {
			return fmt.Errorf("layer %d: %w: sizes %d -> %d", i, ErrInvalidShape, spec.In, spec.Out)
		}
		params := []struct {
			name  string
			shape tensor.Shape
		}{
			{"weight", tensor.Mat(spec.In, spec.Out)},
			{"bias", tensor.Vec(spec.Out)},
		}
		for _, p := range params {
			key := fmt.Sprintf("%d.%s", i, p.name)
			got, ok := tensors[key]
			if !ok {
				return fmt.Errorf("layer %d: %w: missing %s", i, ErrNotCheckpoint, key)
			}
			if !got.Shape().Equal(p.shape) {
				return fmt.Errorf("layer %d: %w: %s is %v, topology needs %v", i, ErrInvalidShape, key, got.Shape(), p.shape)
			}
		}
	}
	return nil
}
