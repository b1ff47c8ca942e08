package serialization

import (
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
)

// DTypeF64 is the SafeTensors dtype of every tensor this package writes.
const DTypeF64 = "F64"

// elemSize is the byte size of one F64 element.
const elemSize = 8

// metadataKey is the reserved header entry holding string metadata.
const metadataKey = "__metadata__"

// Metadata keys written by this package.
const (
	MetaChecksum  = "sha256"     // hex SHA-256 of the data section
	MetaFormat    = "format"     // always "mlp"
	MetaTopology  = "topology"   // nn.Topology as JSON
	MetaLoss      = "loss"       // loss function name
	MetaRunID     = "run_id"     // training run identifier
	MetaCreatedAt = "created_at" // RFC 3339 timestamp
)

// TensorHeader describes one tensor in the SafeTensors header.
type TensorHeader struct {
	DType       string   `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// TensorMeta is a flattened view of a TensorHeader used for validation.
type TensorMeta struct {
	Name   string
	Offset int64 // Offset in the data section
	Size   int64 // Size in bytes
}

// shapeToDims converts a shape to SafeTensors dims, dropping leading unit
// dimensions: vectors are [w], matrices [h, w].
func shapeToDims(s tensor.Shape) []int64 {
	switch {
	case s.Depth == 1 && s.Height == 1:
		return []int64{int64(s.Width)}
	case s.Depth == 1:
		return []int64{int64(s.Height), int64(s.Width)}
	default:
		return []int64{int64(s.Depth), int64(s.Height), int64(s.Width)}
	}
}

// dimsToShape is the inverse of shapeToDims.
func dimsToShape(dims []int64) (tensor.Shape, error) {
	for _, d := range dims {
		if d <= 0 {
			return tensor.Shape{}, fmt.Errorf("%w: %v", ErrInvalidShape, dims)
		}
	}

	switch len(dims) {
	case 1:
		return tensor.Vec(int(dims[0])), nil
	case 2:
		return tensor.Mat(int(dims[0]), int(dims[1])), nil
	case 3:
		return tensor.Cube(int(dims[0]), int(dims[1]), int(dims[2])), nil
	default:
		return tensor.Shape{}, fmt.Errorf("%w: rank %d not supported", ErrInvalidShape, len(dims))
	}
}
