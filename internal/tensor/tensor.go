// Package tensor provides the numeric substrate of the mlp engine: vectors,
// matrices and generic 3-D tensors over contiguous float64 buffers, plus the
// linear-algebra operations used by layers and optimizers.
package tensor

import (
	"fmt"
	"strings"
)

// Tensor is a contiguous float64 buffer with shape metadata.
//
// A tensor either owns its buffer or is a view over memory owned by someone
// else (see View and Row). A view must not outlive the memory it aliases.
//
// Example:
//
//	w := tensor.Matrix(2, 2, []float64{1, 0, 0, 1})
//	x := tensor.Vector(3, 4)
//	y := tensor.Dot(x, w) // [3 4]
type Tensor struct {
	data  []float64
	shape Shape
	view  bool
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Size returns the total number of elements.
func (t *Tensor) Size() int {
	return len(t.data)
}

// Rows returns the number of matrix rows.
func (t *Tensor) Rows() int {
	return t.shape.Rows()
}

// Cols returns the number of matrix columns.
func (t *Tensor) Cols() int {
	return t.shape.Cols()
}

// Data returns the underlying buffer (zero-copy).
//
// WARNING: Modifications to the returned slice will modify the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// IsView reports whether the tensor aliases foreign memory.
func (t *Tensor) IsView() bool {
	return t.view
}

// Clone returns an owning deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{data: data, shape: t.shape}
}

// Reshape returns a view with a new shape over the same buffer.
// Panics if the element count differs.
func (t *Tensor) Reshape(shape Shape) *Tensor {
	if shape.Size() != t.shape.Size() {
		Mismatch("Reshape", t.shape, shape, "element count must be preserved")
	}
	return &Tensor{data: t.data, shape: shape, view: true}
}

// Row returns a view of matrix row i.
func (t *Tensor) Row(i int) *Tensor {
	rows, cols := t.Rows(), t.Cols()
	if i < 0 || i >= rows {
		panic(fmt.Sprintf("Row: index %d out of bounds for %d rows", i, rows))
	}
	return &Tensor{data: t.data[i*cols : (i+1)*cols], shape: Vec(cols), view: true}
}

// At returns the element at the given indices.
//
// One index addresses the flat buffer, two address (row, col) and three
// address (depth, height, width). Panics if indices are out of bounds.
func (t *Tensor) At(indices ...int) float64 {
	return t.data[t.offset(indices)]
}

// Set sets the element at the given indices (see At).
func (t *Tensor) Set(value float64, indices ...int) {
	t.data[t.offset(indices)] = value
}

func (t *Tensor) offset(indices []int) int {
	var dims []int
	switch len(indices) {
	case 1:
		dims = []int{len(t.data)}
	case 2:
		dims = []int{t.Rows(), t.Cols()}
	case 3:
		dims = []int{t.shape.Depth, t.shape.Height, t.shape.Width}
	default:
		panic(fmt.Sprintf("expected 1 to 3 indices, got %d", len(indices)))
	}

	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= dims[i] {
			panic(fmt.Sprintf("index %d out of bounds for dimension %d (size %d)", idx, i, dims[i]))
		}
		offset = offset*dims[i] + idx
	}
	return offset
}

// String returns a compact human-readable representation.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor(%v)[", t.shape)
	for i, v := range t.data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if i == 8 && len(t.data) > 9 {
			fmt.Fprintf(&sb, "... (%d more)", len(t.data)-i)
			break
		}
		fmt.Fprintf(&sb, "%g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
