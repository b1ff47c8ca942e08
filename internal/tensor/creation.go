package tensor

import "fmt"

// New allocates a zero-filled owning tensor.
// Panics if the shape is invalid.
func New(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("New: %v", err))
	}
	return &Tensor{data: make([]float64, shape.Size()), shape: shape}
}

// Zeros is an alias of New for readability at call sites.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return New(shape).Fill(value)
}

// FromSlice creates an owning tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.Size() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.Size(), len(data))
	}
	t := New(shape)
	copy(t.data, data)
	return t, nil
}

// View creates a tensor that aliases data without copying it.
//
// The returned tensor must not outlive data's owner.
func View(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.Size() != len(data) {
		return nil, fmt.Errorf("shape %v requires %d elements, but got %d", shape, shape.Size(), len(data))
	}
	return &Tensor{data: data, shape: shape, view: true}, nil
}

// Vector creates an owning vector from values.
func Vector(values ...float64) *Tensor {
	t := New(Vec(len(values)))
	copy(t.data, values)
	return t
}

// Matrix creates an owning rows × cols matrix from row-major values.
// Panics if len(values) != rows*cols.
func Matrix(rows, cols int, values []float64) *Tensor {
	t, err := FromSlice(values, Mat(rows, cols))
	if err != nil {
		panic(fmt.Sprintf("Matrix: %v", err))
	}
	return t
}

// Identity creates an n × n identity matrix.
func Identity(n int) *Tensor {
	t := New(Mat(n, n))
	for i := 0; i < n; i++ {
		t.data[i*n+i] = 1
	}
	return t
}
