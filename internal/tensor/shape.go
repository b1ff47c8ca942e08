package tensor

import "fmt"

// Shape describes the dimensions of a tensor as depth × height × width.
//
// A vector is {1, 1, n}, a matrix is {1, rows, cols} and a generic tensor
// uses all three axes. For linear algebra every tensor is viewed as a
// Rows() × Cols() matrix, where the leading axes are flattened into rows.
type Shape struct {
	Depth  int
	Height int
	Width  int
}

// Vec returns the shape of an n-element vector.
func Vec(n int) Shape {
	return Shape{Depth: 1, Height: 1, Width: n}
}

// Mat returns the shape of a rows × cols matrix.
func Mat(rows, cols int) Shape {
	return Shape{Depth: 1, Height: rows, Width: cols}
}

// Cube returns the shape of a depth × height × width tensor.
func Cube(depth, height, width int) Shape {
	return Shape{Depth: depth, Height: height, Width: width}
}

// Size returns the total number of elements.
func (s Shape) Size() int {
	return s.Depth * s.Height * s.Width
}

// Rows returns the number of matrix rows (depth and height flattened).
func (s Shape) Rows() int {
	return s.Depth * s.Height
}

// Cols returns the number of matrix columns.
func (s Shape) Cols() int {
	return s.Width
}

// IsVector reports whether the shape has a single row.
func (s Shape) IsVector() bool {
	return s.Depth == 1 && s.Height == 1
}

// Validate checks that every dimension is positive.
func (s Shape) Validate() error {
	if s.Depth <= 0 || s.Height <= 0 || s.Width <= 0 {
		return fmt.Errorf("invalid shape %v: all dimensions must be > 0", s)
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	return s == other
}

// String formats the shape as DxHxW.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%dx%d", s.Depth, s.Height, s.Width)
}
