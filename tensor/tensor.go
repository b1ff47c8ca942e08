// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public API for the float64 tensors used by the
// mlp engine.
//
// The package defines:
//   - Shape: depth × height × width dimensions
//   - Tensor: contiguous float64 buffer with in-place elementwise operations
//   - Linear algebra: MatMul, Dot, DotTranspose, TransposeDot, Inverse
//
// Shape mismatches are programming errors and panic with a *ShapeError,
// which unwraps to ErrShapeMismatch.
//
// Example:
//
//	a := tensor.Matrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
//	b := tensor.Matrix(3, 2, []float64{1, 0, 0, 1, 1, 1})
//	c := tensor.MatMul(a, b) // 2x2
//	c.Apply(math.Tanh)
package tensor

import (
	"github.com/born-ml/mlp/internal/tensor"
)

// Type aliases for public API

// Shape describes tensor dimensions as depth × height × width.
type Shape = tensor.Shape

// Tensor is a float64 tensor.
type Tensor = tensor.Tensor

// ShapeError describes a violated shape contract.
type ShapeError = tensor.ShapeError

// Errors.
var (
	ErrShapeMismatch = tensor.ErrShapeMismatch
	ErrSingular      = tensor.ErrSingular
)

// Shapes

// Vec returns the shape of an n-element vector.
func Vec(n int) Shape { return tensor.Vec(n) }

// Mat returns the shape of a rows × cols matrix.
func Mat(rows, cols int) Shape { return tensor.Mat(rows, cols) }

// Cube returns a three-dimensional shape.
func Cube(depth, height, width int) Shape { return tensor.Cube(depth, height, width) }

// Creation

// New creates a zero-filled tensor.
func New(shape Shape) *Tensor { return tensor.New(shape) }

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape) *Tensor { return tensor.Zeros(shape) }

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor { return tensor.Full(shape, value) }

// FromSlice creates a tensor holding a copy of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) { return tensor.FromSlice(data, shape) }

// View creates a tensor that aliases data without copying.
func View(data []float64, shape Shape) (*Tensor, error) { return tensor.View(data, shape) }

// Vector creates a vector from values.
func Vector(values ...float64) *Tensor { return tensor.Vector(values...) }

// Matrix creates a rows × cols matrix from row-major values.
func Matrix(rows, cols int, values []float64) *Tensor { return tensor.Matrix(rows, cols, values) }

// Identity creates an n × n identity matrix.
func Identity(n int) *Tensor { return tensor.Identity(n) }

// Arithmetic

// Add returns a + b.
func Add(a, b *Tensor) *Tensor { return tensor.Add(a, b) }

// Sub returns a - b.
func Sub(a, b *Tensor) *Tensor { return tensor.Sub(a, b) }

// Mul returns the elementwise product of a and b.
func Mul(a, b *Tensor) *Tensor { return tensor.Mul(a, b) }

// Scale returns alpha * a.
func Scale(alpha float64, a *Tensor) *Tensor { return tensor.Scale(alpha, a) }

// Linear algebra

// Dot returns the row vector v·m.
func Dot(v, m *Tensor) *Tensor { return tensor.Dot(v, m) }

// MatMul returns a·b.
func MatMul(a, b *Tensor) *Tensor { return tensor.MatMul(a, b) }

// DotTranspose returns a·bᵗ.
func DotTranspose(a, b *Tensor) *Tensor { return tensor.DotTranspose(a, b) }

// TransposeDot returns aᵗ·b.
func TransposeDot(a, b *Tensor) *Tensor { return tensor.TransposeDot(a, b) }

// SumRows returns the column sums of m as a vector.
func SumRows(m *Tensor) *Tensor { return tensor.SumRows(m) }
