package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// dense wraps the buffer as a gonum matrix without copying.
func (t *Tensor) dense() *mat.Dense {
	return mat.NewDense(t.Rows(), t.Cols(), t.data)
}

func requireDst(op string, dst *Tensor, rows, cols int) {
	if dst.Rows() != rows || dst.Cols() != cols {
		Mismatch(op, dst.shape, Mat(rows, cols), "destination has wrong shape")
	}
}

// Dot computes the vector-matrix product v·m.
//
// v must have m.Rows() elements; the result is a vector of m.Cols().
func Dot(v, m *Tensor) *Tensor {
	if v.Size() != m.Rows() {
		Mismatch("Dot", v.shape, m.shape, fmt.Sprintf("vector needs %d elements", m.Rows()))
	}
	out := New(Vec(m.Cols()))
	// (v·m)ᵗ = mᵗ·vᵗ
	res := mat.NewVecDense(m.Cols(), out.data)
	res.MulVec(m.dense().T(), mat.NewVecDense(v.Size(), v.data))
	return out
}

// MatMul computes the matrix product a·b.
func MatMul(a, b *Tensor) *Tensor {
	out := New(Mat(a.Rows(), b.Cols()))
	MatMulInto(out, a, b)
	return out
}

// MatMulInto writes a·b into dst. dst must not alias a or b.
func MatMulInto(dst, a, b *Tensor) *Tensor {
	if a.Cols() != b.Rows() {
		Mismatch("MatMul", a.shape, b.shape, "inner dimensions differ")
	}
	requireDst("MatMul", dst, a.Rows(), b.Cols())
	dst.dense().Mul(a.dense(), b.dense())
	return dst
}

// DotTranspose computes a·bᵗ without materializing the transpose.
//
// Used in backward passes: delta·Wᵗ gives the upstream delta.
func DotTranspose(a, b *Tensor) *Tensor {
	out := New(Mat(a.Rows(), b.Rows()))
	DotTransposeInto(out, a, b)
	return out
}

// DotTransposeInto writes a·bᵗ into dst.
func DotTransposeInto(dst, a, b *Tensor) *Tensor {
	if a.Cols() != b.Cols() {
		Mismatch("DotTranspose", a.shape, b.shape, "column counts differ")
	}
	requireDst("DotTranspose", dst, a.Rows(), b.Rows())
	dst.dense().Mul(a.dense(), b.dense().T())
	return dst
}

// TransposeDot computes aᵗ·b without materializing the transpose.
//
// Used for weight gradients: inputᵗ·delta.
func TransposeDot(a, b *Tensor) *Tensor {
	out := New(Mat(a.Cols(), b.Cols()))
	TransposeDotInto(out, a, b)
	return out
}

// TransposeDotInto writes aᵗ·b into dst.
func TransposeDotInto(dst, a, b *Tensor) *Tensor {
	if a.Rows() != b.Rows() {
		Mismatch("TransposeDot", a.shape, b.shape, "row counts differ")
	}
	requireDst("TransposeDot", dst, a.Cols(), b.Cols())
	dst.dense().Mul(a.dense().T(), b.dense())
	return dst
}

// Transpose returns a new cols × rows matrix.
func (t *Tensor) Transpose() *Tensor {
	out := New(Mat(t.Cols(), t.Rows()))
	out.dense().Copy(t.dense().T())
	return out
}

// Inverse returns the inverse of a square matrix.
//
// Returns an error wrapping ErrSingular if the matrix is singular or too
// ill-conditioned to invert reliably.
func (t *Tensor) Inverse() (*Tensor, error) {
	if t.Rows() != t.Cols() {
		Mismatch("Inverse", t.shape, t.shape, "matrix must be square")
	}

	var inv mat.Dense
	if err := inv.Inverse(t.dense()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	out := New(Mat(t.Rows(), t.Cols()))
	out.dense().Copy(&inv)
	return out, nil
}

// SumRows returns the column sums of a matrix as a vector.
func SumRows(m *Tensor) *Tensor {
	out := New(Vec(m.Cols()))
	SumRowsInto(out, m)
	return out
}

// SumRowsInto writes the column sums of m into dst.
func SumRowsInto(dst, m *Tensor) *Tensor {
	cols := m.Cols()
	if dst.Size() != cols {
		Mismatch("SumRows", dst.shape, m.shape, fmt.Sprintf("destination needs %d elements", cols))
	}
	clear(dst.data)
	for r := 0; r < m.Rows(); r++ {
		floats.Add(dst.data, m.data[r*cols:(r+1)*cols])
	}
	return dst
}

// AddRowVector adds v to every row of m in place (bias broadcast).
func AddRowVector(m, v *Tensor) *Tensor {
	cols := m.Cols()
	if v.Size() != cols {
		Mismatch("AddRowVector", m.shape, v.shape, fmt.Sprintf("vector needs %d elements", cols))
	}
	for r := 0; r < m.Rows(); r++ {
		floats.Add(m.data[r*cols:(r+1)*cols], v.data)
	}
	return m
}
