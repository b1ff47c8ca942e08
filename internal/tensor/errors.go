package tensor

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch = errors.New("shape mismatch")
	ErrSingular      = errors.New("matrix is singular")
)

// ShapeError describes a violated shape contract.
//
// Operations that combine tensors panic with a *ShapeError when their
// operands are incompatible. It unwraps to ErrShapeMismatch, so a recovered
// value can be tested with errors.Is.
type ShapeError struct {
	Op     string // Operation that detected the mismatch (e.g. "MatMul")
	Left   Shape  // First operand
	Right  Shape  // Second operand
	Detail string // What was expected
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: shape mismatch %v vs %v: %s", e.Op, e.Left, e.Right, e.Detail)
	}
	return fmt.Sprintf("%s: shape mismatch %v vs %v", e.Op, e.Left, e.Right)
}

// Unwrap returns ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// Mismatch panics with a *ShapeError.
func Mismatch(op string, left, right Shape, detail string) {
	panic(&ShapeError{Op: op, Left: left, Right: right, Detail: detail})
}

func requireSameShape(op string, a, b *Tensor) {
	if a.shape != b.shape {
		Mismatch(op, a.shape, b.shape, "operands must have equal shapes")
	}
}
