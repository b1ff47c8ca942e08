// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/tensor"
)

func TestPublicAPI(t *testing.T) {
	a := tensor.Matrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := tensor.Matrix(3, 2, []float64{1, 0, 0, 1, 1, 1})

	c := tensor.MatMul(a, b)
	assert.True(t, c.Shape().Equal(tensor.Mat(2, 2)))
	assert.Equal(t, []float64{4, 5, 10, 11}, c.Data())

	// (AB)ᵗ = BᵗAᵗ
	lhs := c.Transpose()
	rhs := tensor.MatMul(b.Transpose(), a.Transpose())
	assert.True(t, lhs.AllClose(rhs, 1e-12))

	v := tensor.Vector(1, 1)
	assert.Equal(t, []float64{5, 7, 9}, tensor.Dot(v, a).Data())
}

func TestPublicAPI_ShapeMismatch(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, tensor.ErrShapeMismatch))

		var se *tensor.ShapeError
		assert.True(t, errors.As(err, &se))
	}()
	tensor.Add(tensor.Vector(1, 2), tensor.Vector(1, 2, 3))
}

func TestPublicAPI_Inverse(t *testing.T) {
	_, err := tensor.Matrix(2, 2, []float64{1, 2, 2, 4}).Inverse()
	assert.ErrorIs(t, err, tensor.ErrSingular)

	inv, err := tensor.Matrix(2, 2, []float64{2, 0, 0, 4}).Inverse()
	require.NoError(t, err)
	assert.True(t, tensor.MatMul(inv, tensor.Matrix(2, 2, []float64{2, 0, 0, 4})).AllClose(tensor.Identity(2), 1e-12))
}
