package tensor

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-12

// randomMatrix fills a rows × cols matrix from a seeded source.
func randomMatrix(rng *rand.Rand, rows, cols int) *Tensor {
	return New(Mat(rows, cols)).FillFunc(func() float64 {
		return rng.Float64()*2 - 1
	})
}

// recoverShapeError runs f and returns the *ShapeError it panicked with.
func recoverShapeError(t *testing.T, f func()) (se *ShapeError) {
	t.Helper()
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value should be an error, got %T", r)
		require.True(t, errors.Is(err, ErrShapeMismatch))
		require.True(t, errors.As(err, &se))
	}()
	f()
	return nil
}

func TestShape(t *testing.T) {
	s := Cube(2, 3, 4)
	assert.Equal(t, 24, s.Size())
	assert.Equal(t, 6, s.Rows())
	assert.Equal(t, 4, s.Cols())
	assert.False(t, s.IsVector())
	assert.Equal(t, "2x3x4", s.String())

	assert.Equal(t, Vec(5), Mat(1, 5))
	assert.True(t, Vec(5).IsVector())

	assert.NoError(t, Mat(2, 2).Validate())
	assert.Error(t, Mat(0, 2).Validate())
	assert.Error(t, Cube(-1, 1, 1).Validate())
}

func TestFromSlice(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	m, err := FromSlice(src, Mat(2, 3))
	require.NoError(t, err)

	assert.False(t, m.IsView())
	assert.Equal(t, 6.0, m.At(1, 2))
	assert.Equal(t, 4.0, m.At(3))

	src[0] = 100
	assert.Equal(t, 1.0, m.At(0, 0), "FromSlice must copy")

	_, err = FromSlice(src, Mat(4, 4))
	assert.Error(t, err)
}

func TestView_AliasesMemory(t *testing.T) {
	buf := []float64{1, 2, 3, 4}
	v, err := View(buf, Mat(2, 2))
	require.NoError(t, err)
	assert.True(t, v.IsView())

	v.Set(9, 1, 1)
	assert.Equal(t, 9.0, buf[3])

	c := v.Clone()
	assert.False(t, c.IsView())
	c.Set(0, 0, 0)
	assert.Equal(t, 1.0, buf[0])

	row := v.Row(1)
	assert.Equal(t, Vec(2), row.Shape())
	row.Fill(7)
	assert.Equal(t, []float64{1, 2, 7, 7}, buf)
}

func TestAt_ThreeIndices(t *testing.T) {
	c := New(Cube(2, 2, 3))
	c.Set(5, 1, 0, 2)
	assert.Equal(t, 5.0, c.Data()[1*6+0*3+2])
	assert.Panics(t, func() { c.At(2, 0, 0) })
	assert.Panics(t, func() { c.At(0, 0, 0, 0) })
}

func TestElementwise(t *testing.T) {
	a := Vector(1, 2, 3)
	b := Vector(4, 5, 6)

	assert.Equal(t, []float64{5, 7, 9}, Add(a, b).Data())
	assert.Equal(t, []float64{-3, -3, -3}, Sub(a, b).Data())
	assert.Equal(t, []float64{4, 10, 18}, Mul(a, b).Data())
	assert.Equal(t, []float64{2, 4, 6}, Scale(2, a).Data())
	assert.Equal(t, []float64{1, 2, 3}, a.Data(), "package ops must not mutate operands")

	c := a.Clone().Join(0.5)
	assert.Equal(t, []float64{0.5, 1, 1.5}, c.Data())

	c.JoinScaled(2, b)
	assert.Equal(t, []float64{8.5, 11, 13.5}, c.Data())

	c.AddScalar(-0.5)
	assert.Equal(t, []float64{8, 10.5, 13}, c.Data())

	c.MulScalar(0.5)
	assert.Equal(t, []float64{4, 5.25, 6.5}, c.Data())

	assert.Equal(t, 6.0, a.Sum())
	assert.Equal(t, 3.0, a.Max())
	assert.Equal(t, 2, a.ArgMax())
	assert.InDelta(t, math.Sqrt(14), a.Norm(), tol)
}

func TestElementwise_ShapeMismatch(t *testing.T) {
	a := Vector(1, 2, 3)
	b := Vector(1, 2)

	se := recoverShapeError(t, func() { a.Add(b) })
	assert.Equal(t, "Add", se.Op)

	recoverShapeError(t, func() { a.Sub(b) })
	recoverShapeError(t, func() { a.Mul(b) })
	recoverShapeError(t, func() { a.JoinScaled(1, b) })
	recoverShapeError(t, func() { a.CopyFrom(b) })
}

func TestFillAndApply(t *testing.T) {
	x := New(Vec(4)).Fill(2)
	assert.Equal(t, []float64{2, 2, 2, 2}, x.Data())

	n := 0.0
	x.FillFunc(func() float64 { n++; return n })
	assert.Equal(t, []float64{1, 2, 3, 4}, x.Data())

	sq := x.Map(func(v float64) float64 { return v * v })
	assert.Equal(t, []float64{1, 4, 9, 16}, sq.Data())
	assert.Equal(t, []float64{1, 2, 3, 4}, x.Data())

	x.Apply(math.Sqrt)
	assert.InDelta(t, math.Sqrt(3), x.At(2), tol)

	x.Zero()
	assert.Equal(t, 0.0, x.Sum())
}

func TestApply_IdempotentClamp(t *testing.T) {
	clamp := func(v float64) float64 { return math.Max(-0.5, math.Min(0.5, v)) }
	rng := rand.New(rand.NewPCG(1, 2))

	// Large enough to take the parallel path.
	big := New(Mat(64, 256)).FillFunc(func() float64 { return rng.NormFloat64() })

	once := big.Map(clamp)
	twice := once.Map(clamp)
	assert.True(t, once.Equal(twice))
	assert.LessOrEqual(t, once.Max(), 0.5)
}

func TestDot(t *testing.T) {
	v := Vector(1, 2)
	m := Matrix(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})

	out := Dot(v, m)
	assert.Equal(t, Vec(3), out.Shape())
	assert.Equal(t, []float64{9, 12, 15}, out.Data())

	recoverShapeError(t, func() { Dot(Vector(1, 2, 3), m) })
}

func TestMatMul(t *testing.T) {
	a := Matrix(2, 2, []float64{1, 2, 3, 4})
	b := Matrix(2, 2, []float64{5, 6, 7, 8})

	out := MatMul(a, b)
	assert.Equal(t, []float64{19, 22, 43, 50}, out.Data())

	recoverShapeError(t, func() { MatMul(a, Matrix(3, 1, []float64{1, 2, 3})) })
	recoverShapeError(t, func() { MatMulInto(New(Mat(3, 3)), a, b) })
}

func TestMatMul_TransposeIdentity(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	shapes := [][3]int{{1, 1, 1}, {2, 3, 4}, {5, 1, 3}, {4, 6, 2}}

	for _, s := range shapes {
		a := randomMatrix(rng, s[0], s[1])
		b := randomMatrix(rng, s[1], s[2])

		left := MatMul(a, b).Transpose()
		right := MatMul(b.Transpose(), a.Transpose())
		assert.True(t, left.AllClose(right, 1e-12), "(AB)ᵗ != BᵗAᵗ for %v", s)
	}
}

func TestDotTranspose(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	a := randomMatrix(rng, 3, 4)
	b := randomMatrix(rng, 5, 4)

	got := DotTranspose(a, b)
	want := MatMul(a, b.Transpose())
	assert.True(t, got.AllClose(want, tol))

	// vector · matrixᵗ
	v := Vector(1, 0, 0, 0)
	row := DotTranspose(v, b)
	assert.Equal(t, Vec(5), row.Shape())
	for i := 0; i < 5; i++ {
		assert.InDelta(t, b.At(i, 0), row.At(i), tol)
	}

	recoverShapeError(t, func() { DotTranspose(a, randomMatrix(rng, 4, 3)) })
}

func TestTransposeDot(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))
	a := randomMatrix(rng, 4, 2)
	b := randomMatrix(rng, 4, 3)

	got := TransposeDot(a, b)
	want := MatMul(a.Transpose(), b)
	assert.True(t, got.AllClose(want, tol))

	recoverShapeError(t, func() { TransposeDot(a, randomMatrix(rng, 3, 3)) })
}

func TestTranspose(t *testing.T) {
	m := Matrix(2, 3, []float64{1, 2, 3, 4, 5, 6})
	mt := m.Transpose()
	assert.Equal(t, Mat(3, 2), mt.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, mt.Data())
	assert.True(t, mt.Transpose().Equal(m))
}

func TestInverse(t *testing.T) {
	m := Matrix(2, 2, []float64{4, 7, 2, 6})
	inv, err := m.Inverse()
	require.NoError(t, err)
	assert.True(t, MatMul(m, inv).AllClose(Identity(2), 1e-12))

	singular := Matrix(2, 2, []float64{1, 2, 2, 4})
	_, err = singular.Inverse()
	assert.ErrorIs(t, err, ErrSingular)

	recoverShapeError(t, func() { _, _ = New(Mat(2, 3)).Inverse() })
}

func TestSumRowsAndBroadcast(t *testing.T) {
	m := Matrix(3, 2, []float64{1, 2, 3, 4, 5, 6})
	assert.Equal(t, []float64{9, 12}, SumRows(m).Data())

	AddRowVector(m, Vector(10, 20))
	assert.Equal(t, []float64{11, 22, 13, 24, 15, 26}, m.Data())

	recoverShapeError(t, func() { AddRowVector(m, Vector(1, 2, 3)) })
	recoverShapeError(t, func() { SumRowsInto(New(Vec(3)), m) })
}

func TestReshape(t *testing.T) {
	v := Vector(1, 2, 3, 4, 5, 6)
	m := v.Reshape(Mat(2, 3))
	assert.True(t, m.IsView())
	assert.Equal(t, 6.0, m.At(1, 2))

	m.Set(0, 0, 0)
	assert.Equal(t, 0.0, v.At(0))

	recoverShapeError(t, func() { v.Reshape(Mat(4, 2)) })
}

func TestString(t *testing.T) {
	assert.Equal(t, "Tensor(1x1x3)[1 2 3]", Vector(1, 2, 3).String())
	assert.Contains(t, New(Vec(20)).String(), "more")
}
