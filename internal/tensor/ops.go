package tensor

import (
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/mlp/internal/parallel"
)

// elementwise controls parallel dispatch of Apply/Map over large buffers.
var elementwise = parallel.DefaultConfig()

// Fill overwrites every element with value.
func (t *Tensor) Fill(value float64) *Tensor {
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// FillFunc overwrites every element with successive values from gen.
func (t *Tensor) FillFunc(gen func() float64) *Tensor {
	for i := range t.data {
		t.data[i] = gen()
	}
	return t
}

// Zero sets every element to 0.
func (t *Tensor) Zero() *Tensor {
	clear(t.data)
	return t
}

// CopyFrom copies src into t. Shapes must match.
func (t *Tensor) CopyFrom(src *Tensor) *Tensor {
	requireSameShape("CopyFrom", t, src)
	copy(t.data, src.data)
	return t
}

// Apply maps fn over every element in place.
//
// fn must be pure: large tensors are split across goroutines.
func (t *Tensor) Apply(fn func(float64) float64) *Tensor {
	data := t.data
	parallel.ForRange(len(data), func(start, end int) {
		for i := start; i < end; i++ {
			data[i] = fn(data[i])
		}
	}, elementwise)
	return t
}

// Map returns a new tensor with fn applied to every element.
func (t *Tensor) Map(fn func(float64) float64) *Tensor {
	return t.Clone().Apply(fn)
}

// Add adds other elementwise in place.
func (t *Tensor) Add(other *Tensor) *Tensor {
	requireSameShape("Add", t, other)
	floats.Add(t.data, other.data)
	return t
}

// Sub subtracts other elementwise in place.
func (t *Tensor) Sub(other *Tensor) *Tensor {
	requireSameShape("Sub", t, other)
	floats.Sub(t.data, other.data)
	return t
}

// Mul multiplies by other elementwise (Hadamard product) in place.
func (t *Tensor) Mul(other *Tensor) *Tensor {
	requireSameShape("Mul", t, other)
	floats.Mul(t.data, other.data)
	return t
}

// AddScalar adds value to every element in place.
func (t *Tensor) AddScalar(value float64) *Tensor {
	floats.AddConst(value, t.data)
	return t
}

// MulScalar multiplies every element by value in place. It is Join under the
// arithmetic name.
func (t *Tensor) MulScalar(value float64) *Tensor {
	return t.Join(value)
}

// Join scales every element by alpha in place.
func (t *Tensor) Join(alpha float64) *Tensor {
	floats.Scale(alpha, t.data)
	return t
}

// JoinScaled adds alpha*other in place: t += alpha·other.
func (t *Tensor) JoinScaled(alpha float64, other *Tensor) *Tensor {
	requireSameShape("JoinScaled", t, other)
	floats.AddScaled(t.data, alpha, other.data)
	return t
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	return floats.Sum(t.data)
}

// Max returns the largest element.
func (t *Tensor) Max() float64 {
	return floats.Max(t.data)
}

// ArgMax returns the flat index of the largest element.
func (t *Tensor) ArgMax() int {
	return floats.MaxIdx(t.data)
}

// Norm returns the Euclidean norm of the flattened tensor.
func (t *Tensor) Norm() float64 {
	return floats.Norm(t.data, 2)
}

// Equal reports whether shapes and elements are identical.
func (t *Tensor) Equal(other *Tensor) bool {
	return t.shape == other.shape && floats.Equal(t.data, other.data)
}

// AllClose reports whether shapes match and elements differ by at most tol.
func (t *Tensor) AllClose(other *Tensor, tol float64) bool {
	return t.shape == other.shape && floats.EqualApprox(t.data, other.data, tol)
}

// Add returns a + b.
func Add(a, b *Tensor) *Tensor {
	return a.Clone().Add(b)
}

// Sub returns a - b.
func Sub(a, b *Tensor) *Tensor {
	return a.Clone().Sub(b)
}

// Mul returns the elementwise product a ⊙ b.
func Mul(a, b *Tensor) *Tensor {
	return a.Clone().Mul(b)
}

// Scale returns alpha·a.
func Scale(alpha float64, a *Tensor) *Tensor {
	return a.Clone().Join(alpha)
}
