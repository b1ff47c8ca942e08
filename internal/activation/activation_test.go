package activation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numericDerivative estimates f'(x) with a central difference.
func numericDerivative(a Activation, x float64) float64 {
	const h = 1e-6
	out := make([]float64, 2)
	a.F(out, []float64{x + h, x - h})
	return (out[0] - out[1]) / (2 * h)
}

func TestDerivativesMatchFiniteDifferences(t *testing.T) {
	inputs := []float64{-2.5, -0.7, 0.3, 1.1, 3.0}

	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			a, err := ByName(name)
			require.NoError(t, err)

			value := make([]float64, len(inputs))
			a.F(value, inputs)

			df := make([]float64, len(inputs))
			a.DF(df, value)

			for i, x := range inputs {
				assert.InDelta(t, numericDerivative(a, x), df[i], 1e-5, "x=%v", x)
			}
		})
	}
}

func TestForwardValues(t *testing.T) {
	src := []float64{-1, 0, 2}
	dst := make([]float64, 3)

	Sigmoid{}.F(dst, src)
	assert.InDelta(t, 0.5, dst[1], 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(-2)), dst[2], 1e-12)

	ReLU{}.F(dst, src)
	assert.Equal(t, []float64{0, 0, 2}, dst)

	LeakyReLU{Slope: 0.1}.F(dst, src)
	assert.Equal(t, []float64{-0.1, 0, 2}, dst)

	Identity{}.F(dst, src)
	assert.Equal(t, src, dst)

	Softplus{}.F(dst, []float64{1000, -1000, 0})
	assert.InDelta(t, 1000, dst[0], 1e-9)
	assert.InDelta(t, 0, dst[1], 1e-12)
	assert.InDelta(t, math.Ln2, dst[2], 1e-12)
}

func TestInPlace(t *testing.T) {
	buf := []float64{-1, 0.5}
	Tanh{}.F(buf, buf)
	assert.InDelta(t, math.Tanh(-1), buf[0], 1e-12)
	assert.InDelta(t, math.Tanh(0.5), buf[1], 1e-12)
}

func TestByName(t *testing.T) {
	a, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "identity", a.Name())

	for _, name := range Names() {
		a, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, name, a.Name())
	}

	_, err = ByName("swish")
	assert.ErrorIs(t, err, ErrUnknownActivation)
}

func TestLeakyReLU_NameKeepsSlope(t *testing.T) {
	for _, slope := range []float64{DefaultLeakySlope, 0.2, 0, 1e-3} {
		l := LeakyReLU{Slope: slope}
		a, err := ByName(l.Name())
		require.NoError(t, err, l.Name())
		assert.Equal(t, l, a)
	}
	assert.Equal(t, "leaky_relu", LeakyReLU{Slope: DefaultLeakySlope}.Name())
	assert.Equal(t, "leaky_relu:0.2", LeakyReLU{Slope: 0.2}.Name())

	for _, bad := range []string{"leaky_relu:", "leaky_relu:x", "leaky_relu:-1", "leaky_relu:+Inf", "leaky_relu:NaN"} {
		_, err := ByName(bad)
		assert.ErrorIs(t, err, ErrUnknownActivation, bad)
	}
}

func TestLengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { Sigmoid{}.F(make([]float64, 2), make([]float64, 3)) })
	assert.Panics(t, func() { ReLU{}.DF(make([]float64, 1), make([]float64, 3)) })
}
