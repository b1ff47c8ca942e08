package nn

import (
	"math"
	"math/rand/v2"
)

// Initializers return scalar generators for Layer.Init and Network.Init.
// The caller owns the random source; generators are not safe for
// concurrent use.

// Uniform draws from U(lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) func() float64 {
	return func() float64 {
		return lo + rng.Float64()*(hi-lo)
	}
}

// Normal draws from N(mean, std²).
func Normal(rng *rand.Rand, mean, std float64) func() float64 {
	return func() float64 {
		return mean + rng.NormFloat64()*std
	}
}

// XavierUniform draws from the Xavier/Glorot uniform distribution
// U(-sqrt(6/(fanIn+fanOut)), sqrt(6/(fanIn+fanOut))).
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) func() float64 {
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(rng, -bound, bound)
}

// Constant always returns v.
func Constant(v float64) func() float64 {
	return func() float64 {
		return v
	}
}
