package nn

import (
	"fmt"

	"github.com/born-ml/mlp/internal/activation"
	"github.com/born-ml/mlp/internal/tensor"
)

// Dense implements a fully connected layer.
//
// Performs the transformation: y = f(x·W + b)
// where:
//   - x is the input with shape [batch, in] (one sample per row)
//   - W is the weight matrix with shape [in, out]
//   - b is the bias vector with shape [out], broadcast over rows
//   - f is the activation
//
// Example:
//
//	layer := nn.NewDense(2, 4, activation.Tanh{})
//	layer.Init(nn.XavierUniform(rng, 2, 4))
//	out := layer.Forward(tensor.Vector(0.5, -1)) // shape [1, 4]
type Dense struct {
	in, out int
	weight  *Parameter // [in, out]
	bias    *Parameter // [out]
	act     activation.Activation

	value     *tensor.Tensor // last forward output, [batch, out]
	local     *tensor.Tensor // delta ⊙ f'(value), [batch, out]
	down      *tensor.Tensor // delta for the previous layer, [batch, in]
	forwarded bool

	gradW, gradB *tensor.Tensor // gradients from the last Backward
	accW, accB   *tensor.Tensor // accumulated gradients
	steps        int            // number of Accumulate calls since Reset
}

// NewDense creates a fully connected layer with zeroed parameters.
//
// Call Init to seed the parameters. A nil activation means identity.
func NewDense(in, out int, act activation.Activation) *Dense {
	if in <= 0 || out <= 0 {
		panic(fmt.Sprintf("NewDense: sizes must be positive, got %d -> %d", in, out))
	}
	if act == nil {
		act = activation.Identity{}
	}

	return &Dense{
		in:     in,
		out:    out,
		weight: NewParameter("weight", tensor.New(tensor.Mat(in, out))),
		bias:   NewParameter("bias", tensor.New(tensor.Vec(out))),
		act:    act,
		gradW:  tensor.New(tensor.Mat(in, out)),
		gradB:  tensor.New(tensor.Vec(out)),
		accW:   tensor.New(tensor.Mat(in, out)),
		accB:   tensor.New(tensor.Vec(out)),
	}
}

// Kind returns "dense".
func (d *Dense) Kind() string { return "dense" }

// InputShape returns [in].
func (d *Dense) InputShape() tensor.Shape { return tensor.Vec(d.in) }

// OutputShape returns [out].
func (d *Dense) OutputShape() tensor.Shape { return tensor.Vec(d.out) }

// Init fills weights and biases from gen.
func (d *Dense) Init(gen func() float64) {
	d.weight.Tensor().FillFunc(gen)
	d.bias.Tensor().FillFunc(gen)
}

// Forward computes f(input·W + b).
//
// input may be a single sample of shape [in] or a batch [batch, in].
// The returned tensor is owned by the layer and overwritten by the next call.
func (d *Dense) Forward(input *tensor.Tensor) *tensor.Tensor {
	if input.Cols() != d.in {
		tensor.Mismatch("Dense.Forward", input.Shape(), d.InputShape(),
			fmt.Sprintf("expected %d input features", d.in))
	}

	d.value = ensure(d.value, input.Rows(), d.out)
	tensor.MatMulInto(d.value, input, d.weight.Tensor())
	tensor.AddRowVector(d.value, d.bias.Tensor())
	d.act.F(d.value.Data(), d.value.Data())
	d.forwarded = true

	return d.value
}

// Backward computes the weight and bias gradients for the last Forward.
//
//	local = delta ⊙ f'(value)
//	gradW = inputᵗ·local
//	gradB = column_sum(local)
//
// If full is true it returns local·Wᵗ, the delta for the previous layer.
// The first layer of a network passes full=false to skip that product.
func (d *Dense) Backward(input, delta *tensor.Tensor, full bool) *tensor.Tensor {
	if !d.forwarded {
		panic(fmt.Errorf("Dense.Backward: %w", ErrNoForward))
	}
	rows := d.value.Rows()
	if delta.Rows() != rows || delta.Cols() != d.out {
		tensor.Mismatch("Dense.Backward", delta.Shape(), d.value.Shape(), "delta must match the forward output")
	}
	if input.Rows() != rows || input.Cols() != d.in {
		tensor.Mismatch("Dense.Backward", input.Shape(), tensor.Mat(rows, d.in), "input must match the forward input")
	}

	d.local = ensure(d.local, rows, d.out)
	d.act.DF(d.local.Data(), d.value.Data())
	d.local.Mul(delta.Reshape(d.local.Shape()))

	tensor.TransposeDotInto(d.gradW, input, d.local)
	tensor.SumRowsInto(d.gradB, d.local)

	if !full {
		return nil
	}
	d.down = ensure(d.down, rows, d.in)
	return tensor.DotTransposeInto(d.down, d.local, d.weight.Tensor())
}

// Accumulate adds the last Backward gradients into the running sum.
func (d *Dense) Accumulate() {
	d.accW.Add(d.gradW)
	d.accB.Add(d.gradB)
	d.steps++
}

// Update applies opt to the weights and bias, then resets gradients.
//
// The accumulated sum is used when Accumulate was called since the last
// Reset, otherwise the gradients of the last Backward. Gradients are scaled
// by alpha first (1/batch size averages an accumulated batch).
func (d *Dense) Update(opt Optimizer, alpha float64) {
	gW, gB := d.gradW, d.gradB
	if d.steps > 0 {
		gW, gB = d.accW, d.accB
	}
	if alpha != 1 {
		gW.Join(alpha)
		gB.Join(alpha)
	}

	opt.Update(d.weight, gW)
	opt.Update(d.bias, gB)
	d.Reset()
}

// Reset zeroes gradients and accumulators.
func (d *Dense) Reset() {
	d.gradW.Zero()
	d.gradB.Zero()
	d.accW.Zero()
	d.accB.Zero()
	d.steps = 0
}

// Value returns the output of the last Forward call, or nil.
func (d *Dense) Value() *tensor.Tensor {
	return d.value
}

// Parameters returns [weight, bias].
func (d *Dense) Parameters() []*Parameter {
	return []*Parameter{d.weight, d.bias}
}

// Spec describes the layer for serialization.
func (d *Dense) Spec() LayerSpec {
	return LayerSpec{
		Kind:       d.Kind(),
		In:         d.in,
		Out:        d.out,
		Activation: d.act.Name(),
	}
}

// Weight returns the weight parameter.
func (d *Dense) Weight() *Parameter {
	return d.weight
}

// Bias returns the bias parameter.
func (d *Dense) Bias() *Parameter {
	return d.bias
}

// Activation returns the layer's activation.
func (d *Dense) Activation() activation.Activation {
	return d.act
}

// Gradients returns the gradients computed by the last Backward.
func (d *Dense) Gradients() (weight, bias *tensor.Tensor) {
	return d.gradW, d.gradB
}

// Accumulated returns the accumulated gradients and how many steps they hold.
func (d *Dense) Accumulated() (weight, bias *tensor.Tensor, steps int) {
	return d.accW, d.accB, d.steps
}

// ensure returns t if it already has the requested shape, else a new matrix.
func ensure(t *tensor.Tensor, rows, cols int) *tensor.Tensor {
	if t != nil && t.Rows() == rows && t.Cols() == cols {
		return t
	}
	return tensor.New(tensor.Mat(rows, cols))
}
