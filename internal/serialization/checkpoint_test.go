package serialization

import (
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/activation"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/tensor"
)

func TestCheckpoint_RoundTrip(t *testing.T) {
	net := nn.NewNetwork(
		nn.NewDense(2, 3, activation.Tanh{}),
		nn.NewDense(3, 1, activation.Sigmoid{}),
	)
	net.Init(nn.Uniform(rand.New(rand.NewPCG(1, 2)), -1, 1))

	path := filepath.Join(t.TempDir(), "net.safetensors")
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, SaveCheckpoint(path, &Checkpoint{
		Network:   net,
		Loss:      "mse",
		RunID:     "run-1",
		CreatedAt: created,
		Metadata:  map[string]string{"note": "xor", MetaLoss: "ignored"},
	}))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)

	assert.Equal(t, "mse", ckpt.Loss)
	assert.Equal(t, "run-1", ckpt.RunID)
	assert.True(t, created.Equal(ckpt.CreatedAt))
	assert.Equal(t, map[string]string{"note": "xor"}, ckpt.Metadata)
	assert.Equal(t, net.Topology(), ckpt.Network.Topology())

	for _, x := range []*tensor.Tensor{tensor.Vector(0, 1), tensor.Vector(1, 1), tensor.Vector(-0.5, 2)} {
		assert.Equal(t, net.Predict(x).Data(), ckpt.Network.Predict(x).Data())
	}
}

func TestCheckpoint_SingleInputLayer(t *testing.T) {
	// A 1xN weight is stored as a vector and must still load.
	net := nn.NewNetwork(nn.NewDense(1, 4, nil))
	net.Init(nn.Constant(0.25))

	path := filepath.Join(t.TempDir(), "narrow.safetensors")
	require.NoError(t, SaveCheckpoint(path, &Checkpoint{Network: net}))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(t, net.Predict(tensor.Vector(2)).Data(), ckpt.Network.Predict(tensor.Vector(2)).Data())
}

func TestCheckpoint_LeakySlope(t *testing.T) {
	net := nn.NewNetwork(nn.NewDense(2, 2, activation.LeakyReLU{Slope: 0.2}))
	net.Init(nn.Constant(-1))

	path := filepath.Join(t.TempDir(), "leaky.safetensors")
	require.NoError(t, SaveCheckpoint(path, &Checkpoint{Network: net}))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)

	d, ok := ckpt.Network.Layer(0).(*nn.Dense)
	require.True(t, ok)
	assert.Equal(t, activation.LeakyReLU{Slope: 0.2}, d.Activation())

	x := tensor.Vector(1, 1)
	assert.Equal(t, net.Predict(x).Data(), ckpt.Network.Predict(x).Data())
}

func TestCheckpoint_NotACheckpoint(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.safetensors")
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.Tensor{"x": tensor.Vector(1)}, nil))

	_, err := LoadCheckpoint(path)
	assert.ErrorIs(t, err, ErrNotCheckpoint)
}

func TestCheckpoint_EmptyNetwork(t *testing.T) {
	err := SaveCheckpoint(filepath.Join(t.TempDir(), "x"), &Checkpoint{Network: nn.NewNetwork()})
	assert.ErrorIs(t, err, nn.ErrEmptyNetwork)
}

func TestCheckpoint_ParameterShapeMismatch(t *testing.T) {
	net := nn.NewNetwork(nn.NewDense(2, 2, nil))
	topology := `{"layers":[{"kind":"dense","in":3,"out":2}]}`

	path := filepath.Join(t.TempDir(), "bad.safetensors")
	require.NoError(t, WriteSafeTensors(path, net.StateDict(), map[string]string{
		MetaFormat:   FormatName,
		MetaTopology: topology,
	}))

	_, err := LoadCheckpoint(path)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestCheckpoint_OversizedTopology(t *testing.T) {
	// Sizes far beyond what the data section holds must be rejected before
	// any layer is allocated.
	path := filepath.Join(t.TempDir(), "huge.safetensors")
	require.NoError(t, WriteSafeTensors(path, map[string]*tensor.Tensor{"0.weight": tensor.Vector(1)}, map[string]string{
		MetaFormat:   FormatName,
		MetaTopology: `{"layers":[{"kind":"dense","in":4294967296,"out":4294967297}]}`,
	}))

	_, err := LoadCheckpoint(path)
	assert.ErrorIs(t, err, ErrInvalidShape)
}

func TestCheckpoint_TopologyWithoutTensors(t *testing.T) {
	net := nn.NewNetwork(nn.NewDense(2, 2, nil))
	state := net.StateDict()
	delete(state, "0.bias")

	path := filepath.Join(t.TempDir(), "nobias.safetensors")
	require.NoError(t, WriteSafeTensors(path, state, map[string]string{
		MetaFormat:   FormatName,
		MetaTopology: `{"layers":[{"kind":"dense","in":2,"out":2}]}`,
	}))

	_, err := LoadCheckpoint(path)
	assert.ErrorIs(t, err, ErrNotCheckpoint)

	require.NoError(t, WriteSafeTensors(path, net.StateDict(), map[string]string{
		MetaFormat:   FormatName,
		MetaTopology: `{"layers":[{"kind":"dense","in":-2,"out":2}]}`,
	}))
	_, err = LoadCheckpoint(path)
	assert.ErrorIs(t, err, ErrInvalidShape)
}
