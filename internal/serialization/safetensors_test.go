package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/mlp/internal/tensor"
)

func sampleTensors() map[string]*tensor.Tensor {
	return map[string]*tensor.Tensor{
		"0.weight": tensor.Matrix(2, 3, []float64{1, 2, 3, 4, 5, 6}),
		"0.bias":   tensor.Vector(0.1, 0.2, 0.3),
		"cube":     tensor.Full(tensor.Cube(2, 1, 2), -1.5),
	}
}

func TestSafeTensors_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.safetensors")
	in := sampleTensors()

	require.NoError(t, WriteSafeTensors(path, in, map[string]string{"framework": "mlp"}))

	f, err := ReadSafeTensors(path)
	require.NoError(t, err)

	require.Len(t, f.Tensors, len(in))
	for name, want := range in {
		got, ok := f.Tensors[name]
		require.True(t, ok, name)
		assert.True(t, want.Shape().Equal(got.Shape()), "%s: %v vs %v", name, want.Shape(), got.Shape())
		assert.Equal(t, want.Data(), got.Data(), name)
	}

	assert.Equal(t, "mlp", f.Metadata["framework"])
	assert.Len(t, f.Metadata[MetaChecksum], 64)
}

func TestSafeTensors_HeaderLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, sampleTensors(), nil))

	raw := buf.Bytes()
	headerSize := binary.LittleEndian.Uint64(raw[:8])
	assert.Zero(t, headerSize%8, "data section must be 8-byte aligned")

	var header map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw[8:8+headerSize], &header))

	var bias TensorHeader
	require.NoError(t, json.Unmarshal(header["0.bias"], &bias))
	assert.Equal(t, DTypeF64, bias.DType)
	assert.Equal(t, []int64{3}, bias.Shape)
	// Alphabetical order: "0.bias" comes first.
	assert.Equal(t, [2]int64{0, 24}, bias.DataOffsets)

	var weight TensorHeader
	require.NoError(t, json.Unmarshal(header["0.weight"], &weight))
	assert.Equal(t, []int64{2, 3}, weight.Shape)
	assert.Equal(t, [2]int64{24, 72}, weight.DataOffsets)

	var cube TensorHeader
	require.NoError(t, json.Unmarshal(header["cube"], &cube))
	assert.Equal(t, []int64{2, 1, 2}, cube.Shape)

	dataSize := uint64(len(raw)) - 8 - headerSize
	assert.Equal(t, uint64(72+32), dataSize)
}

func TestSafeTensors_ChecksumMismatch(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, sampleTensors(), nil))

	raw := buf.Bytes()
	raw[len(raw)-1] ^= 0xFF // corrupt the last data byte

	_, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	require.ErrorIs(t, err, ErrChecksumMismatch)

	f, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.Len(t, f.Tensors, 3)
}

func TestSafeTensors_MissingChecksum(t *testing.T) {
	header := []byte(`{"x":{"dtype":"F64","shape":[1],"data_offsets":[0,8]}}`)
	raw := encodeRaw(header, make([]byte, 8))

	_, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{})
	require.ErrorIs(t, err, ErrMissingChecksum)

	f, err := ReadFrom(bytes.NewReader(raw), ReaderOptions{SkipChecksumValidation: true})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, f.Tensors["x"].At(0), 0)
}

func TestReadSafeTensorsWithOptions_StrippedChecksum(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, sampleTensors(), map[string]string{"framework": "mlp"}))

	raw := buf.Bytes()
	n := binary.LittleEndian.Uint64(raw[:8])

	var header map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw[8:8+n], &header))
	var meta map[string]string
	require.NoError(t, json.Unmarshal(header[metadataKey], &meta))
	delete(meta, MetaChecksum)
	encoded, err := json.Marshal(meta)
	require.NoError(t, err)
	header[metadataKey] = encoded
	stripped, err := json.Marshal(header)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stripped.safetensors")
	require.NoError(t, os.WriteFile(path, encodeRaw(stripped, raw[8+n:]), 0o600))

	_, err = ReadSafeTensors(path)
	require.ErrorIs(t, err, ErrMissingChecksum)

	f, err := ReadSafeTensorsWithOptions(path, ReaderOptions{
		SkipChecksumValidation: true,
		ValidationLevel:        ValidationNone,
	})
	require.NoError(t, err)

	in := sampleTensors()
	require.Len(t, f.Tensors, len(in))
	for name, want := range in {
		assert.Equal(t, want.Data(), f.Tensors[name].Data(), name)
	}
	assert.Equal(t, "mlp", f.Metadata["framework"])
	assert.NotContains(t, f.Metadata, MetaChecksum)
}

func TestSafeTensors_RejectsMalformed(t *testing.T) {
	opts := ReaderOptions{SkipChecksumValidation: true}

	tests := []struct {
		name    string
		header  string
		data    int
		wantErr error
	}{
		{"unsupported dtype", `{"x":{"dtype":"F32","shape":[2],"data_offsets":[0,8]}}`, 8, ErrUnsupportedDType},
		{"size mismatch", `{"x":{"dtype":"F64","shape":[2],"data_offsets":[0,8]}}`, 8, ErrInvalidShape},
		{"zero dim", `{"x":{"dtype":"F64","shape":[0],"data_offsets":[0,0]}}`, 0, ErrInvalidShape},
		{"rank 4", `{"x":{"dtype":"F64","shape":[1,1,1,1],"data_offsets":[0,8]}}`, 8, ErrInvalidShape},
		{"out of bounds", `{"x":{"dtype":"F64","shape":[2],"data_offsets":[0,16]}}`, 8, ErrOutOfBounds},
		{"overlap", `{"a":{"dtype":"F64","shape":[2],"data_offsets":[0,16]},"b":{"dtype":"F64","shape":[1],"data_offsets":[8,16]}}`, 16, ErrOffsetOverlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := encodeRaw([]byte(tt.header), make([]byte, tt.data))
			_, err := ReadFrom(bytes.NewReader(raw), opts)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSafeTensors_HeaderTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint64(MaxHeaderSize+1)))

	_, err := ReadFrom(&buf, ReaderOptions{})
	assert.ErrorIs(t, err, ErrHeaderTooLarge)
}

func TestSafeTensors_InvalidName(t *testing.T) {
	err := WriteTo(&bytes.Buffer{}, map[string]*tensor.Tensor{"../w": tensor.Vector(1)}, nil)
	assert.ErrorIs(t, err, ErrInvalidTensorName)
}

func TestReadSafeTensors_MissingFile(t *testing.T) {
	_, err := ReadSafeTensors(filepath.Join(t.TempDir(), "nope.safetensors"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// encodeRaw frames a header and data section.
func encodeRaw(header, data []byte) []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint64(len(header)))
	buf.Write(header)
	buf.Write(data)
	return buf.Bytes()
}
