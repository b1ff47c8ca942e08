package serialization

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeChecksum(t *testing.T) {
	data := []byte("test data")

	assert.Equal(t, ComputeChecksum(data), ComputeChecksum(data))
	assert.NotEqual(t, ComputeChecksum(data), ComputeChecksum([]byte("different data")))
	assert.Len(t, ComputeChecksum(data), 64)

	// Known SHA-256 of the empty input.
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", ComputeChecksum(nil))
}

func TestComputeChecksumReader(t *testing.T) {
	data := []byte("test data for reader")

	sum, err := ComputeChecksumReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ComputeChecksum(data), sum)
}

func TestValidateChecksum(t *testing.T) {
	sum := ComputeChecksum([]byte("test data"))

	require.NoError(t, ValidateChecksum(sum, sum))

	err := ValidateChecksum(sum, ComputeChecksum([]byte("other")))
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
