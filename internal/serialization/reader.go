package serialization

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/mlp/internal/tensor"
)

// File is the decoded content of a SafeTensors file.
type File struct {
	Tensors  map[string]*tensor.Tensor
	Metadata map[string]string
}

// ReaderOptions configures reading.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// ReadSafeTensors reads a SafeTensors file with strict validation.
func ReadSafeTensors(path string) (*File, error) {
	return ReadSafeTensorsWithOptions(path, ReaderOptions{ValidationLevel: ValidationStrict})
}

// ReadSafeTensorsWithOptions reads a SafeTensors file with custom options.
func ReadSafeTensorsWithOptions(path string, opts ReaderOptions) (*File, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = file.Close() // Read-only, close error carries no information
	}()

	f, err := ReadFrom(bufio.NewReader(file), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

// ReadFrom decodes a SafeTensors stream.
func ReadFrom(r io.Reader, opts ReaderOptions) (*File, error) {
	var headerSize uint64
	if err := binary.Read(r, binary.LittleEndian, &headerSize); err != nil {
		return nil, fmt.Errorf("failed to read header size: %w", err)
	}
	if headerSize > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, headerSize)
	}

	headerJSON := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerJSON); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(headerJSON, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	f := &File{
		Tensors:  make(map[string]*tensor.Tensor, len(raw)),
		Metadata: map[string]string{},
	}
	if m, ok := raw[metadataKey]; ok {
		if err := json.Unmarshal(m, &f.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata: %w", err)
		}
		delete(raw, metadataKey)
	}

	headers := make(map[string]TensorHeader, len(raw))
	metas := make([]TensorMeta, 0, len(raw))
	for name, msg := range raw {
		var th TensorHeader
		if err := json.Unmarshal(msg, &th); err != nil {
			return nil, fmt.Errorf("failed to parse tensor %s: %w", name, err)
		}
		headers[name] = th
		metas = append(metas, TensorMeta{
			Name:   name,
			Offset: th.DataOffsets[0],
			Size:   th.DataOffsets[1] - th.DataOffsets[0],
		})
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if err := ValidateTensors(metas, int64(len(data)), opts.ValidationLevel); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if !opts.SkipChecksumValidation {
		stored, ok := f.Metadata[MetaChecksum]
		if !ok {
			return nil, ErrMissingChecksum
		}
		if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
			return nil, err
		}
	}

	for name, th := range headers {
		t, err := decodeTensor(name, th, data)
		if err != nil {
			return nil, err
		}
		f.Tensors[name] = t
	}

	return f, nil
}

// decodeTensor decodes one F64 tensor from the data section.
func decodeTensor(name string, th TensorHeader, data []byte) (*tensor.Tensor, error) {
	if th.DType != DTypeF64 {
		return nil, fmt.Errorf("tensor %s: %w: %q", name, ErrUnsupportedDType, th.DType)
	}

	shape, err := dimsToShape(th.Shape)
	if err != nil {
		return nil, fmt.Errorf("tensor %s: %w", name, err)
	}

	begin, end := th.DataOffsets[0], th.DataOffsets[1]
	if begin < 0 || end < begin || end > int64(len(data)) {
		return nil, &ValidationError{
			Err:     ErrOutOfBounds,
			Tensor:  name,
			Details: fmt.Sprintf("offsets [%d, %d] with %d data bytes", begin, end, len(data)),
		}
	}
	if want := int64(shape.Size() * elemSize); end-begin != want {
		return nil, fmt.Errorf("tensor %s: %w: %v needs %d bytes, header gives %d",
			name, ErrInvalidShape, shape, want, end-begin)
	}

	t := tensor.New(shape)
	if err := binary.Read(bytes.NewReader(data[begin:end]), binary.LittleEndian, t.Data()); err != nil {
		return nil, fmt.Errorf("failed to decode tensor %s: %w", name, err)
	}
	return t, nil
}
