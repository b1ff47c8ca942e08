package train

import (
	"errors"
	"fmt"

	"github.com/born-ml/mlp/internal/tensor"
)

// ErrInvalidDataset is returned when a dataset cannot be trained on.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset pairs input samples with their targets by index.
type Dataset struct {
	Inputs  []*tensor.Tensor
	Targets []*tensor.Tensor
}

// Len returns the number of samples.
func (d Dataset) Len() int {
	return len(d.Inputs)
}

// Validate checks that the dataset is non-empty, that inputs and targets
// pair up, and that every input (and every target) has the same size.
func (d Dataset) Validate() error {
	if len(d.Inputs) == 0 {
		return fmt.Errorf("%w: no samples", ErrInvalidDataset)
	}
	if len(d.Inputs) != len(d.Targets) {
		return fmt.Errorf("%w: %d inputs but %d targets", ErrInvalidDataset, len(d.Inputs), len(d.Targets))
	}

	for i := range d.Inputs {
		x, y := d.Inputs[i], d.Targets[i]
		if x == nil || y == nil {
			return fmt.Errorf("%w: sample %d is nil", ErrInvalidDataset, i)
		}
		if x.Size() != d.Inputs[0].Size() {
			return fmt.Errorf("%w: input %d has %d elements, want %d", ErrInvalidDataset, i, x.Size(), d.Inputs[0].Size())
		}
		if y.Size() != d.Targets[0].Size() {
			return fmt.Errorf("%w: target %d has %d elements, want %d", ErrInvalidDataset, i, y.Size(), d.Targets[0].Size())
		}
	}
	return nil
}

// checkShapes validates d against a network's input and output shapes.
func (d Dataset) checkShapes(in, out tensor.Shape) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if got := d.Inputs[0].Size(); got != in.Size() {
		return fmt.Errorf("%w: inputs have %d elements, network expects %v", ErrInvalidDataset, got, in)
	}
	if got := d.Targets[0].Size(); got != out.Size() {
		return fmt.Errorf("%w: targets have %d elements, network produces %v", ErrInvalidDataset, got, out)
	}
	return nil
}
