package config

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/born-ml/mlp/internal/tensor"
	"github.com/born-ml/mlp/internal/train"
)

// DataConfig holds the training samples, either inline or from a CSV file.
type DataConfig struct {
	Inputs  [][]float64 `yaml:"inputs"`
	Targets [][]float64 `yaml:"targets"`

	// CSV is a path to a numeric CSV file with a header row. The last
	// TargetColumns columns are targets, the rest inputs. Relative paths
	// resolve against the config file's directory.
	CSV           string `yaml:"csv"`
	TargetColumns int    `yaml:"target_columns"` // default: 1

	baseDir string
}

func (d *DataConfig) validate() error {
	inline := len(d.Inputs) > 0 || len(d.Targets) > 0
	switch {
	case inline && d.CSV != "":
		return fmt.Errorf("%w: data: set either inline samples or csv, not both", ErrInvalidConfig)
	case !inline && d.CSV == "":
		return fmt.Errorf("%w: data: no samples", ErrInvalidConfig)
	case d.TargetColumns < 0:
		return fmt.Errorf("%w: data: negative target_columns", ErrInvalidConfig)
	case inline && len(d.Inputs) != len(d.Targets):
		return fmt.Errorf("%w: data: %d inputs but %d targets", ErrInvalidConfig, len(d.Inputs), len(d.Targets))
	}
	return nil
}

// Dataset returns the configured samples as a train.Dataset.
func (c *Config) Dataset() (train.Dataset, error) {
	inputs, targets := c.Data.Inputs, c.Data.Targets
	if c.Data.CSV != "" {
		var err error
		inputs, targets, err = loadCSV(c.Data.csvPath(), c.Data.TargetColumns)
		if err != nil {
			return train.Dataset{}, err
		}
	}

	d := train.Dataset{
		Inputs:  make([]*tensor.Tensor, len(inputs)),
		Targets: make([]*tensor.Tensor, len(targets)),
	}
	for i := range inputs {
		if len(inputs[i]) == 0 || len(targets[i]) == 0 {
			return train.Dataset{}, fmt.Errorf("%w: data: sample %d is empty", ErrInvalidConfig, i)
		}
		d.Inputs[i] = tensor.Vector(inputs[i]...)
		d.Targets[i] = tensor.Vector(targets[i]...)
	}

	if err := d.Validate(); err != nil {
		return train.Dataset{}, err
	}
	return d, nil
}

func (d *DataConfig) csvPath() string {
	if filepath.IsAbs(d.CSV) || d.baseDir == "" {
		return d.CSV
	}
	return filepath.Join(d.baseDir, d.CSV)
}

// loadCSV reads a numeric CSV file, skipping the header row.
func loadCSV(path string, targetCols int) (inputs, targets [][]float64, err error) {
	if targetCols == 0 {
		targetCols = 1
	}

	//nolint:gosec // G304: File path comes from the run configuration
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open data: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%w: %s: not enough rows", ErrInvalidConfig, path)
	}

	numCols := len(records[0])
	if numCols <= targetCols {
		return nil, nil, fmt.Errorf("%w: %s: %d columns cannot hold %d targets", ErrInvalidConfig, path, numCols, targetCols)
	}

	for r, row := range records[1:] {
		values := make([]float64, numCols)
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: %s: row %d column %d: %w", ErrInvalidConfig, path, r+2, j+1, err)
			}
			values[j] = v
		}
		inputs = append(inputs, values[:numCols-targetCols])
		targets = append(targets, values[numCols-targetCols:])
	}
	return inputs, targets, nil
}
