// Package config loads YAML run configurations for the mlp command.
//
// A run configuration names everything needed to train a network:
//
//	seed: 42
//	network:
//	  init: {kind: uniform, low: -0.5, high: 0.5}
//	  layers:
//	    - {in: 2, out: 4, activation: tanh}
//	    - {in: 4, out: 1, activation: sigmoid}
//	optimizer: {name: adam, lr: 0.05}
//	loss: mse
//	training: {mode: minibatch, epochs: 500, batch_size: 2, log_every: 100}
//	data:
//	  inputs:  [[0, 0], [0, 1], [1, 0], [1, 1]]
//	  targets: [[0], [1], [1], [0]]
//
// Zero-valued fields take the same defaults as the library types they
// configure.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/mlp/internal/loss"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/train"
)

// ErrInvalidConfig is returned for configurations that fail validation.
var ErrInvalidConfig = errors.New("invalid config")

// Config is a complete training run.
type Config struct {
	Seed      uint64         `yaml:"seed"`
	Network   NetworkConfig  `yaml:"network"`
	Optimizer optim.Options  `yaml:"optimizer"`
	Loss      string         `yaml:"loss"`
	Training  TrainingConfig `yaml:"training"`
	Data      DataConfig     `yaml:"data"`
}

// NetworkConfig describes the layers and their initialization.
type NetworkConfig struct {
	Init   InitConfig     `yaml:"init"`
	Layers []nn.LayerSpec `yaml:"layers"`
}

// InitConfig selects the parameter initializer.
type InitConfig struct {
	Kind  string  `yaml:"kind"`  // uniform (default), normal, xavier, constant
	Low   float64 `yaml:"low"`   // uniform lower bound (default: -0.5)
	High  float64 `yaml:"high"`  // uniform upper bound (default: 0.5)
	Mean  float64 `yaml:"mean"`  // normal mean
	Std   float64 `yaml:"std"`   // normal standard deviation (default: 0.1)
	Value float64 `yaml:"value"` // constant value
}

// TrainingConfig selects the training regime.
type TrainingConfig struct {
	Mode      string `yaml:"mode"`
	Epochs    int    `yaml:"epochs"`
	BatchSize int    `yaml:"batch_size"`
	Steps     int    `yaml:"steps"`
	LogEvery  int    `yaml:"log_every"`
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Data.CSV != "" {
		cfg.Data.baseDir = filepath.Dir(path)
	}
	return cfg, nil
}

// Parse decodes and validates a YAML configuration. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration without building anything.
func (c *Config) Validate() error {
	if len(c.Network.Layers) == 0 {
		return fmt.Errorf("%w: network has no layers", ErrInvalidConfig)
	}
	for i, spec := range c.Network.Layers {
		if spec.In <= 0 || spec.Out <= 0 {
			return fmt.Errorf("%w: layer %d: sizes must be positive, got %d -> %d", ErrInvalidConfig, i, spec.In, spec.Out)
		}
		if i > 0 && c.Network.Layers[i-1].Out != spec.In {
			return fmt.Errorf("%w: layer %d: input %d does not match previous output %d",
				ErrInvalidConfig, i, spec.In, c.Network.Layers[i-1].Out)
		}
	}

	switch c.Network.Init.Kind {
	case "", "uniform", "normal", "xavier", "constant":
	default:
		return fmt.Errorf("%w: unknown init %q", ErrInvalidConfig, c.Network.Init.Kind)
	}

	if _, err := train.ParseMode(c.Training.Mode); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Training.Epochs < 0 || c.Training.BatchSize < 0 || c.Training.Steps < 0 || c.Training.LogEvery < 0 {
		return fmt.Errorf("%w: training values must not be negative", ErrInvalidConfig)
	}
	if c.Optimizer.LR < 0 {
		return fmt.Errorf("%w: negative learning rate %g", ErrInvalidConfig, c.Optimizer.LR)
	}

	return c.Data.validate()
}

// Rand returns the parameter initialization source seeded from Seed.
func (c *Config) Rand() *rand.Rand {
	return pcg(c.Seed)
}

// SampleRand returns the stochastic sample-order source. It is seeded from
// Seed+1 so sample order does not replay the initialization stream.
func (c *Config) SampleRand() *rand.Rand {
	return pcg(c.Seed + 1)
}

func pcg(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// BuildNetwork creates the network and initializes its parameters from rng.
func (c *Config) BuildNetwork(rng *rand.Rand) (*nn.Network, error) {
	net, err := nn.FromTopology(nn.Topology{Layers: c.Network.Layers})
	if err != nil {
		return nil, fmt.Errorf("failed to build network: %w", err)
	}

	ic := c.Network.Init
	for _, l := range net.Layers() {
		var gen func() float64
		switch ic.Kind {
		case "", "uniform":
			lo, hi := ic.Low, ic.High
			if lo == 0 && hi == 0 {
				lo, hi = -0.5, 0.5
			}
			gen = nn.Uniform(rng, lo, hi)
		case "normal":
			std := ic.Std
			if std == 0 {
				std = 0.1
			}
			gen = nn.Normal(rng, ic.Mean, std)
		case "xavier":
			gen = nn.XavierUniform(rng, l.InputShape().Size(), l.OutputShape().Size())
		case "constant":
			gen = nn.Constant(ic.Value)
		}
		l.Init(gen)
	}
	return net, nil
}

// BuildOptimizer creates the configured optimizer. An empty name means "gd".
func (c *Config) BuildOptimizer() (optim.Optimizer, error) {
	opts := c.Optimizer
	if opts.Name == "" {
		opts.Name = "gd"
	}
	return optim.New(opts)
}

// BuildLoss returns the configured loss. An empty name means "mse".
func (c *Config) BuildLoss() (loss.Loss, error) {
	name := c.Loss
	if name == "" {
		name = "mse"
	}
	return loss.ByName(name)
}

// TrainConfig converts the training section to a train.Config.
// src is used only in stochastic mode; if nil, SampleRand is used.
func (c *Config) TrainConfig(logger *slog.Logger, src train.IntSource) (train.Config, error) {
	mode, err := train.ParseMode(c.Training.Mode)
	if err != nil {
		return train.Config{}, err
	}
	if mode == train.Stochastic && src == nil {
		src = c.SampleRand()
	}

	return train.Config{
		Mode:      mode,
		Epochs:    c.Training.Epochs,
		BatchSize: c.Training.BatchSize,
		Steps:     c.Training.Steps,
		Source:    src,
		Logger:    logger,
		LogEvery:  c.Training.LogEvery,
	}, nil
}
