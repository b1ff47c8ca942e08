// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package train provides the public API for training networks in batch,
// mini-batch and stochastic regimes.
//
// # Basic Usage
//
//	tr, err := train.New(net, optim.NewGradientDescent(optim.Config{LR: 0.5}), nn.MSE{}, train.Config{
//	    Mode:   train.Batch,
//	    Epochs: 1000,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	history, err := tr.Fit(ctx, train.Dataset{Inputs: xs, Targets: ys})
package train

import (
	"github.com/born-ml/mlp/internal/train"
	"github.com/born-ml/mlp/nn"
	"github.com/born-ml/mlp/optim"
)

// Trainer binds a network, an optimizer and a loss.
type Trainer = train.Trainer

// Config holds configuration for a Trainer.
type Config = train.Config

// Dataset pairs input samples with their targets.
type Dataset = train.Dataset

// History records the outcome of one Fit call.
type History = train.History

// IntSource draws sample indices for stochastic training.
type IntSource = train.IntSource

// Mode selects when gradients are applied.
type Mode = train.Mode

// Training modes.
const (
	Batch      = train.Batch
	MiniBatch  = train.MiniBatch
	Stochastic = train.Stochastic
)

// Errors.
var (
	ErrUnknownMode    = train.ErrUnknownMode
	ErrNoSource       = train.ErrNoSource
	ErrInvalidDataset = train.ErrInvalidDataset
)

// New creates a Trainer. Zero-valued config fields take defaults.
func New(net *nn.Network, opt optim.Optimizer, lossFn nn.Loss, cfg Config) (*Trainer, error) {
	return train.New(net, opt, lossFn, cfg)
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	return train.ParseMode(s)
}
