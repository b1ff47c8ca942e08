// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training networks.
//
// # Overview
//
// This package contains:
//   - GradientDescent and SGD with weight decay
//   - Momentum and Nesterov
//   - AdaGrad, RMSProp and Adam
//   - New: build an optimizer by name
//
// One optimizer instance serves every layer of a network. Stateful
// optimizers keep a lazily created entry per parameter, keyed by the
// parameter's ID.
//
// # Basic Usage
//
//	opt := optim.NewAdam(optim.AdamConfig{LR: 0.01})
//
//	for _, layer := range net.Layers() {
//	    layer.Update(opt, 1)
//	}
package optim

import (
	"github.com/born-ml/mlp/internal/optim"
)

// Optimizer is the interface implemented by all optimizers.
type Optimizer = optim.Optimizer

// Config is the configuration for optimizers with only a learning rate.
type Config = optim.Config

// Options selects and configures an optimizer by name.
type Options = optim.Options

// Epsilon is added to variance estimates before taking the square root.
const Epsilon = optim.Epsilon

// ErrUnknownOptimizer is returned by New for unregistered names.
var ErrUnknownOptimizer = optim.ErrUnknownOptimizer

// New creates the optimizer named by opts.Name.
func New(opts Options) (Optimizer, error) { return optim.New(opts) }

// Names returns the names accepted by New.
func Names() []string { return optim.Names() }

// Gradient descent

// GradientDescent implements param -= lr * grad.
type GradientDescent = optim.GradientDescent

// NewGradientDescent creates a gradient descent optimizer.
func NewGradientDescent(config Config) *GradientDescent { return optim.NewGradientDescent(config) }

// SGD implements gradient descent with weight decay.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
//
// Example:
//
//	opt := optim.NewSGD(optim.SGDConfig{LR: 0.01, Decay: 1e-4})
func NewSGD(config SGDConfig) *SGD { return optim.NewSGD(config) }

// Momentum

// Momentum implements gradient descent with a moving average of gradients.
type Momentum = optim.Momentum

// MomentumConfig contains configuration for Momentum optimizer.
type MomentumConfig = optim.MomentumConfig

// NewMomentum creates a new Momentum optimizer.
func NewMomentum(config MomentumConfig) *Momentum { return optim.NewMomentum(config) }

// Nesterov implements Nesterov accelerated gradient.
type Nesterov = optim.Nesterov

// NesterovConfig contains configuration for Nesterov optimizer.
type NesterovConfig = optim.NesterovConfig

// NewNesterov creates a new Nesterov optimizer.
func NewNesterov(config NesterovConfig) *Nesterov { return optim.NewNesterov(config) }

// Adaptive

// AdaGrad scales steps by accumulated squared gradients.
type AdaGrad = optim.AdaGrad

// NewAdaGrad creates a new AdaGrad optimizer.
func NewAdaGrad(config Config) *AdaGrad { return optim.NewAdaGrad(config) }

// RMSProp scales steps by a running average of squared gradients.
type RMSProp = optim.RMSProp

// RMSPropConfig contains configuration for RMSProp optimizer.
type RMSPropConfig = optim.RMSPropConfig

// NewRMSProp creates a new RMSProp optimizer.
func NewRMSProp(config RMSPropConfig) *RMSProp { return optim.NewRMSProp(config) }

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
//
// Example:
//
//	opt := optim.NewAdam(optim.AdamConfig{
//	    LR:    0.001,
//	    Betas: [2]float64{0.9, 0.999},
//	})
func NewAdam(config AdamConfig) *Adam { return optim.NewAdam(config) }
