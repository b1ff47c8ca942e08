// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the public API for building feed-forward networks.
//
// # Overview
//
// This package contains:
//   - Layer interface and the Dense fully connected layer
//   - Network: ordered, exclusively owned sequence of layers
//   - Activations: Identity, Sigmoid, Tanh, ReLU, LeakyReLU, Softplus
//   - Losses: MSE, MAE, CrossEntropy, BinaryCrossEntropy
//   - Initializers: Uniform, Normal, XavierUniform, Constant
//
// # Basic Usage
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	net := nn.NewNetwork(
//	    nn.NewDense(2, 4, nn.Tanh{}),
//	    nn.NewDense(4, 1, nn.Sigmoid{}),
//	)
//	net.Init(nn.Uniform(rng, -0.5, 0.5))
//
//	out := net.Predict(tensor.Vector(0, 1))
package nn

import (
	"math/rand/v2"

	"github.com/born-ml/mlp/internal/activation"
	"github.com/born-ml/mlp/internal/loss"
	"github.com/born-ml/mlp/internal/nn"
)

// Core types

// Parameter is a trainable tensor with a stable ID.
type Parameter = nn.Parameter

// ParamID identifies a parameter for optimizer state.
type ParamID = nn.ParamID

// Layer is the contract every layer kind implements.
type Layer = nn.Layer

// Optimizer is the capability a layer needs to apply its gradients.
type Optimizer = nn.Optimizer

// Dense is a fully connected layer.
type Dense = nn.Dense

// Network is an ordered sequence of layers.
type Network = nn.Network

// LayerSpec describes a layer's structure independent of its values.
type LayerSpec = nn.LayerSpec

// Topology is the ordered list of layer specs of a network.
type Topology = nn.Topology

// Errors.
var (
	ErrEmptyNetwork = nn.ErrEmptyNetwork
	ErrNoForward    = nn.ErrNoForward
	ErrUnknownLayer = nn.ErrUnknownLayer

	ErrUnknownActivation = activation.ErrUnknownActivation
	ErrUnknownLoss       = loss.ErrUnknownLoss
)

// NewDense creates a fully connected layer. A nil activation means identity.
//
// Example:
//
//	layer := nn.NewDense(784, 128, nn.ReLU{})
func NewDense(in, out int, act Activation) *Dense {
	return nn.NewDense(in, out, act)
}

// NewNetwork creates a network, panicking if adjacent shapes do not chain.
func NewNetwork(layers ...Layer) *Network {
	return nn.NewNetwork(layers...)
}

// FromTopology builds an uninitialized network from t.
func FromTopology(t Topology) (*Network, error) {
	return nn.FromTopology(t)
}

// Activations

// Activation is an elementwise transfer function with its derivative.
type Activation = activation.Activation

// Activation functions.
type (
	Identity  = activation.Identity
	Sigmoid   = activation.Sigmoid
	Tanh      = activation.Tanh
	ReLU      = activation.ReLU
	LeakyReLU = activation.LeakyReLU
	Softplus  = activation.Softplus
)

// ActivationByName returns a registered activation.
func ActivationByName(name string) (Activation, error) {
	return activation.ByName(name)
}

// Losses

// Loss compares a prediction to a target.
type Loss = loss.Loss

// Loss functions.
type (
	MSE                = loss.MSE
	MAE                = loss.MAE
	CrossEntropy       = loss.CrossEntropy
	BinaryCrossEntropy = loss.BinaryCrossEntropy
)

// LossByName returns a registered loss.
func LossByName(name string) (Loss, error) {
	return loss.ByName(name)
}

// Initializers

// Uniform returns a generator drawing from [lo, hi).
func Uniform(rng *rand.Rand, lo, hi float64) func() float64 {
	return nn.Uniform(rng, lo, hi)
}

// Normal returns a generator drawing from N(mean, std²).
func Normal(rng *rand.Rand, mean, std float64) func() float64 {
	return nn.Normal(rng, mean, std)
}

// XavierUniform returns a Glorot-uniform generator for a fanIn × fanOut layer.
func XavierUniform(rng *rand.Rand, fanIn, fanOut int) func() float64 {
	return nn.XavierUniform(rng, fanIn, fanOut)
}

// Constant returns a generator that always yields v.
func Constant(v float64) func() float64 {
	return nn.Constant(v)
}
