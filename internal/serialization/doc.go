// Package serialization stores network parameters in the SafeTensors format.
//
// File layout:
//
//	[8 bytes: header size (uint64 LE)]
//	[header size bytes: JSON header]
//	[tensor data: raw little-endian float64, in alphabetical tensor order]
//
// The JSON header maps each tensor name to its dtype ("F64"), shape and
// byte offsets within the data section. The reserved "__metadata__" entry
// holds string metadata; the writer always adds a SHA-256 checksum of the
// data section under "sha256", which the reader verifies.
//
// On top of the raw format, SaveCheckpoint and LoadCheckpoint persist a
// complete network: its topology as JSON metadata plus its state dict.
//
// Example usage:
//
//	// Save a trained network
//	err := serialization.SaveCheckpoint("model.safetensors", &serialization.Checkpoint{
//	    Network: net,
//	    Loss:    "mse",
//	    RunID:   history.RunID,
//	})
//
//	// Rebuild it later
//	ckpt, err := serialization.LoadCheckpoint("model.safetensors")
//	out := ckpt.Network.Predict(tensor.Vector(0, 1))
package serialization
