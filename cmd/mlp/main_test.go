package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orConfig = `
seed: 7
network:
  layers:
    - {in: 2, out: 1, activation: sigmoid}
optimizer: {name: gd, lr: 1}
training: {mode: batch, epochs: 2000, log_every: 1000}
data:
  inputs:  [[0, 0], [0, 1], [1, 0], [1, 1]]
  targets: [[0], [1], [1], [1]]
`

func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, 0, code)
	assert.Equal(t, "mlp "+version+"\n", out)
}

func TestUsage(t *testing.T) {
	code, _, errOut := runCLI(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "Commands:")

	code, _, errOut = runCLI(t, "serve")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown command "serve"`)
}

func TestTrainAndPredict(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "or.yaml")
	modelPath := filepath.Join(dir, "or.safetensors")
	require.NoError(t, os.WriteFile(cfgPath, []byte(orConfig), 0o600))

	code, out, errOut := runCLI(t, "train", "-config", cfgPath, "-save", modelPath)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "2000 epochs")
	assert.Contains(t, out, "accuracy 100.00%")
	assert.Contains(t, errOut, "checkpoint saved")

	code, out, errOut = runCLI(t, "predict", "-model", modelPath, "-input", "1, 1")
	require.Equal(t, 0, code, errOut)
	v, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.Greater(t, v, 0.5)

	code, out, _ = runCLI(t, "predict", "-model", modelPath, "-input", "0,0")
	require.Equal(t, 0, code)
	v, err = strconv.ParseFloat(strings.TrimSpace(out), 64)
	require.NoError(t, err)
	assert.Less(t, v, 0.5)
}

func TestTrain_Errors(t *testing.T) {
	code, _, errOut := runCLI(t, "train")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "-config is required")

	code, _, errOut = runCLI(t, "train", "-config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "failed to read config")

	code, _, _ = runCLI(t, "train", "-bogus")
	assert.Equal(t, 1, code)
}

func TestPredict_Errors(t *testing.T) {
	code, _, errOut := runCLI(t, "predict", "-model", "x")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "-model and -input are required")

	code, _, errOut = runCLI(t, "predict", "-model", "x", "-input", "1,abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid input value")

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "or.yaml")
	modelPath := filepath.Join(dir, "or.safetensors")
	require.NoError(t, os.WriteFile(cfgPath, []byte(orConfig), 0o600))
	code, _, _ = runCLI(t, "train", "-config", cfgPath, "-save", modelPath)
	require.Equal(t, 0, code)

	code, _, errOut = runCLI(t, "predict", "-model", modelPath, "-input", "1,2,3")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "network expects 2")
}

func TestParseFloats(t *testing.T) {
	v, err := parseFloats("1, -2.5,3e2")
	require.NoError(t, err)
	assert.Equal(t, []float64{1, -2.5, 300}, v)

	_, err = parseFloats("")
	assert.Error(t, err)
}
