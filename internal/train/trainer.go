// Package train drives networks through the batch, mini-batch and
// stochastic training regimes.
//
// All regimes share one per-sample primitive (Trainer.Step): forward pass,
// loss gradient, backward pass through every layer in reverse. They differ
// only in when gradients are accumulated and when layers are updated.
//
// Example usage:
//
//	tr, err := train.New(net, optim.NewAdam(optim.AdamConfig{}), loss.MSE{}, train.Config{
//	    Mode:      train.MiniBatch,
//	    Epochs:    100,
//	    BatchSize: 8,
//	})
//	if err != nil {
//	    return err
//	}
//	history, err := tr.Fit(ctx, data)
package train

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/born-ml/mlp/internal/loss"
	"github.com/born-ml/mlp/internal/nn"
	"github.com/born-ml/mlp/internal/optim"
	"github.com/born-ml/mlp/internal/tensor"
)

// Common errors.
var (
	ErrUnknownMode = errors.New("unknown training mode")
	ErrNoSource    = errors.New("stochastic training requires an index source")
)

// Mode selects when gradients are applied.
type Mode int

const (
	// Batch accumulates every sample and updates once per epoch.
	Batch Mode = iota
	// MiniBatch accumulates fixed-size groups and updates at each boundary.
	MiniBatch
	// Stochastic draws one random sample per step and updates immediately.
	Stochastic
)

var modeNames = map[Mode]string{
	Batch:      "batch",
	MiniBatch:  "minibatch",
	Stochastic: "stochastic",
}

// String returns the mode name.
func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a name ("batch", "minibatch"/"mini-batch",
// "stochastic"/"sgd") to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "batch":
		return Batch, nil
	case "minibatch", "mini-batch", "mini_batch":
		return MiniBatch, nil
	case "stochastic", "sgd":
		return Stochastic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// IntSource draws sample indices in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type IntSource interface {
	IntN(n int) int
}

// Config holds configuration for a Trainer.
type Config struct {
	Mode      Mode         // Training regime (default: Batch)
	Epochs    int          // Number of passes (default: 1)
	BatchSize int          // Group size for MiniBatch (default: 32)
	Steps     int          // Stochastic updates per epoch (default: dataset size)
	Source    IntSource    // Index source, required for Stochastic
	Logger    *slog.Logger // Progress logger (default: discard)
	LogEvery  int          // Log every N epochs (default: 1)
}

// History records the outcome of one Fit call.
type History struct {
	RunID string
	// Loss holds, per completed epoch, the mean loss of the samples seen
	// in that epoch, each measured before its update.
	Loss []float64
}

// Last returns the loss of the final completed epoch, or 0 if none.
func (h History) Last() float64 {
	if len(h.Loss) == 0 {
		return 0
	}
	return h.Loss[len(h.Loss)-1]
}

// Trainer binds a network, an optimizer and a loss.
//
// A Trainer is not safe for concurrent use.
type Trainer struct {
	net  *nn.Network
	opt  optim.Optimizer
	loss loss.Loss
	cfg  Config

	delta *tensor.Tensor // loss gradient buffer, reused across steps
}

// New creates a Trainer. Zero-valued config fields take defaults.
func New(net *nn.Network, opt optim.Optimizer, lossFn loss.Loss, cfg Config) (*Trainer, error) {
	if net == nil || net.Len() == 0 {
		return nil, fmt.Errorf("train.New: %w", nn.ErrEmptyNetwork)
	}
	if opt == nil {
		return nil, errors.New("train.New: optimizer is nil")
	}
	if lossFn == nil {
		return nil, errors.New("train.New: loss is nil")
	}
	if _, ok := modeNames[cfg.Mode]; !ok {
		return nil, fmt.Errorf("train.New: %w: %v", ErrUnknownMode, cfg.Mode)
	}
	if cfg.Mode == Stochastic && cfg.Source == nil {
		return nil, fmt.Errorf("train.New: %w", ErrNoSource)
	}
	if cfg.Epochs < 0 || cfg.BatchSize < 0 || cfg.Steps < 0 || cfg.LogEvery < 0 {
		return nil, fmt.Errorf("train.New: negative config value in %+v", cfg)
	}

	if cfg.Epochs == 0 {
		cfg.Epochs = 1
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 32
	}
	if cfg.LogEvery == 0 {
		cfg.LogEvery = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	return &Trainer{
		net:   net,
		opt:   opt,
		loss:  lossFn,
		cfg:   cfg,
		delta: tensor.New(net.OutputShape()),
	}, nil
}

// Network returns the trained network.
func (t *Trainer) Network() *nn.Network { return t.net }

// Optimizer returns the optimizer.
func (t *Trainer) Optimizer() optim.Optimizer { return t.opt }

// Loss returns the loss function.
func (t *Trainer) Loss() loss.Loss { return t.loss }

// Config returns the effective configuration, defaults applied.
func (t *Trainer) Config() Config { return t.cfg }

// Step runs one sample through the network and back, leaving its gradients
// in every layer. It returns the sample loss. No parameter is updated.
//
// Panics if x or y does not match the network's shapes.
func (t *Trainer) Step(x, y *tensor.Tensor) float64 {
	x = x.Reshape(tensor.Vec(x.Size()))
	pred := t.net.Feedforward(x)
	if y.Size() != pred.Size() {
		tensor.Mismatch("Trainer.Step", y.Shape(), pred.Shape(), "target must match network output")
	}

	// The network may have gained or lost layers since the last step.
	if t.delta.Size() != pred.Size() {
		t.delta = tensor.New(pred.Shape())
	}

	l := t.loss.F(y.Data(), pred.Data())
	t.loss.DF(t.delta.Data(), y.Data(), pred.Data())

	layers := t.net.Layers()
	delta := t.delta
	for i := len(layers) - 1; i >= 0; i-- {
		input := x
		if i > 0 {
			input = layers[i-1].Value()
		}
		delta = layers[i].Backward(input, delta, i > 0)
	}
	return l
}

// accumulate records the gradients of the last Step in every layer.
func (t *Trainer) accumulate() {
	for _, l := range t.net.Layers() {
		l.Accumulate()
	}
}

// update applies the optimizer to every layer with gradients scaled by alpha.
func (t *Trainer) update(alpha float64) {
	for _, l := range t.net.Layers() {
		l.Update(t.opt, alpha)
	}
}

// Fit trains on data for the configured number of epochs.
//
// Cancellation is checked between samples. On cancellation Fit returns the
// history of the completed epochs with the context error; gradients of an
// unfinished group remain accumulated in the layers (Network.Reset clears
// them).
func (t *Trainer) Fit(ctx context.Context, data Dataset) (History, error) {
	if err := data.checkShapes(t.net.InputShape(), t.net.OutputShape()); err != nil {
		return History{}, fmt.Errorf("train.Fit: %w", err)
	}

	h := History{RunID: uuid.NewString()}
	log := t.cfg.Logger.With("run_id", h.RunID)
	log.Info("training started",
		"mode", t.cfg.Mode.String(),
		"epochs", t.cfg.Epochs,
		"samples", data.Len(),
		"optimizer", t.opt.Name(),
		"loss", t.loss.Name())

	for epoch := 1; epoch <= t.cfg.Epochs; epoch++ {
		var (
			mean float64
			err  error
		)
		switch t.cfg.Mode {
		case Batch:
			mean, err = t.runGroups(ctx, data, data.Len())
		case MiniBatch:
			mean, err = t.runGroups(ctx, data, t.cfg.BatchSize)
		case Stochastic:
			mean, err = t.runStochastic(ctx, data)
		}
		if err != nil {
			log.Warn("training interrupted", "epoch", epoch, "err", err)
			return h, fmt.Errorf("train.Fit: epoch %d: %w", epoch, err)
		}

		h.Loss = append(h.Loss, mean)
		if epoch%t.cfg.LogEvery == 0 || epoch == t.cfg.Epochs {
			log.Info("epoch", "epoch", epoch, "loss", mean)
		} else {
			log.Debug("epoch", "epoch", epoch, "loss", mean)
		}
	}

	log.Info("training finished", "loss", h.Last())
	return h, nil
}

// runGroups accumulates consecutive groups of size samples and updates at
// each boundary, including the trailing partial group. It returns the mean
// sample loss.
func (t *Trainer) runGroups(ctx context.Context, data Dataset, size int) (float64, error) {
	n := data.Len()
	size = min(size, n)

	var total float64
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		for i := start; i < end; i++ {
			if err := ctx.Err(); err != nil {
				return 0, err
			}
			total += t.Step(data.Inputs[i], data.Targets[i])
			t.accumulate()
		}
		t.update(1 / float64(end-start))
	}
	return total / float64(n), nil
}

// runStochastic draws Steps random samples, updating after each.
func (t *Trainer) runStochastic(ctx context.Context, data Dataset) (float64, error) {
	n := data.Len()
	steps := t.cfg.Steps
	if steps == 0 {
		steps = n
	}

	var total float64
	for range steps {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		idx := t.cfg.Source.IntN(n)
		total += t.Step(data.Inputs[idx], data.Targets[idx])
		t.update(1)
	}
	return total / float64(steps), nil
}

// Evaluate returns the mean loss over data without touching gradients
// or parameters.
func (t *Trainer) Evaluate(data Dataset) (float64, error) {
	if err := data.checkShapes(t.net.InputShape(), t.net.OutputShape()); err != nil {
		return 0, fmt.Errorf("train.Evaluate: %w", err)
	}

	var total float64
	for i := range data.Inputs {
		x := data.Inputs[i]
		pred := t.net.Feedforward(x.Reshape(tensor.Vec(x.Size())))
		total += t.loss.F(data.Targets[i].Data(), pred.Data())
	}
	return total / float64(data.Len()), nil
}

// Accuracy returns the fraction of samples classified correctly.
//
// With several outputs the prediction is correct when its arg-max matches
// the target's. With a single output both are thresholded at 0.5.
func (t *Trainer) Accuracy(data Dataset) (float64, error) {
	if err := data.checkShapes(t.net.InputShape(), t.net.OutputShape()); err != nil {
		return 0, fmt.Errorf("train.Accuracy: %w", err)
	}

	correct := 0
	for i := range data.Inputs {
		x, y := data.Inputs[i], data.Targets[i]
		pred := t.net.Feedforward(x.Reshape(tensor.Vec(x.Size())))
		if pred.Size() == 1 {
			if (pred.At(0) >= 0.5) == (y.At(0) >= 0.5) {
				correct++
			}
			continue
		}
		if pred.ArgMax() == y.ArgMax() {
			correct++
		}
	}
	return float64(correct) / float64(data.Len()), nil
}
