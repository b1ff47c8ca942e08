// Package main provides the mlp command: train feed-forward networks from a
// YAML run configuration and query saved checkpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/born-ml/mlp/internal/config"
	"github.com/born-ml/mlp/internal/serialization"
	"github.com/born-ml/mlp/internal/tensor"
	"github.com/born-ml/mlp/internal/train"
)

const version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	var err error
	switch args[0] {
	case "version":
		fmt.Fprintf(stdout, "mlp %s\n", version)
		return 0
	case "train":
		err = trainCmd(ctx, args[1:], stdout, stderr)
	case "predict":
		err = predictCmd(args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", args[0])
		usage(stderr)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "mlp %s: %v\n", args[0], err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintf(w, "mlp %s - feed-forward network trainer\n\n", version)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  train    -config run.yaml [-save model.safetensors] [-v]")
	fmt.Fprintln(w, "  predict  -model model.safetensors -input 0,1")
	fmt.Fprintln(w, "  version  Show version")
}

func trainCmd(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "YAML run configuration (required)")
	savePath := fs.String("save", "", "Write the trained network to this SafeTensors file")
	verbose := fs.Bool("v", false, "Log every epoch, not only every log_every epochs")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *configPath == "" {
		fs.Usage()
		return errors.New("-config is required")
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	net, err := cfg.BuildNetwork(cfg.Rand())
	if err != nil {
		return err
	}
	opt, err := cfg.BuildOptimizer()
	if err != nil {
		return err
	}
	lossFn, err := cfg.BuildLoss()
	if err != nil {
		return err
	}
	data, err := cfg.Dataset()
	if err != nil {
		return err
	}
	tc, err := cfg.TrainConfig(logger, nil)
	if err != nil {
		return err
	}

	tr, err := train.New(net, opt, lossFn, tc)
	if err != nil {
		return err
	}
	history, err := tr.Fit(ctx, data)
	if err != nil {
		return err
	}

	acc, err := tr.Accuracy(data)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "run %s: %d epochs, loss %.6f, accuracy %.2f%%\n",
		history.RunID, len(history.Loss), history.Last(), acc*100)

	if *savePath == "" {
		return nil
	}
	if err := serialization.SaveCheckpoint(*savePath, &serialization.Checkpoint{
		Network: net,
		Loss:    lossFn.Name(),
		RunID:   history.RunID,
		Metadata: map[string]string{
			"optimizer": opt.Name(),
			"mode":      tc.Mode.String(),
		},
	}); err != nil {
		return err
	}
	logger.Info("checkpoint saved", "path", *savePath, "run_id", history.RunID)
	return nil
}

func predictCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("predict", flag.ContinueOnError)
	fs.SetOutput(stderr)
	modelPath := fs.String("model", "", "SafeTensors checkpoint written by train -save (required)")
	input := fs.String("input", "", "Comma-separated input values (required)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *modelPath == "" || *input == "" {
		fs.Usage()
		return errors.New("-model and -input are required")
	}

	values, err := parseFloats(*input)
	if err != nil {
		return err
	}

	ckpt, err := serialization.LoadCheckpoint(*modelPath)
	if err != nil {
		return err
	}
	if want := ckpt.Network.InputShape().Size(); len(values) != want {
		return fmt.Errorf("input has %d values, network expects %d", len(values), want)
	}

	out := ckpt.Network.Predict(tensor.Vector(values...))
	fields := make([]string, out.Size())
	for i, v := range out.Data() {
		fields[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	fmt.Fprintln(stdout, strings.Join(fields, " "))
	return nil
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	values := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid input value %q: %w", p, err)
		}
		values[i] = v
	}
	return values, nil
}
