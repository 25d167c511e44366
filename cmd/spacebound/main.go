// Command spacebound sizes workloads from the command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/alexshd/spacebound"
	"github.com/alexshd/spacebound/internal/config"
)

// app carries flag values and the state built from them in PersistentPreRunE.
type app struct {
	configPath string
	verbose    bool
	noColor    bool
	jsonOut    bool

	cfg       *config.Config
	optimizer *spacebound.Optimizer
	logger    *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "spacebound",
		Short: "Size workloads from their size and recent measurements",
		Long: `spacebound computes an efficiency multiplier from a workload size and a
sample of recent metrics (latencies, queue depths, ...):

  multiplier = √t · log₂(t) · 1/(1 + Var(metrics))

and turns it into a batch plan. Steady metrics keep batches large; noisy
metrics shrink them.

Negative values must follow "--", e.g. spacebound stats -- -3 1 2`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "path to YAML config file")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	pf.BoolVar(&a.noColor, "no-color", false, "disable colored log output")
	pf.BoolVar(&a.jsonOut, "json", false, "print results as JSON")

	root.AddCommand(
		a.optimizeCmd(),
		a.planCmd(),
		a.statsCmd(),
		a.proportionCmd(),
		a.resonanceCmd(),
		a.sampleCmd(),
	)
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		return fmt.Errorf("%w: log: %w", config.ErrInvalid, err)
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	a.cfg = cfg
	a.logger = newLogger(cmd.ErrOrStderr(), level, cfg.Log.Color && !a.noColor)
	a.optimizer = spacebound.NewOptimizer(cfg.ToOptimizerConfig())

	a.logger.Debug("configuration loaded",
		"path", a.configPath,
		"base_floor", cfg.Optimizer.BaseFloor,
		"tolerance", cfg.Optimizer.Tolerance,
		"min_batch", cfg.Optimizer.MinBatch,
		"max_batch", cfg.Optimizer.MaxBatch,
	)
	return nil
}

func newLogger(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}))
}

// emit writes v as indented JSON with --json, otherwise calls text.
func (a *app) emit(cmd *cobra.Command, v any, text func(w io.Writer)) error {
	out := cmd.OutOrStdout()
	if a.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	text(out)
	return nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, s := range args {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not an integer", i+1, s)
		}
		out[i] = n
	}
	return out, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, s := range args {
		x, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %q is not a number", i+1, s)
		}
		out[i] = x
	}
	return out, nil
}
