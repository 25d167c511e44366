package spacebound

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Config controls the sizing heuristic and batch planner.
type Config struct {
	BaseFloor float64 // Minimum space bound; used for dataSize == 1 where log2(1) = 0
	Tolerance float64 // Reference-ratio tolerance used by resonance helpers
	Attractor float64 // Equilibrium point for orbital stability

	MinBatch       int     // Smallest batch the planner will emit
	MaxBatch       int     // Largest batch the planner will emit
	MemoryBudgetMB float64 // Optional memory cap for a batch (0 = none)
	ItemMemoryMB   float64 // Estimated memory per item (0 = none)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BaseFloor: 1.0,
		Tolerance: DefaultTolerance,
		Attractor: 0.1,
		MinBatch:  10,
		MaxBatch:  5000,
	}
}

// Validate reports configuration values that would break the invariants of
// the heuristic (a non-positive floor would allow a zero multiplier).
func (c Config) Validate() error {
	switch {
	case !(c.BaseFloor > 0) || math.IsInf(c.BaseFloor, 0):
		return fmt.Errorf("%w: base floor must be finite and > 0, got %v", ErrInvalidArgument, c.BaseFloor)
	case !(c.Tolerance >= 0):
		return fmt.Errorf("%w: tolerance must be >= 0, got %v", ErrInvalidArgument, c.Tolerance)
	case math.IsNaN(c.Attractor) || math.IsInf(c.Attractor, 0):
		return fmt.Errorf("%w: attractor must be finite, got %v", ErrInvalidArgument, c.Attractor)
	case c.MinBatch < 1:
		return fmt.Errorf("%w: min batch must be >= 1, got %d", ErrInvalidArgument, c.MinBatch)
	case c.MaxBatch < c.MinBatch:
		return fmt.Errorf("%w: max batch %d below min batch %d", ErrInvalidArgument, c.MaxBatch, c.MinBatch)
	case !finiteNonNegative(c.MemoryBudgetMB) || !finiteNonNegative(c.ItemMemoryMB):
		return fmt.Errorf("%w: memory settings must be finite and >= 0, got budget %v, item %v",
			ErrInvalidArgument, c.MemoryBudgetMB, c.ItemMemoryMB)
	}
	return nil
}

// Result is the outcome of a single Optimize call.
type Result struct {
	DataSize             int
	SpaceBound           float64 // sqrt(t)*log2(t), floored at Config.BaseFloor
	Stability            float64 // DharmaIndex(metrics), 1.0 without metrics
	HasMetrics           bool
	EfficiencyMultiplier float64 // SpaceBound * Stability
}

// Optimizer computes efficiency multipliers for workload sizes.
//
// It holds only immutable configuration and is safe for concurrent use.
type Optimizer struct {
	cfg Config
}

// NewOptimizer creates an optimizer. Invalid fields are replaced by the
// corresponding DefaultConfig value so the result is always usable; call
// Config.Validate first to reject bad input instead.
func NewOptimizer(cfg Config) *Optimizer {
	def := DefaultConfig()
	if !(cfg.BaseFloor > 0) || math.IsInf(cfg.BaseFloor, 0) {
		cfg.BaseFloor = def.BaseFloor
	}
	if !(cfg.Tolerance >= 0) {
		cfg.Tolerance = def.Tolerance
	}
	if math.IsNaN(cfg.Attractor) || math.IsInf(cfg.Attractor, 0) {
		cfg.Attractor = def.Attractor
	}
	if cfg.MinBatch < 1 {
		cfg.MinBatch = def.MinBatch
	}
	if cfg.MaxBatch < cfg.MinBatch {
		cfg.MaxBatch = max(def.MaxBatch, cfg.MinBatch)
	}
	if !finiteNonNegative(cfg.MemoryBudgetMB) {
		cfg.MemoryBudgetMB = 0
	}
	if !finiteNonNegative(cfg.ItemMemoryMB) {
		cfg.ItemMemoryMB = 0
	}
	return &Optimizer{cfg: cfg}
}

// Config returns the effective configuration.
func (o *Optimizer) Config() Config {
	return o.cfg
}

// SpaceBound returns sqrt(t) * log2(t), never less than the configured floor.
//
// log2(1) = 0 would otherwise collapse the bound (and every multiplier built
// on it) to zero for single-item workloads. Non-positive t returns the floor;
// Optimize rejects such sizes before calling this.
//
// Reference values (floor 1.0):
//
//	t=1      → 1.0 (floor)
//	t=4      → 2 × 2       = 4.0
//	t=100    → 10 × 6.644  ≈ 66.44
//	t=10000  → 100 × 13.29 ≈ 1328.77
func (o *Optimizer) SpaceBound(t int) float64 {
	if t <= 1 {
		return o.cfg.BaseFloor
	}
	x := float64(t)
	return math.Max(math.Sqrt(x)*math.Log2(x), o.cfg.BaseFloor)
}

// Optimize computes the efficiency multiplier for dataSize work units.
//
// Blend rule: multiplier = SpaceBound(dataSize) × DharmaIndex(metrics).
// Without metrics (nil or empty) the stability is 1 and the multiplier equals
// the space bound.
//
// Errors:
//   - ErrInvalidArgument when dataSize <= 0.
//   - ErrInvalidDomain when a metric is negative, NaN or ±Inf, or the metric
//     variance overflows.
func (o *Optimizer) Optimize(dataSize int, metrics MetricSample) (Result, error) {
	if dataSize <= 0 {
		return Result{}, wrapf(opOptimize, ErrInvalidArgument, "dataSize must be > 0, got %d", dataSize)
	}

	base := o.SpaceBound(dataSize)
	res := Result{
		DataSize:             dataSize,
		SpaceBound:           base,
		Stability:            1,
		EfficiencyMultiplier: base,
	}
	if len(metrics) == 0 {
		return res, nil
	}

	stability, err := metricStability(opOptimize, metrics)
	if err != nil {
		return Result{}, err
	}

	res.HasMetrics = true
	res.Stability = stability
	res.EfficiencyMultiplier = base * stability
	return res, nil
}

// OptimizeAll evaluates Optimize for every size concurrently. Results are in
// input order. The first failure cancels outstanding work and is returned.
func (o *Optimizer) OptimizeAll(ctx context.Context, sizes []int, metrics MetricSample) ([]Result, error) {
	results := make([]Result, len(sizes))

	// Validate metrics once so a bad sample fails before any goroutine starts.
	if len(metrics) > 0 {
		if _, err := metricStability(opOptimize, metrics); err != nil {
			return nil, err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, size := range sizes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := o.Optimize(size, metrics)
			if err != nil {
				return fmt.Errorf("sizes[%d]: %w", i, err)
			}
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// metricStability validates metrics (finite, >= 0) and returns their
// stability index.
func metricStability(op string, metrics MetricSample) (float64, error) {
	for i, m := range metrics {
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return 0, wrapf(op, ErrInvalidDomain, "metrics[%d] = %v, want finite >= 0", i, m)
		}
	}
	s, err := DharmaIndex(metrics)
	if err != nil {
		return 0, rewrap(op, err)
	}
	return s, nil
}

func finiteNonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}
