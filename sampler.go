package spacebound

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Operation is a unit of work whose latency is sampled.
// Implementations should be safe for concurrent execution.
type Operation func(ctx context.Context) error

// SampleConfig controls latency sampling.
type SampleConfig struct {
	Workers  int           // Concurrent workers (must be > 0)
	Duration time.Duration // Measurement window
	Warmup   time.Duration // Discarded warmup window before measurement
}

// DefaultSampleConfig returns sensible defaults.
func DefaultSampleConfig() SampleConfig {
	return SampleConfig{
		Workers:  4,
		Duration: 2 * time.Second,
		Warmup:   250 * time.Millisecond,
	}
}

// Sampling contains measurements from one Sample call.
type Sampling struct {
	Workers    int
	Duration   time.Duration // Wall time of the measurement window
	Operations int64         // Successful operations
	Errors     int64         // Failed operations (not sampled)
	Latencies  MetricSample  // Successful operation latencies in milliseconds
}

// Throughput returns successful operations per second.
func (s Sampling) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Operations) / s.Duration.Seconds()
}

// Sample runs op on cfg.Workers goroutines until cfg.Duration elapses (or ctx
// is cancelled) and returns the observed latencies as a MetricSample ready for
// Optimize or Plan.
//
//	s, err := spacebound.Sample(ctx, fetchPage, spacebound.DefaultSampleConfig())
//	rec, err := spacebound.Default().Recommend(totalPages, s.Latencies)
//
// All workers have returned when Sample returns. If ctx is cancelled before
// the window closes, Sample returns ctx's error and no partial Sampling.
// A failure caused by the window closing is not counted in Errors.
func Sample(ctx context.Context, op Operation, cfg SampleConfig) (Sampling, error) {
	if cfg.Workers <= 0 {
		return Sampling{}, wrapf(opSample, ErrInvalidArgument, "workers must be > 0, got %d", cfg.Workers)
	}
	if cfg.Duration <= 0 {
		return Sampling{}, wrapf(opSample, ErrInvalidArgument, "duration must be > 0, got %v", cfg.Duration)
	}

	// Warmup phase
	if cfg.Warmup > 0 {
		warmupCtx, cancel := context.WithTimeout(ctx, cfg.Warmup)
		runPhase(warmupCtx, op, cfg.Workers)
		cancel()
	}
	if err := ctx.Err(); err != nil {
		return Sampling{}, rewrap(opSample, err)
	}

	// Measurement phase
	measureCtx, cancel := context.WithTimeout(ctx, cfg.Duration)
	defer cancel()

	s := runPhase(measureCtx, op, cfg.Workers)

	// A cancelled parent means the window was cut short.
	if err := ctx.Err(); err != nil {
		return Sampling{}, rewrap(opSample, err)
	}
	return s, nil
}

// runPhase executes op on n workers until ctx is done.
func runPhase(ctx context.Context, op Operation, n int) Sampling {
	var (
		g          errgroup.Group
		operations int64
		errs       int64
		latencies  = make([][]float64, n) // Per-worker latency slices
	)

	start := time.Now()

	for i := 0; i < n; i++ {
		latencies[i] = make([]float64, 0, 1000)

		g.Go(func() error {
			for ctx.Err() == nil {
				opStart := time.Now()
				err := op(ctx)
				elapsed := time.Since(opStart)

				if err != nil {
					if ctx.Err() != nil {
						break // interrupted by the end of the window
					}
					atomic.AddInt64(&errs, 1)
					continue
				}
				atomic.AddInt64(&operations, 1)
				latencies[i] = append(latencies[i], float64(elapsed)/float64(time.Millisecond))
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; failures are counted
	elapsed := time.Since(start)

	// Merge latencies from all workers
	all := make(MetricSample, 0, operations)
	for _, wl := range latencies {
		all = append(all, wl...)
	}

	return Sampling{
		Workers:    n,
		Duration:   elapsed,
		Operations: operations,
		Errors:     errs,
		Latencies:  all,
	}
}
