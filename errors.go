package spacebound

import (
	"errors"
	"fmt"
)

// Error taxonomy. Every failure returned by this package matches exactly one
// of these sentinels via errors.Is. Calls either fully succeed or fail; no
// partial results are returned and nothing is retried internally.
var (
	// ErrEmptyInput is returned when an operation needs at least one element.
	ErrEmptyInput = errors.New("spacebound: empty input")

	// ErrInvalidDomain is returned when a value lies outside the domain of the
	// operation (zero in a harmonic mean, NaN, ±Inf, negative metric, overflow).
	ErrInvalidDomain = errors.New("spacebound: value outside valid domain")

	// ErrInvalidArgument is returned when a caller-supplied size or count is <= 0.
	ErrInvalidArgument = errors.New("spacebound: invalid argument")
)

// Operation names used when wrapping sentinels.
const (
	opArithmeticMean    = "ArithmeticMean"
	opHarmonicMean      = "HarmonicMean"
	opVariance          = "Variance"
	opStandardDeviation = "StandardDeviation"
	opDharmaIndex       = "DharmaIndex"
	opOptimize          = "Optimize"
	opPlan              = "Plan"
	opSample            = "Sample"
	opResonance         = "HarmonicResonance"
	opDualAxis          = "SplitDualAxis"
	opAttractor         = "AnalyzeAttractor"
	opOrbital           = "OrbitalStability"
	opHistoryRecord     = "History.Record"
	opHistoryStats      = "History.Stats"
)

// wrapf attaches the operation name and detail to a sentinel.
func wrapf(op string, sentinel error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", op, sentinel, fmt.Sprintf(format, args...))
}

// rewrap prefixes err with op while keeping its sentinel matchable.
func rewrap(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
