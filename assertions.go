package spacebound

import (
	"fmt"
	"math"
	"testing"
)

// AssertionConfig contains tolerances for property assertions.
type AssertionConfig struct {
	// Absolute tolerance for floating-point comparisons
	Epsilon float64

	// Largest data size checked by AssertMonotoneSizing
	MaxDataSize int
}

// DefaultAssertionConfig returns conservative tolerances.
func DefaultAssertionConfig() AssertionConfig {
	return AssertionConfig{
		Epsilon:     1e-9,
		MaxDataSize: 4096,
	}
}

// AssertMeanOrdering verifies the AM-HM inequality for positive xs:
//
//	HarmonicMean(xs) <= ArithmeticMean(xs)
//
// with equality exactly when every element is equal.
func AssertMeanOrdering(t *testing.T, xs []float64, cfg AssertionConfig) {
	t.Helper()

	am, err := ArithmeticMean(xs)
	if err != nil {
		t.Fatalf("ArithmeticMean failed: %v", err)
	}
	hm, err := HarmonicMean(xs)
	if err != nil {
		t.Fatalf("HarmonicMean failed: %v", err)
	}

	if hm > am+cfg.Epsilon*math.Max(1, am) {
		t.Errorf("AM-HM violated: HM = %.12g > AM = %.12g", hm, am)
	}

	equal := allEqual(xs)
	tight := math.Abs(am-hm) <= cfg.Epsilon*math.Max(1, am)
	if equal && !tight {
		t.Errorf("Equal elements must give HM == AM, got HM = %.12g, AM = %.12g", hm, am)
	}
	if !equal && tight {
		t.Errorf("Distinct elements must give HM < AM, got HM = %.12g, AM = %.12g", hm, am)
	}

	t.Logf("✓ Mean ordering: HM = %.6f ≤ AM = %.6f (n=%d)", hm, am, len(xs))
}

// AssertStabilityBounds verifies Variance >= 0, DharmaIndex in (0, 1], and
// DharmaIndex == 1 exactly when Variance == 0.
func AssertStabilityBounds(t *testing.T, xs []float64) {
	t.Helper()

	v, err := Variance(xs)
	if err != nil {
		t.Fatalf("Variance failed: %v", err)
	}
	s, err := DharmaIndex(xs)
	if err != nil {
		t.Fatalf("DharmaIndex failed: %v", err)
	}

	if v < 0 {
		t.Errorf("Variance must be >= 0, got %g", v)
	}
	if s <= 0 || s > 1 {
		t.Errorf("Stability must be in (0, 1], got %g", s)
	}
	if (v == 0) != (s == 1) {
		t.Errorf("Stability == 1 iff variance == 0: variance=%g stability=%.17g", v, s)
	}

	t.Logf("✓ Stability bounds: variance = %.6g, stability = %.6f", v, s)
}

// AssertDeviationRoundTrip verifies StandardDeviation(xs)² == Variance(xs)
// within cfg.Epsilon (relative for large variances).
func AssertDeviationRoundTrip(t *testing.T, xs []float64, cfg AssertionConfig) {
	t.Helper()

	v, err := Variance(xs)
	if err != nil {
		t.Fatalf("Variance failed: %v", err)
	}
	sd, err := StandardDeviation(xs)
	if err != nil {
		t.Fatalf("StandardDeviation failed: %v", err)
	}

	if diff := math.Abs(sd*sd - v); diff > cfg.Epsilon*math.Max(1, v) {
		t.Errorf("StandardDeviation² = %.12g, Variance = %.12g (diff %g)", sd*sd, v, diff)
	}

	t.Logf("✓ Round trip: σ = %.6f, σ² = %.6f", sd, sd*sd)
}

// AssertMonotoneSizing verifies the efficiency multiplier never decreases as
// the data size grows from 3 to cfg.MaxDataSize for a fixed metric sample.
func AssertMonotoneSizing(t *testing.T, o *Optimizer, metrics MetricSample, cfg AssertionConfig) {
	t.Helper()

	var failures []string
	prev, err := o.Optimize(3, metrics)
	if err != nil {
		t.Fatalf("Optimize(3) failed: %v", err)
	}

	for n := 4; n <= cfg.MaxDataSize; n++ {
		curr, err := o.Optimize(n, metrics)
		if err != nil {
			t.Fatalf("Optimize(%d) failed: %v", n, err)
		}
		if curr.EfficiencyMultiplier < prev.EfficiencyMultiplier {
			failures = append(failures, fmt.Sprintf("  n=%d→%d: %.6f → %.6f",
				n-1, n, prev.EfficiencyMultiplier, curr.EfficiencyMultiplier))
		}
		prev = curr
	}

	if len(failures) > 0 {
		t.Errorf("Multiplier decreased:\n%v", failures)
	}

	t.Logf("✓ Monotone sizing: multiplier non-decreasing for 3 ≤ n ≤ %d", cfg.MaxDataSize)
}

// AssertProperties runs all property assertions with default config.
func AssertProperties(t *testing.T, o *Optimizer, xs []float64) {
	t.Helper()

	cfg := DefaultAssertionConfig()

	t.Run("MeanOrdering", func(t *testing.T) {
		AssertMeanOrdering(t, xs, cfg)
	})

	t.Run("StabilityBounds", func(t *testing.T) {
		AssertStabilityBounds(t, xs)
	})

	t.Run("DeviationRoundTrip", func(t *testing.T) {
		AssertDeviationRoundTrip(t, xs, cfg)
	})

	t.Run("MonotoneSizing", func(t *testing.T) {
		AssertMonotoneSizing(t, o, xs, cfg)
	})
}

func allEqual(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
