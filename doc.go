// Package spacebound sizes workloads from their size and recent measurements.
//
// # Overview
//
// spacebound turns "how many items" plus "how steady has the system been"
// into a single efficiency multiplier, and from it a batch plan. It has two
// layers:
//
//   - statistics: ArithmeticMean, HarmonicMean, Variance, StandardDeviation,
//     DharmaIndex (stability index) and reference-ratio matching
//   - sizing:     Optimizer.Optimize, Optimizer.Plan, Optimizer.Recommend
//
// Every function is pure and safe for concurrent use. The only stateful
// types are opt-in helpers (MetricWindow, History) guarded by mutexes.
//
// # Quick Start
//
//	res, err := spacebound.Optimize(10000, spacebound.MetricSample{783, 783, 790, 781})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("bound %.1f × stability %.3f = %.1f\n",
//	    res.SpaceBound, res.Stability, res.EfficiencyMultiplier)
//
// # The Space Bound
//
//	bound(t) = √t · log₂(t)
//
// It grows sub-linearly, so larger workloads get proportionally smaller
// batches. log₂(1) = 0, so the bound is floored at Config.BaseFloor (1.0 by
// default) to keep the multiplier positive for single-item workloads.
//
// # The Stability Index
//
//	DharmaIndex(xs) = 1 / (1 + Var(xs))
//
// 1.0 means every recent measurement was identical; values near 0 mean the
// measurements are all over the place. The multiplier is
//
//	multiplier = bound(t) · DharmaIndex(metrics)
//
// so noisy systems get smaller batches. Without metrics the multiplier is the
// bound itself.
//
// # Reference Ratios
//
// IdentifySacredProportion matches a ratio against a fixed, ordered table of
// golden-ratio constants (0.618, 1.618, 0.382, 2.618). Ties go to the entry
// listed first. HarmonicResonance and AnalyzeAttractor use it to classify the
// relationship between a varying signal and a constant one.
//
// # Errors
//
// All failures match ErrEmptyInput, ErrInvalidDomain or ErrInvalidArgument
// via errors.Is. Nothing is retried and no partial result is returned.
//
// # Testing
//
// The Assert* helpers check the mathematical properties of the package on
// caller-supplied data:
//
//	func TestMetricsAreSane(t *testing.T) {
//	    spacebound.AssertProperties(t, spacebound.Default(), recentLatencies)
//	}
package spacebound
