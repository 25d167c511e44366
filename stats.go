package spacebound

import "math"

// MetricSample is an ordered sequence of recent measurements (durations,
// error counts, token usage). Functions in this package never retain it.
type MetricSample []float64

// ArithmeticMean returns sum(xs)/len(xs). The mean of finite values is always
// finite: when the running sum overflows, the mean is recomputed as Σ(xi/n).
//
// Errors:
//   - ErrEmptyInput when xs is empty.
//   - ErrInvalidDomain when an element is NaN/±Inf.
func ArithmeticMean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, wrapf(opArithmeticMean, ErrEmptyInput, "need at least 1 value")
	}
	if err := checkFinite(opArithmeticMean, xs); err != nil {
		return 0, err
	}

	n := float64(len(xs))
	if s := sum(xs); !math.IsInf(s, 0) {
		return s / n, nil
	}

	// Each partial sum of xi/n is bounded by MaxFloat64.
	var mean float64
	for _, x := range xs {
		mean += x / n
	}
	return mean, nil
}

// HarmonicMean returns len(xs) / Σ(1/xi).
//
// The harmonic mean is pulled toward the smallest values, which makes it a
// conservative aggregate for rates and confidence scores:
//
//	HarmonicMean([]float64{1, 2, 4}) // 3 / 1.75 ≈ 1.7143
//
// Every element must be strictly positive and finite. A zero would divide by
// zero and is rejected with ErrInvalidDomain instead of producing +Inf.
func HarmonicMean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, wrapf(opHarmonicMean, ErrEmptyInput, "need at least 1 value")
	}

	var reciprocals float64
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
			return 0, wrapf(opHarmonicMean, ErrInvalidDomain, "xs[%d] = %v, want finite > 0", i, x)
		}
		reciprocals += 1 / x
	}

	// Subnormal inputs can push the reciprocal sum to +Inf.
	if math.IsInf(reciprocals, 0) {
		return 0, wrapf(opHarmonicMean, ErrInvalidDomain, "reciprocal sum overflows float64")
	}

	return float64(len(xs)) / reciprocals, nil
}

// Variance returns the population variance (mean squared deviation from the
// arithmetic mean). A single element has variance 0.
func Variance(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, wrapf(opVariance, ErrEmptyInput, "need at least 1 value")
	}

	mean, err := ArithmeticMean(xs)
	if err != nil {
		return 0, rewrap(opVariance, err)
	}
	if len(xs) == 1 {
		return 0, nil
	}

	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}

	v := ss / float64(len(xs))
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, wrapf(opVariance, ErrInvalidDomain, "squared deviations overflow float64")
	}
	return v, nil
}

// StandardDeviation returns sqrt(Variance(xs)).
func StandardDeviation(xs []float64) (float64, error) {
	v, err := Variance(xs)
	if err != nil {
		return 0, rewrap(opStandardDeviation, err)
	}
	return math.Sqrt(v), nil
}

// DharmaIndex is the stability index 1/(1+variance).
//
// The result is always in (0, 1]:
//   - 1.0 for perfectly stable data (all elements equal, variance 0)
//   - → 0 as variance grows without bound
//
// Example:
//
//	DharmaIndex([]float64{0.1, 0.1, 0.1}) // 1.0
//	DharmaIndex([]float64{1, 5, 10})      // 1/(1+13.56) ≈ 0.0687
func DharmaIndex(xs []float64) (float64, error) {
	v, err := Variance(xs)
	if err != nil {
		return 0, rewrap(opDharmaIndex, err)
	}
	return stabilityOf(v), nil
}

// stabilityOf maps a finite, non-negative variance into (0, 1].
func stabilityOf(variance float64) float64 {
	return 1 / (1 + variance)
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func checkFinite(op string, xs []float64) error {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return wrapf(op, ErrInvalidDomain, "xs[%d] = %v is not finite", i, x)
		}
	}
	return nil
}
