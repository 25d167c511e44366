package spacebound

import "math"

// Resonance relates a varying series to a constant.
type Resonance struct {
	Ratio   float64 // constant / HarmonicMean(variable)
	Match   ProportionMatch
	Matched bool // Ratio is within tolerance of a reference ratio
}

// HarmonicResonance compares a constant to the harmonic mean of a varying
// series. It is useful when one of two signals does not vary, where a
// correlation coefficient would be undefined.
func HarmonicResonance(variable []float64, constant float64) (Resonance, error) {
	return harmonicResonance(variable, constant, DefaultTolerance)
}

// HarmonicResonance is like the package-level HarmonicResonance but matches
// reference ratios with Config.Tolerance.
func (o *Optimizer) HarmonicResonance(variable []float64, constant float64) (Resonance, error) {
	return harmonicResonance(variable, constant, o.cfg.Tolerance)
}

func harmonicResonance(variable []float64, constant, tolerance float64) (Resonance, error) {
	if math.IsNaN(constant) || math.IsInf(constant, 0) {
		return Resonance{}, wrapf(opResonance, ErrInvalidDomain, "constant %v is not finite", constant)
	}
	hm, err := HarmonicMean(variable)
	if err != nil {
		return Resonance{}, rewrap(opResonance, err)
	}

	r := Resonance{Ratio: constant / hm}
	r.Match, r.Matched = IdentifySacredProportionWithin(r.Ratio, tolerance)
	return r, nil
}

// DualAxis separates a signed series into deficits and surpluses.
type DualAxis struct {
	Debt                []float64 // values < 0, in input order
	Merit               []float64 // values >= 0, in input order
	DebtMean            float64   // 0 when Debt is empty
	MeritMean           float64   // 0 when Merit is empty
	EquilibriumDistance float64   // |DebtMean| + MeritMean
}

// SplitDualAxis partitions values around zero instead of averaging them on a
// single scale, so a large deficit is not hidden by a small surplus.
//
// Example:
//
//	SplitDualAxis([]float64{-109, -115, 0.1, 0.5})
//	// DebtMean -112, MeritMean 0.3, EquilibriumDistance 112.3
func SplitDualAxis(values []float64) (DualAxis, error) {
	if len(values) == 0 {
		return DualAxis{}, wrapf(opDualAxis, ErrEmptyInput, "need at least 1 value")
	}
	if err := checkFinite(opDualAxis, values); err != nil {
		return DualAxis{}, err
	}

	var d DualAxis
	for _, v := range values {
		if v < 0 {
			d.Debt = append(d.Debt, v)
		} else {
			d.Merit = append(d.Merit, v)
		}
	}
	if len(d.Debt) > 0 {
		d.DebtMean = sum(d.Debt) / float64(len(d.Debt))
	}
	if len(d.Merit) > 0 {
		d.MeritMean = sum(d.Merit) / float64(len(d.Merit))
	}
	d.EquilibriumDistance = math.Abs(d.DebtMean) + d.MeritMean
	return d, nil
}

// Attractor describes how a series relates to a fixed point.
type Attractor struct {
	MeanDistance    float64 // mean |v - attractor|
	Resonance       float64 // attractor / HarmonicMean(variable)
	ConvergenceRate float64 // (first distance - last distance) / n
	HasConvergence  bool    // false for single-element series
}

// Converging reports whether the series moves toward the attractor.
func (a Attractor) Converging() bool {
	return a.HasConvergence && a.ConvergenceRate > 0
}

// AnalyzeAttractor measures distance, resonance and drift of variable
// relative to attractor. Values must be strictly positive (harmonic mean).
func AnalyzeAttractor(variable []float64, attractor float64) (Attractor, error) {
	if math.IsNaN(attractor) || math.IsInf(attractor, 0) {
		return Attractor{}, wrapf(opAttractor, ErrInvalidDomain, "attractor %v is not finite", attractor)
	}
	hm, err := HarmonicMean(variable)
	if err != nil {
		return Attractor{}, rewrap(opAttractor, err)
	}

	n := len(variable)
	distances := make([]float64, n)
	for i, v := range variable {
		distances[i] = math.Abs(v - attractor)
	}

	a := Attractor{
		MeanDistance: sum(distances) / float64(n),
		Resonance:    attractor / hm,
	}
	if n > 1 {
		a.HasConvergence = true
		a.ConvergenceRate = (distances[0] - distances[n-1]) / float64(n)
	}
	return a, nil
}

// OrbitalStability is the stability index of the distances from attractor:
// 1/(1+Variance(|v - attractor|)). Values that keep a constant distance from
// the attractor score 1 even if they are far from it.
func OrbitalStability(values []float64, attractor float64) (float64, error) {
	if len(values) == 0 {
		return 0, wrapf(opOrbital, ErrEmptyInput, "need at least 1 value")
	}
	if math.IsNaN(attractor) || math.IsInf(attractor, 0) {
		return 0, wrapf(opOrbital, ErrInvalidDomain, "attractor %v is not finite", attractor)
	}

	distances := make([]float64, len(values))
	for i, v := range values {
		distances[i] = math.Abs(v - attractor)
	}
	s, err := DharmaIndex(distances)
	if err != nil {
		return 0, rewrap(opOrbital, err)
	}
	return s, nil
}
