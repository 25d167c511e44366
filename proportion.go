package spacebound

import (
	"math"
	"strconv"
)

// Reference ratios of the golden-ratio family.
const (
	Phi           = 1.6180339887498949 // φ = (1+√5)/2
	PhiConjugate  = Phi - 1            // 1/φ ≈ 0.618
	PhiConjSquare = 2 - Phi            // (1/φ)² ≈ 0.382
	PhiSquare     = Phi + 1            // φ² ≈ 2.618

	// DefaultTolerance is the inclusive distance used by IdentifySacredProportion.
	DefaultTolerance = 0.05
)

// SacredProportion is a named reference ratio.
type SacredProportion struct {
	Name  string
	Value float64
}

// sacredProportions is the fixed lookup table. Its order is part of the
// contract: when two entries are equally close to a ratio, the earlier one wins.
var sacredProportions = [...]SacredProportion{
	{Name: "GOLDEN_HARMONY", Value: PhiConjugate},
	{Name: "DIVINE_PROPORTION", Value: Phi},
	{Name: "SQUARED_BEAUTY", Value: PhiConjSquare},
	{Name: "DOUBLE_DIVINE", Value: PhiSquare},
}

// SacredProportions returns a copy of the reference table in tie-break order.
func SacredProportions() []SacredProportion {
	out := make([]SacredProportion, len(sacredProportions))
	copy(out, sacredProportions[:])
	return out
}

// ProportionMatch describes the nearest reference ratio to a tested value.
type ProportionMatch struct {
	Name     string
	Value    float64
	Distance float64 // |ratio - Value|
}

func (m ProportionMatch) String() string {
	return m.Name + " (" + strconv.FormatFloat(m.Value, 'f', 6, 64) +
		", distance " + strconv.FormatFloat(m.Distance, 'g', 4, 64) + ")"
}

// IdentifySacredProportion reports the nearest reference ratio within
// DefaultTolerance. The boolean is false when nothing is close enough.
func IdentifySacredProportion(ratio float64) (ProportionMatch, bool) {
	return IdentifySacredProportionWithin(ratio, DefaultTolerance)
}

// IdentifySacredProportionWithin is IdentifySacredProportion with an explicit
// inclusive tolerance (|ratio - value| <= tolerance). A NaN ratio, or a
// negative or NaN tolerance, never matches.
//
// Example:
//
//	m, ok := IdentifySacredProportionWithin(1.618, 0.01)
//	// ok == true, m.Name == "DIVINE_PROPORTION", m.Distance ≈ 0.000034
func IdentifySacredProportionWithin(ratio, tolerance float64) (ProportionMatch, bool) {
	if math.IsNaN(ratio) || math.IsNaN(tolerance) || tolerance < 0 {
		return ProportionMatch{}, false
	}

	best := nearestProportion(sacredProportions[:], ratio)
	if best.Distance <= tolerance {
		return best, true
	}
	return ProportionMatch{}, false
}

// nearestProportion scans table in order. Strict < keeps the earliest entry
// on ties.
func nearestProportion(table []SacredProportion, ratio float64) ProportionMatch {
	best := ProportionMatch{Distance: math.Inf(1)}
	for _, p := range table {
		d := math.Abs(ratio - p.Value)
		if d < best.Distance {
			best = ProportionMatch{Name: p.Name, Value: p.Value, Distance: d}
		}
	}
	return best
}
