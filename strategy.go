package spacebound

import "fmt"

// Strategy is the recommended processing mode for a workload.
type Strategy string

const (
	StrategyFolded Strategy = "FOLDED" // stability > 0.75: fold work into large fixed-size batches
	StrategyHybrid Strategy = "HYBRID" // orbital stability > 0.5: mix folded and per-item processing
	StrategyLinear Strategy = "LINEAR" // otherwise: process item by item
)

// Thresholds for RecommendStrategy.
const (
	foldedStabilityThreshold = 0.75
	hybridOrbitalThreshold   = 0.50
)

// StrategyRecommendation provides the decision and its reasoning.
type StrategyRecommendation struct {
	Strategy   Strategy
	Confidence float64 // 0.4·stability + 0.3·orbital + 0.3, in (0.3, 1]
	Reason     string  // Human-readable explanation
	RiskLevel  string  // LOW, MEDIUM, HIGH
}

// RecommendStrategy picks a processing strategy from a stability index and an
// orbital stability index (both expected in (0, 1]).
//
// Decision tree:
//   - stability > 0.75: FOLDED (metrics barely move, batch aggressively)
//   - orbital > 0.50:   HYBRID (metrics drift but keep a steady distance from
//     the equilibrium point)
//   - otherwise:        LINEAR (no usable regularity)
func RecommendStrategy(stability, orbital float64) StrategyRecommendation {
	rec := StrategyRecommendation{
		Confidence: stability*0.4 + orbital*0.3 + 0.3,
	}

	switch {
	case stability > foldedStabilityThreshold:
		rec.Strategy = StrategyFolded
		rec.Reason = fmt.Sprintf("STABLE: stability %.3f > %.2f. Metrics are near constant; "+
			"fold work into batches sized by the space bound.", stability, foldedStabilityThreshold)
		rec.RiskLevel = "LOW"

	case orbital > hybridOrbitalThreshold:
		rec.Strategy = StrategyHybrid
		rec.Reason = fmt.Sprintf("ORBITING: stability %.3f, orbital %.3f > %.2f. Metrics vary but keep a "+
			"steady distance from equilibrium; blend batched and per-item work.",
			stability, orbital, hybridOrbitalThreshold)
		rec.RiskLevel = "MEDIUM"

	default:
		rec.Strategy = StrategyLinear
		rec.Reason = fmt.Sprintf("UNSTABLE: stability %.3f, orbital %.3f. No regularity to exploit; "+
			"process items linearly.", stability, orbital)
		rec.RiskLevel = "HIGH"
	}

	return rec
}

// Recommendation bundles an optimization result with a strategy.
type Recommendation struct {
	Result
	OrbitalStability float64
	StrategyRecommendation
}

// Recommend runs Optimize and derives a strategy from the same metrics.
// Without metrics both stability indices are 1 and the strategy is FOLDED.
func (o *Optimizer) Recommend(dataSize int, metrics MetricSample) (Recommendation, error) {
	res, err := o.Optimize(dataSize, metrics)
	if err != nil {
		return Recommendation{}, err
	}

	orbital := 1.0
	if res.HasMetrics {
		orbital, err = OrbitalStability(metrics, o.cfg.Attractor)
		if err != nil {
			return Recommendation{}, rewrap(opOptimize, err)
		}
	}

	return Recommendation{
		Result:                 res,
		OrbitalStability:       orbital,
		StrategyRecommendation: RecommendStrategy(res.Stability, orbital),
	}, nil
}
