package spacebound

import "math"

// BatchPlan splits a workload into batches sized by the space bound.
type BatchPlan struct {
	TotalItems            int
	BatchSize             int
	Batches               int
	SpaceBound            float64
	Stability             float64
	SpaceReductionPercent float64 // (total - bound) / total × 100, never negative
}

// Plan computes a batch size for totalItems.
//
// The target batch is ceil(SpaceBound × Stability), so unstable metrics
// shrink batches. The target is then clamped, in order, to:
//   - [MinBatch, MaxBatch]
//   - floor(MemoryBudgetMB / ItemMemoryMB) when both are set
//   - totalItems
//
// and is never below 1. Workloads no larger than MinBatch run as a single
// batch with no reduction.
//
// Example (defaults, no metrics):
//
//	plan, _ := Default().Plan(10000, nil)
//	// bound ≈ 1328.77 → BatchSize 1329, Batches 8, SpaceReductionPercent ≈ 86.7
func (o *Optimizer) Plan(totalItems int, metrics MetricSample) (BatchPlan, error) {
	if totalItems <= 0 {
		return BatchPlan{}, wrapf(opPlan, ErrInvalidArgument, "totalItems must be > 0, got %d", totalItems)
	}

	res, err := o.Optimize(totalItems, metrics)
	if err != nil {
		return BatchPlan{}, rewrap(opPlan, err)
	}

	plan := BatchPlan{
		TotalItems: totalItems,
		SpaceBound: res.SpaceBound,
		Stability:  res.Stability,
	}

	if totalItems <= o.cfg.MinBatch {
		plan.BatchSize = totalItems
		plan.Batches = 1
		return plan, nil
	}

	batch := int(math.Ceil(res.EfficiencyMultiplier))
	batch = max(o.cfg.MinBatch, min(batch, o.cfg.MaxBatch))

	if o.cfg.MemoryBudgetMB > 0 && o.cfg.ItemMemoryMB > 0 {
		// Compare before converting: the quotient can exceed MaxInt.
		if byMemory := math.Floor(o.cfg.MemoryBudgetMB / o.cfg.ItemMemoryMB); byMemory < float64(batch) {
			batch = int(byMemory)
		}
	}
	batch = max(1, min(batch, totalItems))

	plan.BatchSize = batch
	plan.Batches = (totalItems + batch - 1) / batch

	total := float64(totalItems)
	plan.SpaceReductionPercent = math.Max(0, (total-res.SpaceBound)/total*100)
	return plan, nil
}
