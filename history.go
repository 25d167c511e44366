package spacebound

import (
	"math"
	"sync"
)

// History records optimization results for later analysis. The optimizer
// itself stays stateless; callers that want a trail keep a History next to it.
type History struct {
	mu      sync.Mutex
	results []Result
}

// HistoryStats summarises recorded results.
type HistoryStats struct {
	Count               int
	TotalDataSize       int64
	AverageMultiplier   float64 // 1 when empty
	MaxMultiplier       float64 // 1 when empty
	MultiplierStability float64 // DharmaIndex of recorded multipliers, 1 when empty
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{}
}

// Record appends a result. Results that Optimize could not have produced
// (non-positive size, multiplier not finite and > 0) are rejected with
// ErrInvalidDomain.
func (h *History) Record(r Result) error {
	if r.DataSize <= 0 {
		return wrapf(opHistoryRecord, ErrInvalidDomain, "data size must be > 0, got %d", r.DataSize)
	}
	if m := r.EfficiencyMultiplier; !(m > 0) || math.IsInf(m, 1) {
		return wrapf(opHistoryRecord, ErrInvalidDomain, "multiplier must be finite and > 0, got %v", m)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = append(h.results, r)
	return nil
}

// Results returns a copy of the recorded results in insertion order.
func (h *History) Results() []Result {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Result, len(h.results))
	copy(out, h.results)
	return out
}

// Reset drops all recorded results.
func (h *History) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = nil
}

// Stats returns aggregate statistics over the recorded results. It fails
// with ErrInvalidDomain when the spread of the multipliers overflows float64.
func (h *History) Stats() (HistoryStats, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.results) == 0 {
		return HistoryStats{
			AverageMultiplier:   1,
			MaxMultiplier:       1,
			MultiplierStability: 1,
		}, nil
	}

	multipliers := make([]float64, len(h.results))
	stats := HistoryStats{Count: len(h.results), MaxMultiplier: math.Inf(-1)}
	for i, r := range h.results {
		multipliers[i] = r.EfficiencyMultiplier
		stats.TotalDataSize += int64(r.DataSize)
		stats.MaxMultiplier = math.Max(stats.MaxMultiplier, r.EfficiencyMultiplier)
	}

	var err error
	if stats.AverageMultiplier, err = ArithmeticMean(multipliers); err != nil {
		return HistoryStats{}, rewrap(opHistoryStats, err)
	}
	if stats.MultiplierStability, err = DharmaIndex(multipliers); err != nil {
		return HistoryStats{}, rewrap(opHistoryStats, err)
	}
	return stats, nil
}
