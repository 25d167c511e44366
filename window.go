package spacebound

import "sync"

// MetricWindow keeps the most recent metric samples in a fixed-size ring
// buffer so a long-running process can feed Optimize with "recent metrics"
// without unbounded growth.
//
// Example:
//
//	w := NewMetricWindow(500)
//
//	// per request
//	w.Record(float64(latency.Milliseconds()))
//
//	// periodically
//	plan, err := spacebound.Plan(queueLen, w.Snapshot())
type MetricWindow struct {
	mu         sync.RWMutex
	samples    []float64 // Ring buffer
	maxSamples int       // Buffer size
	writeIndex int       // Next write position
	total      int64     // Samples recorded (monotonic)

	// Cached stability (invalidated on write)
	cachedStability float64
	cacheValid      bool
}

// NewMetricWindow creates a window holding up to maxSamples values.
//
// Window size trades responsiveness for smoothing:
//   - 100 samples: reacts quickly, noisy stability
//   - 1000 samples: default
//   - 10000 samples: smooth, slow to notice regime changes
func NewMetricWindow(maxSamples int) *MetricWindow {
	if maxSamples <= 0 {
		maxSamples = 1000 // Default
	}

	return &MetricWindow{
		samples:    make([]float64, maxSamples),
		maxSamples: maxSamples,
	}
}

// Record adds a sample, overwriting the oldest one when the window is full.
// Validation is deferred to Optimize, which rejects negative or non-finite
// metrics.
func (w *MetricWindow) Record(v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.samples[w.writeIndex] = v
	w.writeIndex = (w.writeIndex + 1) % w.maxSamples
	w.total++
	w.cacheValid = false
}

// Len returns the number of samples currently held.
func (w *MetricWindow) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.effectiveSampleCount()
}

// Total returns the number of samples ever recorded.
func (w *MetricWindow) Total() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.total
}

// Snapshot returns the held samples, oldest first. Nil when empty.
func (w *MetricWindow) Snapshot() MetricSample {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.snapshotLocked()
}

// Stability returns DharmaIndex of the held samples, caching the value until
// the next Record. An empty window reports 1 (nothing observed, nothing
// unstable).
func (w *MetricWindow) Stability() (float64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cacheValid {
		return w.cachedStability, nil
	}

	n := w.effectiveSampleCount()
	if n == 0 {
		return 1, nil
	}

	s, err := DharmaIndex(w.samples[:n])
	if err != nil {
		return 0, err
	}
	w.cachedStability = s
	w.cacheValid = true
	return s, nil
}

func (w *MetricWindow) snapshotLocked() MetricSample {
	n := w.effectiveSampleCount()
	if n == 0 {
		return nil
	}

	out := make(MetricSample, 0, n)
	if n < w.maxSamples {
		return append(out, w.samples[:n]...)
	}
	// Full buffer: oldest sample sits at writeIndex.
	out = append(out, w.samples[w.writeIndex:]...)
	return append(out, w.samples[:w.writeIndex]...)
}

// effectiveSampleCount returns the number of valid samples in the buffer.
func (w *MetricWindow) effectiveSampleCount() int {
	if w.total < int64(w.maxSamples) {
		return int(w.total)
	}
	return w.maxSamples
}
