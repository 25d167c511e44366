package spacebound

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricWindow_Empty(t *testing.T) {
	w := NewMetricWindow(10)

	assert.Nil(t, w.Snapshot())
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, int64(0), w.Total())

	s, err := w.Stability()
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)
}

func TestMetricWindow_PartialFill(t *testing.T) {
	w := NewMetricWindow(5)
	w.Record(1)
	w.Record(2)

	assert.Equal(t, MetricSample{1, 2}, w.Snapshot())
	assert.Equal(t, 2, w.Len())
}

func TestMetricWindow_WrapKeepsChronologicalOrder(t *testing.T) {
	w := NewMetricWindow(3)
	for _, v := range []float64{1, 2, 3, 4, 5} {
		w.Record(v)
	}

	assert.Equal(t, MetricSample{3, 4, 5}, w.Snapshot())
	assert.Equal(t, 3, w.Len())
	assert.Equal(t, int64(5), w.Total())

	t.Logf("✓ Ring buffer: %d recorded, holding %v", w.Total(), w.Snapshot())
}

func TestMetricWindow_DefaultSize(t *testing.T) {
	w := NewMetricWindow(0)
	for i := 0; i < 1001; i++ {
		w.Record(float64(i))
	}
	assert.Equal(t, 1000, w.Len())
	assert.Equal(t, 1.0, w.Snapshot()[0])
}

func TestMetricWindow_StabilityCacheInvalidated(t *testing.T) {
	w := NewMetricWindow(3)
	for _, v := range []float64{2, 3, 4} {
		w.Record(v)
	}

	s, err := w.Stability()
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+2.0/3.0), s, 1e-12)

	again, err := w.Stability()
	require.NoError(t, err)
	assert.Equal(t, s, again)

	// Overwrite everything with a constant: stability must jump to 1.
	for i := 0; i < 3; i++ {
		w.Record(7)
	}
	s, err = w.Stability()
	require.NoError(t, err)
	assert.Equal(t, 1.0, s)
}

func TestMetricWindow_SnapshotIsCopy(t *testing.T) {
	w := NewMetricWindow(2)
	w.Record(1)
	w.Record(2)

	snap := w.Snapshot()
	snap[0] = 99
	assert.Equal(t, MetricSample{1, 2}, w.Snapshot())
}

func TestMetricWindow_NonFiniteSurfacesOnRead(t *testing.T) {
	w := NewMetricWindow(4)
	w.Record(1)
	w.Record(math.NaN())

	_, err := w.Stability()
	require.ErrorIs(t, err, ErrInvalidDomain)

	_, err = NewOptimizer(DefaultConfig()).Optimize(100, w.Snapshot())
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestMetricWindow_FeedsPlanner(t *testing.T) {
	w := NewMetricWindow(100)
	for i := 0; i < 250; i++ {
		w.Record(50 + float64(i%3)*0.1)
	}

	plan, err := Plan(10000, w.Snapshot())
	require.NoError(t, err)
	assert.Greater(t, plan.Stability, 0.99)
	assert.Greater(t, plan.Batches, 1)
}

func TestMetricWindow_ConcurrentAccess(t *testing.T) {
	w := NewMetricWindow(64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				w.Record(float64(g + i%5))
				if i%50 == 0 {
					_, _ = w.Stability()
					_ = w.Snapshot()
				}
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, int64(8*500), w.Total())
	assert.Equal(t, 64, w.Len())
}
