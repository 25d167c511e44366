package spacebound

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_LargeWorkload(t *testing.T) {
	plan, err := NewOptimizer(DefaultConfig()).Plan(10000, nil)
	require.NoError(t, err)

	assert.Equal(t, 10000, plan.TotalItems)
	assert.Equal(t, 1329, plan.BatchSize)
	assert.Equal(t, 8, plan.Batches)
	assert.Equal(t, 1.0, plan.Stability)
	assert.InDelta(t, 1328.77, plan.SpaceBound, 0.01)
	assert.InDelta(t, 86.71, plan.SpaceReductionPercent, 0.01)

	t.Logf("✓ 10000 items → %d batches of %d (%.1f%% reduction)",
		plan.Batches, plan.BatchSize, plan.SpaceReductionPercent)
}

func TestPlan_SmallWorkloadRunsAsOneBatch(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	for _, n := range []int{1, 5, 10} {
		plan, err := o.Plan(n, nil)
		require.NoError(t, err)
		assert.Equal(t, n, plan.BatchSize, "n=%d", n)
		assert.Equal(t, 1, plan.Batches, "n=%d", n)
		assert.Equal(t, 0.0, plan.SpaceReductionPercent, "n=%d", n)
	}
}

func TestPlan_BatchNeverExceedsTotal(t *testing.T) {
	// bound(11) ≈ 11.47 rounds up past the total
	plan, err := NewOptimizer(DefaultConfig()).Plan(11, nil)
	require.NoError(t, err)
	assert.Equal(t, 11, plan.BatchSize)
	assert.Equal(t, 1, plan.Batches)
	assert.Equal(t, 0.0, plan.SpaceReductionPercent)
}

func TestPlan_ClampsToMinBatch(t *testing.T) {
	// Variance 2500 drives the multiplier well below 1.
	plan, err := NewOptimizer(DefaultConfig()).Plan(1000, MetricSample{0, 100})
	require.NoError(t, err)
	assert.Equal(t, 10, plan.BatchSize)
	assert.Equal(t, 100, plan.Batches)
	assert.InDelta(t, 1.0/2501, plan.Stability, 1e-12)
}

func TestPlan_ClampsToMaxBatch(t *testing.T) {
	plan, err := NewOptimizer(DefaultConfig()).Plan(1_000_000, nil)
	require.NoError(t, err)
	assert.Equal(t, 5000, plan.BatchSize)
	assert.Equal(t, 200, plan.Batches)
}

func TestPlan_UnstableMetricsShrinkBatches(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	steady, err := o.Plan(10000, MetricSample{10, 10, 10})
	require.NoError(t, err)
	noisy, err := o.Plan(10000, MetricSample{1, 5, 10})
	require.NoError(t, err)

	assert.Less(t, noisy.BatchSize, steady.BatchSize)
	assert.Greater(t, noisy.Batches, steady.Batches)
	// Reduction is measured against the raw bound, not the blended batch.
	assert.Equal(t, steady.SpaceReductionPercent, noisy.SpaceReductionPercent)
}

func TestPlan_MemoryCap(t *testing.T) {
	cases := []struct {
		name        string
		budget      float64
		perItem     float64
		wantBatch   int
		wantBatches int
	}{
		{"budget allows 200", 100, 0.5, 200, 50},
		{"memory beats min batch", 1, 0.5, 2, 5000},
		{"never below one", 0.1, 1, 1, 10000},
		{"unset item size", 100, 0, 1329, 8},
		{"huge budget is no cap", 1e30, 1e-9, 1329, 8},
		{"quotient overflows to inf", 1e300, 1e-300, 1329, 8},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.MemoryBudgetMB = tc.budget
			cfg.ItemMemoryMB = tc.perItem

			plan, err := NewOptimizer(cfg).Plan(10000, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.wantBatch, plan.BatchSize)
			assert.Equal(t, tc.wantBatches, plan.Batches)
		})
	}
}

func TestPlan_NonFiniteMemoryFallsBackToNoCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MemoryBudgetMB = math.Inf(1)
	cfg.ItemMemoryMB = 1
	require.ErrorIs(t, cfg.Validate(), ErrInvalidArgument)

	plan, err := NewOptimizer(cfg).Plan(10000, nil)
	require.NoError(t, err)
	assert.Equal(t, 1329, plan.BatchSize)
	assert.Equal(t, 8, plan.Batches)
}

func TestPlan_CoversEveryItem(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	for _, n := range []int{11, 99, 1000, 4097, 123457} {
		plan, err := o.Plan(n, nil)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, plan.BatchSize*plan.Batches, n, "n=%d", n)
		assert.Less(t, plan.BatchSize*(plan.Batches-1), n, "n=%d", n)
	}
}

func TestPlan_Errors(t *testing.T) {
	o := NewOptimizer(DefaultConfig())

	_, err := o.Plan(0, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = o.Plan(-3, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)

	_, err = o.Plan(100, MetricSample{-1})
	require.ErrorIs(t, err, ErrInvalidDomain)
	assert.Contains(t, err.Error(), "Plan")
}
