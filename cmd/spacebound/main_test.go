package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexshd/spacebound"
	"github.com/alexshd/spacebound/internal/config"
)

// run executes the CLI and returns stdout and stderr.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	// Flags after "--" are positional, so --no-color goes right after the subcommand.
	argv := append([]string{args[0], "--no-color"}, args[1:]...)
	cmd.SetArgs(argv)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestOptimizeCmd_Text(t *testing.T) {
	out, _, err := run(t, "optimize", "100", "10000")
	require.NoError(t, err)

	assert.Contains(t, out, "MULTIPLIER")
	assert.Contains(t, out, "66.44")
	assert.Contains(t, out, "1328.77")

	t.Logf("✓ optimize output:\n%s", out)
}

func TestOptimizeCmd_JSON(t *testing.T) {
	out, _, err := run(t, "optimize", "4", "16", "--metrics", "2,2,2", "--json")
	require.NoError(t, err)

	var results []spacebound.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 2)
	assert.InDelta(t, 4.0, results[0].EfficiencyMultiplier, 1e-12)
	assert.InDelta(t, 16.0, results[1].EfficiencyMultiplier, 1e-12)
	assert.True(t, results[0].HasMetrics)
}

func TestOptimizeCmd_Errors(t *testing.T) {
	_, _, err := run(t, "optimize", "0")
	require.ErrorIs(t, err, spacebound.ErrInvalidArgument)

	_, _, err = run(t, "optimize", "ten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an integer")

	_, _, err = run(t, "optimize", "10", "--metrics", "1,-1")
	require.ErrorIs(t, err, spacebound.ErrInvalidDomain)
}

func TestPlanCmd_JSON(t *testing.T) {
	out, _, err := run(t, "plan", "10000", "--json")
	require.NoError(t, err)

	var v planView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 1329, v.Plan.BatchSize)
	assert.Equal(t, 8, v.Plan.Batches)
	assert.Equal(t, spacebound.StrategyFolded, v.Strategy.Strategy)
	assert.Equal(t, 1.0, v.OrbitalStability)
}

func TestPlanCmd_UnstableMetricsWarn(t *testing.T) {
	out, logs, err := run(t, "plan", "10000", "--metrics", "1,5,10")
	require.NoError(t, err)

	assert.Contains(t, out, "LINEAR")
	assert.Contains(t, logs, "metrics are unstable")
}

func TestPlanCmd_UsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spacebound.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer:\n  max_batch: 100\n"), 0o644))

	out, _, err := run(t, "plan", "10000", "--config", path, "--json")
	require.NoError(t, err)

	var v planView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 100, v.Plan.BatchSize)
	assert.Equal(t, 100, v.Plan.Batches)
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spacebound.yaml")
	require.NoError(t, os.WriteFile(path, []byte("optimizer:\n  base_floor: -1\n"), 0o644))

	_, _, err := run(t, "plan", "10", "--config", path)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestRootCmd_VerboseLogsConfig(t *testing.T) {
	_, logs, err := run(t, "optimize", "10", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, logs, "configuration loaded")

	_, logs, err = run(t, "optimize", "10")
	require.NoError(t, err)
	assert.NotContains(t, logs, "configuration loaded")
}

func TestStatsCmd(t *testing.T) {
	out, _, err := run(t, "stats", "1", "2", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "1.7143")
	assert.Contains(t, out, "2.3333")
}

func TestStatsCmd_NegativeValues(t *testing.T) {
	out, logs, err := run(t, "stats", "--json", "--", "-109", "-115", "0.1", "0.5")
	require.NoError(t, err)
	assert.Contains(t, logs, "harmonic mean skipped")

	var v statsView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Nil(t, v.HarmonicMean)
	assert.InDelta(t, -112.0, v.DualAxis.DebtMean, 1e-9)
	assert.InDelta(t, 112.3, v.DualAxis.EquilibriumDistance, 1e-9)
}

func TestProportionCmd(t *testing.T) {
	out, _, err := run(t, "proportion", "1.618", "--tolerance", "0.01")
	require.NoError(t, err)
	assert.Contains(t, out, "DIVINE_PROPORTION")

	out, _, err = run(t, "proportion", "1.0")
	require.NoError(t, err)
	assert.Contains(t, out, "no reference ratio within 0.05")
}

func TestProportionCmd_List(t *testing.T) {
	out, _, err := run(t, "proportion", "--json")
	require.NoError(t, err)

	var table []spacebound.SacredProportion
	require.NoError(t, json.Unmarshal([]byte(out), &table))
	assert.Equal(t, spacebound.SacredProportions(), table)
}

func TestResonanceCmd(t *testing.T) {
	out, _, err := run(t, "resonance", "1", "2", "4", "--constant", "1", "--json")
	require.NoError(t, err)

	var v resonanceView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.True(t, v.Resonance.Matched)
	assert.Equal(t, "GOLDEN_HARMONY", v.Resonance.Match.Name)
	assert.True(t, v.Attractor.HasConvergence)
}

func TestResonanceCmd_RequiresConstant(t *testing.T) {
	_, _, err := run(t, "resonance", "1", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constant")
}

func TestSampleCmd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	out, _, err := run(t, "sample",
		"--url", srv.URL,
		"--workers", "2",
		"--duration", "150ms",
		"--warmup", "0s",
		"--items", "1000",
		"--json",
	)
	require.NoError(t, err)

	var v sampleView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Positive(t, v.Operations)
	assert.GreaterOrEqual(t, v.MeanLatencyMS, 1.0)
	require.NotNil(t, v.Plan)
	assert.Equal(t, 1000, v.Plan.Plan.TotalItems)
}

func TestSampleCmd_AllRequestsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, _, err := run(t, "sample", "--url", srv.URL, "--workers", "1", "--duration", "50ms", "--warmup", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no successful requests")
}
