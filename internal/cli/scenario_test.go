package cli_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/scenario"
)

func decodeComparison(t *testing.T, out string) scenario.Comparison {
	t.Helper()
	var cmp scenario.Comparison
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	return cmp
}

func TestScenarioCompare_Samples(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "scenario", "compare", "--samples", "--plain")
	require.NoError(t, err)
	assert.Contains(t, out, "Current Baseline (baseline)")
	assert.Contains(t, out, "50% Renewable Energy")
	assert.Contains(t, out, "Best: Combined Strategy (56.2% reduction, 382.03 tCO2e saved)")

	out, _, err = executeCmd(t, "scenario", "compare", "--output", "json")
	require.NoError(t, err)
	cmp := decodeComparison(t, out)
	assert.Equal(t, "baseline", cmp.Baseline)
	assert.Equal(t, "combined", cmp.Best)
	require.Len(t, cmp.Rows, 5)
	assert.InDelta(t, 297.81, cmp.Rows[4].Total, 1e-9)
}

func TestScenarioCompare_Selection(t *testing.T) {
	setupCLITest(t)

	tests := []struct {
		name     string
		args     []string
		wantIDs  []string
		wantBest string
	}{
		{
			name:     "selected ids keep the baseline",
			args:     []string{"ev-fleet"},
			wantIDs:  []string{"baseline", "ev-fleet"},
			wantBest: "ev-fleet",
		},
		{
			name:     "baseline override",
			args:     []string{"--baseline", "combined", "renewable"},
			wantIDs:  []string{"combined", "renewable"},
			wantBest: "renewable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"scenario", "compare", "--output", "json"}, tt.args...)
			out, _, err := executeCmd(t, args...)
			require.NoError(t, err)

			cmp := decodeComparison(t, out)
			var ids []string
			for _, r := range cmp.Rows {
				ids = append(ids, r.ID)
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantBest, cmp.Best)
		})
	}
}

func TestScenarioCompare_Errors(t *testing.T) {
	setupCLITest(t)

	_, _, err := executeCmd(t, "scenario", "compare", "nope")
	require.ErrorIs(t, err, scenario.ErrNotFound)

	_, _, err = executeCmd(t, "scenario", "compare", "--samples", "--file", "x.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")

	_, _, err = executeCmd(t, "scenario", "compare", "--stored")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--baseline is required")

	_, _, err = executeCmd(t, "scenario", "compare", "--baseline", "missing")
	require.ErrorIs(t, err, scenario.ErrNoBaseline)
}

func TestScenarioDiff(t *testing.T) {
	setupCLITest(t)

	out, _, err := executeCmd(t, "scenario", "diff", "baseline", "renewable")
	require.NoError(t, err)
	assert.Contains(t, out, "--- baseline")
	assert.Contains(t, out, "+++ renewable")
	assert.Contains(t, out, "500000")
	assert.Contains(t, out, "250000")

	out, _, err = executeCmd(t, "scenario", "diff", "baseline", "renewable", "--summary")
	require.NoError(t, err)
	assert.Contains(t, out, "electricity")
	assert.Contains(t, out, "500,000.00")
	assert.Contains(t, out, "250,000.00")

	out, _, err = executeCmd(t, "scenario", "diff", "baseline", "renewable", "--output", "json")
	require.NoError(t, err)
	var changes []scenario.Change
	require.NoError(t, json.Unmarshal([]byte(out), &changes))
	require.Len(t, changes, 1)
	assert.Equal(t, "electricity", changes[0].Category)

	out, _, err = executeCmd(t, "scenario", "diff", "baseline", "baseline")
	require.NoError(t, err)
	assert.Equal(t, "No differences.\n", out)

	_, _, err = executeCmd(t, "scenario", "diff", "baseline")
	require.Error(t, err)
}

func TestScenarioStoreLifecycle(t *testing.T) {
	dir := setupCLITest(t)
	store := filepath.Join(dir, "scenarios.db")
	run := func(args ...string) string {
		t.Helper()
		out, _, err := executeCmd(t, append(args, "--store", store)...)
		require.NoError(t, err, args)
		return out
	}

	out := run("scenario", "list")
	assert.Contains(t, out, "No saved scenarios.")

	out = run("scenario", "save", "--samples")
	assert.Contains(t, out, "Saved scenario combined (Combined Strategy)")

	input := writeFile(t, dir, "fy2025.yaml", "scope2:\n  electricity: 100000\n")
	out = run("scenario", "save", "--input", input, "--id", "fy2025", "--name", "FY2025")
	assert.Contains(t, out, "Saved scenario fy2025 (FY2025)")

	out = run("scenario", "list")
	assert.Contains(t, out, "Combined Strategy")
	assert.Contains(t, out, "FY2025")

	out = run("scenario", "list", "--sort", "name:desc", "--limit", "2")
	assert.Contains(t, out, "Hybrid Remote Work")
	assert.Contains(t, out, "FY2025")
	assert.NotContains(t, out, "Combined Strategy")
	assert.Contains(t, out, "Showing 1-2 of 6")

	out = run("scenario", "show", "combined", "--plain")
	assert.Contains(t, out, "297.81")

	out = run("scenario", "show", "FY2025", "--output", "json")
	assert.InDelta(t, 42.0, decodeReport(t, out).Result.TotalEmissions, 1e-9)

	out = run("scenario", "compare", "--stored", "--baseline", "baseline", "--output", "json")
	cmp := decodeComparison(t, out)
	require.Len(t, cmp.Rows, 6)
	assert.Equal(t, "baseline", cmp.Rows[0].ID)
	assert.Equal(t, "fy2025", cmp.Best)

	out = run("scenario", "diff", "--stored", "baseline", "fy2025", "--summary")
	assert.Contains(t, out, "100,000.00")

	out = run("scenario", "delete", "fy2025")
	assert.Contains(t, out, "Deleted scenario fy2025")

	_, _, err := executeCmd(t, "scenario", "show", "fy2025", "--store", store)
	require.ErrorIs(t, err, scenario.ErrNotFound)

	exported := filepath.Join(dir, "export", "scenarios.yaml")
	out = run("scenario", "export", exported, "--stored", "--baseline", "baseline")
	assert.Contains(t, out, "Wrote 5 scenarios to "+exported)

	out = run("scenario", "compare", "--file", exported, "--output", "json")
	cmp = decodeComparison(t, out)
	assert.Equal(t, "baseline", cmp.Baseline)
	assert.Equal(t, "combined", cmp.Best)
}

func TestScenarioSave_Errors(t *testing.T) {
	dir := setupCLITest(t)
	store := filepath.Join(dir, "scenarios.db")

	_, _, err := executeCmd(t, "scenario", "save", "--store", store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--name is required")

	_, _, err = executeCmd(t, "scenario", "save", "--samples", "--input", "a.yaml", "--store", store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be combined")

	_, _, err = executeCmd(t, "scenario", "delete", "ghost", "--store", store)
	require.ErrorIs(t, err, scenario.ErrNotFound)
}

func TestScenarioFile(t *testing.T) {
	dir := setupCLITest(t)
	file := writeFile(t, dir, "scenarios.yaml", `
baseline: today
scenarios:
  - id: today
    name: Today
    scope2:
      electricity: 10000
  - id: solar
    name: Rooftop solar
    scope2:
      electricity: 5000
      heating: -10
`)

	out, stderr, err := executeCmd(t, "scenario", "compare", "--file", file, "--plain")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: solar.scope2.heating")
	assert.Contains(t, out, "Best: Rooftop solar (50.0% reduction, 2.10 tCO2e saved)")
}
