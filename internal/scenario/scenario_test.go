package scenario

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/ingest"
)

func TestSamples(t *testing.T) {
	set := Samples()
	require.NoError(t, set.Validate())
	require.Len(t, set.Scenarios, 5)
	assert.Equal(t, SampleBaseline, set.Baseline)

	ids := make([]string, 0, len(set.Scenarios))
	for _, sc := range set.Scenarios {
		ids = append(ids, sc.ID)
	}
	assert.Equal(t, []string{SampleBaseline, SampleRenewable, SampleEVFleet, SampleRemoteWork, SampleCombined}, ids)

	ev, err := set.Find(SampleEVFleet)
	require.NoError(t, err)
	assert.InDelta(t, 0, ev.Activity.Scope1.Diesel, 0)
	assert.InDelta(t, 550000, ev.Activity.Scope2.Electricity, 0)
	assert.InDelta(t, 50000, ev.Activity.Scope1.NaturalGas, 0)

	// Derived scenarios do not share state with the baseline.
	base, _ := set.BaselineScenario()
	assert.InDelta(t, 500000, base.Activity.Scope2.Electricity, 0)
}

func TestSet_Validate(t *testing.T) {
	tests := []struct {
		name    string
		set     Set
		wantErr error
	}{
		{name: "empty", set: Set{}, wantErr: ErrNoScenarios},
		{
			name:    "missing id",
			set:     Set{Baseline: "a", Scenarios: []Scenario{{ID: "a"}, {ID: " "}}},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "duplicate",
			set:     Set{Baseline: "a", Scenarios: []Scenario{{ID: "a"}, {ID: "a"}}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "unknown baseline",
			set:     Set{Baseline: "z", Scenarios: []Scenario{{ID: "a"}}},
			wantErr: ErrNoBaseline,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.set.Validate(), tt.wantErr)
		})
	}
}

func TestSet_Select(t *testing.T) {
	set := Samples()

	got, err := set.Select([]string{SampleCombined, SampleBaseline, SampleCombined})
	require.NoError(t, err)
	require.Len(t, got.Scenarios, 2)
	assert.Equal(t, SampleBaseline, got.Scenarios[0].ID)
	assert.Equal(t, SampleCombined, got.Scenarios[1].ID)

	all, err := set.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all.Scenarios, 5)

	_, err = set.Select([]string{"moonshot"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 26)
	assert.NotEqual(t, a, b)
	assert.Equal(t, strings.ToLower(a), a)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	content := `
baseline: today
scenarios:
  - id: today
    name: Today
    scope2: {electricity: 1000}
  - id: solar
    name: Rooftop solar
    description: Half the grid draw
    scope2: {electricity: "500"}
    scope1: {diesel: -10}
  - name: Unnamed id
    scope3: {businessTravel: 100}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	set, adjustments, err := LoadFile(context.Background(), path, ingest.PolicyClamp)
	require.NoError(t, err)
	require.Len(t, set.Scenarios, 3)
	assert.Equal(t, "today", set.Baseline)

	solar, err := set.Find("solar")
	require.NoError(t, err)
	assert.Equal(t, "Half the grid draw", solar.Description)
	assert.InDelta(t, 500, solar.Activity.Scope2.Electricity, 0)
	assert.InDelta(t, 0, solar.Activity.Scope1.Diesel, 0)

	require.Len(t, adjustments, 1)
	assert.Equal(t, "solar.scope1.diesel", adjustments[0].Field)

	assert.Len(t, set.Scenarios[2].ID, 26)
}

func TestLoadFile_Strict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	content := "scenarios:\n  - id: a\n    scope1: {diesel: -1}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, _, err := LoadFile(context.Background(), path, ingest.PolicyStrict)
	require.ErrorIs(t, err, ingest.ErrInvalidValue)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := LoadFile(context.Background(), filepath.Join(dir, "missing.yaml"), ingest.PolicyClamp)
	require.Error(t, err)

	dup := filepath.Join(dir, "dup.yaml")
	require.NoError(t, os.WriteFile(dup, []byte("scenarios:\n  - id: a\n  - id: a\n"), 0o600))
	_, _, err = LoadFile(context.Background(), dup, ingest.PolicyClamp)
	require.ErrorIs(t, err, ErrDuplicateID)

	noBase := filepath.Join(dir, "nobase.yaml")
	require.NoError(t, os.WriteFile(noBase, []byte("baseline: x\nscenarios:\n  - id: a\n"), 0o600))
	_, _, err = LoadFile(context.Background(), noBase, ingest.PolicyClamp)
	require.ErrorIs(t, err, ErrNoBaseline)
}

func TestWriteFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "samples.yaml")
	require.NoError(t, WriteFile(path, Samples()))

	set, adjustments, err := LoadFile(context.Background(), path, ingest.PolicyStrict)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
	assert.Equal(t, Samples(), set)
}

func TestDiff(t *testing.T) {
	set := Samples()
	base, _ := set.Find(SampleBaseline)
	renewable, _ := set.Find(SampleRenewable)

	diff, err := Diff(base, renewable)
	require.NoError(t, err)
	assert.Contains(t, diff, "--- baseline")
	assert.Contains(t, diff, "+++ renewable")

	var removed, added []string
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		case strings.HasPrefix(line, "-"):
			removed = append(removed, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "+"):
			added = append(added, strings.TrimSpace(line[1:]))
		}
	}
	assert.Equal(t, []string{"electricity: 500000"}, removed)
	assert.Equal(t, []string{"electricity: 250000"}, added)

	same, err := Diff(base, base)
	require.NoError(t, err)
	assert.Empty(t, same)
}

func TestChanges(t *testing.T) {
	set := Samples()
	base, _ := set.Find(SampleBaseline)
	ev, _ := set.Find(SampleEVFleet)

	changes := Changes(base, ev)
	require.Len(t, changes, 3)
	assert.Equal(t, Change{Scope: "scope1", Category: "diesel", Unit: "L", From: 15000, To: 0}, changes[0])
	assert.Equal(t, string(emissions.Petrol), changes[1].Category)
	assert.Equal(t, string(emissions.Electricity), changes[2].Category)

	assert.Empty(t, Changes(base, base))
}
