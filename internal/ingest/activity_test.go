package ingest

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

const baselineYAML = `
scope1: {naturalGas: 50000, diesel: 15000, petrol: 8000, refrigerants: 50, lpg: 2000}
scope2: {electricity: 500000, heating: 100000, cooling: 80000, steam: 50000}
scope3:
  businessTravel: 200000
  employeeCommuting: 500000
  wasteGenerated: 100
  purchasedGoods: 5000000
  upstreamTransport: 100000
  downstreamTransport: 150000
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadActivity_YAML(t *testing.T) {
	a, adjustments, err := LoadActivity(context.Background(), writeFile(t, "a.yaml", baselineYAML), PolicyClamp)
	require.NoError(t, err)
	assert.Empty(t, adjustments)

	result, err := emissions.Calculate(a)
	require.NoError(t, err)
	assert.InDelta(t, 236.14, result.Scope1Total, 1e-9)
	assert.InDelta(t, 679.84, result.TotalEmissions, 1e-9)
}

func TestLoadActivity_JSON(t *testing.T) {
	content := `{"scope1": {"diesel": 15000}, "scope2": {"electricity": "250000"}}`
	a, adjustments, err := LoadActivity(context.Background(), writeFile(t, "a.json", content), PolicyClamp)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
	assert.InDelta(t, 15000, a.Scope1.Diesel, 0)
	assert.InDelta(t, 250000, a.Scope2.Electricity, 0)
	assert.InDelta(t, 0, a.Scope3.BusinessTravel, 0)
}

func TestLoadActivity_Errors(t *testing.T) {
	_, _, err := LoadActivity(context.Background(), filepath.Join(t.TempDir(), "missing.yaml"), PolicyClamp)
	require.Error(t, err)

	_, _, err = LoadActivity(context.Background(), writeFile(t, "bad.json", "{not json"), PolicyClamp)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing activity file")

	_, _, err = LoadActivity(context.Background(), writeFile(t, "list.yaml", "scope1: [1, 2]\n"), PolicyClamp)
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestFromMap_ClampPolicy(t *testing.T) {
	doc := map[string]any{
		"scope1": map[string]any{
			"diesel":      -500.0,
			"petrol":      "abc",
			"natural_gas": "1,200",
			"lpg":         nil,
			"coal":        10,
		},
		"scope2": map[string]any{
			"electricity": math.Inf(1),
			"heating":     true,
			"diesel":      5,
		},
		"metadata": "ignored",
	}

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).WithContext(context.Background())

	a, adjustments, err := FromMap(ctx, doc, PolicyClamp)
	require.NoError(t, err)

	assert.InDelta(t, 0, a.Scope1.Diesel, 0)
	assert.InDelta(t, 0, a.Scope1.Petrol, 0)
	assert.InDelta(t, 1200, a.Scope1.NaturalGas, 0)
	assert.InDelta(t, 0, a.Scope2.Electricity, 0)
	assert.InDelta(t, 0, a.Scope2.Heating, 0)

	reasons := map[string]string{}
	for _, adj := range adjustments {
		reasons[adj.Field] = adj.Reason
	}
	assert.Equal(t, map[string]string{
		"metadata":           ReasonUnknown,
		"scope1.coal":        ReasonUnknown,
		"scope1.diesel":      ReasonNegative,
		"scope1.petrol":      ReasonNotNumeric,
		"scope2.diesel":      ReasonUnknown,
		"scope2.electricity": ReasonNonFinite,
		"scope2.heating":     ReasonNotNumeric,
	}, reasons)

	assert.Contains(t, buf.String(), "activity input adjusted")
	assert.Contains(t, buf.String(), `"field":"scope1.diesel"`)
}

func TestFromMap_StrictPolicy(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		wantErr error
	}{
		{
			name:    "negative",
			doc:     map[string]any{"scope1": map[string]any{"diesel": -1.0}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "non-numeric",
			doc:     map[string]any{"scope3": map[string]any{"businessTravel": "far"}},
			wantErr: ErrInvalidValue,
		},
		{
			name:    "unknown category",
			doc:     map[string]any{"scope2": map[string]any{"coal": 1.0}},
			wantErr: ErrUnknownField,
		},
		{
			name:    "category in wrong scope",
			doc:     map[string]any{"scope2": map[string]any{"diesel": 1.0}},
			wantErr: ErrUnknownField,
		},
		{
			name:    "unknown top-level key",
			doc:     map[string]any{"scope4": map[string]any{}},
			wantErr: ErrUnknownField,
		},
		{
			name:    "aliased category",
			doc:     map[string]any{"scope1": map[string]any{"naturalGas": 100.0, "natural_gas": 5.0}},
			wantErr: ErrDuplicate,
		},
		{
			name:    "trailing text",
			doc:     map[string]any{"scope1": map[string]any{"petrol": "3 kg"}},
			wantErr: ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := FromMap(context.Background(), tt.doc, PolicyStrict)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFromMap_DuplicateAliasKeepsFirst(t *testing.T) {
	doc := map[string]any{"scope1": map[string]any{
		"naturalGas":  100.0,
		"natural_gas": 5.0,
		"Natural-Gas": 7.0,
	}}

	a, adjustments, err := FromMap(context.Background(), doc, PolicyClamp)
	require.NoError(t, err)
	// Sorted order: Natural-Gas, naturalGas, natural_gas.
	assert.InDelta(t, 7.0, a.Scope1.NaturalGas, 0)
	require.Len(t, adjustments, 2)
	for _, adj := range adjustments {
		assert.Equal(t, ReasonDuplicate, adj.Reason)
	}
	assert.Equal(t, "scope1.naturalGas", adjustments[0].Field)
	assert.Equal(t, "scope1.natural_gas", adjustments[1].Field)
}

func TestFromMap_NullScopeIsZero(t *testing.T) {
	a, adjustments, err := FromMap(context.Background(), map[string]any{"scope1": nil}, PolicyStrict)
	require.NoError(t, err)
	assert.Empty(t, adjustments)
	assert.Equal(t, emissions.ZeroActivity(), a)
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PolicyClamp, p)

	p, err = ParsePolicy("STRICT")
	require.NoError(t, err)
	assert.Equal(t, PolicyStrict, p)

	_, err = ParsePolicy("lenient")
	require.Error(t, err)
}
