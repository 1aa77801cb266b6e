package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

func writeFactorFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFactorFile(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    map[emissions.Category]float64
		wantErr error
	}{
		{
			name:    "yaml",
			file:    "f.yaml",
			content: "version: \"1.0.0\"\nfactors:\n  electricity: 0.35\n  natural_gas: 2.1\n",
			want:    map[emissions.Category]float64{emissions.Electricity: 0.35, emissions.NaturalGas: 2.1},
		},
		{
			name:    "json",
			file:    "f.json",
			content: `{"version": "1.4.2", "factors": {"diesel": 2.7}}`,
			want:    map[emissions.Category]float64{emissions.Diesel: 2.7},
		},
		{
			name:    "version omitted",
			file:    "f.yaml",
			content: "factors:\n  steam: 0.2\n",
			want:    map[emissions.Category]float64{emissions.Steam: 0.2},
		},
		{
			name:    "major 2 rejected",
			file:    "f.yaml",
			content: "version: \"2.0.0\"\nfactors:\n  steam: 0.2\n",
			wantErr: config.ErrUnsupportedFactorVersion,
		},
		{
			name:    "non-semver rejected",
			file:    "f.yaml",
			content: "version: latest\nfactors: {}\n",
			wantErr: config.ErrUnsupportedFactorVersion,
		},
		{
			name:    "unknown category",
			file:    "f.yaml",
			content: "factors:\n  coal: 3\n",
			wantErr: config.ErrInvalidFactorOverride,
		},
		{
			name:    "negative value",
			file:    "f.yaml",
			content: "factors:\n  lpg: -1\n",
			wantErr: config.ErrInvalidFactorOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := config.LoadFactorFile(writeFactorFile(t, tt.file, tt.content))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFactorFlag(t *testing.T) {
	tests := []struct {
		in      string
		wantCat emissions.Category
		want    float64
		wantErr bool
	}{
		{in: "electricity=0.3", wantCat: emissions.Electricity, want: 0.3},
		{in: " diesel = 2.7 ", wantCat: emissions.Diesel, want: 2.7},
		{in: "purchased_goods=1,000", wantCat: emissions.PurchasedGoods, want: 1000},
		{in: "electricity", wantErr: true},
		{in: "electricity=abc", wantErr: true},
		{in: "electricity=", wantErr: true},
		{in: "diesel=2.7abc", wantErr: true},
		{in: "petrol=3 kg", wantErr: true},
		{in: "steam=NaN", wantErr: true},
		{in: "steam=-0.1", wantErr: true},
		{in: "coal=1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, v, err := config.ParseFactorFlag(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, config.ErrInvalidFactorOverride)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCat, c)
			assert.InDelta(t, tt.want, v, 0)
		})
	}
}

func TestEffectiveFactors_Layering(t *testing.T) {
	file := writeFactorFile(t, "f.yaml", "version: \"1.0.0\"\nfactors:\n  electricity: 0.35\n  diesel: 2.5\n")

	cfg := config.New()
	cfg.Factors.File = file
	cfg.Factors.Overrides = map[string]float64{"diesel": 2.6, "steam": 0.2}

	table, err := cfg.EffectiveFactors("", map[emissions.Category]float64{emissions.Steam: 0.21})
	require.NoError(t, err)

	get := func(c emissions.Category) float64 {
		v, ok := table.Get(c)
		require.True(t, ok)
		return v
	}
	assert.InDelta(t, 0.35, get(emissions.Electricity), 0) // file
	assert.InDelta(t, 2.6, get(emissions.Diesel), 0)       // config overrides file
	assert.InDelta(t, 0.21, get(emissions.Steam), 0)       // flag overrides config
	assert.InDelta(t, 2.31, get(emissions.Petrol), 0)      // default

	// Defaults are never mutated.
	def, _ := emissions.DefaultFactors().Get(emissions.Electricity)
	assert.InDelta(t, 0.42, def, 0)
}

func TestEffectiveFactors_ExplicitFileWins(t *testing.T) {
	cfgFile := writeFactorFile(t, "a.yaml", "factors:\n  heating: 0.3\n")
	flagFile := writeFactorFile(t, "b.yaml", "factors:\n  heating: 0.25\n")

	cfg := config.New()
	cfg.Factors.File = cfgFile

	table, err := cfg.EffectiveFactors(flagFile, nil)
	require.NoError(t, err)
	v, _ := table.Get(emissions.Heating)
	assert.InDelta(t, 0.25, v, 0)
}

func TestEffectiveFactors_BadFile(t *testing.T) {
	cfg := config.New()
	_, err := cfg.EffectiveFactors(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}
