package emissions

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scale returns a copy of a with every quantity multiplied by k.
func scale(a Activity, k float64) Activity {
	for _, e := range a.Entries() {
		a.Set(e.Category, e.Value*k)
	}
	return a
}

// sampleActivity is the "Current Baseline" data set used across tests.
func sampleActivity() Activity {
	return Activity{
		Scope1: Scope1Activity{NaturalGas: 50000, Diesel: 15000, Petrol: 8000, Refrigerants: 50, LPG: 2000},
		Scope2: Scope2Activity{Electricity: 500000, Heating: 100000, Cooling: 80000, Steam: 50000},
		Scope3: Scope3Activity{
			BusinessTravel:      200000,
			EmployeeCommuting:   500000,
			WasteGenerated:      100,
			PurchasedGoods:      5000000,
			UpstreamTransport:   100000,
			DownstreamTransport: 150000,
		},
	}
}

func relTol(v float64) float64 {
	return math.Max(math.Abs(v)*1e-9, 1e-12)
}

func TestComputeTotal_UnitConversion(t *testing.T) {
	a := Activity{Scope1: Scope1Activity{NaturalGas: 1000}}

	got, err := Calculate(a)
	require.NoError(t, err)

	// 1000 m³ * 2.0 kg/m³ / 1000 = 2.0 t
	assert.Equal(t, 2.0, got.Scope1Total)
	assert.Equal(t, 2.0, got.Breakdown.Scope1.Get(NaturalGas))
	assert.Equal(t, 2.0, got.TotalEmissions)
}

func TestComputeTotal_Scope1Sample(t *testing.T) {
	got, err := Calculate(sampleActivity())
	require.NoError(t, err)

	// (100000 + 40200 + 18480 + 71500 + 5960) / 1000
	assert.InDelta(t, 236.14, got.Scope1Total, relTol(236.14))
	assert.InDelta(t, 71.5, got.Breakdown.Scope1.Get(Refrigerants), 1e-9)
}

func TestComputeTotal_SampleTotals(t *testing.T) {
	got, err := Calculate(sampleActivity())
	require.NoError(t, err)

	// 500000*0.42 + 100000*0.23 + 80000*0.45 + 50000*0.19 = 278500 kg
	assert.InDelta(t, 278.5, got.Scope2Total, relTol(278.5))
	// 34200 + 70000 + 43000 + 2500 + 6200 + 9300 = 165200 kg
	assert.InDelta(t, 165.2, got.Scope3Total, relTol(165.2))
	assert.InDelta(t, 679.84, got.TotalEmissions, relTol(679.84))
}

func TestComputeTotal_Additivity(t *testing.T) {
	tests := []struct {
		name     string
		activity Activity
	}{
		{name: "sample", activity: sampleActivity()},
		{name: "scaled", activity: scale(sampleActivity(), 0.37)},
		{name: "scope2 only", activity: Activity{Scope2: Scope2Activity{Electricity: 123456.789}}},
		{name: "negative entries", activity: Activity{Scope1: Scope1Activity{Diesel: -100, Petrol: 300}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Calculate(tt.activity)
			require.NoError(t, err)

			sum := got.Scope1Total + got.Scope2Total + got.Scope3Total
			assert.Equal(t, sum, got.TotalEmissions, "total must be the sum of tonne totals")

			for _, s := range Scopes() {
				total := got.ScopeTotal(s)
				assert.InDelta(t, total, got.Breakdown.For(s).Sum(), relTol(total),
					"%s breakdown must sum to its total", s)
			}
		})
	}
}

func TestComputeTotal_Linearity(t *testing.T) {
	base, err := Calculate(sampleActivity())
	require.NoError(t, err)

	doubled, err := Calculate(scale(sampleActivity(), 2))
	require.NoError(t, err)

	for _, s := range Scopes() {
		assert.InDelta(t, 2*base.ScopeTotal(s), doubled.ScopeTotal(s), relTol(2*base.ScopeTotal(s)))
		for i, cv := range base.Breakdown.For(s) {
			assert.InDelta(t, 2*cv.Value, doubled.Breakdown.For(s)[i].Value, relTol(2*cv.Value))
		}
	}
}

func TestComputeTotal_ZeroInput(t *testing.T) {
	tables := map[string]Factors{
		"default": DefaultFactors(),
		"custom":  DefaultFactors().With(map[Category]float64{Electricity: 0.9, Diesel: 0}),
	}

	for name, f := range tables {
		t.Run(name, func(t *testing.T) {
			got, err := CalculateWith(ZeroActivity(), f)
			require.NoError(t, err)
			assert.True(t, got.IsZero())
			for _, row := range got.Rows() {
				assert.Zero(t, row.Tonnes)
				assert.Zero(t, row.Share)
			}
		})
	}
}

func TestComputeTotal_Determinism(t *testing.T) {
	a := scale(sampleActivity(), 1.2345)

	first, err := Calculate(a)
	require.NoError(t, err)
	second, err := Calculate(a)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, math.Float64bits(first.TotalEmissions), math.Float64bits(second.TotalEmissions))
}

func TestComputeTotal_DoesNotMutateInput(t *testing.T) {
	a := sampleActivity()
	before := a

	_, err := Calculate(a)
	require.NoError(t, err)
	assert.Equal(t, before, a)
}

func TestComputeTotal_NegativePropagates(t *testing.T) {
	got, err := Calculate(Activity{Scope1: Scope1Activity{Diesel: -1000}})
	require.NoError(t, err)

	assert.InDelta(t, -2.68, got.Scope1Total, 1e-12)
	assert.InDelta(t, -2.68, got.TotalEmissions, 1e-12)
}

func TestComputeTotal_ZeroFactorIsNotAnError(t *testing.T) {
	f := DefaultFactors().With(map[Category]float64{Electricity: 0})

	got, err := CalculateWith(Activity{Scope2: Scope2Activity{Electricity: 1000, Heating: 1000}}, f)
	require.NoError(t, err)
	assert.Zero(t, got.Breakdown.Scope2.Get(Electricity))
	assert.InDelta(t, 0.23, got.Scope2Total, 1e-12)
}

func TestComputeTotal_Errors(t *testing.T) {
	withoutDiesel := DefaultFactors().Map()
	delete(withoutDiesel, Diesel)

	tests := []struct {
		name      string
		activity  Activity
		factors   Factors
		wantErr   error
		wantField string
	}{
		{
			name:     "missing factor",
			activity: sampleActivity(),
			factors:  NewFactors(withoutDiesel),
			wantErr:  ErrMissingFactor,
		},
		{
			name:     "empty table",
			activity: ZeroActivity(),
			factors:  Factors{},
			wantErr:  ErrMissingFactor,
		},
		{
			name:      "NaN activity",
			activity:  Activity{Scope1: Scope1Activity{Diesel: math.NaN()}},
			factors:   DefaultFactors(),
			wantErr:   ErrNonFiniteInput,
			wantField: "scope1.diesel",
		},
		{
			name:      "infinite activity",
			activity:  Activity{Scope3: Scope3Activity{WasteGenerated: math.Inf(1)}},
			factors:   DefaultFactors(),
			wantErr:   ErrNonFiniteInput,
			wantField: "scope3.wasteGenerated",
		},
		{
			name:      "NaN factor",
			activity:  sampleActivity(),
			factors:   DefaultFactors().With(map[Category]float64{Steam: math.NaN()}),
			wantErr:   ErrNonFiniteInput,
			wantField: "factor.steam",
		},
		{
			name:     "negative factor",
			activity: sampleActivity(),
			factors:  DefaultFactors().With(map[Category]float64{LPG: -1}),
			wantErr:  ErrNegativeFactor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateWith(tt.activity, tt.factors)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, Result{}, got)

			if tt.wantField != "" {
				var nf *NonFiniteError
				require.True(t, errors.As(err, &nf))
				assert.Equal(t, tt.wantField, nf.Field)
			}
		})
	}
}

func TestComputeTotal_MissingFactorNamesCategory(t *testing.T) {
	m := DefaultFactors().Map()
	delete(m, UpstreamTransport)

	_, err := CalculateWith(ZeroActivity(), NewFactors(m))

	var mf *MissingFactorError
	require.True(t, errors.As(err, &mf))
	assert.Equal(t, UpstreamTransport, mf.Category)
	assert.Contains(t, err.Error(), "upstreamTransport")
}

func TestComputeScope_KilogramsInDeclarationOrder(t *testing.T) {
	total, breakdown := ComputeScope2(Scope2Activity{Electricity: 10, Heating: 20, Cooling: 30, Steam: 40}, DefaultFactors())

	require.Len(t, breakdown, 4)
	assert.Equal(t, []Category{Electricity, Heating, Cooling, Steam}, []Category{
		breakdown[0].Category, breakdown[1].Category, breakdown[2].Category, breakdown[3].Category,
	})
	assert.InDelta(t, 4.2+4.6+13.5+7.6, total, 1e-9)
}

func TestResult_Rows(t *testing.T) {
	got, err := Calculate(sampleActivity())
	require.NoError(t, err)

	rows := got.Rows()
	require.Len(t, rows, len(AllCategories()))
	assert.Equal(t, NaturalGas, rows[0].Category)
	assert.Equal(t, "scope1", rows[0].ScopeKey)
	assert.Equal(t, DownstreamTransport, rows[len(rows)-1].Category)

	var share float64
	for _, r := range rows {
		share += r.Share
	}
	assert.InDelta(t, 100, share, 1e-9)

	var scopeShare float64
	for _, v := range got.ScopeShares() {
		scopeShare += v
	}
	assert.InDelta(t, 100, scopeShare, 1e-9)
}

func BenchmarkCalculate(b *testing.B) {
	a := sampleActivity()
	for b.Loop() {
		_, _ = Calculate(a)
	}
}
