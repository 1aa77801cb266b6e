package emissions

import "math"

// KgPerTonne converts kilograms to tonnes.
const KgPerTonne = 1000.0

// CategoryValue is a single category's quantity or contribution.
type CategoryValue struct {
	Category Category `json:"category" yaml:"category"`
	Value    float64  `json:"value"    yaml:"value"`
}

// ScopeBreakdown lists per-category contributions in declaration order.
type ScopeBreakdown []CategoryValue

// Sum adds the contributions in order.
func (b ScopeBreakdown) Sum() float64 {
	var total float64
	for _, cv := range b {
		total += cv.Value
	}
	return total
}

// Map returns the breakdown keyed by category.
func (b ScopeBreakdown) Map() map[Category]float64 {
	out := make(map[Category]float64, len(b))
	for _, cv := range b {
		out[cv.Category] = cv.Value
	}
	return out
}

// Get returns the contribution of c, or zero when c is not in the breakdown.
func (b ScopeBreakdown) Get(c Category) float64 {
	for _, cv := range b {
		if cv.Category == c {
			return cv.Value
		}
	}
	return 0
}

// ComputeScope1 returns the Scope 1 total and per-category contributions in kg CO2e.
func ComputeScope1(a Scope1Activity, f Factors) (float64, ScopeBreakdown) {
	return computeScope(a.entries(), f)
}

// ComputeScope2 returns the Scope 2 total and per-category contributions in kg CO2e.
func ComputeScope2(a Scope2Activity, f Factors) (float64, ScopeBreakdown) {
	return computeScope(a.entries(), f)
}

// ComputeScope3 returns the Scope 3 total and per-category contributions in kg CO2e.
func ComputeScope3(a Scope3Activity, f Factors) (float64, ScopeBreakdown) {
	return computeScope(a.entries(), f)
}

// computeScope multiplies each quantity by its factor and sums in entry order.
// A category missing from f contributes zero; ComputeTotal rejects such tables
// before getting here.
func computeScope(entries []CategoryValue, f Factors) (float64, ScopeBreakdown) {
	breakdown := make(ScopeBreakdown, len(entries))
	var total float64
	for i, e := range entries {
		factor, _ := f.Get(e.Category)
		v := e.Value * factor
		breakdown[i] = CategoryValue{Category: e.Category, Value: v}
		total += v
	}
	return total, breakdown
}

// ComputeTotal runs the three scope computations and converts the results to
// tonnes CO2e.
//
// The factor table is validated first (missing, non-finite or negative
// factors are errors), then every activity value is checked for NaN and
// infinity. Negative activity values are accepted and propagate as negative
// contributions.
//
// Each scope is summed in kilograms, then its total and each breakdown entry
// are divided by KgPerTonne. TotalEmissions is the sum of the three tonne
// totals.
func ComputeTotal(s1 Scope1Activity, s2 Scope2Activity, s3 Scope3Activity, f Factors) (Result, error) {
	if err := f.Validate(); err != nil {
		return Result{}, err
	}
	if err := checkFinite(Activity{Scope1: s1, Scope2: s2, Scope3: s3}); err != nil {
		return Result{}, err
	}

	kg1, b1 := ComputeScope1(s1, f)
	kg2, b2 := ComputeScope2(s2, f)
	kg3, b3 := ComputeScope3(s3, f)

	t1 := kg1 / KgPerTonne
	t2 := kg2 / KgPerTonne
	t3 := kg3 / KgPerTonne

	return Result{
		Scope1Total:    t1,
		Scope2Total:    t2,
		Scope3Total:    t3,
		TotalEmissions: t1 + t2 + t3,
		Breakdown: Breakdown{
			Scope1: toTonnes(b1),
			Scope2: toTonnes(b2),
			Scope3: toTonnes(b3),
		},
	}, nil
}

// Calculate computes a with the default factor table.
func Calculate(a Activity) (Result, error) {
	return ComputeTotal(a.Scope1, a.Scope2, a.Scope3, DefaultFactors())
}

// CalculateWith computes a with a caller-supplied factor table.
func CalculateWith(a Activity, f Factors) (Result, error) {
	return ComputeTotal(a.Scope1, a.Scope2, a.Scope3, f)
}

func toTonnes(b ScopeBreakdown) ScopeBreakdown {
	out := make(ScopeBreakdown, len(b))
	for i, cv := range b {
		out[i] = CategoryValue{Category: cv.Category, Value: cv.Value / KgPerTonne}
	}
	return out
}

func checkFinite(a Activity) error {
	for _, e := range a.Entries() {
		if math.IsNaN(e.Value) || math.IsInf(e.Value, 0) {
			return &NonFiniteError{
				Field: e.Category.Scope().String() + "." + string(e.Category),
				Value: e.Value,
			}
		}
	}
	return nil
}
