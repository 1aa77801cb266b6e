package emissions

// Breakdown holds per-category contributions for each scope, in tonnes CO2e.
type Breakdown struct {
	Scope1 ScopeBreakdown `json:"scope1" yaml:"scope1"`
	Scope2 ScopeBreakdown `json:"scope2" yaml:"scope2"`
	Scope3 ScopeBreakdown `json:"scope3" yaml:"scope3"`
}

// For returns the breakdown of one scope.
func (b Breakdown) For(s Scope) ScopeBreakdown {
	switch s {
	case Scope1:
		return b.Scope1
	case Scope2:
		return b.Scope2
	case Scope3:
		return b.Scope3
	default:
		return nil
	}
}

// Result is the output of one calculation, in tonnes CO2e.
//
// TotalEmissions always equals Scope1Total + Scope2Total + Scope3Total, and
// each scope total equals the sum of its breakdown up to float rounding.
type Result struct {
	Scope1Total    float64   `json:"scope1_total"    yaml:"scope1_total"`
	Scope2Total    float64   `json:"scope2_total"    yaml:"scope2_total"`
	Scope3Total    float64   `json:"scope3_total"    yaml:"scope3_total"`
	TotalEmissions float64   `json:"total_emissions" yaml:"total_emissions"`
	Breakdown      Breakdown `json:"breakdown"       yaml:"breakdown"`
}

// ScopeTotal returns the total of one scope.
func (r Result) ScopeTotal(s Scope) float64 {
	switch s {
	case Scope1:
		return r.Scope1Total
	case Scope2:
		return r.Scope2Total
	case Scope3:
		return r.Scope3Total
	default:
		return 0
	}
}

// Row is one flattened line of a result: a category's contribution and its
// share of the grand total.
type Row struct {
	Scope    Scope    `json:"-"`
	ScopeKey string   `json:"scope"`
	Category Category `json:"category"`
	Label    string   `json:"label"`
	Tonnes   float64  `json:"tonnes"`
	Share    float64  `json:"share_percent"`
}

// Rows flattens the breakdown, scope by scope, in declaration order.
func (r Result) Rows() []Row {
	rows := make([]Row, 0, len(categoryMeta))
	for _, s := range Scopes() {
		for _, cv := range r.Breakdown.For(s) {
			rows = append(rows, Row{
				Scope:    s,
				ScopeKey: s.String(),
				Category: cv.Category,
				Label:    cv.Category.Label(),
				Tonnes:   cv.Value,
				Share:    SharePercent(cv.Value, r.TotalEmissions),
			})
		}
	}
	return rows
}

// ScopeShares returns each scope's percentage of the grand total.
func (r Result) ScopeShares() map[Scope]float64 {
	out := make(map[Scope]float64, len(Scopes()))
	for _, s := range Scopes() {
		out[s] = SharePercent(r.ScopeTotal(s), r.TotalEmissions)
	}
	return out
}

// IsZero reports whether nothing was emitted.
func (r Result) IsZero() bool {
	return r.TotalEmissions == 0 && r.Scope1Total == 0 && r.Scope2Total == 0 && r.Scope3Total == 0
}
