package emissions

import (
	"fmt"
	"math"
)

// Factors is an immutable table of emission factors in kg CO2e per activity unit.
// The zero value is an empty table; build tables with NewFactors or derive them
// from DefaultFactors with With.
type Factors struct {
	values map[Category]float64
}

// defaultFactors follows GHG Protocol and EPA averages. Scope 2 values are
// global grid averages; purchasedGoods is a coarse spend-based estimate.
//
//nolint:gochecknoglobals // Immutable: only ever exposed through read-only accessors.
var defaultFactors = Factors{values: map[Category]float64{
	NaturalGas:   2.0,
	Diesel:       2.68,
	Petrol:       2.31,
	Refrigerants: 1430, // R-410A average GWP
	LPG:          2.98,

	Electricity: 0.42,
	Heating:     0.23,
	Cooling:     0.45,
	Steam:       0.19,

	BusinessTravel:      0.171, // average car
	EmployeeCommuting:   0.14,  // mixed transport
	WasteGenerated:      430,   // landfill, per tonne
	PurchasedGoods:      0.0005,
	UpstreamTransport:   0.062, // road freight
	DownstreamTransport: 0.062,
}}

// DefaultFactors returns the built-in factor table. It covers every category.
func DefaultFactors() Factors {
	return defaultFactors
}

// NewFactors builds a table from m. The map is copied, so later changes to m
// do not affect the table.
func NewFactors(m map[Category]float64) Factors {
	values := make(map[Category]float64, len(m))
	for c, v := range m {
		values[c] = v
	}
	return Factors{values: values}
}

// Get returns the factor for c and whether the table has one.
func (f Factors) Get(c Category) (float64, bool) {
	v, ok := f.values[c]
	return v, ok
}

// Len returns the number of categories in the table.
func (f Factors) Len() int {
	return len(f.values)
}

// Map returns a copy of the table contents.
func (f Factors) Map() map[Category]float64 {
	out := make(map[Category]float64, len(f.values))
	for c, v := range f.values {
		out[c] = v
	}
	return out
}

// With returns a new table with overrides applied on top of f.
// The receiver is left unchanged.
func (f Factors) With(overrides map[Category]float64) Factors {
	values := f.Map()
	for c, v := range overrides {
		values[c] = v
	}
	return Factors{values: values}
}

// Validate checks that the table covers every category with a finite,
// non-negative factor. Categories are checked in declaration order so the
// first problem reported is stable.
func (f Factors) Validate() error {
	for _, c := range AllCategories() {
		v, ok := f.values[c]
		if !ok {
			return &MissingFactorError{Category: c}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &NonFiniteError{Field: "factor." + string(c), Value: v}
		}
		if v < 0 {
			return fmt.Errorf("%w: %s = %g", ErrNegativeFactor, c, v)
		}
	}
	return nil
}
