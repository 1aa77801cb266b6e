// Package emissions implements the greenhouse-gas emissions calculation core.
//
// Activity quantities (fuel volumes, energy use, travel distances, spend,
// waste mass) are multiplied by per-category emission factors (kg CO2e per
// unit), summed per GHG Protocol scope, and converted to tonnes CO2e.
//
// Everything in this package is pure: no logging, no I/O, no shared mutable
// state. Identical inputs always produce bit-identical results because every
// summation runs in category declaration order.
package emissions

import (
	"fmt"
	"strings"
)

// Scope identifies a GHG Protocol reporting scope.
type Scope int

const (
	// Scope1 covers direct emissions from owned or controlled sources.
	Scope1 Scope = iota + 1
	// Scope2 covers indirect emissions from purchased energy.
	Scope2
	// Scope3 covers all other value-chain emissions.
	Scope3
)

// String returns the short scope name, e.g. "scope1".
func (s Scope) String() string {
	switch s {
	case Scope1:
		return "scope1"
	case Scope2:
		return "scope2"
	case Scope3:
		return "scope3"
	default:
		return fmt.Sprintf("Scope(%d)", int(s))
	}
}

// Title returns the display name, e.g. "Scope 1".
func (s Scope) Title() string {
	switch s {
	case Scope1, Scope2, Scope3:
		return fmt.Sprintf("Scope %d", int(s))
	default:
		return s.String()
	}
}

// Description summarises what the scope covers.
func (s Scope) Description() string {
	switch s {
	case Scope1:
		return "Direct emissions"
	case Scope2:
		return "Indirect emissions from purchased energy"
	case Scope3:
		return "Other value-chain emissions"
	default:
		return ""
	}
}

// Scopes lists the three scopes in reporting order.
func Scopes() []Scope {
	return []Scope{Scope1, Scope2, Scope3}
}

// ParseScope accepts "scope1", "1", "Scope 1" and similar spellings.
func ParseScope(s string) (Scope, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	normalized = strings.TrimPrefix(normalized, "scope")
	switch normalized {
	case "1":
		return Scope1, nil
	case "2":
		return Scope2, nil
	case "3":
		return Scope3, nil
	default:
		return 0, fmt.Errorf("unknown scope %q", s)
	}
}

// Category is an activity category. The set is closed: every category belongs
// to exactly one scope and has exactly one unit.
type Category string

// Scope 1 categories.
const (
	NaturalGas   Category = "naturalGas"
	Diesel       Category = "diesel"
	Petrol       Category = "petrol"
	Refrigerants Category = "refrigerants"
	LPG          Category = "lpg"
)

// Scope 2 categories.
const (
	Electricity Category = "electricity"
	Heating     Category = "heating"
	Cooling     Category = "cooling"
	Steam       Category = "steam"
)

// Scope 3 categories.
const (
	BusinessTravel      Category = "businessTravel"
	EmployeeCommuting   Category = "employeeCommuting"
	WasteGenerated      Category = "wasteGenerated"
	PurchasedGoods      Category = "purchasedGoods"
	UpstreamTransport   Category = "upstreamTransport"
	DownstreamTransport Category = "downstreamTransport"
)

type categoryInfo struct {
	scope Scope
	label string
	unit  string
}

//nolint:gochecknoglobals // Read-only lookup table for the closed category set.
var categoryMeta = map[Category]categoryInfo{
	NaturalGas:          {Scope1, "Natural Gas", "m³"},
	Diesel:              {Scope1, "Diesel", "L"},
	Petrol:              {Scope1, "Petrol/Gasoline", "L"},
	Refrigerants:        {Scope1, "Refrigerants", "kg"},
	LPG:                 {Scope1, "LPG", "kg"},
	Electricity:         {Scope2, "Electricity", "kWh"},
	Heating:             {Scope2, "Heating", "kWh"},
	Cooling:             {Scope2, "Cooling", "kWh"},
	Steam:               {Scope2, "Steam", "kWh"},
	BusinessTravel:      {Scope3, "Business Travel", "km"},
	EmployeeCommuting:   {Scope3, "Employee Commuting", "km"},
	WasteGenerated:      {Scope3, "Waste Generated", "tonnes"},
	PurchasedGoods:      {Scope3, "Purchased Goods", "currency"},
	UpstreamTransport:   {Scope3, "Upstream Transport", "tonne-km"},
	DownstreamTransport: {Scope3, "Downstream Transport", "tonne-km"},
}

// Scope1Categories returns the Scope 1 categories in declaration order.
func Scope1Categories() []Category {
	return []Category{NaturalGas, Diesel, Petrol, Refrigerants, LPG}
}

// Scope2Categories returns the Scope 2 categories in declaration order.
func Scope2Categories() []Category {
	return []Category{Electricity, Heating, Cooling, Steam}
}

// Scope3Categories returns the Scope 3 categories in declaration order.
func Scope3Categories() []Category {
	return []Category{
		BusinessTravel, EmployeeCommuting, WasteGenerated,
		PurchasedGoods, UpstreamTransport, DownstreamTransport,
	}
}

// CategoriesFor returns the categories of one scope in declaration order.
func CategoriesFor(s Scope) []Category {
	switch s {
	case Scope1:
		return Scope1Categories()
	case Scope2:
		return Scope2Categories()
	case Scope3:
		return Scope3Categories()
	default:
		return nil
	}
}

// AllCategories returns every category, scope by scope, in declaration order.
func AllCategories() []Category {
	all := make([]Category, 0, len(categoryMeta))
	for _, s := range Scopes() {
		all = append(all, CategoriesFor(s)...)
	}
	return all
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := categoryMeta[c]
	return ok
}

// Scope returns the scope c belongs to, or 0 for an unknown category.
func (c Category) Scope() Scope {
	return categoryMeta[c].scope
}

// Label returns the human-readable category name.
func (c Category) Label() string {
	if info, ok := categoryMeta[c]; ok {
		return info.label
	}
	return string(c)
}

// Unit returns the activity unit the category is measured in.
func (c Category) Unit() string {
	return categoryMeta[c].unit
}

// ParseCategory matches a category name case-insensitively, ignoring
// underscores and dashes so "natural_gas" and "natural-gas" both resolve.
func ParseCategory(s string) (Category, error) {
	key := normalizeKey(s)
	for c := range categoryMeta {
		if normalizeKey(string(c)) == key {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

func normalizeKey(s string) string {
	r := strings.NewReplacer("_", "", "-", "", " ", "")
	return strings.ToLower(r.Replace(strings.TrimSpace(s)))
}
