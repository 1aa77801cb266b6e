package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// OutputFormat selects how results are rendered.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrUnsupportedFormat is returned for an unknown output format.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseOutputFormat parses a format name case-insensitively.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// CalculateRequest is one calculation to run.
type CalculateRequest struct {
	// Name labels the report, e.g. a scenario name or input file.
	Name     string
	Activity emissions.Activity
	// WithEquivalencies adds EPA equivalencies for the total.
	WithEquivalencies bool
}

// Report is a calculation result with per-category detail.
type Report struct {
	Name          string                      `json:"name,omitempty"`
	Activity      emissions.Activity          `json:"activity"`
	Result        emissions.Result            `json:"result"`
	Rows          []ReportRow                 `json:"rows"`
	ScopeShares   map[string]float64          `json:"scope_shares"`
	Equivalencies *greenops.EquivalencyOutput `json:"equivalencies,omitempty"`
}

// ReportRow is one category line of a report.
type ReportRow struct {
	Scope    string  `json:"scope"`
	Category string  `json:"category"`
	Label    string  `json:"label"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Factor   float64 `json:"factor_kg_per_unit"`
	Tonnes   float64 `json:"tonnes"`
	Share    float64 `json:"share_percent"`
}

// FactorRow is one line of the effective factor table.
type FactorRow struct {
	Scope      string  `json:"scope"`
	Category   string  `json:"category"`
	Label      string  `json:"label"`
	Unit       string  `json:"unit"`
	Factor     float64 `json:"factor_kg_per_unit"`
	Overridden bool    `json:"overridden"`
}
