// Package engine runs emissions calculations for the CLI and scenario
// comparison, adding logging, per-category report rows and rendering on top
// of the pure emissions core.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
)

// Engine calculates emissions with a fixed factor table.
type Engine struct {
	factors emissions.Factors
}

// New returns an engine using factors. The table is validated on each
// calculation, so an incomplete table surfaces as an error there.
func New(factors emissions.Factors) *Engine {
	return &Engine{factors: factors}
}

// NewDefault returns an engine using the built-in factor table.
func NewDefault() *Engine {
	return New(emissions.DefaultFactors())
}

// Factors returns the engine's factor table.
func (e *Engine) Factors() emissions.Factors {
	return e.factors
}

// Calculate runs one calculation and builds its report.
func (e *Engine) Calculate(ctx context.Context, req CalculateRequest) (*Report, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "calculate").
		Str("name", req.Name).
		Msg("starting emissions calculation")

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result, err := emissions.CalculateWith(req.Activity, e.factors)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "engine").
			Str("operation", "calculate").
			Str("name", req.Name).
			Err(err).
			Msg("emissions calculation failed")
		return nil, fmt.Errorf("calculating %s: %w", displayName(req.Name), err)
	}

	report := &Report{
		Name:        req.Name,
		Activity:    req.Activity,
		Result:      result,
		Rows:        e.rows(req.Activity, result),
		ScopeShares: scopeShares(result),
	}

	if req.WithEquivalencies {
		eq, eqErr := greenops.FromTonnes(result.TotalEmissions)
		if eqErr != nil {
			// Negative totals have no equivalency; the report stands without it.
			log.Warn().
				Ctx(ctx).
				Str("component", "engine").
				Err(eqErr).
				Msg("skipping equivalencies")
		} else {
			report.Equivalencies = &eq
		}
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "calculate").
		Str("name", req.Name).
		Float64("scope1_tonnes", result.Scope1Total).
		Float64("scope2_tonnes", result.Scope2Total).
		Float64("scope3_tonnes", result.Scope3Total).
		Float64("total_tonnes", result.TotalEmissions).
		Dur("duration", time.Since(start)).
		Msg("emissions calculated")

	return report, nil
}

// FactorRows lists the engine's factor table in declaration order, flagging
// values that differ from the built-in defaults.
func (e *Engine) FactorRows() []FactorRow {
	defaults := emissions.DefaultFactors()
	rows := make([]FactorRow, 0, len(emissions.AllCategories()))
	for _, c := range emissions.AllCategories() {
		v, ok := e.factors.Get(c)
		if !ok {
			continue
		}
		def, _ := defaults.Get(c)
		rows = append(rows, FactorRow{
			Scope:      c.Scope().String(),
			Category:   string(c),
			Label:      c.Label(),
			Unit:       c.Unit(),
			Factor:     v,
			Overridden: v != def,
		})
	}
	return rows
}

func (e *Engine) rows(a emissions.Activity, r emissions.Result) []ReportRow {
	base := r.Rows()
	rows := make([]ReportRow, 0, len(base))
	for _, row := range base {
		factor, _ := e.factors.Get(row.Category)
		rows = append(rows, ReportRow{
			Scope:    row.ScopeKey,
			Category: string(row.Category),
			Label:    row.Label,
			Quantity: a.Get(row.Category),
			Unit:     row.Category.Unit(),
			Factor:   factor,
			Tonnes:   row.Tonnes,
			Share:    row.Share,
		})
	}
	return rows
}

func scopeShares(r emissions.Result) map[string]float64 {
	shares := r.ScopeShares()
	out := make(map[string]float64, len(shares))
	for s, v := range shares {
		out[s.String()] = v
	}
	return out
}

func displayName(name string) string {
	if name == "" {
		return "activity"
	}
	return fmt.Sprintf("%q", name)
}
