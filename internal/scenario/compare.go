package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/engine/batch"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
)

// Options tunes a comparison run.
type Options struct {
	// MaxConcurrency bounds concurrent batches; values below 1 mean 1.
	MaxConcurrency int
	// BatchSize is the number of scenarios per batch; 0 uses the default.
	BatchSize int
	// OnProgress, when set, receives a snapshot after each batch.
	OnProgress batch.ProgressCallback
}

// Row is one scenario's totals and its change against the baseline.
type Row struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Baseline    bool    `json:"baseline"`
	Scope1      float64 `json:"scope1_tonnes"`
	Scope2      float64 `json:"scope2_tonnes"`
	Scope3      float64 `json:"scope3_tonnes"`
	Total       float64 `json:"total_tonnes"`
	// Saved is baseline total minus this total, in tonnes.
	Saved     float64 `json:"saved_tonnes"`
	Reduction float64 `json:"reduction_percent"`
	Label     string  `json:"label"`
}

// Comparison is the result of comparing a set against its baseline.
type Comparison struct {
	Baseline  string     `json:"baseline"`
	Rows      []Row      `json:"rows"`
	Best      string     `json:"best,omitempty"`
	Scenarios []Scenario `json:"-"`
}

// Compare calculates every scenario in set through eng and reports each
// one's reduction against the baseline. Scenarios are calculated
// concurrently in batches; rows keep the set's order. The returned
// comparison's Scenarios carry their cached results.
func Compare(ctx context.Context, eng *engine.Engine, set Set, opts Options) (*Comparison, error) {
	log := logging.FromContext(ctx)
	start := time.Now()

	if err := set.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "scenario").
		Str("operation", "compare").
		Int("scenarios", len(set.Scenarios)).
		Int("max_concurrency", opts.MaxConcurrency).
		Msg("starting scenario comparison")

	proc := batch.NewProcessorWithDefaults[Scenario]()
	if opts.BatchSize != 0 {
		var err error
		if proc, err = batch.NewProcessor[Scenario](opts.BatchSize); err != nil {
			return nil, err
		}
	}
	if opts.OnProgress != nil {
		proc.WithProgressCallback(opts.OnProgress)
	}

	reports, err := batch.Map(ctx, proc, set.Scenarios, opts.MaxConcurrency,
		func(ctx context.Context, sc Scenario) (*engine.Report, error) {
			return eng.Calculate(ctx, engine.CalculateRequest{Name: sc.DisplayName(), Activity: sc.Activity})
		})
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "scenario").
			Str("operation", "compare").
			Err(err).
			Msg("scenario comparison failed")
		return nil, fmt.Errorf("comparing scenarios: %w", err)
	}

	scenarios := make([]Scenario, len(set.Scenarios))
	var baseTotal float64
	for i, sc := range set.Scenarios {
		result := reports[i].Result
		sc.Result = &result
		scenarios[i] = sc
		if sc.ID == set.Baseline {
			baseTotal = result.TotalEmissions
		}
	}

	cmp := &Comparison{Baseline: set.Baseline, Rows: make([]Row, len(scenarios)), Scenarios: scenarios}
	for i, sc := range scenarios {
		cmp.Rows[i] = newRow(sc, sc.ID == set.Baseline, baseTotal)
	}
	if best, ok := cmp.BestRow(); ok {
		cmp.Best = best.ID
	}

	log.Info().
		Ctx(ctx).
		Str("component", "scenario").
		Str("operation", "compare").
		Int("scenarios", len(scenarios)).
		Str("best", cmp.Best).
		Dur("duration_ms", time.Since(start)).
		Msg("scenario comparison complete")

	return cmp, nil
}

func newRow(sc Scenario, isBaseline bool, baseTotal float64) Row {
	r := sc.Result
	pct := emissions.ReductionPercentage(baseTotal, r.TotalEmissions)
	return Row{
		ID:          sc.ID,
		Name:        sc.DisplayName(),
		Description: sc.Description,
		Baseline:    isBaseline,
		Scope1:      r.Scope1Total,
		Scope2:      r.Scope2Total,
		Scope3:      r.Scope3Total,
		Total:       r.TotalEmissions,
		Saved:       baseTotal - r.TotalEmissions,
		Reduction:   pct,
		Label:       emissions.ReductionLabel(pct),
	}
}

// BestRow returns the non-baseline row with the largest reduction. Ties
// keep the earlier row. ok is false when only the baseline was compared.
func (c *Comparison) BestRow() (Row, bool) {
	var (
		best  Row
		found bool
	)
	for _, r := range c.Rows {
		if r.Baseline {
			continue
		}
		if !found || r.Reduction > best.Reduction {
			best, found = r, true
		}
	}
	return best, found
}

// Row returns the row for id.
func (c *Comparison) Row(id string) (Row, error) {
	for _, r := range c.Rows {
		if r.ID == id {
			return r, nil
		}
	}
	return Row{}, fmt.Errorf("%w: %q", ErrNotFound, id)
}
