package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"text/tabwriter"
	"time"

	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

const tabwriterPadding = 2

// RenderComparison writes cmp in the requested format.
func RenderComparison(w io.Writer, format engine.OutputFormat, cmp *Comparison, precision int) error {
	if cmp == nil {
		return errors.New("nil comparison")
	}
	switch format {
	case engine.OutputJSON:
		return renderJSON(w, cmp)
	case engine.OutputNDJSON:
		return renderComparisonNDJSON(w, cmp)
	case engine.OutputTable:
		return renderComparisonTable(w, cmp, precision)
	default:
		return fmt.Errorf("%w: %q", engine.ErrUnsupportedFormat, format)
	}
}

func renderComparisonTable(w io.Writer, cmp *Comparison, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	fmt.Fprintln(tw, "SCENARIO\tSCOPE 1\tSCOPE 2\tSCOPE 3\ttCO2e\tVS BASELINE")
	fmt.Fprintln(tw, "--------\t-------\t-------\t-------\t-----\t-----------")
	for _, r := range cmp.Rows {
		name := r.Name
		change := "-"
		if r.Baseline {
			name += " (baseline)"
		} else {
			change = ChangeText(r)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			name,
			greenops.FormatFloat(r.Scope1, precision),
			greenops.FormatFloat(r.Scope2, precision),
			greenops.FormatFloat(r.Scope3, precision),
			greenops.FormatFloat(r.Total, precision),
			change,
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if best, ok := cmp.BestRow(); ok {
		_, err := fmt.Fprintf(w, "\nBest: %s (%s, %s saved)\n",
			best.Name, ChangeText(best), greenops.FormatTonnes(best.Saved, precision))
		return err
	}
	return nil
}

// ChangeText renders a row's reduction as e.g. "56.2% reduction".
func ChangeText(r Row) string {
	if r.Label == "" || r.Reduction == 0 {
		return "no change"
	}
	return greenops.FormatFloat(math.Abs(r.Reduction), 1) + "% " + r.Label
}

type comparisonLine struct {
	Type string `json:"type"`
	Row
}

type comparisonSummary struct {
	Type     string `json:"type"`
	Baseline string `json:"baseline"`
	Best     string `json:"best,omitempty"`
	Count    int    `json:"count"`
}

func renderComparisonNDJSON(w io.Writer, cmp *Comparison) error {
	enc := json.NewEncoder(w)
	for _, r := range cmp.Rows {
		if err := enc.Encode(comparisonLine{Type: "scenario", Row: r}); err != nil {
			return fmt.Errorf("encoding scenario row: %w", err)
		}
	}
	if err := enc.Encode(comparisonSummary{
		Type: "summary", Baseline: cmp.Baseline, Best: cmp.Best, Count: len(cmp.Rows),
	}); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

// RenderRecords lists stored scenarios.
func RenderRecords(w io.Writer, format engine.OutputFormat, records []Record) error {
	switch format {
	case engine.OutputJSON:
		if records == nil {
			records = []Record{}
		}
		return renderJSON(w, records)
	case engine.OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, rec := range records {
			if err := enc.Encode(rec); err != nil {
				return fmt.Errorf("encoding scenario: %w", err)
			}
		}
		return nil
	case engine.OutputTable:
	default:
		return fmt.Errorf("%w: %q", engine.ErrUnsupportedFormat, format)
	}

	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No saved scenarios.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDESCRIPTION\tUPDATED")
	fmt.Fprintln(tw, "--\t----\t-----------\t-------")
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			rec.ID, rec.Name, rec.Description, rec.UpdatedAt.Local().Format(time.DateTime))
	}
	return tw.Flush()
}

// RenderChanges writes the per-category changes between two scenarios.
func RenderChanges(w io.Writer, changes []Change) error {
	if len(changes) == 0 {
		_, err := fmt.Fprintln(w, "No differences.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	fmt.Fprintln(tw, "SCOPE\tCATEGORY\tFROM\tTO\tUNIT")
	fmt.Fprintln(tw, "-----\t--------\t----\t--\t----")
	for _, c := range changes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			c.Scope, c.Category,
			greenops.FormatFloat(c.From, 2), greenops.FormatFloat(c.To, 2), c.Unit)
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
