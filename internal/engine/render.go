package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// tabwriterPadding is the minimum padding between table columns.
const tabwriterPadding = 2

// NoEmissionsText closes a table report whose totals are all zero.
const NoEmissionsText = "No emissions: all totals are zero."

// summaryLine is the final NDJSON record of a report.
type summaryLine struct {
	Type           string             `json:"type"`
	Name           string             `json:"name,omitempty"`
	Scope1Total    float64            `json:"scope1_total"`
	Scope2Total    float64            `json:"scope2_total"`
	Scope3Total    float64            `json:"scope3_total"`
	TotalEmissions float64            `json:"total_emissions"`
	ScopeShares    map[string]float64 `json:"scope_shares"`
	Equivalencies  string             `json:"equivalencies,omitempty"`
}

// rowLine is one NDJSON category record.
type rowLine struct {
	Type string `json:"type"`
	ReportRow
}

// RenderReport writes report in the given format. precision applies to
// table output only.
func RenderReport(w io.Writer, format OutputFormat, report *Report, precision int) error {
	if report == nil {
		return errors.New("render report: nil report")
	}
	switch format {
	case OutputTable:
		return RenderReportTable(w, report, precision)
	case OutputJSON:
		return renderJSON(w, report)
	case OutputNDJSON:
		return RenderReportNDJSON(w, report)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// RenderReportTable writes the per-category breakdown followed by scope
// subtotals and the grand total.
func RenderReportTable(w io.Writer, report *Report, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if report.Name != "" {
		if _, err := fmt.Fprintf(tw, "Report: %s\n\n", report.Name); err != nil {
			return fmt.Errorf("writing title: %w", err)
		}
	}

	if _, err := fmt.Fprintf(tw, "SCOPE\tCATEGORY\tQUANTITY\tUNIT\tFACTOR\ttCO2e\tSHARE\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t--------\t--------\t----\t------\t-----\t-----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}

	for _, row := range report.Rows {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s%%\n",
			row.Scope,
			row.Label,
			greenops.FormatFloat(row.Quantity, precision),
			row.Unit,
			greenops.FormatFloat(row.Factor, factorPrecision(row.Factor)),
			greenops.FormatFloat(row.Tonnes, precision),
			greenops.FormatFloat(row.Share, 1),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if err := renderTotals(tw, report, precision); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}

	return tw.Flush()
}

func renderTotals(tw *tabwriter.Writer, report *Report, precision int) error {
	if _, err := fmt.Fprintf(tw, "\t\t\t\t\t\t\n"); err != nil {
		return err
	}
	r := report.Result
	for _, s := range emissions.Scopes() {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t\t\t\t%s\t%s%%\n",
			s.Title(), "subtotal",
			greenops.FormatFloat(r.ScopeTotal(s), precision),
			greenops.FormatFloat(report.ScopeShares[s.String()], 1),
		); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(tw, "TOTAL\t\t\t\t\t%s\t\n", greenops.FormatFloat(r.TotalEmissions, precision)); err != nil {
		return err
	}
	if r.IsZero() {
		if _, err := fmt.Fprintf(tw, "\n%s\n", NoEmissionsText); err != nil {
			return err
		}
	}
	if report.Equivalencies != nil && !report.Equivalencies.IsEmpty {
		if _, err := fmt.Fprintf(tw, "\n%s\n", report.Equivalencies.DisplayText); err != nil {
			return err
		}
	}
	return nil
}

// factorPrecision shows small factors such as purchasedGoods (0.0005)
// without rounding them away.
func factorPrecision(f float64) int {
	const small = 0.01
	if f != 0 && f < small {
		return 4
	}
	return 3
}

// RenderReportNDJSON writes one JSON line per category followed by a
// summary line.
func RenderReportNDJSON(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	for _, row := range report.Rows {
		if err := enc.Encode(rowLine{Type: "row", ReportRow: row}); err != nil {
			return fmt.Errorf("encoding row: %w", err)
		}
	}

	summary := summaryLine{
		Type:           "summary",
		Name:           report.Name,
		Scope1Total:    report.Result.Scope1Total,
		Scope2Total:    report.Result.Scope2Total,
		Scope3Total:    report.Result.Scope3Total,
		TotalEmissions: report.Result.TotalEmissions,
		ScopeShares:    report.ScopeShares,
	}
	if report.Equivalencies != nil {
		summary.Equivalencies = report.Equivalencies.DisplayText
	}
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

// RenderFactors writes the effective factor table.
func RenderFactors(w io.Writer, format OutputFormat, rows []FactorRow) error {
	switch format {
	case OutputTable:
		return renderFactorTable(w, rows)
	case OutputJSON:
		if rows == nil {
			rows = []FactorRow{}
		}
		return renderJSON(w, rows)
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, row := range rows {
			if err := enc.Encode(row); err != nil {
				return fmt.Errorf("encoding factor: %w", err)
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func renderFactorTable(w io.Writer, rows []FactorRow) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "SCOPE\tCATEGORY\tKEY\tkgCO2e/UNIT\tUNIT\t\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-----\t--------\t---\t-----------\t----\t\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, row := range rows {
		marker := ""
		if row.Overridden {
			marker = "*"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.Scope, row.Label, row.Category,
			greenops.FormatFloat(row.Factor, factorPrecision(row.Factor)),
			row.Unit, marker,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

func renderJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
