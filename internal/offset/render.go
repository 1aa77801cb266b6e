package offset

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

const tabwriterPadding = 2

// RenderProjectsTable writes the catalog as an aligned table.
func RenderProjectsTable(w io.Writer, projects []Project) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "PROJECT\tTYPE\tPRICE/t\tLOCATION\tCERTIFICATION\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-------\t----\t-------\t--------\t-------------\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, p := range projects {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.Type, greenops.FormatCurrency(p.PricePerTonne, 2), p.Location, p.Certification,
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	return tw.Flush()
}

// RenderPlanTable writes a plan's per-project lines and totals.
func RenderPlanTable(w io.Writer, plan Plan, precision int) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)

	if _, err := fmt.Fprintf(tw, "Offsetting %s%% of %s = %s\n\n",
		greenops.FormatFloat(plan.Percent, 0),
		greenops.FormatTonnes(plan.Emissions, precision),
		greenops.FormatTonnes(plan.ToOffset, precision),
	); err != nil {
		return fmt.Errorf("writing title: %w", err)
	}

	if _, err := fmt.Fprintf(tw, "PROJECT\tPRICE/t\ttCO2e\tCOST\n"); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if _, err := fmt.Fprintf(tw, "-------\t-------\t-----\t----\n"); err != nil {
		return fmt.Errorf("writing separator: %w", err)
	}
	for _, l := range plan.Lines {
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			l.Project.Name,
			greenops.FormatCurrency(l.Project.PricePerTonne, 2),
			greenops.FormatFloat(l.Tonnes, precision),
			greenops.FormatCurrency(l.Cost, 2),
		); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}

	if _, err := fmt.Fprintf(tw, "\t\t\t\nTOTAL\t%s avg\t%s\t%s\n",
		greenops.FormatCurrency(plan.AveragePrice, 2),
		greenops.FormatFloat(plan.ToOffset, precision),
		greenops.FormatCurrency(plan.TotalCost, 2),
	); err != nil {
		return fmt.Errorf("writing totals: %w", err)
	}
	return tw.Flush()
}

// RenderJSON writes v as indented JSON.
func RenderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
