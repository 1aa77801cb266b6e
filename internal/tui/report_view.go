package tui

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// Layout constants.
const (
	borderPadding   = 2
	defaultBarWidth = 30
	scopeLabelWidth = 9
	percentScale    = 100
	// reductionEpsilon hides floating-point noise in reduction percentages.
	reductionEpsilon = 0.005
)

// RenderBar draws share (0-100) as a bar of width cells.
func RenderBar(share float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	share = math.Max(0, math.Min(percentScale, share))
	filled := int(math.Round(share / percentScale * float64(width)))
	bar := lipgloss.NewStyle().Foreground(color).Render(strings.Repeat(IconBarFull, filled))
	return bar + lipgloss.NewStyle().Foreground(ColorMuted).Render(strings.Repeat(IconBarEmpty, width-filled))
}

// RenderReduction renders a reduction percentage with a direction arrow.
// Reductions are good news and use the OK color.
func RenderReduction(pct float64) string {
	var (
		icon  string
		color lipgloss.Color
	)
	switch {
	case pct > reductionEpsilon:
		icon, color = IconArrowDown, ColorOK
	case pct < -reductionEpsilon:
		icon, color = IconArrowUp, ColorWarning
	default:
		icon, color = IconArrowRight, ColorMuted
		pct = 0
	}
	text := fmt.Sprintf("%s%% %s %s",
		greenops.FormatFloat(math.Abs(pct), 1), emissions.ReductionLabel(pct), icon)
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}

// RenderReportSummary renders a boxed summary of report: the total, one bar
// per scope and the equivalency line when present.
func RenderReportSummary(report *engine.Report, width, precision int) string {
	if report == nil {
		return InfoStyle.Render("No results to display.")
	}

	var content strings.Builder

	title := "EMISSIONS SUMMARY"
	if report.Name != "" {
		title += ": " + report.Name
	}
	content.WriteString(HeaderStyle.Render(title))
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Total:  "))
	content.WriteString(ValueStyle.Render(greenops.FormatTonnes(report.Result.TotalEmissions, precision)))
	content.WriteString("\n\n")

	for _, s := range emissions.Scopes() {
		key := s.String()
		share := report.ScopeShares[key]
		fmt.Fprintf(&content, "%s %s %s %s\n",
			LabelStyle.Render(fmt.Sprintf("%-*s", scopeLabelWidth, s.Title())),
			RenderBar(share, barWidth(width), scopeColor(key)),
			ValueStyle.Render(greenops.FormatTonnes(report.Result.ScopeTotal(s), precision)),
			SubtleStyle.Render("("+greenops.FormatFloat(share, 1)+"%)"),
		)
	}

	if report.Equivalencies != nil && !report.Equivalencies.IsEmpty {
		content.WriteString("\n")
		content.WriteString(SubtleStyle.Render(report.Equivalencies.DisplayText))
	}

	return BoxStyle.Width(max(width-borderPadding, 0)).Render(strings.TrimRight(content.String(), "\n"))
}

// barWidth leaves room for the label and value columns.
func barWidth(width int) int {
	const reserved = 40
	if width-reserved < 10 {
		return 10
	}
	return min(width-reserved, defaultBarWidth)
}

// RenderBreakdown renders the per-category rows of report grouped by
// scope, largest first within each scope.
func RenderBreakdown(report *engine.Report, precision int) string {
	if report == nil || len(report.Rows) == 0 {
		return SubtleStyle.Render("No breakdown available")
	}

	var sb strings.Builder
	current := ""
	for _, row := range sortedRows(report.Rows) {
		if row.Scope != current {
			if current != "" {
				sb.WriteString("\n")
			}
			current = row.Scope
			sb.WriteString(HeaderStyle.Render(strings.ToUpper(scopeTitle(row.Scope))))
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "  %s %s %s\n",
			LabelStyle.Render(fmt.Sprintf("%-*s", categoryLabelWidth, row.Label)),
			RenderBar(row.Share, defaultBarWidth/2, scopeColor(row.Scope)),
			ValueStyle.Render(greenops.FormatFloat(row.Tonnes, precision)),
		)
	}
	return strings.TrimRight(sb.String(), "\n")
}

const categoryLabelWidth = 22

// sortedRows orders rows by scope, then by tonnes descending.
func sortedRows(rows []engine.ReportRow) []engine.ReportRow {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b engine.ReportRow) int {
		if c := cmp.Compare(a.Scope, b.Scope); c != 0 {
			return c
		}
		return cmp.Compare(b.Tonnes, a.Tonnes)
	})
	return out
}

func scopeTitle(key string) string {
	s, err := emissions.ParseScope(key)
	if err != nil {
		return key
	}
	return s.Title()
}

// NewBreakdownTable builds a table of report's category rows.
func NewBreakdownTable(report *engine.Report, height, precision int) table.Model {
	columns := []table.Column{
		{Title: "Scope", Width: 8},     //nolint:mnd // Column width.
		{Title: "Category", Width: 22}, //nolint:mnd // Column width.
		{Title: "Quantity", Width: 14}, //nolint:mnd // Column width.
		{Title: "Unit", Width: 9},      //nolint:mnd // Column width.
		{Title: "tCO2e", Width: 12},    //nolint:mnd // Column width.
		{Title: "Share", Width: 8},     //nolint:mnd // Column width.
	}

	var rows []table.Row
	if report != nil {
		rows = make([]table.Row, len(report.Rows))
		for i, r := range report.Rows {
			rows[i] = table.Row{
				scopeTitle(r.Scope),
				r.Label,
				greenops.FormatFloat(r.Quantity, 2),
				r.Unit,
				greenops.FormatFloat(r.Tonnes, precision),
				greenops.FormatFloat(r.Share, 1) + "%",
			}
		}
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = TableHeaderStyle
	s.Selected = TableSelectedStyle
	t.SetStyles(s)

	return t
}
