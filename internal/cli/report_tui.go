package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/scenario"
	"github.com/lioncitydevops/carbon-calculator/internal/tui"
)

// fallbackWidth is used when the terminal width cannot be determined.
const fallbackWidth = 80

// RenderReportOutput routes a calculation report to the appropriate
// renderer: JSON/NDJSON bypass the terminal UI, table output is styled
// when stdout is a capable terminal and plain otherwise.
func RenderReportOutput(cmd *cobra.Command, format engine.OutputFormat, report *engine.Report) error {
	precision := config.GetOutputPrecision()

	if format == engine.OutputJSON || format == engine.OutputNDJSON {
		return engine.RenderReport(cmd.OutOrStdout(), format, report, precision)
	}

	switch outputMode(cmd, false) {
	case tui.OutputModeStyled:
		return renderStyledReport(cmd.OutOrStdout(), report, precision)
	case tui.OutputModePlain, tui.OutputModeInteractive:
		return engine.RenderReport(cmd.OutOrStdout(), engine.OutputTable, report, precision)
	default:
		return engine.RenderReport(cmd.OutOrStdout(), engine.OutputTable, report, precision)
	}
}

// renderStyledReport renders the boxed summary followed by the breakdown.
func renderStyledReport(w io.Writer, report *engine.Report, precision int) error {
	width := tui.TerminalWidth(fallbackWidth)
	if _, err := fmt.Fprintln(w, tui.RenderReportSummary(report, width, precision)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", tui.RenderBreakdown(report, precision))
	return err
}

// RenderComparisonOutput routes a scenario comparison the same way. With
// interactive set and a capable terminal the comparison opens in a viewer.
func RenderComparisonOutput(
	cmd *cobra.Command,
	format engine.OutputFormat,
	cmp *scenario.Comparison,
	interactive bool,
) error {
	precision := config.GetOutputPrecision()

	if format == engine.OutputTable && outputMode(cmd, interactive) == tui.OutputModeInteractive {
		p := tea.NewProgram(tui.NewComparisonModel(cmp, precision), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run interactive TUI: %w", err)
		}
		return nil
	}
	return scenario.RenderComparison(cmd.OutOrStdout(), format, cmp, precision)
}

func runInteractiveCalculator(ctx context.Context, eng *engine.Engine, req engine.CalculateRequest) error {
	model, err := tui.NewCalculatorModel(ctx, eng, req.Name, req.Activity, config.GetOutputPrecision())
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err = p.Run(); err != nil {
		return fmt.Errorf("failed to run interactive TUI: %w", err)
	}
	return nil
}
