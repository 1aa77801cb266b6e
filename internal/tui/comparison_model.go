package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
	"github.com/lioncitydevops/carbon-calculator/internal/scenario"
)

// ViewState is the screen shown by the comparison viewer.
type ViewState int

const (
	// ViewStateList shows the scenario table.
	ViewStateList ViewState = iota
	// ViewStateDetail shows one scenario's breakdown.
	ViewStateDetail
	// ViewStateQuitting indicates the program is exiting.
	ViewStateQuitting
)

const (
	comparisonDefaultHeight = 10
	tableChromeHeight       = 8
)

// ComparisonModel browses a scenario comparison: a table of scenarios with
// their reduction against the baseline, and a detail screen per scenario.
type ComparisonModel struct {
	cmp       *scenario.Comparison
	table     table.Model
	state     ViewState
	selected  int
	precision int
	width     int
	height    int
}

// NewComparisonModel builds the viewer for cmp.
func NewComparisonModel(cmp *scenario.Comparison, precision int) *ComparisonModel {
	return &ComparisonModel{
		cmp:       cmp,
		table:     NewComparisonTable(cmp, comparisonDefaultHeight, precision),
		state:     ViewStateList,
		precision: precision,
		width:     calculatorDefaultWidth,
	}
}

// NewComparisonTable builds a table of cmp's rows.
func NewComparisonTable(cmp *scenario.Comparison, height, precision int) table.Model {
	columns := []table.Column{
		{Title: "Scenario", Width: 28},    //nolint:mnd // Column width.
		{Title: "Scope 1", Width: 10},     //nolint:mnd // Column width.
		{Title: "Scope 2", Width: 10},     //nolint:mnd // Column width.
		{Title: "Scope 3", Width: 10},     //nolint:mnd // Column width.
		{Title: "tCO2e", Width: 10},       //nolint:mnd // Column width.
		{Title: "vs Baseline", Width: 18}, //nolint:mnd // Column width.
	}

	rows := make([]table.Row, 0, len(cmp.Rows))
	for _, r := range cmp.Rows {
		name := r.Name
		change := "baseline"
		if !r.Baseline {
			change = scenario.ChangeText(r)
		}
		if r.ID == cmp.Best {
			name = "★ " + name
		}
		rows = append(rows, table.Row{
			name,
			greenops.FormatFloat(r.Scope1, precision),
			greenops.FormatFloat(r.Scope2, precision),
			greenops.FormatFloat(r.Scope3, precision),
			greenops.FormatFloat(r.Total, precision),
			change,
		})
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

// Init initializes the model.
func (m *ComparisonModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *ComparisonModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(max(msg.Height-tableChromeHeight, 3)) //nolint:mnd // Minimum visible rows.
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}
	return m, nil
}

//nolint:exhaustive // Only navigation keys are handled here; the rest go to the table.
func (m *ComparisonModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = ViewStateQuitting
		return m, tea.Quit
	case tea.KeyEsc:
		if m.state == ViewStateDetail {
			m.state = ViewStateList
		}
		return m, nil
	case tea.KeyEnter:
		if m.state == ViewStateList && len(m.cmp.Rows) > 0 {
			m.selected = m.table.Cursor()
			m.state = ViewStateDetail
		}
		return m, nil
	case tea.KeyRunes:
		if string(msg.Runes) == "q" {
			m.state = ViewStateQuitting
			return m, tea.Quit
		}
	}

	if m.state != ViewStateList {
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// State returns the current screen.
func (m *ComparisonModel) State() ViewState {
	return m.state
}

// View renders the current view.
func (m *ComparisonModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateDetail:
		return m.renderDetail()
	case ViewStateList:
	}

	var sb strings.Builder
	sb.WriteString(HeaderStyle.Render("SCENARIO COMPARISON"))
	sb.WriteString("\n\n")
	sb.WriteString(m.table.View())
	sb.WriteString("\n\n")
	if best, ok := m.cmp.BestRow(); ok {
		sb.WriteString(LabelStyle.Render("Best: "))
		sb.WriteString(ValueStyle.Render(best.Name))
		sb.WriteString("  ")
		sb.WriteString(RenderReduction(best.Reduction))
		sb.WriteString("\n")
	}
	sb.WriteString(lipgloss.NewStyle().Foreground(ColorMuted).Render("↑/↓: Navigate | Enter: Details | q: Quit"))
	return sb.String()
}

func (m *ComparisonModel) renderDetail() string {
	row := m.cmp.Rows[m.selected]

	var content strings.Builder
	content.WriteString(HeaderStyle.Render(strings.ToUpper(row.Name)))
	content.WriteString("\n")
	if row.Description != "" {
		content.WriteString(SubtleStyle.Render(row.Description))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	content.WriteString(LabelStyle.Render("Total:         "))
	content.WriteString(ValueStyle.Render(greenops.FormatTonnes(row.Total, m.precision)))
	content.WriteString("\n")
	if !row.Baseline {
		content.WriteString(LabelStyle.Render("vs Baseline:   "))
		content.WriteString(RenderReduction(row.Reduction))
		content.WriteString(SubtleStyle.Render(fmt.Sprintf(" (%s saved)", greenops.FormatTonnes(row.Saved, m.precision))))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	scopes := []struct {
		scope  emissions.Scope
		tonnes float64
	}{
		{emissions.Scope1, row.Scope1},
		{emissions.Scope2, row.Scope2},
		{emissions.Scope3, row.Scope3},
	}
	for _, s := range scopes {
		share := emissions.SharePercent(s.tonnes, row.Total)
		fmt.Fprintf(&content, "%s %s %s\n",
			LabelStyle.Render(fmt.Sprintf("%-*s", scopeLabelWidth, s.scope.Title())),
			RenderBar(share, defaultBarWidth, scopeColor(s.scope.String())),
			ValueStyle.Render(greenops.FormatTonnes(s.tonnes, m.precision)),
		)
	}

	if m.selected < len(m.cmp.Scenarios) {
		if base, err := m.baselineScenario(); err == nil && !row.Baseline {
			changes := scenario.Changes(base, m.cmp.Scenarios[m.selected])
			if len(changes) > 0 {
				content.WriteString("\n")
				content.WriteString(HeaderStyle.Render("CHANGES FROM BASELINE"))
				content.WriteString("\n")
				for _, c := range changes {
					fmt.Fprintf(&content, "- %s: %s %s %s %s\n",
						c.Category,
						greenops.FormatFloat(c.From, 2), IconArrowRight, greenops.FormatFloat(c.To, 2), c.Unit)
				}
			}
		}
	}

	box := BoxStyle.Width(max(m.width-borderPadding, 0)).Render(strings.TrimRight(content.String(), "\n"))
	return box + "\n" + lipgloss.NewStyle().Foreground(ColorMuted).Render("Esc: Back | q: Quit")
}

func (m *ComparisonModel) baselineScenario() (scenario.Scenario, error) {
	set := scenario.Set{Baseline: m.cmp.Baseline, Scenarios: m.cmp.Scenarios}
	return set.BaselineScenario()
}
