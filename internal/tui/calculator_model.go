package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// CalculatorState is the state of the interactive calculator.
type CalculatorState int

const (
	// CalculatorStateEditing is the normal browsing/editing state.
	CalculatorStateEditing CalculatorState = iota
	// CalculatorStateQuitting indicates the program is exiting.
	CalculatorStateQuitting
	// CalculatorStateError indicates a calculation failed.
	CalculatorStateError
)

// ActivityRow is one editable activity quantity.
type ActivityRow struct {
	Category emissions.Category
	Label    string
	Unit     string
	Original float64
	Current  float64
	Tonnes   float64
}

// Changed reports whether the row differs from its starting value.
func (r ActivityRow) Changed() bool {
	return r.Current != r.Original
}

// calculateMsg carries a finished recalculation.
type calculateMsg struct {
	report *engine.Report
	err    error
}

// Default dimensions.
const (
	calculatorDefaultWidth  = 80
	calculatorDefaultHeight = 24
	rowLabelWidth           = 24
	rowValueWidth           = 14
	rowUnitWidth            = 10
)

// CalculatorModel is the Bubble Tea model behind `calculate --interactive`:
// a list of activity quantities that can be edited in place, with totals
// recalculated after every edit and compared against the starting values.
type CalculatorModel struct {
	ctx       context.Context
	engine    *engine.Engine
	name      string
	precision int

	rows       []ActivityRow
	focusedRow int
	editMode   bool
	editBuffer string
	inputErr   string

	baseline *engine.Report
	current  *engine.Report

	state         CalculatorState
	loading       bool
	err           error
	showBreakdown bool

	width  int
	height int
}

// NewCalculatorModel calculates activity once as the starting point and
// returns a model ready for tea.NewProgram.
func NewCalculatorModel(
	ctx context.Context,
	eng *engine.Engine,
	name string,
	activity emissions.Activity,
	precision int,
) (*CalculatorModel, error) {
	report, err := eng.Calculate(ctx, engine.CalculateRequest{Name: name, Activity: activity, WithEquivalencies: true})
	if err != nil {
		return nil, err
	}

	m := &CalculatorModel{
		ctx:       ctx,
		engine:    eng,
		name:      name,
		precision: precision,
		baseline:  report,
		current:   report,
		state:     CalculatorStateEditing,
		width:     calculatorDefaultWidth,
		height:    calculatorDefaultHeight,
	}
	for _, e := range activity.Entries() {
		m.rows = append(m.rows, ActivityRow{
			Category: e.Category,
			Label:    e.Category.Label(),
			Unit:     e.Category.Unit(),
			Original: e.Value,
			Current:  e.Value,
		})
	}
	m.applyReport(report)
	return m, nil
}

// Init initializes the model.
func (m *CalculatorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model state.
func (m *CalculatorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case calculateMsg:
		return m.handleCalculated(msg)

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

//nolint:exhaustive // Only navigation keys are handled.
func (m *CalculatorModel) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.editMode {
		return m.handleEditModeKey(msg)
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = CalculatorStateQuitting
		return m, tea.Quit

	case tea.KeyUp:
		m.moveFocus(-1)
		return m, nil

	case tea.KeyDown:
		m.moveFocus(1)
		return m, nil

	case tea.KeyEnter:
		if m.state == CalculatorStateEditing && m.focusedRow < len(m.rows) {
			m.editMode = true
			m.inputErr = ""
			m.editBuffer = strconv.FormatFloat(m.rows[m.focusedRow].Current, 'f', -1, 64)
		}
		return m, nil

	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "q":
			m.state = CalculatorStateQuitting
			return m, tea.Quit
		case "k":
			m.moveFocus(-1)
		case "j":
			m.moveFocus(1)
		case "b":
			m.showBreakdown = !m.showBreakdown
		case "r":
			return m, m.resetRow()
		case "z":
			return m, m.zeroRow()
		}
	}

	return m, nil
}

//nolint:exhaustive // Only text-editing keys are handled.
func (m *CalculatorModel) handleEditModeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.state = CalculatorStateQuitting
		return m, tea.Quit

	case tea.KeyEnter:
		v, err := parseQuantity(m.editBuffer)
		if err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		m.editMode = false
		m.editBuffer = ""
		m.inputErr = ""
		if v == m.rows[m.focusedRow].Current {
			return m, nil
		}
		m.rows[m.focusedRow].Current = v
		return m, m.triggerRecalculation()

	case tea.KeyEsc:
		m.editMode = false
		m.editBuffer = ""
		m.inputErr = ""
		return m, nil

	case tea.KeyBackspace:
		runes := []rune(m.editBuffer)
		if len(runes) > 0 {
			m.editBuffer = string(runes[:len(runes)-1])
		}
		return m, nil

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			if (r >= '0' && r <= '9') || r == '.' || r == ',' || r == 'e' || r == 'E' {
				m.editBuffer += string(r)
			}
		}
		return m, nil
	}

	return m, nil
}

// parseQuantity accepts non-negative finite numbers with optional thousand
// separators.
func parseQuantity(s string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	v, err := greenops.ParseNumber(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", strings.TrimSpace(s))
	}
	if v < 0 {
		return 0, errors.New("quantities cannot be negative")
	}
	return v, nil
}

func (m *CalculatorModel) moveFocus(delta int) {
	m.focusedRow = max(0, min(len(m.rows)-1, m.focusedRow+delta))
}

func (m *CalculatorModel) resetRow() tea.Cmd {
	row := &m.rows[m.focusedRow]
	if !row.Changed() {
		return nil
	}
	row.Current = row.Original
	return m.triggerRecalculation()
}

func (m *CalculatorModel) zeroRow() tea.Cmd {
	row := &m.rows[m.focusedRow]
	if row.Current == 0 {
		return nil
	}
	row.Current = 0
	return m.triggerRecalculation()
}

// triggerRecalculation returns a command that recalculates the edited
// activity off the update loop.
func (m *CalculatorModel) triggerRecalculation() tea.Cmd {
	m.loading = true

	ctx := m.ctx
	eng := m.engine
	req := engine.CalculateRequest{Name: m.name, Activity: m.Activity(), WithEquivalencies: true}

	return func() tea.Msg {
		report, err := eng.Calculate(ctx, req)
		return calculateMsg{report: report, err: err}
	}
}

func (m *CalculatorModel) handleCalculated(msg calculateMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.err = msg.err
		m.state = CalculatorStateError
		return m, nil
	}
	m.current = msg.report
	m.applyReport(msg.report)
	return m, nil
}

func (m *CalculatorModel) applyReport(report *engine.Report) {
	for i := range m.rows {
		m.rows[i].Tonnes = 0
		for _, r := range report.Rows {
			if r.Category == string(m.rows[i].Category) {
				m.rows[i].Tonnes = r.Tonnes
				break
			}
		}
	}
}

// Activity returns the edited activity.
func (m *CalculatorModel) Activity() emissions.Activity {
	var a emissions.Activity
	for _, r := range m.rows {
		a.Set(r.Category, r.Current)
	}
	return a
}

// Report returns the latest calculation.
func (m *CalculatorModel) Report() *engine.Report {
	return m.current
}

// State returns the model state.
func (m *CalculatorModel) State() CalculatorState {
	return m.state
}

// View renders the current view.
func (m *CalculatorModel) View() string {
	switch m.state {
	case CalculatorStateQuitting:
		return ""
	case CalculatorStateError:
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	case CalculatorStateEditing:
	}

	var sb strings.Builder
	sb.WriteString(RenderReportSummary(m.current, m.width, m.precision))
	sb.WriteString("\n")
	sb.WriteString(m.renderComparison())
	sb.WriteString("\n\n")

	if m.loading {
		sb.WriteString(lipgloss.NewStyle().Foreground(ColorSpinner).Bold(true).Render("Calculating..."))
		sb.WriteString("\n\n")
	}

	if m.showBreakdown {
		sb.WriteString(RenderBreakdown(m.current, m.precision))
	} else {
		sb.WriteString(m.renderRows())
	}
	sb.WriteString("\n\n")

	if m.inputErr != "" {
		sb.WriteString(CriticalStyle.Render(m.inputErr))
		sb.WriteString("\n")
	}
	sb.WriteString(RenderCalculatorHelp(m.editMode))
	return sb.String()
}

func (m *CalculatorModel) renderComparison() string {
	start := m.baseline.Result.TotalEmissions
	now := m.current.Result.TotalEmissions
	return LabelStyle.Render("Started at ") +
		ValueStyle.Render(greenops.FormatTonnes(start, m.precision)) +
		LabelStyle.Render("  now ") +
		ValueStyle.Render(greenops.FormatTonnes(now, m.precision)) +
		"  " + RenderReduction(emissions.ReductionPercentage(start, now))
}

func (m *CalculatorModel) renderRows() string {
	var sb strings.Builder
	header := fmt.Sprintf("  %-*s %*s %-*s %s",
		rowLabelWidth, "Activity", rowValueWidth, "Quantity", rowUnitWidth, "Unit", "tCO2e")
	sb.WriteString(HeaderStyle.Render(header))
	sb.WriteString("\n")

	var scope emissions.Scope
	for i, row := range m.rows {
		if s := row.Category.Scope(); s != scope {
			scope = s
			sb.WriteString(SubtleStyle.Render(s.Title()))
			sb.WriteString("\n")
		}
		sb.WriteString(m.renderRow(i, row))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (m *CalculatorModel) renderRow(i int, row ActivityRow) string {
	focused := i == m.focusedRow
	editing := focused && m.editMode

	prefix := "  "
	switch {
	case editing:
		prefix = "> "
	case focused:
		prefix = IconArrowRight + " "
	}

	value := greenops.FormatFloat(row.Current, 2)
	if editing {
		value = m.editBuffer + "▌"
	}
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue)
	if row.Changed() {
		valueStyle = lipgloss.NewStyle().Foreground(ColorHighlight).Bold(true)
	}

	return prefix +
		LabelStyle.Render(fmt.Sprintf("%-*s", rowLabelWidth, row.Label)) + " " +
		valueStyle.Render(fmt.Sprintf("%*s", rowValueWidth, value)) + " " +
		LabelStyle.Render(fmt.Sprintf("%-*s", rowUnitWidth, row.Unit)) + " " +
		ValueStyle.Render(greenops.FormatFloat(row.Tonnes, m.precision))
}

// RenderCalculatorHelp renders the keyboard shortcut help text.
func RenderCalculatorHelp(editing bool) string {
	helpStyle := lipgloss.NewStyle().Foreground(ColorMuted)

	if editing {
		return helpStyle.Render(strings.Join([]string{"Enter: Apply", "Esc: Cancel", "Backspace: Delete"}, " | "))
	}
	shortcuts := []string{
		"↑/↓: Navigate",
		"Enter: Edit",
		"r: Reset",
		"z: Zero",
		"b: Breakdown",
		"q: Quit",
	}
	return helpStyle.Render(strings.Join(shortcuts, " | "))
}
