package tui

import (
	"os"

	"golang.org/x/term"
)

// OutputMode is how table output is presented on the current terminal.
type OutputMode int

const (
	// OutputModePlain writes tabwriter text with no styling.
	OutputModePlain OutputMode = iota
	// OutputModeStyled writes lipgloss-styled text.
	OutputModeStyled
	// OutputModeInteractive runs a Bubble Tea program.
	OutputModeInteractive
)

// String names the mode.
func (m OutputMode) String() string {
	switch m {
	case OutputModeStyled:
		return "styled"
	case OutputModeInteractive:
		return "interactive"
	default:
		return "plain"
	}
}

// terminal reports what DetectOutputMode needs to know about the
// environment.
type terminal struct {
	stdoutTTY bool
	stdinTTY  bool
	getenv    func(string) string
}

func currentTerminal() terminal {
	return terminal{
		stdoutTTY: term.IsTerminal(int(os.Stdout.Fd())),
		stdinTTY:  term.IsTerminal(int(os.Stdin.Fd())),
		getenv:    os.Getenv,
	}
}

// DetectOutputMode picks the output mode for stdout. plain forces plain
// text; noColor disables styling (as does NO_COLOR or TERM=dumb);
// interactive requests a Bubble Tea program when both stdin and stdout are
// terminals and CI is unset.
func DetectOutputMode(plain, noColor, interactive bool) OutputMode {
	return detectOutputMode(currentTerminal(), plain, noColor, interactive)
}

func detectOutputMode(t terminal, plain, noColor, interactive bool) OutputMode {
	if plain || !t.stdoutTTY {
		return OutputModePlain
	}
	if noColor || t.getenv("NO_COLOR") != "" || t.getenv("TERM") == "dumb" {
		return OutputModePlain
	}
	if interactive && t.stdinTTY && t.getenv("CI") == "" {
		return OutputModeInteractive
	}
	return OutputModeStyled
}

// TerminalWidth returns the stdout width, or fallback when unknown.
func TerminalWidth(fallback int) int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}
