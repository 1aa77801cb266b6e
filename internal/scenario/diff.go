package scenario

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// Diff returns a unified diff of two scenarios' activity inputs, rendered
// as scenario-file YAML. Identical inputs give an empty string.
func Diff(a, b Scenario) (string, error) {
	left, err := activityYAML(a.Activity)
	if err != nil {
		return "", err
	}
	right, err := activityYAML(b.Activity)
	if err != nil {
		return "", err
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(left),
		B:        difflib.SplitLines(right),
		FromFile: a.ID,
		ToFile:   b.ID,
		Context:  diffContext,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s..%s: %w", a.ID, b.ID, err)
	}
	return text, nil
}

// Change is one activity quantity that differs between two scenarios.
type Change struct {
	Scope    string  `json:"scope"`
	Category string  `json:"category"`
	Unit     string  `json:"unit"`
	From     float64 `json:"from"`
	To       float64 `json:"to"`
}

// Changes lists the quantities that differ from a to b in declaration order.
func Changes(a, b Scenario) []Change {
	var out []Change
	for _, e := range a.Activity.Entries() {
		to := b.Activity.Get(e.Category)
		if e.Value == to {
			continue
		}
		out = append(out, Change{
			Scope:    e.Category.Scope().String(),
			Category: string(e.Category),
			Unit:     e.Category.Unit(),
			From:     e.Value,
			To:       to,
		})
	}
	return out
}
