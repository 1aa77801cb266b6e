package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
)

// ApplySet applies --set assignments such as "scope1.diesel=15000" or
// "electricity=250000" to a copy of a. The scope prefix is optional but must
// match the category when given.
func ApplySet(
	ctx context.Context,
	a emissions.Activity,
	assignments []string,
	policy Policy,
) (emissions.Activity, []Adjustment, error) {
	var adjustments []Adjustment
	for _, assignment := range assignments {
		c, raw, err := parseAssignment(assignment)
		if err != nil {
			return emissions.Activity{}, nil, err
		}

		v, adj, err := coerce(policy, c.Scope().String()+"."+string(c), raw)
		if err != nil {
			return emissions.Activity{}, nil, err
		}
		if adj != nil {
			adjustments = append(adjustments, *adj)
		}
		a.Set(c, v)
	}
	logAdjustments(ctx, adjustments)
	return a, adjustments, nil
}

func parseAssignment(s string) (emissions.Category, string, error) {
	key, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not [scope.]category=value", ErrInvalidSet, s)
	}
	key = strings.TrimSpace(key)

	var scope emissions.Scope
	if prefix, name, dotted := strings.Cut(key, "."); dotted {
		parsed, err := emissions.ParseScope(prefix)
		if err != nil {
			return "", "", fmt.Errorf("%w: %q: %w", ErrInvalidSet, s, err)
		}
		scope, key = parsed, name
	}

	c, err := emissions.ParseCategory(key)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrUnknownField, err)
	}
	if scope != 0 && c.Scope() != scope {
		return "", "", fmt.Errorf("%w: %s is a %s category", ErrUnknownField, c, c.Scope())
	}
	return c, raw, nil
}
