// Package ingest reads activity data from files and command-line
// assignments and prepares it for the emissions engine.
//
// The engine accepts any finite number. Ingestion is where user input is
// cleaned: under the clamp policy negative or non-numeric entries become
// zero with a logged warning, under the strict policy they are rejected.
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
)

// Policy decides how out-of-range input is handled.
type Policy string

// Supported policies.
const (
	PolicyClamp  Policy = "clamp"
	PolicyStrict Policy = "strict"
)

// Ingestion errors.
var (
	ErrUnknownField = errors.New("unknown activity field")
	ErrInvalidValue = errors.New("invalid activity value")
	ErrInvalidSet   = errors.New("invalid assignment")
	ErrDuplicate    = errors.New("duplicate activity field")
)

// ParsePolicy parses a policy name; empty means clamp.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PolicyClamp, nil
	case PolicyClamp, PolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown input policy %q", s)
	}
}

// Adjustment records a value changed or dropped under the clamp policy.
type Adjustment struct {
	Field  string  `json:"field"`
	Raw    string  `json:"raw"`
	Value  float64 `json:"value"`
	Reason string  `json:"reason"`
}

// Reasons reported in Adjustment.Reason.
const (
	ReasonNegative   = "negative value clamped to zero"
	ReasonNotNumeric = "non-numeric value read as zero"
	ReasonNonFinite  = "non-finite value read as zero"
	ReasonUnknown    = "unknown field ignored"
	ReasonDuplicate  = "duplicate field ignored"
)

// LoadActivity reads an activity file. Files ending in .json are decoded as
// JSON, everything else as YAML.
func LoadActivity(ctx context.Context, path string, policy Policy) (emissions.Activity, []Adjustment, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "ingest").
		Str("operation", "load_activity").
		Str("path", path).
		Msg("loading activity file")

	data, err := os.ReadFile(path)
	if err != nil {
		return emissions.Activity{}, nil, fmt.Errorf("reading activity file %s: %w", path, err)
	}

	doc, err := decodeDocument(path, data)
	if err != nil {
		log.Error().
			Ctx(ctx).
			Str("component", "ingest").
			Str("path", path).
			Err(err).
			Msg("failed to decode activity file")
		return emissions.Activity{}, nil, fmt.Errorf("parsing activity file %s: %w", path, err)
	}

	return FromMap(ctx, doc, policy)
}

func decodeDocument(path string, data []byte) (map[string]any, error) {
	var doc map[string]any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// FromMap builds an activity from a decoded document of the form
// {scope1: {diesel: 15000, ...}, scope2: {...}, scope3: {...}}. Missing
// scopes and categories are zero.
func FromMap(ctx context.Context, doc map[string]any, policy Policy) (emissions.Activity, []Adjustment, error) {
	var (
		activity    emissions.Activity
		adjustments []Adjustment
	)

	for _, key := range sortedKeys(doc) {
		scope, err := emissions.ParseScope(key)
		if err != nil {
			adj, uerr := unknown(policy, key, doc[key])
			if uerr != nil {
				return emissions.Activity{}, nil, uerr
			}
			adjustments = append(adjustments, adj)
			continue
		}

		section, ok := asMap(doc[key])
		if !ok {
			if doc[key] == nil {
				continue
			}
			return emissions.Activity{}, nil, fmt.Errorf("%w: %s must be a mapping", ErrInvalidValue, key)
		}

		adj, err := applySection(&activity, scope, section, policy)
		if err != nil {
			return emissions.Activity{}, nil, err
		}
		adjustments = append(adjustments, adj...)
	}

	logAdjustments(ctx, adjustments)
	return activity, adjustments, nil
}

func applySection(a *emissions.Activity, scope emissions.Scope, section map[string]any, policy Policy) ([]Adjustment, error) {
	var adjustments []Adjustment
	seen := make(map[emissions.Category]string, len(section))
	for _, name := range sortedKeys(section) {
		field := scope.String() + "." + name

		c, err := emissions.ParseCategory(name)
		if err != nil || c.Scope() != scope {
			adj, uerr := unknown(policy, field, section[name])
			if uerr != nil {
				return nil, uerr
			}
			adjustments = append(adjustments, adj)
			continue
		}

		// Aliases such as naturalGas and natural_gas name one category; the
		// first key in sorted order is kept.
		if first, dup := seen[c]; dup {
			if policy == PolicyStrict {
				return nil, fmt.Errorf("%w: %s and %s.%s both set %s", ErrDuplicate, field, scope, first, c)
			}
			adjustments = append(adjustments, Adjustment{
				Field:  field,
				Raw:    fmt.Sprint(section[name]),
				Reason: ReasonDuplicate,
			})
			continue
		}
		seen[c] = name

		v, adj, err := coerce(policy, scope.String()+"."+string(c), section[name])
		if err != nil {
			return nil, err
		}
		if adj != nil {
			adjustments = append(adjustments, *adj)
		}
		a.Set(c, v)
	}
	return adjustments, nil
}

// coerce converts a raw document value to a non-negative finite number.
func coerce(policy Policy, field string, raw any) (float64, *Adjustment, error) {
	v, numeric := toFloat(raw)

	var reason string
	switch {
	case !numeric:
		reason = ReasonNotNumeric
	case math.IsNaN(v) || math.IsInf(v, 0):
		reason = ReasonNonFinite
	case v < 0:
		reason = ReasonNegative
	default:
		return v, nil, nil
	}

	if policy == PolicyStrict {
		return 0, nil, fmt.Errorf("%w: %s = %v (%s)", ErrInvalidValue, field, raw, reason)
	}
	return 0, &Adjustment{Field: field, Raw: fmt.Sprint(raw), Value: 0, Reason: reason}, nil
}

func unknown(policy Policy, field string, raw any) (Adjustment, error) {
	if policy == PolicyStrict {
		return Adjustment{}, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return Adjustment{Field: field, Raw: fmt.Sprint(raw), Reason: ReasonUnknown}, nil
}

// toFloat reads numbers and numeric strings. Null and empty strings are
// numeric zero.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, true
		}
		f, err := greenops.ParseNumber(s)
		return f, err == nil
	default:
		return 0, false
	}
}

func asMap(raw any) (map[string]any, bool) {
	switch m := raw.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func logAdjustments(ctx context.Context, adjustments []Adjustment) {
	log := logging.FromContext(ctx)
	for _, adj := range adjustments {
		log.Warn().
			Ctx(ctx).
			Str("component", "ingest").
			Str("field", adj.Field).
			Str("raw", adj.Raw).
			Str("reason", adj.Reason).
			Msg("activity input adjusted")
	}
}
