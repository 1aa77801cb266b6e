package scenario

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/ingest"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
)

type rawFile struct {
	Baseline  string           `yaml:"baseline"`
	Scenarios []map[string]any `yaml:"scenarios"`
}

// metadata keys of a scenario entry; every other key is activity data.
var metadataKeys = map[string]bool{"id": true, "name": true, "description": true} //nolint:gochecknoglobals // read-only

// LoadFile reads a scenario file of the form
// {baseline: id, scenarios: [{id, name, description, scope1, scope2, scope3}]}.
// JSON is accepted as YAML. Activity values go through the input policy.
// Scenarios without an id get a generated one; an empty baseline selects
// the first scenario.
func LoadFile(ctx context.Context, path string, policy ingest.Policy) (Set, []ingest.Adjustment, error) {
	log := logging.FromContext(ctx)
	log.Debug().
		Ctx(ctx).
		Str("component", "scenario").
		Str("operation", "load_file").
		Str("path", path).
		Msg("loading scenario file")

	data, err := os.ReadFile(path)
	if err != nil {
		return Set{}, nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}

	var raw rawFile
	if err = yaml.Unmarshal(data, &raw); err != nil {
		return Set{}, nil, fmt.Errorf("parsing scenario file %s: %w", path, err)
	}

	set, adjustments, err := fromRaw(ctx, raw, policy)
	if err != nil {
		return Set{}, nil, fmt.Errorf("scenario file %s: %w", path, err)
	}
	return set, adjustments, nil
}

func fromRaw(ctx context.Context, raw rawFile, policy ingest.Policy) (Set, []ingest.Adjustment, error) {
	set := Set{Baseline: raw.Baseline}
	var adjustments []ingest.Adjustment

	for i, entry := range raw.Scenarios {
		sc := Scenario{
			ID:          stringField(entry, "id"),
			Name:        stringField(entry, "name"),
			Description: stringField(entry, "description"),
		}
		if sc.ID == "" {
			sc.ID = NewID()
		}

		doc := make(map[string]any, len(entry))
		for k, v := range entry {
			if !metadataKeys[k] {
				doc[k] = v
			}
		}
		activity, adj, err := ingest.FromMap(ctx, doc, policy)
		if err != nil {
			return Set{}, nil, fmt.Errorf("scenario %d (%s): %w", i, sc.ID, err)
		}
		sc.Activity = activity
		for _, a := range adj {
			a.Field = sc.ID + "." + a.Field
			adjustments = append(adjustments, a)
		}
		set.Scenarios = append(set.Scenarios, sc)
	}

	if set.Baseline == "" && len(set.Scenarios) > 0 {
		set.Baseline = set.Scenarios[0].ID
	}
	if err := set.Validate(); err != nil {
		return Set{}, nil, err
	}
	return set, adjustments, nil
}

func stringField(m map[string]any, key string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return ""
	}
	if s, isString := v.(string); isString {
		return s
	}
	return fmt.Sprint(v)
}

// WriteFile writes a set in the layout LoadFile reads.
func WriteFile(path string, set Set) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("encoding scenarios: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing scenario file %s: %w", path, err)
	}
	return nil
}

// activityYAML renders an activity the way scenario files store it, with
// plain decimal numbers so large quantities stay readable in diffs.
func activityYAML(a emissions.Activity) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, scope := range emissions.Scopes() {
		section := &yaml.Node{Kind: yaml.MappingNode}
		for _, c := range emissions.CategoriesFor(scope) {
			section.Content = append(section.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: string(c)},
				&yaml.Node{Kind: yaml.ScalarNode, Value: strconv.FormatFloat(a.Get(c), 'f', -1, 64)},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: scope.String()},
			section,
		)
	}

	data, err := yaml.Marshal(root)
	if err != nil {
		return "", fmt.Errorf("encoding activity: %w", err)
	}
	return string(data), nil
}
