package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keyOutput   = "output"
	keyLogging  = "logging"
	keyFactors  = "factors"
	keyScenario = "scenario"
	keyOffset   = "offset"
	keyInput    = "input"
)

// knownTopLevelKeys lists the YAML keys that correspond to Config fields.
// Keys not in this list are ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keyOutput:   true,
	keyLogging:  true,
	keyFactors:  true,
	keyScenario: true,
	keyOffset:   true,
	keyInput:    true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// target. A section present in the overlay is decoded onto a copy of the
// target's current section, so fields the overlay omits keep their values.
// Sections absent from the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// decodeSection decodes node into the field of target named by key. Scalar
// fields are decoded onto the existing values; the factor override map is
// replaced as a whole.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keyOutput:
		v := target.Output
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Output = v
	case keyLogging:
		v := target.Logging
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyFactors:
		v := FactorsConfig{File: target.Factors.File}
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Factors = v
	case keyScenario:
		v := target.Scenario
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Scenario = v
	case keyOffset:
		v := target.Offset
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Offset = v
	case keyInput:
		v := target.Input
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Input = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
