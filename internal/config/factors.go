package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// SupportedFactorFileMajor is the factor file format major version this
// build understands.
const SupportedFactorFileMajor = 1

// Factor file errors.
var (
	ErrUnsupportedFactorVersion = errors.New("unsupported factor file version")
	ErrInvalidFactorOverride    = errors.New("invalid factor override")
)

// FactorFile is the on-disk factor override format:
//
//	version: "1.0.0"
//	factors:
//	  electricity: 0.35
type FactorFile struct {
	Version string             `yaml:"version" json:"version"`
	Factors map[string]float64 `yaml:"factors" json:"factors"`
}

// LoadFactorFile reads a YAML or JSON factor override file and returns its
// overrides keyed by category. An empty version is read as 1.0.0.
func LoadFactorFile(path string) (map[emissions.Category]float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading factor file %s: %w", path, err)
	}

	// YAML is a superset of JSON, so one decoder serves both extensions.
	var ff FactorFile
	if err = yaml.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("parsing factor file %s (%s): %w", path, filepath.Ext(path), err)
	}

	if err = checkFactorFileVersion(ff.Version); err != nil {
		return nil, fmt.Errorf("factor file %s: %w", path, err)
	}

	overrides, err := ParseFactorOverrides(ff.Factors)
	if err != nil {
		return nil, fmt.Errorf("factor file %s: %w", path, err)
	}
	return overrides, nil
}

func checkFactorFileVersion(raw string) error {
	if raw == "" {
		return nil
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("%w: %q is not a semantic version", ErrUnsupportedFactorVersion, raw)
	}
	if v.Major() != SupportedFactorFileMajor {
		return fmt.Errorf("%w: %s (supported major %d)", ErrUnsupportedFactorVersion, v, SupportedFactorFileMajor)
	}
	return nil
}

// ParseFactorOverrides converts name-keyed overrides into a category map.
// Unknown names and non-finite or negative values are rejected.
func ParseFactorOverrides(in map[string]float64) (map[emissions.Category]float64, error) {
	out := make(map[emissions.Category]float64, len(in))
	for name, v := range in {
		c, err := emissions.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidFactorOverride, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, fmt.Errorf("%w: %s = %g", ErrInvalidFactorOverride, name, v)
		}
		out[c] = v
	}
	return out, nil
}

// ParseFactorFlag parses a "category=value" pair as given to --factor.
func ParseFactorFlag(s string) (emissions.Category, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q is not category=value", ErrInvalidFactorOverride, s)
	}
	v, err := greenops.ParseNumber(raw)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q: %w", ErrInvalidFactorOverride, s, err)
	}
	parsed, err := ParseFactorOverrides(map[string]float64{strings.TrimSpace(name): v})
	if err != nil {
		return "", 0, err
	}
	for c, fv := range parsed {
		return c, fv, nil
	}
	return "", 0, fmt.Errorf("%w: %q", ErrInvalidFactorOverride, s)
}

// EffectiveFactors layers overrides onto the default table in this order:
// factor file (explicit path, else factors.file), factors.overrides, then
// extra (command-line --factor values).
func (c *Config) EffectiveFactors(file string, extra map[emissions.Category]float64) (emissions.Factors, error) {
	table := emissions.DefaultFactors()

	if file == "" {
		file = c.Factors.File
	}
	if file != "" {
		fromFile, err := LoadFactorFile(file)
		if err != nil {
			return emissions.Factors{}, err
		}
		table = table.With(fromFile)
	}

	inline, err := ParseFactorOverrides(c.Factors.Overrides)
	if err != nil {
		return emissions.Factors{}, err
	}
	table = table.With(inline).With(extra)

	if err = table.Validate(); err != nil {
		return emissions.Factors{}, err
	}
	return table, nil
}
