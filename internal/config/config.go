// Package config loads and validates carboncalc configuration.
//
// Configuration is read from ~/.carboncalc/config.yaml (or
// $CARBONCALC_HOME/config.yaml), overlaid section by section onto built-in
// defaults, then adjusted by CARBONCALC_* environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// Output formats.
const (
	FormatTable  = "table"
	FormatJSON   = "json"
	FormatNDJSON = "ndjson"
)

// Input policies for activity ingestion.
const (
	PolicyClamp  = "clamp"
	PolicyStrict = "strict"
)

// Defaults.
const (
	DefaultPrecision      = 2
	DefaultMaxConcurrency = 4
	DefaultBatchSize      = 10
	DefaultOffsetPercent  = 100.0
	MaxPrecision          = 10
	MaxBatchSize          = 1000
	ConfigFileName        = "config.yaml"
	ScenarioStoreFileName = "scenarios.db"
	outputTypeFile        = "file"
)

// Validation errors.
var (
	ErrInvalidOutputFormat = errors.New("output format must be table, json or ndjson")
	ErrInvalidPrecision    = errors.New("output precision must be between 0 and 10")
	ErrInvalidConcurrency  = errors.New("scenario max_concurrency must be at least 1")
	ErrInvalidBatchSize    = errors.New("scenario batch_size must be between 1 and 1000")
	ErrInvalidPercent      = errors.New("offset default_percent must be in (0, 100]")
	ErrInvalidInputPolicy  = errors.New("input policy must be clamp or strict")
	ErrInvalidLogFormat    = errors.New("logging format must be json or console")
)

// Config is the complete carboncalc configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"   json:"output"`
	Logging  LoggingConfig  `yaml:"logging"  json:"logging"`
	Factors  FactorsConfig  `yaml:"factors"  json:"factors"`
	Scenario ScenarioConfig `yaml:"scenario" json:"scenario"`
	Offset   OffsetConfig   `yaml:"offset"   json:"offset"`
	Input    InputConfig    `yaml:"input"    json:"input"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
	Precision     int    `yaml:"precision"      json:"precision"`
}

// LoggingConfig controls the zerolog logger.
type LoggingConfig struct {
	Level  string `yaml:"level"  json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file"   json:"file"`
}

// FactorsConfig points at a factor override file and holds inline overrides.
// Inline overrides win over the file.
type FactorsConfig struct {
	File      string             `yaml:"file,omitempty"      json:"file,omitempty"`
	Overrides map[string]float64 `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// ScenarioConfig controls comparison concurrency and the scenario store.
type ScenarioConfig struct {
	Store          string `yaml:"store"           json:"store"`
	MaxConcurrency int    `yaml:"max_concurrency" json:"max_concurrency"`
	BatchSize      int    `yaml:"batch_size"      json:"batch_size"`
}

// OffsetConfig controls offset planning defaults.
type OffsetConfig struct {
	DefaultPercent float64 `yaml:"default_percent"        json:"default_percent"`
	CatalogFile    string  `yaml:"catalog_file,omitempty" json:"catalog_file,omitempty"`
}

// InputConfig controls how out-of-range activity values are treated.
type InputConfig struct {
	Policy string `yaml:"policy" json:"policy"`
}

// New returns a Config populated with defaults. Paths are rooted at the
// config directory when it can be determined.
func New() *Config {
	store := ScenarioStoreFileName
	if dir, err := GetConfigDir(); err == nil {
		store = filepath.Join(dir, ScenarioStoreFileName)
	}

	return &Config{
		Output: OutputConfig{
			DefaultFormat: FormatTable,
			Precision:     DefaultPrecision,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Scenario: ScenarioConfig{
			Store:          store,
			MaxConcurrency: DefaultMaxConcurrency,
			BatchSize:      DefaultBatchSize,
		},
		Offset: OffsetConfig{
			DefaultPercent: DefaultOffsetPercent,
		},
		Input: InputConfig{
			Policy: PolicyClamp,
		},
	}
}

// ValidOutputFormats lists the accepted output formats.
func ValidOutputFormats() []string {
	return []string{FormatTable, FormatJSON, FormatNDJSON}
}

// ValidateOutputFormat checks a format name.
func ValidateOutputFormat(format string) error {
	if !slices.Contains(ValidOutputFormats(), format) {
		return fmt.Errorf("%w: got %q", ErrInvalidOutputFormat, format)
	}
	return nil
}

// Validate checks every section and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if err := ValidateOutputFormat(c.Output.DefaultFormat); err != nil {
		errs = append(errs, err)
	}
	if c.Output.Precision < 0 || c.Output.Precision > MaxPrecision {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidPrecision, c.Output.Precision))
	}
	if c.Logging.Format != "" && c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidLogFormat, c.Logging.Format))
	}
	if c.Scenario.MaxConcurrency < 1 {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, c.Scenario.MaxConcurrency))
	}
	if c.Scenario.BatchSize < 1 || c.Scenario.BatchSize > MaxBatchSize {
		errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, c.Scenario.BatchSize))
	}
	if c.Offset.DefaultPercent <= 0 || c.Offset.DefaultPercent > 100 {
		errs = append(errs, fmt.Errorf("%w: got %g", ErrInvalidPercent, c.Offset.DefaultPercent))
	}
	if c.Input.Policy != PolicyClamp && c.Input.Policy != PolicyStrict {
		errs = append(errs, fmt.Errorf("%w: got %q", ErrInvalidInputPolicy, c.Input.Policy))
	}
	if _, err := ParseFactorOverrides(c.Factors.Overrides); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
