package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/config"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv(config.EnvHome, "/opt/carboncalc")

	cfg := config.New()
	assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	assert.Equal(t, 2, cfg.Output.Precision)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, filepath.Join("/opt/carboncalc", "scenarios.db"), cfg.Scenario.Store)
	assert.Equal(t, 4, cfg.Scenario.MaxConcurrency)
	assert.Equal(t, 10, cfg.Scenario.BatchSize)
	assert.InDelta(t, 100.0, cfg.Offset.DefaultPercent, 0)
	assert.Equal(t, config.PolicyClamp, cfg.Input.Policy)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr error
	}{
		{name: "bad format", mutate: func(c *config.Config) { c.Output.DefaultFormat = "xml" }, wantErr: config.ErrInvalidOutputFormat},
		{name: "negative precision", mutate: func(c *config.Config) { c.Output.Precision = -1 }, wantErr: config.ErrInvalidPrecision},
		{name: "huge precision", mutate: func(c *config.Config) { c.Output.Precision = 11 }, wantErr: config.ErrInvalidPrecision},
		{name: "log format", mutate: func(c *config.Config) { c.Logging.Format = "text" }, wantErr: config.ErrInvalidLogFormat},
		{name: "zero concurrency", mutate: func(c *config.Config) { c.Scenario.MaxConcurrency = 0 }, wantErr: config.ErrInvalidConcurrency},
		{name: "batch too large", mutate: func(c *config.Config) { c.Scenario.BatchSize = 1001 }, wantErr: config.ErrInvalidBatchSize},
		{name: "zero percent", mutate: func(c *config.Config) { c.Offset.DefaultPercent = 0 }, wantErr: config.ErrInvalidPercent},
		{name: "percent over 100", mutate: func(c *config.Config) { c.Offset.DefaultPercent = 120 }, wantErr: config.ErrInvalidPercent},
		{name: "policy", mutate: func(c *config.Config) { c.Input.Policy = "ignore" }, wantErr: config.ErrInvalidInputPolicy},
		{
			name:    "unknown override",
			mutate:  func(c *config.Config) { c.Factors.Overrides = map[string]float64{"coal": 1} },
			wantErr: config.ErrInvalidFactorOverride,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.wantErr)
		})
	}
}

func TestValidate_JoinsErrors(t *testing.T) {
	cfg := config.New()
	cfg.Output.DefaultFormat = "xml"
	cfg.Scenario.MaxConcurrency = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidOutputFormat)
	assert.ErrorIs(t, err, config.ErrInvalidConcurrency)
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	t.Setenv(config.EnvOutputFormat, "")
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvLogFormat, "")
	t.Setenv(config.EnvInputPolicy, "")

	t.Run("missing default file uses defaults", func(t *testing.T) {
		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.FormatTable, cfg.Output.DefaultFormat)
	})

	t.Run("default file is read", func(t *testing.T) {
		path := filepath.Join(home, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("output:\n  default_format: json\n"), 0o600))
		t.Cleanup(func() { _ = os.Remove(path) })

		cfg, err := config.Load("")
		require.NoError(t, err)
		assert.Equal(t, config.FormatJSON, cfg.Output.DefaultFormat)
		assert.Equal(t, 2, cfg.Output.Precision)
	})

	t.Run("missing explicit file errors", func(t *testing.T) {
		_, err := config.Load(filepath.Join(home, "absent.yaml"))
		require.Error(t, err)
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("input:\n  policy: clamp\n"), 0o600))
		t.Setenv(config.EnvInputPolicy, "STRICT")
		t.Setenv(config.EnvOutputFormat, "ndjson")

		cfg, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, config.PolicyStrict, cfg.Input.Policy)
		assert.Equal(t, config.FormatNDJSON, cfg.Output.DefaultFormat)
	})

	t.Run("invalid values rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "c.yaml")
		require.NoError(t, os.WriteFile(path, []byte("scenario:\n  max_concurrency: 0\n"), 0o600))

		_, err := config.Load(path)
		assert.ErrorIs(t, err, config.ErrInvalidConcurrency)
	})
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := config.New()
	cfg.Output.Precision = 3
	cfg.Factors.Overrides = map[string]float64{"electricity": 0.3}
	require.NoError(t, cfg.Save(path))

	loaded := config.New()
	require.NoError(t, config.ShallowMergeYAML(loaded, path))
	assert.Equal(t, 3, loaded.Output.Precision)
	assert.Equal(t, map[string]float64{"electricity": 0.3}, loaded.Factors.Overrides)
}
