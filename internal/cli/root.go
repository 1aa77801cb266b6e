// Package cli implements the carboncalc command line.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the carboncalc CLI.
// It loads configuration, wires up logging and registers the subcommands.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "carboncalc",
		Short:         "Greenhouse gas emissions calculator",
		Long:          "carboncalc: Estimate Scope 1, 2 and 3 emissions, compare reduction scenarios and price carbon offsets",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := loadConfig(cmd); err != nil {
				return err
			}
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "config file (default ~/.carboncalc/config.yaml)")
	cmd.PersistentFlags().StringP("output", "o", "", "output format: table, json or ndjson (default from config)")
	cmd.PersistentFlags().String("input-policy", "", "handling of negative or non-numeric input: clamp or strict")
	cmd.PersistentFlags().Bool("plain", false, "disable styled terminal output")
	cmd.PersistentFlags().Bool("no-color", false, "disable colors")

	cmd.AddCommand(
		NewCalculateCmd(),
		newFactorsCmd(),
		newOffsetCmd(),
		newScenarioCmd(),
		newConfigCmd(),
		NewGuideCmd(),
		NewVersionCmd(ver),
	)

	return cmd
}

const rootCmdExample = `  # Calculate emissions from an activity file
  carboncalc calculate --input activity.yaml

  # Adjust a single quantity and show EPA equivalencies
  carboncalc calculate --input activity.yaml --set scope2.electricity=250000 --equivalencies

  # Compare the built-in reduction scenarios
  carboncalc scenario compare --samples

  # Price offsetting half of 150 tCO2e across two projects
  carboncalc offset quote --emissions 150 --percent 50 \
    --project "Reforestation - Amazon" --project "Wind Power - India"

  # Show the emission factors in use
  carboncalc factors list --output json`

// loadConfig reads the config file named by --config (or the default path)
// and installs it as the global configuration. Command-line flags that
// shadow config values are applied on top.
func loadConfig(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	if policy, _ := cmd.Flags().GetString("input-policy"); policy != "" {
		cfg.Input.Policy = policy
		if err = cfg.Validate(); err != nil {
			return err
		}
	}

	config.SetGlobalConfig(cfg)
	return nil
}

// newFactorsCmd creates the factors command group.
func newFactorsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "factors", Short: "Emission factor commands"}
	cmd.AddCommand(NewFactorsListCmd())
	return cmd
}

// newOffsetCmd creates the offset command group.
func newOffsetCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "offset", Short: "Carbon offset commands"}
	cmd.AddCommand(NewOffsetProjectsCmd(), NewOffsetQuoteCmd())
	return cmd
}

// newScenarioCmd creates the scenario command group.
func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "scenario", Short: "Scenario comparison and storage commands"}
	cmd.PersistentFlags().String("store", "", "scenario store database (default from config)")
	cmd.AddCommand(
		NewScenarioCompareCmd(), NewScenarioDiffCmd(), NewScenarioExportCmd(),
		NewScenarioSaveCmd(), NewScenarioListCmd(),
		NewScenarioShowCmd(), NewScenarioDeleteCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
