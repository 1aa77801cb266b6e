package cli

import (
	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/logging"
	"github.com/lioncitydevops/carbon-calculator/internal/tui"
)

// calculateFlags holds the flags of the calculate command.
type calculateFlags struct {
	input         string
	sample        bool
	sets          []string
	factorsFile   string
	factors       []string
	equivalencies bool
	interactive   bool
}

// NewCalculateCmd creates the calculate command, which runs the emissions
// engine over an activity file and/or --set values.
func NewCalculateCmd() *cobra.Command {
	var flags calculateFlags

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate Scope 1, 2 and 3 emissions",
		Long: `Calculates greenhouse gas emissions in tonnes CO2e from activity data.

Activity is read from a YAML or JSON file (--input), the built-in sample
company (--sample), or starts at zero. --set adjusts individual quantities
afterwards, e.g. --set scope2.electricity=250000 or --set diesel=0.

Negative and non-numeric quantities are clamped to zero with a warning; use
--input-policy strict to reject them instead.`,
		Example: `  # Calculate from a file
  carboncalc calculate --input activity.yaml

  # Start from the sample company and halve its electricity use
  carboncalc calculate --sample --set electricity=250000

  # Use a regional grid factor and print JSON
  carboncalc calculate --input activity.yaml --factor electricity=0.35 --output json

  # Edit quantities interactively
  carboncalc calculate --sample --interactive`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "activity file (YAML or JSON)")
	cmd.Flags().BoolVar(&flags.sample, "sample", false, "start from the built-in sample company")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "set a quantity: [scope.]category=value (repeatable)")
	cmd.Flags().StringVar(&flags.factorsFile, "factors", "", "emission factor override file")
	cmd.Flags().StringArrayVar(&flags.factors, "factor", nil, "override one factor: category=kgCO2e (repeatable)")
	cmd.Flags().BoolVar(&flags.equivalencies, "equivalencies", false, "include EPA equivalencies for the total")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "edit quantities in an interactive terminal view")

	return cmd
}

func runCalculate(cmd *cobra.Command, flags calculateFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	eng, err := buildEngine(flags.factorsFile, flags.factors)
	if err != nil {
		return err
	}

	activity, name, err := loadActivity(ctx, cmd, activitySource{
		input:  flags.input,
		sample: flags.sample,
		sets:   flags.sets,
	})
	if err != nil {
		return err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "cli").
		Str("operation", "calculate").
		Str("output_format", string(format)).
		Bool("interactive", flags.interactive).
		Msg("running calculation")

	req := engine.CalculateRequest{Name: name, Activity: activity, WithEquivalencies: flags.equivalencies}
	if format == engine.OutputTable && outputMode(cmd, flags.interactive) == tui.OutputModeInteractive {
		return runInteractiveCalculator(ctx, eng, req)
	}

	report, err := eng.Calculate(ctx, req)
	if err != nil {
		return err
	}
	return RenderReportOutput(cmd, format, report)
}
