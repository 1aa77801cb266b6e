package cli

import (
	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/engine"
)

// NewFactorsListCmd creates the factors list command, which prints the
// effective emission factor table. Overridden factors are marked with '*'.
func NewFactorsListCmd() *cobra.Command {
	var (
		factorsFile string
		factors     []string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the emission factors in use",
		Example: `  # Built-in factors
  carboncalc factors list

  # Factors after applying an override file
  carboncalc factors list --factors factors.yaml --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			eng, err := buildEngine(factorsFile, factors)
			if err != nil {
				return err
			}
			return engine.RenderFactors(cmd.OutOrStdout(), format, eng.FactorRows())
		},
	}

	cmd.Flags().StringVar(&factorsFile, "factors", "", "emission factor override file")
	cmd.Flags().StringArrayVar(&factors, "factor", nil, "override one factor: category=kgCO2e (repeatable)")

	return cmd
}
