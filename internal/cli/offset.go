package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/cli/pagination"
	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
	"github.com/lioncitydevops/carbon-calculator/internal/offset"
)

// catalogFromConfig returns the catalog named by path, the configured
// catalog file, or the built-in catalog.
func catalogFromConfig(path string) (*offset.Catalog, error) {
	if path == "" {
		path = config.GetGlobalConfig().Offset.CatalogFile
	}
	if path == "" {
		return offset.DefaultCatalog(), nil
	}
	return offset.LoadCatalog(path)
}

// NewOffsetProjectsCmd creates the offset projects command, which lists the
// offset catalog.
func NewOffsetProjectsCmd() *cobra.Command {
	var (
		projectType string
		catalogPath string
		page        pagination.Params
	)

	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List carbon offset projects",
		Example: `  # All projects
  carboncalc offset projects

  # Only technology-based removals
  carboncalc offset projects --type Technology

  # The three cheapest projects
  carboncalc offset projects --sort price --limit 3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err = page.Validate(); err != nil {
				return err
			}
			catalog, err := catalogFromConfig(catalogPath)
			if err != nil {
				return err
			}

			filtered, err := projectSorter().Sort(catalog.Filter(projectType), page.Sort)
			if err != nil {
				return err
			}
			projects := pagination.Apply(page, filtered)
			switch format {
			case engine.OutputJSON:
				if projects == nil {
					projects = []offset.Project{}
				}
				return offset.RenderJSON(cmd.OutOrStdout(), projects)
			case engine.OutputNDJSON:
				return encodeLines(cmd.OutOrStdout(), projects)
			case engine.OutputTable:
			}
			if len(filtered) == 0 {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "No projects of type %q. Types: %s\n",
					projectType, strings.Join(catalog.Types(), ", "))
				return err
			}
			if len(projects) > 0 {
				if err = offset.RenderProjectsTable(cmd.OutOrStdout(), projects); err != nil {
					return err
				}
			}
			return printWindow(cmd, pagination.NewMeta(page, len(projects), len(filtered)))
		},
	}

	cmd.Flags().StringVar(&projectType, "type", "", "only list projects of this type")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "offset catalog file (default: built-in catalog)")
	page.AddFlags(cmd)

	return cmd
}

func projectSorter() *pagination.Sorter[offset.Project] {
	return pagination.NewSorter(map[string]func(a, b offset.Project) bool{
		"name":     func(a, b offset.Project) bool { return a.Name < b.Name },
		"type":     func(a, b offset.Project) bool { return a.Type < b.Type },
		"price":    func(a, b offset.Project) bool { return a.PricePerTonne < b.PricePerTonne },
		"location": func(a, b offset.Project) bool { return a.Location < b.Location },
	})
}

// offsetQuoteFlags holds the flags of the offset quote command.
type offsetQuoteFlags struct {
	emissions   string
	fromInput   string
	sample      bool
	factorsFile string
	projects    []string
	percent     float64
	catalogPath string
}

// NewOffsetQuoteCmd creates the offset quote command, which prices
// offsetting a share of an emissions total across projects.
func NewOffsetQuoteCmd() *cobra.Command {
	var flags offsetQuoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price an offset purchase",
		Long: `Prices offsetting a percentage of an emissions total. The tonnes to offset
are split equally across the selected projects and each share is priced at
the project's price per tonne.

The total comes from --emissions (tCO2e unless a unit such as kg, t or lb
is given), or is calculated from an activity file (--from-input) or the
sample company (--sample).`,
		Example: `  # Offset all of 150 tCO2e through one project
  carboncalc offset quote --emissions 150 --project "Reforestation - Amazon"

  # Quote from a total given in kilograms
  carboncalc offset quote --emissions "2,500 kg" --project "Solar Farm - Kenya"

  # Offset half of a calculated total across two projects
  carboncalc offset quote --from-input activity.yaml --percent 50 \
    --project "Wind Power - India" --project "Biochar - USA"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runOffsetQuote(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.emissions, "emissions", "",
		"emissions to offset from, e.g. 150 (tCO2e) or \"2500 kg\"")
	cmd.Flags().StringVar(&flags.fromInput, "from-input", "", "calculate the emissions total from an activity file")
	cmd.Flags().BoolVar(&flags.sample, "sample", false, "calculate the emissions total for the sample company")
	cmd.Flags().StringVar(&flags.factorsFile, "factors", "", "emission factor override file for --from-input")
	cmd.Flags().StringArrayVarP(&flags.projects, "project", "p", nil, "offset project name (repeatable)")
	cmd.Flags().Float64Var(&flags.percent, "percent", config.DefaultOffsetPercent,
		"percentage of emissions to offset, in (0, 100] (default from config)")
	cmd.Flags().StringVar(&flags.catalogPath, "catalog", "", "offset catalog file (default: built-in catalog)")

	return cmd
}

func runOffsetQuote(cmd *cobra.Command, flags offsetQuoteFlags) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	sources := 0
	for _, set := range []bool{cmd.Flags().Changed("emissions"), flags.fromInput != "", flags.sample} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return errors.New("exactly one of --emissions, --from-input or --sample is required")
	}

	var tonnes float64
	if cmd.Flags().Changed("emissions") {
		if tonnes, err = parseEmissions(flags.emissions); err != nil {
			return err
		}
	} else {
		eng, engErr := buildEngine(flags.factorsFile, nil)
		if engErr != nil {
			return engErr
		}
		activity, name, loadErr := loadActivity(ctx, cmd, activitySource{input: flags.fromInput, sample: flags.sample})
		if loadErr != nil {
			return loadErr
		}
		report, calcErr := eng.Calculate(ctx, engine.CalculateRequest{Name: name, Activity: activity})
		if calcErr != nil {
			return calcErr
		}
		tonnes = report.Result.TotalEmissions
	}

	percent := flags.percent
	if !cmd.Flags().Changed("percent") {
		percent = config.GetGlobalConfig().Offset.DefaultPercent
	}

	catalog, err := catalogFromConfig(flags.catalogPath)
	if err != nil {
		return err
	}
	projects, err := catalog.Select(flags.projects)
	if err != nil {
		return fmt.Errorf("%w (see 'carboncalc offset projects')", err)
	}

	plan, err := offset.NewPlan(tonnes, percent, projects)
	if err != nil {
		return err
	}

	logger.Debug().
		Ctx(ctx).
		Str("component", "cli").
		Str("operation", "offset_quote").
		Float64("to_offset", plan.ToOffset).
		Int("projects", len(plan.Lines)).
		Msg("priced offset plan")

	switch format {
	case engine.OutputJSON:
		return offset.RenderJSON(cmd.OutOrStdout(), plan)
	case engine.OutputNDJSON:
		if err = encodeLines(cmd.OutOrStdout(), plan.Lines); err != nil {
			return err
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(struct {
			Type string `json:"type"`
			offset.Plan
		}{Type: "summary", Plan: plan})
	case engine.OutputTable:
	}
	return offset.RenderPlanTable(cmd.OutOrStdout(), plan, config.GetOutputPrecision())
}

// parseEmissions reads a --emissions quantity and returns it in tonnes.
// Negative totals are left for offset.NewPlan to reject.
func parseEmissions(raw string) (float64, error) {
	q, err := greenops.ParseQuantity(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid --emissions: %w", err)
	}
	if q.Value < 0 {
		return q.Value, nil
	}
	tonnes, err := greenops.NormalizeToTonnes(q.Value, q.Unit)
	if err != nil {
		return 0, fmt.Errorf("invalid --emissions %q: %w", raw, err)
	}
	return tonnes, nil
}

// encodeLines writes one JSON object per element.
func encodeLines[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encoding line: %w", err)
		}
	}
	return nil
}
