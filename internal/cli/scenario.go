package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/cli/pagination"
	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/engine/batch"
	"github.com/lioncitydevops/carbon-calculator/internal/ingest"
	"github.com/lioncitydevops/carbon-calculator/internal/scenario"
)

// scenarioSource selects where a command reads its scenarios from:
// a scenario file, the scenario store, or the built-in samples (default).
type scenarioSource struct {
	file     string
	stored   bool
	samples  bool
	baseline string
}

func (s *scenarioSource) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "scenario file (YAML or JSON)")
	cmd.Flags().BoolVar(&s.stored, "stored", false, "use scenarios from the scenario store")
	cmd.Flags().BoolVar(&s.samples, "samples", false, "use the built-in sample scenarios (default)")
	cmd.Flags().StringVar(&s.baseline, "baseline", "", "baseline scenario id (overrides the source's baseline)")
}

// storePath resolves --store, falling back to the configured store.
func storePath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("store"); p != "" {
		return p
	}
	return config.GetGlobalConfig().Scenario.Store
}

func openStore(cmd *cobra.Command) (*scenario.Store, error) {
	store, err := scenario.OpenStore(storePath(cmd))
	if err != nil {
		return nil, err
	}
	return store, nil
}

// loadSet resolves src into a scenario set. Adjustments made while reading
// a scenario file are reported on stderr.
func loadSet(ctx context.Context, cmd *cobra.Command, src scenarioSource, refs []string) (scenario.Set, error) {
	chosen := 0
	for _, set := range []bool{src.file != "", src.stored, src.samples} {
		if set {
			chosen++
		}
	}
	if chosen > 1 {
		return scenario.Set{}, errors.New("--file, --stored and --samples are mutually exclusive")
	}

	var (
		set scenario.Set
		err error
	)
	switch {
	case src.file != "":
		policy, policyErr := inputPolicy()
		if policyErr != nil {
			return scenario.Set{}, policyErr
		}
		var adjustments []ingest.Adjustment
		set, adjustments, err = scenario.LoadFile(ctx, src.file, policy)
		if err != nil {
			return scenario.Set{}, err
		}
		printAdjustments(cmd.ErrOrStderr(), adjustments)

	case src.stored:
		if src.baseline == "" {
			return scenario.Set{}, errors.New("--baseline is required with --stored")
		}
		store, openErr := openStore(cmd)
		if openErr != nil {
			return scenario.Set{}, openErr
		}
		defer store.Close()
		return store.Set(ctx, src.baseline, refs)

	default:
		set = scenario.Samples()
	}

	if src.baseline != "" {
		set.Baseline = src.baseline
	}
	if err = set.Validate(); err != nil {
		return scenario.Set{}, err
	}
	return set.Select(refs)
}

// NewScenarioCompareCmd creates the scenario compare command.
func NewScenarioCompareCmd() *cobra.Command {
	var (
		src         scenarioSource
		factorsFile string
		factors     []string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "compare [id...]",
		Short: "Compare scenarios against a baseline",
		Long: `Calculates every scenario and reports its emissions and its reduction
against the baseline. The scenario with the largest reduction is marked as
best. Naming scenario ids limits the comparison to those (the baseline is
always included).`,
		Example: `  # Compare the built-in sample scenarios
  carboncalc scenario compare --samples

  # Compare two scenarios from a file against its baseline
  carboncalc scenario compare --file scenarios.yaml solar heat-pumps

  # Compare stored scenarios
  carboncalc scenario compare --stored --baseline "FY2024"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			eng, err := buildEngine(factorsFile, factors)
			if err != nil {
				return err
			}
			set, err := loadSet(ctx, cmd, src, args)
			if err != nil {
				return err
			}

			cfg := config.GetGlobalConfig()
			cmp, err := scenario.Compare(ctx, eng, set, scenario.Options{
				MaxConcurrency: cfg.Scenario.MaxConcurrency,
				BatchSize:      cfg.Scenario.BatchSize,
				OnProgress: func(p batch.ProgressSnapshot) {
					logger.Debug().
						Ctx(ctx).
						Str("component", "cli").
						Str("operation", "scenario_compare").
						Int("processed", p.ProcessedItems).
						Int("total", p.TotalItems).
						Msg("comparison progress")
				},
			})
			if err != nil {
				return err
			}
			return RenderComparisonOutput(cmd, format, cmp, interactive)
		},
	}

	src.addFlags(cmd)
	cmd.Flags().StringVar(&factorsFile, "factors", "", "emission factor override file")
	cmd.Flags().StringArrayVar(&factors, "factor", nil, "override one factor: category=kgCO2e (repeatable)")
	cmd.Flags().BoolVar(&interactive, "interactive", false, "browse the comparison in an interactive terminal view")

	return cmd
}

// NewScenarioDiffCmd creates the scenario diff command.
func NewScenarioDiffCmd() *cobra.Command {
	var (
		src     scenarioSource
		summary bool
	)

	cmd := &cobra.Command{
		Use:   "diff <from> <to>",
		Short: "Show how two scenarios' inputs differ",
		Example: `  # Unified diff of two sample scenarios
  carboncalc scenario diff baseline ev-fleet

  # Table of changed quantities
  carboncalc scenario diff baseline combined --summary`,
		Args: cobra.ExactArgs(2), //nolint:mnd // from and to.
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}

			var from, to scenario.Scenario
			if src.stored {
				from, to, err = storedPair(ctx, cmd, args[0], args[1])
			} else {
				var set scenario.Set
				set, err = loadSet(ctx, cmd, src, nil)
				if err == nil {
					from, to, err = setPair(set, args[0], args[1])
				}
			}
			if err != nil {
				return err
			}

			changes := scenario.Changes(from, to)
			switch format {
			case engine.OutputJSON:
				if changes == nil {
					changes = []scenario.Change{}
				}
				return renderJSON(cmd.OutOrStdout(), changes)
			case engine.OutputNDJSON:
				return encodeLines(cmd.OutOrStdout(), changes)
			case engine.OutputTable:
			}

			if summary {
				return scenario.RenderChanges(cmd.OutOrStdout(), changes)
			}
			diff, err := scenario.Diff(from, to)
			if err != nil {
				return err
			}
			if diff == "" {
				diff = "No differences.\n"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
			return err
		},
	}

	src.addFlags(cmd)
	cmd.Flags().BoolVar(&summary, "summary", false, "print a table of changed quantities instead of a diff")

	return cmd
}

func setPair(set scenario.Set, a, b string) (scenario.Scenario, scenario.Scenario, error) {
	from, err := set.Find(a)
	if err != nil {
		return scenario.Scenario{}, scenario.Scenario{}, err
	}
	to, err := set.Find(b)
	if err != nil {
		return scenario.Scenario{}, scenario.Scenario{}, err
	}
	return from, to, nil
}

func storedPair(ctx context.Context, cmd *cobra.Command, a, b string) (scenario.Scenario, scenario.Scenario, error) {
	store, err := openStore(cmd)
	if err != nil {
		return scenario.Scenario{}, scenario.Scenario{}, err
	}
	defer store.Close()

	from, err := store.Get(ctx, a)
	if err != nil {
		return scenario.Scenario{}, scenario.Scenario{}, err
	}
	to, err := store.Get(ctx, b)
	if err != nil {
		return scenario.Scenario{}, scenario.Scenario{}, err
	}
	return from.Scenario, to.Scenario, nil
}

// scenarioSaveFlags holds the flags of the scenario save command.
type scenarioSaveFlags struct {
	input       string
	sets        []string
	id          string
	name        string
	description string
	file        string
	samples     bool
}

// NewScenarioSaveCmd creates the scenario save command.
func NewScenarioSaveCmd() *cobra.Command {
	var flags scenarioSaveFlags

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save scenarios to the scenario store",
		Long: `Saves one scenario built from an activity file (--input with --name), or
every scenario of a scenario file (--file) or of the built-in samples
(--samples). Saving an existing id replaces its contents.`,
		Example: `  # Save this year's inventory
  carboncalc scenario save --input fy2024.yaml --name "FY2024"

  # Save a variant with less electricity
  carboncalc scenario save --input fy2024.yaml --set electricity=250000 --name "FY2024 solar"

  # Save the sample scenarios
  carboncalc scenario save --samples`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScenarioSave(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "activity file (YAML or JSON)")
	cmd.Flags().StringArrayVar(&flags.sets, "set", nil, "set a quantity: [scope.]category=value (repeatable)")
	cmd.Flags().StringVar(&flags.id, "id", "", "scenario id (default: generated)")
	cmd.Flags().StringVar(&flags.name, "name", "", "scenario name")
	cmd.Flags().StringVar(&flags.description, "description", "", "scenario description")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "save every scenario of a scenario file")
	cmd.Flags().BoolVar(&flags.samples, "samples", false, "save the built-in sample scenarios")

	return cmd
}

func runScenarioSave(cmd *cobra.Command, flags scenarioSaveFlags) error {
	ctx := cmd.Context()

	var toSave []scenario.Scenario
	switch {
	case flags.file != "" || flags.samples:
		if flags.input != "" {
			return errors.New("--input cannot be combined with --file or --samples")
		}
		set, err := loadSet(ctx, cmd, scenarioSource{file: flags.file, samples: flags.samples}, nil)
		if err != nil {
			return err
		}
		toSave = set.Scenarios

	default:
		if flags.name == "" {
			return errors.New("--name is required when saving a single scenario")
		}
		activity, _, err := loadActivity(ctx, cmd, activitySource{input: flags.input, sets: flags.sets})
		if err != nil {
			return err
		}
		toSave = []scenario.Scenario{{
			ID:          flags.id,
			Name:        flags.name,
			Description: flags.description,
			Activity:    activity,
		}}
	}

	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	for _, sc := range toSave {
		id, saveErr := store.Save(ctx, sc)
		if saveErr != nil {
			return saveErr
		}
		cmd.Printf("Saved scenario %s (%s)\n", id, sc.DisplayName())
	}
	return nil
}

// NewScenarioListCmd creates the scenario list command.
func NewScenarioListCmd() *cobra.Command {
	var page pagination.Params

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored scenarios",
		Example: `  # Every stored scenario, by name
  carboncalc scenario list

  # The five most recently updated
  carboncalc scenario list --sort updated:desc --limit 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if err = page.Validate(); err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			all, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			sorted, err := recordSorter().Sort(all, page.Sort)
			if err != nil {
				return err
			}
			records := pagination.Apply(page, sorted)
			if err = scenario.RenderRecords(cmd.OutOrStdout(), format, records); err != nil {
				return err
			}
			if format != engine.OutputTable || len(records) == 0 {
				return nil
			}
			return printWindow(cmd, pagination.NewMeta(page, len(records), len(sorted)))
		},
	}

	page.AddFlags(cmd)
	return cmd
}

func recordSorter() *pagination.Sorter[scenario.Record] {
	return pagination.NewSorter(map[string]func(a, b scenario.Record) bool{
		"id":      func(a, b scenario.Record) bool { return a.ID < b.ID },
		"name":    func(a, b scenario.Record) bool { return a.DisplayName() < b.DisplayName() },
		"created": func(a, b scenario.Record) bool { return a.CreatedAt.Before(b.CreatedAt) },
		"updated": func(a, b scenario.Record) bool { return a.UpdatedAt.Before(b.UpdatedAt) },
	})
}

// NewScenarioShowCmd creates the scenario show command, which calculates a
// stored scenario and renders its report.
func NewScenarioShowCmd() *cobra.Command {
	var (
		factorsFile   string
		factors       []string
		equivalencies bool
	)

	cmd := &cobra.Command{
		Use:   "show <id|name>",
		Short: "Calculate and show a stored scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			eng, err := buildEngine(factorsFile, factors)
			if err != nil {
				return err
			}
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(ctx, args[0])
			if err != nil {
				return err
			}
			report, err := eng.Calculate(ctx, engine.CalculateRequest{
				Name:              rec.DisplayName(),
				Activity:          rec.Activity,
				WithEquivalencies: equivalencies,
			})
			if err != nil {
				return err
			}
			return RenderReportOutput(cmd, format, report)
		},
	}

	cmd.Flags().StringVar(&factorsFile, "factors", "", "emission factor override file")
	cmd.Flags().StringArrayVar(&factors, "factor", nil, "override one factor: category=kgCO2e (repeatable)")
	cmd.Flags().BoolVar(&equivalencies, "equivalencies", false, "include EPA equivalencies for the total")

	return cmd
}

// NewScenarioDeleteCmd creates the scenario delete command.
func NewScenarioDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id|name>",
		Short: "Delete a stored scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd)
			if err != nil {
				return err
			}
			defer store.Close()

			if err = store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("Deleted scenario %s\n", args[0])
			return nil
		},
	}
}

// NewScenarioExportCmd creates the scenario export command, which writes a
// scenario file that --file can read back.
func NewScenarioExportCmd() *cobra.Command {
	var src scenarioSource

	cmd := &cobra.Command{
		Use:   "export <path> [id...]",
		Short: "Write scenarios to a scenario file",
		Example: `  # Start a scenario file from the samples
  carboncalc scenario export scenarios.yaml --samples

  # Export stored scenarios
  carboncalc scenario export fy.yaml --stored --baseline FY2024`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := loadSet(cmd.Context(), cmd, src, args[1:])
			if err != nil {
				return err
			}
			if err = scenario.WriteFile(args[0], set); err != nil {
				return err
			}
			cmd.Printf("Wrote %d scenarios to %s\n", len(set.Scenarios), args[0])
			return nil
		},
	}

	src.addFlags(cmd)
	return cmd
}
