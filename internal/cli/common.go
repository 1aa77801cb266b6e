package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/cli/pagination"
	"github.com/lioncitydevops/carbon-calculator/internal/config"
	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/internal/ingest"
	"github.com/lioncitydevops/carbon-calculator/internal/scenario"
	"github.com/lioncitydevops/carbon-calculator/internal/tui"
)

// outputFormat resolves --output, falling back to the configured default.
func outputFormat(cmd *cobra.Command) (engine.OutputFormat, error) {
	format, _ := cmd.Flags().GetString("output")
	if format == "" {
		format = config.GetDefaultOutputFormat()
	}
	return engine.ParseOutputFormat(format)
}

// outputMode picks plain, styled or interactive rendering for table output.
func outputMode(cmd *cobra.Command, interactive bool) tui.OutputMode {
	plain, _ := cmd.Flags().GetBool("plain")
	noColor, _ := cmd.Flags().GetBool("no-color")
	return tui.DetectOutputMode(plain, noColor, interactive)
}

func inputPolicy() (ingest.Policy, error) {
	return ingest.ParsePolicy(config.GetInputPolicy())
}

// buildEngine layers the configured factor overrides, the --factors file and
// any --factor values onto the default table.
func buildEngine(factorsFile string, factorFlags []string) (*engine.Engine, error) {
	extra := make(map[emissions.Category]float64, len(factorFlags))
	for _, f := range factorFlags {
		c, v, err := config.ParseFactorFlag(f)
		if err != nil {
			return nil, err
		}
		extra[c] = v
	}

	factors, err := config.GetGlobalConfig().EffectiveFactors(factorsFile, extra)
	if err != nil {
		return nil, fmt.Errorf("building factor table: %w", err)
	}
	return engine.New(factors), nil
}

// activitySource describes where calculate reads its activity from.
type activitySource struct {
	input  string
	sample bool
	sets   []string
}

// loadActivity reads the activity for src and applies its --set values.
// Adjustments made under the clamp policy are reported on stderr.
func loadActivity(ctx context.Context, cmd *cobra.Command, src activitySource) (emissions.Activity, string, error) {
	policy, err := inputPolicy()
	if err != nil {
		return emissions.Activity{}, "", err
	}

	var (
		activity    = emissions.ZeroActivity()
		name        string
		adjustments []ingest.Adjustment
	)
	switch {
	case src.input != "" && src.sample:
		return emissions.Activity{}, "", errors.New("--input and --sample cannot be used together")
	case src.input != "":
		activity, adjustments, err = ingest.LoadActivity(ctx, src.input, policy)
		if err != nil {
			return emissions.Activity{}, "", err
		}
		name = strings.TrimSuffix(filepath.Base(src.input), filepath.Ext(src.input))
	case src.sample:
		base, baseErr := scenario.Samples().BaselineScenario()
		if baseErr != nil {
			return emissions.Activity{}, "", baseErr
		}
		activity, name = base.Activity, base.Name
	}

	activity, setAdjustments, err := ingest.ApplySet(ctx, activity, src.sets, policy)
	if err != nil {
		return emissions.Activity{}, "", err
	}
	printAdjustments(cmd.ErrOrStderr(), append(adjustments, setAdjustments...))
	return activity, name, nil
}

func printAdjustments(w io.Writer, adjustments []ingest.Adjustment) {
	for _, a := range adjustments {
		_, _ = fmt.Fprintf(w, "Warning: %s: %s (%q)\n", a.Field, a.Reason, a.Raw)
	}
}

// renderJSON writes v as indented JSON.
func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// printWindow notes a truncated table listing.
func printWindow(cmd *cobra.Command, meta pagination.Meta) error {
	if !meta.Partial() {
		return nil
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "\n%s\n", meta)
	return err
}
