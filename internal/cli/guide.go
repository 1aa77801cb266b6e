package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/emissions"
	"github.com/lioncitydevops/carbon-calculator/internal/greenops"
)

// Guide topics.
const (
	TopicScopes    = "scopes"
	TopicFactors   = "factors"
	TopicTips      = "tips"
	TopicOffsets   = "offsets"
	TopicStandards = "standards"
)

// GuideTopics lists the guide topics in display order.
func GuideTopics() []string {
	return []string{TopicScopes, TopicFactors, TopicTips, TopicOffsets, TopicStandards}
}

// NewGuideCmd creates the guide command, which prints reference material on
// emission scopes, factors and offsetting.
func NewGuideCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "guide [topic]",
		Short:     "Reference guide to scopes, factors, tips, offsets and standards",
		Long:      "Prints reference material. Without a topic every topic is printed. Topics: " + strings.Join(GuideTopics(), ", "),
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: GuideTopics(),
		RunE: func(cmd *cobra.Command, args []string) error {
			topics := GuideTopics()
			if len(args) == 1 {
				topic := strings.ToLower(args[0])
				if !slices.Contains(topics, topic) {
					return fmt.Errorf("unknown guide topic %q (topics: %s)", args[0], strings.Join(topics, ", "))
				}
				topics = []string{topic}
			}
			for i, topic := range topics {
				if i > 0 {
					if _, err := fmt.Fprintln(cmd.OutOrStdout()); err != nil {
						return err
					}
				}
				if err := WriteGuideTopic(cmd.OutOrStdout(), topic); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// WriteGuideTopic writes one guide topic to w.
func WriteGuideTopic(w io.Writer, topic string) error {
	switch topic {
	case TopicScopes:
		return writeScopesGuide(w)
	case TopicFactors:
		return writeFactorsGuide(w)
	case TopicTips:
		_, err := io.WriteString(w, tipsGuide)
		return err
	case TopicOffsets:
		_, err := io.WriteString(w, offsetsGuide)
		return err
	case TopicStandards:
		_, err := io.WriteString(w, standardsGuide)
		return err
	default:
		return fmt.Errorf("unknown guide topic %q", topic)
	}
}

func writeScopesGuide(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "UNDERSTANDING EMISSION SCOPES"); err != nil {
		return err
	}
	for _, s := range emissions.Scopes() {
		labels := make([]string, 0, len(emissions.CategoriesFor(s)))
		for _, c := range emissions.CategoriesFor(s) {
			labels = append(labels, c.Label())
		}
		if _, err := fmt.Fprintf(w, "\n%s\n  %s\n  Categories: %s\n",
			s.Title(), s.Description(), strings.Join(labels, ", ")); err != nil {
			return err
		}
	}
	return nil
}

// writeFactorsGuide prints the built-in factor table, so the guide always
// matches what the calculator uses.
func writeFactorsGuide(w io.Writer) error {
	if _, err := fmt.Fprint(w, "EMISSION FACTORS USED\n\n"+
		"Factors follow GHG Protocol and EPA guidance. They are global averages;\n"+
		"actual factors vary by region and energy mix. Override them with\n"+
		"--factor or a factor file.\n\n"); err != nil {
		return err
	}

	factors := emissions.DefaultFactors()
	tw := tabwriter.NewWriter(w, 0, 0, tabwriterPadding, ' ', 0)
	for _, c := range emissions.AllCategories() {
		v, _ := factors.Get(c)
		if _, err := fmt.Fprintf(tw, "  %s\t%s kg CO2e/%s\n",
			c.Label(), greenops.FormatFloat(v, factorDigits(v)), c.Unit()); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func factorDigits(v float64) int {
	const small = 0.01
	if v != 0 && v < small {
		return 4
	}
	return 3
}

const tabwriterPadding = 2

const tipsGuide = `CALCULATOR TIPS

  1. Start with Scope 1 and 2 emissions: they are easier to measure and verify.
  2. For Scope 3, use spend-based estimates for purchased goods when activity
     data is unavailable.
  3. Transport distances should cover the full journey, origin to destination.
  4. Annualize employee commuting: daily distance x working days x employees.

QUICK TIPS

  * All results are in tonnes of CO2 equivalent (tCO2e).
  * Reduce before you offset; aim for at least a 50% reduction.
  * Use 'carboncalc scenario compare' to evaluate reduction strategies.
  * Save results with 'carboncalc scenario save' to track them over time.
  * Scope 3 is typically 70-90% of an organization's total emissions.
`

const offsetsGuide = `CARBON OFFSET GUIDELINES

Quality criteria:
  Additionality        The project would not have happened without carbon finance.
  Permanence           Carbon removal is long-lasting, especially for nature-based projects.
  Verification         Third-party certification (VCS, Gold Standard, Puro.earth).
  No double counting   Credits are not claimed by more than one party.

See 'carboncalc offset projects' for the catalog and 'carboncalc offset quote'
to price a purchase.
`

const standardsGuide = `COMPLIANCE STANDARDS REFERENCE

  GHG Protocol   The global standard for greenhouse gas accounting (Scope 1, 2, 3).
  ISO 14064      International standard for GHG inventories and verification.
  SBTi           Science Based Targets: reduction targets aligned with the Paris Agreement.
  CDP            Global disclosure system for environmental reporting.
`
