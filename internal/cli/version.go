package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lioncitydevops/carbon-calculator/internal/engine"
	"github.com/lioncitydevops/carbon-calculator/pkg/version"
)

// NewVersionCmd creates the version command. ver is the version the root
// command was built with; the remaining fields come from the build.
func NewVersionCmd(ver string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the carboncalc version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetInfo()
			info.Version = ver

			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			if format != engine.OutputTable {
				return renderJSON(cmd.OutOrStdout(), info)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "carboncalc %s\n  commit: %s\n  built:  %s\n  go:     %s %s\n",
				info.Version, info.GitCommit, info.BuildDate, info.GoVersion, info.Platform)
			return err
		},
	}
}
