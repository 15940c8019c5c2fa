package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var contributorsCmd = &cobra.Command{
	Use:   "contributors",
	Short: "Print the selected contributors in final order",
	Long: `Run the resolution pipeline and print the contributors that survived
exclusion and condition filtering, in the order constraint sorting
produced.

Examples:
  strata contributors
  strata contributors -p dev --exclude core.tracing
  strata contributors --format json`,
	RunE: runContributors,
}

func init() {
	rootCmd.AddCommand(contributorsCmd)

	contributorsCmd.Flags().StringArray("exclude", nil, "contributor ID to exclude (repeatable)")
	contributorsCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

func runContributors(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	bc, err := pipelineConfig()
	if err != nil {
		return err
	}
	bc.Excludes, _ = cmd.Flags().GetStringArray("exclude")

	report, err := runPipeline(cmd.Context(), bc)
	if err != nil {
		return err
	}

	dto := presentation.FromReport(report)
	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if format == "json" {
		return formatter.JSON(dto.Contributors)
	}
	return formatter.Selections(dto.Contributors)
}
