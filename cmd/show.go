package cmd

import (
	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var showVerbose bool

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration view",
	Long: `Run the resolution pipeline and print the merged key=value view, the
highest-precedence source winning per key.

Examples:
  strata show
  strata show --verbose            # include the winning source per key
  strata show -p dev --format json`,
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolVarP(&showVerbose, "verbose", "v", false,
		"include per-key source attribution")
	showCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

func runShow(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	bc, err := pipelineConfig()
	if err != nil {
		return err
	}
	report, err := runPipeline(cmd.Context(), bc)
	if err != nil {
		return err
	}

	props := presentation.FromEnvironment(report.Environment)
	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if format == "json" {
		return formatter.JSON(props)
	}
	return formatter.Properties(props, showVerbose || cfg.Output.Verbose)
}
