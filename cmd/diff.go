package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var (
	diffProfiles []string
	diffAgainst  []string
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare effective views between two profile sets",
	Long: `Resolve the configuration twice, once per profile set, and print the keys
that were added, removed or changed. An empty --profiles side means the
base configuration.

Examples:
  strata diff --against prod                 # base vs prod
  strata diff --profiles dev --against prod
  strata diff --profiles a,b --against c --format json`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().StringSliceVar(&diffProfiles, "profiles", nil,
		"left-side profiles (comma separated, empty for base)")
	diffCmd.Flags().StringSliceVar(&diffAgainst, "against", nil,
		"right-side profiles (comma separated)")
	diffCmd.Flags().String("format", "", "output format: text or json (overrides config)")
	_ = diffCmd.MarkFlagRequired("against")
}

func runDiff(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}

	left, err := effectiveView(cmd.Context(), diffProfiles)
	if err != nil {
		return err
	}
	right, err := effectiveView(cmd.Context(), diffAgainst)
	if err != nil {
		return err
	}

	lines := presentation.DiffViews(left, right)
	if format == "json" {
		return presentation.NewFormatter(cmd.OutOrStdout()).JSON(presentation.FromDiff(lines))
	}
	_, err = presentation.RenderDiff(cmd.OutOrStdout(), lines)
	return err
}

// effectiveView resolves one side of the diff and returns its merged view.
func effectiveView(ctx context.Context, profiles []string) (map[string]string, error) {
	bc, err := pipelineConfig()
	if err != nil {
		return nil, err
	}
	bc.Profiles = profiles

	report, err := runPipeline(ctx, bc)
	if err != nil {
		return nil, err
	}
	values, _ := report.Environment.Merged()
	return values, nil
}
