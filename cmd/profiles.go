package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Print the resolved profile activation",
	Long: `Run the resolution pipeline and print which profiles ended up active, in
resolution order. When nothing activates a profile the default profiles
apply instead.

Examples:
  strata profiles
  strata profiles -p dev       # see what dev pulls in via profiles.include
  strata profiles --format json`,
	RunE: runProfiles,
}

func init() {
	rootCmd.AddCommand(profilesCmd)

	profilesCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

// profilesOutput is the JSON shape for the profiles command.
type profilesOutput struct {
	Active  []string `json:"active"`
	Default []string `json:"default"`
}

func runProfiles(cmd *cobra.Command, _ []string) error {
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

	out := profilesOutput{
		Active:  report.Environment.ActiveProfiles(),
		Default: report.Environment.DefaultProfiles(),
	}
	if format == "json" {
		return presentation.NewFormatter(cmd.OutOrStdout()).JSON(out)
	}

	w := cmd.OutOrStdout()
	if len(out.Active) == 0 {
		fmt.Fprintln(w, presentation.MutedStyle.Render("no active profiles, defaults apply"))
		fmt.Fprintf(w, "%s %s\n",
			presentation.LabelStyle.Render("default"),
			presentation.ValueStyle.Render(strings.Join(out.Default, ", ")))
		return nil
	}
	fmt.Fprintf(w, "%s  %s\n",
		presentation.LabelStyle.Render("active"),
		presentation.ValueStyle.Render(strings.Join(out.Active, ", ")))
	return nil
}
