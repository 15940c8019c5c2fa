package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/strata/internal/presentation"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded bootstrap runs",
	Long: `List runs recorded in the history store, newest first. Each full run and
each watch-mode reload records one row.

Examples:
  strata history
  strata history --limit 5
  strata history --format json`,
	RunE: runHistoryCmd,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum runs to list")
	historyCmd.Flags().String("format", "", "output format: text or json (overrides config)")
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	format, err := resolveFormat(cmd)
	if err != nil {
		return err
	}
	db, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	if db == nil {
		return fmt.Errorf("run history is disabled; set history.enabled in %s", localConfigPath)
	}
	defer func() { _ = db.Close() }()

	runs, err := db.RunRepository().List(historyLimit)
	if err != nil {
		return err
	}

	dtos := presentation.FromRuns(runs)
	formatter := presentation.NewFormatter(cmd.OutOrStdout())
	if format == "json" {
		return formatter.JSON(dtos)
	}
	if len(dtos) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), presentation.MutedStyle.Render("no recorded runs"))
		return nil
	}
	return formatter.Runs(dtos)
}
