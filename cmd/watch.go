package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/strata/internal/bootstrap"
	"github.com/zjrosen/strata/internal/document"
	"github.com/zjrosen/strata/internal/infrastructure/sqlite"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/presentation"
	"github.com/zjrosen/strata/internal/profile"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/resource"
	"github.com/zjrosen/strata/internal/tracing"
	"github.com/zjrosen/strata/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve when configuration files change",
	Long: `Run the pipeline, then keep watching the candidate configuration files and
re-run on every change. Rapid edits are debounced into one reload. Each
run records history like a normal run; reloads print what changed in the
effective view instead of repeating the full report.

Press Ctrl+C to stop.

Examples:
  strata watch
  strata watch -p dev --location file:./config/`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	db, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	if db != nil {
		defer func() { _ = db.Close() }()
	}

	broker := pubsub.NewBroker[bootstrap.Progress]()
	defer broker.Close()

	report, lastView := watchRun(cmd, db, broker, nil)

	// Document-activated profiles add candidate files beyond the command
	// line's, so the watch set comes from the first run's outcome.
	profiles := slices.Clone(flagProfiles)
	if report != nil {
		for _, p := range report.Profiles {
			if !slices.Contains(profiles, p) {
				profiles = append(profiles, p)
			}
		}
	}

	paths := watchPaths(profiles)
	if len(paths) == 0 {
		return fmt.Errorf("no watchable configuration files")
	}
	w, err := watcher.New(watcher.Config{
		Paths:    paths,
		Debounce: time.Duration(cfg.Watch.DebounceMs) * time.Millisecond,
	})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, presentation.MutedStyle.Render(
		fmt.Sprintf("watching %d files, press Ctrl+C to stop", len(paths))))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-changes:
			fmt.Fprintln(out)
			fmt.Fprintln(out, presentation.MutedStyle.Render(
				"change detected at "+time.Now().Format(time.TimeOnly)))
			broker.Publish(pubsub.ReloadTriggered,
				bootstrap.Progress{Detail: "configuration changed"})
			if _, view := watchRun(cmd, db, broker, lastView); view != nil {
				lastView = view
			}
		case sig := <-sigCh:
			fmt.Fprintf(out, "\nReceived %s, stopping watch\n", sig)
			return nil
		case <-cmd.Context().Done():
			return nil
		}
	}
}

// watchRun performs one pipeline run. With no previous view it renders the
// full report; reloads render a status line plus the effective-view diff
// against the last successful run. Failures do not stop watch mode; the next
// change retries.
func watchRun(cmd *cobra.Command, db *sqlite.DB, broker *pubsub.Broker[bootstrap.Progress], prevView map[string]string) (*bootstrap.Report, map[string]string) {
	out := cmd.OutOrStdout()
	bc, err := pipelineConfig()
	if err != nil {
		fmt.Fprintln(out, presentation.ErrorStyle.Render(err.Error()))
		return nil, nil
	}
	bc.Broker = broker
	if db != nil {
		bc.History = db.RunRepository()
	}

	var report *bootstrap.Report
	if prevView == nil {
		report, err = runPipeline(cmd.Context(), bc)
	} else {
		report, err = runReload(cmd.Context(), bc)
	}
	if err != nil {
		fmt.Fprintln(out, presentation.ErrorStyle.Render("resolution failed: "+err.Error()))
		return report, nil
	}
	view, _ := report.Environment.Merged()

	if prevView == nil {
		_ = presentation.NewFormatter(out).Report(presentation.FromReport(report))
		return report, view
	}

	fmt.Fprintf(out, "%s  %s\n",
		presentation.TitleStyle.Render("Bootstrap "+report.Status.String()),
		presentation.MutedStyle.Render(fmt.Sprintf("%s  %dms", report.RunID, report.Duration.Milliseconds())))
	_, _ = presentation.RenderDiff(out, presentation.DiffViews(prevView, view))
	return report, view
}

// runReload executes one watch-mode re-resolution under a reload span, so
// the run's phases nest beneath it, then flushes the tracer.
func runReload(ctx context.Context, bc bootstrap.Config) (*bootstrap.Report, error) {
	p, err := bootstrap.New(bc)
	if err != nil {
		return nil, err
	}
	ctx, span := bc.Tracer.Tracer().Start(ctx, tracing.SpanWatchReload)
	report, runErr := p.Run(ctx)
	span.End()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := bc.Tracer.Shutdown(shutdownCtx); err != nil {
		log.Warn(log.CatTrace, "Tracer shutdown failed", "error", err.Error())
	}
	return report, runErr
}

// watchPaths expands the search space to concrete paths the watcher can
// monitor: every file-backed candidate plus the registry and tool config
// files.
func watchPaths(profiles []string) []string {
	resolver := resource.NewOsResolver()
	candidates := profile.Candidates(flagLocations, flagNames, profiles, document.DefaultRegistry())
	var paths []string
	for _, loc := range candidates {
		if path, ok := resolver.FilePath(loc); ok {
			paths = append(paths, path)
		}
	}
	if registryFile != "" {
		paths = append(paths, registryFile)
	}
	if used := viper.ConfigFileUsed(); used != "" {
		paths = append(paths, used)
	}
	return paths
}
