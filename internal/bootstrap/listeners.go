package bootstrap

import (
	"context"
	"strings"

	"github.com/zjrosen/strata/internal/infrastructure/sqlite"
	"github.com/zjrosen/strata/internal/lifecycle"
	"github.com/zjrosen/strata/internal/log"
)

// Built-in listener identifiers, matching the shipped registry table.
const (
	ListenerConfigLogger    = "config-logger"
	ListenerHistoryRecorder = "history-recorder"
)

// RunRecorder persists finished runs. *sqlite.RunRepository satisfies it.
type RunRecorder interface {
	Save(run *sqlite.Run) error
}

// Deps carries the collaborators a listener factory may need.
type Deps struct {
	// Report is filled in as the run advances; listeners firing at the
	// running or failed phase see the final values.
	Report *Report
	// History persists run records. Nil disables recording.
	History RunRecorder
}

// ListenerFactory constructs one lifecycle listener. A nil return drops the
// registration silently (the listener's prerequisites are absent).
type ListenerFactory func(deps Deps) lifecycle.Listener

// BuiltinListeners maps the shipped registry listener identifiers to their
// constructors.
func BuiltinListeners() map[string]ListenerFactory {
	return map[string]ListenerFactory{
		ListenerConfigLogger:    newConfigLogger,
		ListenerHistoryRecorder: newHistoryRecorder,
	}
}

// newConfigLogger logs an environment summary once resolution has finished.
func newConfigLogger(Deps) lifecycle.Listener {
	return lifecycle.NewListenerFunc(ListenerConfigLogger, func(_ context.Context, event lifecycle.Event) error {
		if event.Phase != lifecycle.PhaseEnvironmentPrepared || event.Environment == nil {
			return nil
		}
		sources := event.Environment.PropertySources()
		log.Info(log.CatConfig, "Environment prepared",
			"profiles", strings.Join(event.Environment.ActiveProfiles(), ","),
			"sources", strings.Join(sources.Names(), ","),
			"source-count", sources.Len())
		return nil
	})
}

// newHistoryRecorder persists a run record when the pipeline reaches the
// running phase or fails. Store errors are logged, never propagated; a
// broken history database must not fail the run it is recording.
func newHistoryRecorder(deps Deps) lifecycle.Listener {
	if deps.History == nil {
		log.Debug(log.CatStore, "History disabled, recorder not registered")
		return nil
	}
	return lifecycle.NewListenerFunc(ListenerHistoryRecorder, func(_ context.Context, event lifecycle.Event) error {
		if event.Phase != lifecycle.PhaseRunning && event.Phase != lifecycle.PhaseFailed {
			return nil
		}
		run := newRunRecord(deps.Report)
		if err := deps.History.Save(run); err != nil {
			log.ErrorErr(log.CatStore, "Failed to record run", err, "run-id", run.ID)
			return nil
		}
		log.Debug(log.CatStore, "Run recorded", "run-id", run.ID, "status", run.Status)
		return nil
	})
}

// newRunRecord converts a finished report into a history row.
func newRunRecord(report *Report) *sqlite.Run {
	run := &sqlite.Run{
		ID:           report.RunID,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Duration:     report.Duration,
		Status:       report.Status.String(),
		ConfigName:   report.ConfigName,
		Profiles:     report.Profiles,
		SourceCount:  len(report.Sources),
		Contributors: report.ContributorIDs(),
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	return run
}
