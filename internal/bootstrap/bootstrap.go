// Package bootstrap sequences one application bootstrap run: listener
// construction, lifecycle dispatch, profile resolution, contributor
// selection, and run reporting.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/strata/internal/contributor"
	"github.com/zjrosen/strata/internal/document"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/lifecycle"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/profile"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/registry"
	"github.com/zjrosen/strata/internal/resource"
	"github.com/zjrosen/strata/internal/tracing"
)

// SourceCommandLine names the property source carrying command-line inputs.
// It sits at the highest precedence, above everything resolution discovers.
const SourceCommandLine = "commandLineArgs"

// Pipeline errors.
var (
	ErrNoListeners     = errors.New("no lifecycle listeners registered")
	ErrUnknownListener = errors.New("no factory for listener")
)

// Config holds the collaborators and per-run inputs for a pipeline.
type Config struct {
	// Registry supplies listener and contributor registrations. Required.
	Registry *registry.Registry

	// Resolver locates configuration resources. Defaults to the OS resolver
	// rooted at the working directory.
	Resolver *resource.Resolver

	// Parsers is the document parser registry. Defaults to the shipped
	// YAML/properties/TOML set.
	Parsers *document.Registry

	// Flags toggles diagnostic behavior. May be nil.
	Flags *flags.Registry

	// Tracer records pipeline spans. Nil disables tracing.
	Tracer *tracing.Provider

	// Broker receives progress events. May be nil.
	Broker *pubsub.Broker[Progress]

	// History persists finished runs. Nil disables recording.
	History RunRecorder

	// Listeners maps listener registration identifiers to constructors.
	// Defaults to BuiltinListeners.
	Listeners map[string]ListenerFactory

	// Locations overrides the default search locations.
	Locations []string
	// Names overrides the default search file base name.
	Names []string
	// Profiles activates profiles from the command line. They arrive as the
	// profiles.active property of the command-line source, so they lock
	// activation ahead of any document.
	Profiles []string
	// DefaultProperties seeds the lowest-precedence sentinel source.
	DefaultProperties map[string]any
	// Excludes removes contributor candidates before condition filtering.
	Excludes []string
	// ConfigName is recorded on the run report and in history.
	ConfigName string
}

// Pipeline runs one bootstrap. Not safe for concurrent use; create one per
// run.
type Pipeline struct {
	registry  *registry.Registry
	resolver  *resource.Resolver
	parsers   *document.Registry
	flags     *flags.Registry
	tracer    *tracing.Provider
	broker    *pubsub.Broker[Progress]
	history   RunRecorder
	factories map[string]ListenerFactory

	locations  []string
	names      []string
	profiles   []string
	defaults   map[string]any
	excludes   []string
	configName string

	report      *Report
	environment *env.Environment
	dispatcher  *lifecycle.Dispatcher
	span        trace.Span
}

// New creates a pipeline from the given configuration.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("registry is required")
	}
	resolver := cfg.Resolver
	if resolver == nil {
		resolver = resource.NewOsResolver()
	}
	parsers := cfg.Parsers
	if parsers == nil {
		parsers = document.DefaultRegistry()
	}
	tracer := cfg.Tracer
	if tracer == nil {
		var err error
		tracer, err = tracing.NewProvider(tracing.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to create tracer: %w", err)
		}
	}
	factories := cfg.Listeners
	if factories == nil {
		factories = BuiltinListeners()
	}

	return &Pipeline{
		registry:   cfg.Registry,
		resolver:   resolver,
		parsers:    parsers,
		flags:      cfg.Flags,
		tracer:     tracer,
		broker:     cfg.Broker,
		history:    cfg.History,
		factories:  factories,
		locations:  cfg.Locations,
		names:      cfg.Names,
		profiles:   cfg.Profiles,
		defaults:   cfg.DefaultProperties,
		excludes:   cfg.Excludes,
		configName: cfg.ConfigName,
	}, nil
}

// Run executes the pipeline once. The returned report is non-nil whenever
// the pipeline got far enough to start, failure included.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	p.report = &Report{
		RunID:      uuid.New().String(),
		ConfigName: p.configName,
		StartedAt:  time.Now(),
		Status:     StatusCompleted,
	}

	ctx, span := p.tracer.Tracer().Start(ctx, tracing.SpanBootRun,
		trace.WithAttributes(attribute.String(tracing.AttrRunID, p.report.RunID)))
	defer span.End()
	p.span = span

	log.Info(log.CatBoot, "Bootstrap starting", "run-id", p.report.RunID, "config-name", p.sourceName())

	p.environment = env.New()
	p.seedSources()
	p.report.Environment = p.environment

	dispatcher, names, err := p.buildDispatcher()
	if err != nil {
		return p.fail(ctx, err)
	}
	p.dispatcher = dispatcher
	p.report.Listeners = names
	span.SetAttributes(attribute.Int(tracing.AttrListenerCount, dispatcher.Len()))

	if err := p.advance(ctx, lifecycle.PhaseStarting); err != nil {
		return p.fail(ctx, err)
	}

	if err := p.prepareEnvironment(ctx); err != nil {
		return p.fail(ctx, err)
	}
	p.report.Profiles = p.environment.ActiveProfiles()

	if err := p.advance(ctx, lifecycle.PhaseEnvironmentPrepared); err != nil {
		return p.fail(ctx, err)
	}
	env.MoveSentinelToEnd(p.environment.PropertySources())
	p.report.Sources = p.environment.PropertySources().Names()

	selections, err := p.selectContributors(ctx)
	if err != nil {
		return p.fail(ctx, err)
	}
	p.report.Contributors = selections

	for _, phase := range []lifecycle.Phase{
		lifecycle.PhaseContextPrepared,
		lifecycle.PhaseContextLoaded,
		lifecycle.PhaseStarted,
	} {
		if err := p.advance(ctx, phase); err != nil {
			return p.fail(ctx, err)
		}
	}

	// Durations close before the final phase so listeners firing at
	// running see the finished report.
	p.report.FinishedAt = time.Now()
	p.report.Duration = p.report.FinishedAt.Sub(p.report.StartedAt)

	if err := p.advance(ctx, lifecycle.PhaseRunning); err != nil {
		return p.fail(ctx, err)
	}

	log.Info(log.CatBoot, "Bootstrap complete",
		"run-id", p.report.RunID,
		"duration", p.report.Duration.Round(time.Millisecond),
		"profiles", strings.Join(p.report.Profiles, ","),
		"sources", len(p.report.Sources),
		"contributors", len(p.report.Contributors))
	p.publish(pubsub.RunCompleted, lifecycle.PhaseRunning, p.report.Status.String())
	return p.report, nil
}

// seedSources installs the pre-resolution property sources: the command-line
// source at the top, the default-properties sentinel at the bottom.
func (p *Pipeline) seedSources() {
	sources := p.environment.PropertySources()
	if len(p.profiles) > 0 {
		cli := env.NewPropertySource(SourceCommandLine)
		cli.Set(document.KeyActiveProfiles, strings.Join(p.profiles, ","))
		sources.AddFirst(cli)
	}
	if len(p.defaults) > 0 {
		keys := make([]string, 0, len(p.defaults))
		for k := range p.defaults {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sources.AddLast(env.NewMapSource(env.SentinelSourceName, keys, p.defaults))
	}
}

// buildDispatcher constructs the lifecycle listeners declared in the
// registry, in declaration order.
func (p *Pipeline) buildDispatcher() (*lifecycle.Dispatcher, []string, error) {
	regs := p.registry.Lookup(registry.CapabilityListener)
	if len(regs) == 0 {
		return nil, nil, ErrNoListeners
	}
	deps := Deps{Report: p.report, History: p.history}
	dispatcher := lifecycle.NewDispatcher()
	var names []string
	for _, reg := range regs {
		factory, ok := p.factories[reg.ID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownListener, reg.ID)
		}
		listener := factory(deps)
		if listener == nil {
			continue
		}
		if err := dispatcher.AddListener(listener); err != nil {
			return nil, nil, err
		}
		names = append(names, listener.Name())
	}
	return dispatcher, names, nil
}

// prepareEnvironment runs profile resolution against the destination
// environment.
func (p *Pipeline) prepareEnvironment(ctx context.Context) error {
	ctx, span := p.tracer.Tracer().Start(ctx, tracing.SpanBootEnvironment)
	defer span.End()

	engine := profile.NewEngine(p.environment, p.resolver, p.parsers, p.flags)
	if len(p.locations) > 0 {
		engine.SetSearchLocations(p.locations...)
	}
	if len(p.names) > 0 {
		engine.SetSearchNames(p.names...)
	}
	if err := engine.Run(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(
		attribute.String(tracing.AttrActiveProfiles, strings.Join(p.environment.ActiveProfiles(), ",")),
		attribute.Int(tracing.AttrSourceCount, p.environment.PropertySources().Len()),
	)
	for _, name := range p.environment.ActiveProfiles() {
		p.publish(pubsub.ProfileActivated, lifecycle.PhaseEnvironmentPrepared, name)
	}
	for _, name := range p.environment.PropertySources().Names() {
		if name == SourceCommandLine || name == env.SentinelSourceName {
			continue
		}
		p.publish(pubsub.DocumentLoaded, lifecycle.PhaseEnvironmentPrepared, name)
	}
	return nil
}

// selectContributors runs the two-pass contributor selection for this run's
// requesting source.
func (p *Pipeline) selectContributors(ctx context.Context) ([]contributor.Selection, error) {
	_, span := p.tracer.Tracer().Start(ctx, tracing.SpanBootSelection)
	defer span.End()

	selector := contributor.NewSelector(p.registry, p.environment)
	source := contributor.Source{Name: p.sourceName(), Excludes: p.excludes}
	entry, err := selector.CollectCandidates(source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	selections := selector.FlattenAndSort([]*contributor.Entry{entry})
	span.SetAttributes(attribute.Int(tracing.AttrContributorCount, len(selections)))
	log.Info(log.CatContributor, "Contributors selected",
		"count", len(selections), "excluded", len(entry.Excluded()))
	return selections, nil
}

// advance dispatches one phase and records it on the span and broker.
func (p *Pipeline) advance(ctx context.Context, phase lifecycle.Phase) error {
	event := lifecycle.Event{Phase: phase, RunID: p.report.RunID, Environment: p.environment}
	if err := p.dispatcher.Dispatch(ctx, event); err != nil {
		return err
	}
	p.span.AddEvent(tracing.EventPhaseDispatched,
		trace.WithAttributes(attribute.String(tracing.AttrPhase, phase.String())))
	p.publish(pubsub.PhaseAdvanced, phase, "")
	return nil
}

// fail finalizes the report, fires the failed phase and publishes the
// terminal event. The original error is returned alongside the report.
func (p *Pipeline) fail(ctx context.Context, err error) (*Report, error) {
	p.report.Status = StatusFailed
	p.report.Err = err
	p.report.FinishedAt = time.Now()
	p.report.Duration = p.report.FinishedAt.Sub(p.report.StartedAt)
	if p.environment != nil {
		p.report.Sources = p.environment.PropertySources().Names()
	}

	p.span.RecordError(err)
	p.span.SetStatus(codes.Error, err.Error())
	p.span.SetAttributes(attribute.String(tracing.AttrErrorMessage, err.Error()))
	log.ErrorErr(log.CatBoot, "Bootstrap failed", err, "run-id", p.report.RunID)

	if p.dispatcher != nil {
		event := lifecycle.Event{Phase: lifecycle.PhaseFailed, RunID: p.report.RunID, Environment: p.environment, Err: err}
		if derr := p.dispatcher.DispatchFailed(ctx, event); derr != nil {
			return p.report, derr
		}
	}
	p.publish(pubsub.RunCompleted, lifecycle.PhaseFailed, err.Error())
	return p.report, err
}

func (p *Pipeline) publish(eventType pubsub.EventType, phase lifecycle.Phase, detail string) {
	if p.broker == nil {
		return
	}
	p.broker.Publish(eventType, Progress{RunID: p.report.RunID, Phase: phase, Detail: detail})
}

// sourceName is the requesting-source label for contributor selection and
// logging.
func (p *Pipeline) sourceName() string {
	if p.configName != "" {
		return p.configName
	}
	return "application"
}
