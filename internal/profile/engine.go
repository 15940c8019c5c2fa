package profile

import (
	"context"
	"strings"

	"github.com/zjrosen/strata/internal/document"
	"github.com/zjrosen/strata/internal/env"
	"github.com/zjrosen/strata/internal/flags"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/resource"
)

// Engine drives one profile resolution run against a destination
// environment. Not safe for concurrent use; create one per run.
type Engine struct {
	environment *env.Environment
	resolver    *resource.Resolver
	parsers     *document.Registry
	loader      *document.Loader
	flags       *flags.Registry

	locations []string
	names     []string

	state *resolutionState
}

// NewEngine creates an engine over the given collaborators. featureFlags may
// be nil.
func NewEngine(environment *env.Environment, resolver *resource.Resolver, parsers *document.Registry, featureFlags *flags.Registry) *Engine {
	return &Engine{
		environment: environment,
		resolver:    resolver,
		parsers:     parsers,
		loader:      document.NewLoader(environment, featureFlags),
		flags:       featureFlags,
	}
}

// SetSearchLocations overrides the built-in default search locations. The
// config.location property still replaces this override entirely.
func (e *Engine) SetSearchLocations(locations ...string) {
	e.locations = locations
}

// SetSearchNames overrides the default search file base name.
func (e *Engine) SetSearchNames(names ...string) {
	e.names = names
}

// docConsumer receives each matched document during a load pass.
type docConsumer func(p *Profile, doc *document.Document)

// Run executes one full resolution: profile discovery, document draining,
// the negative catch-all pass and the final precedence-ordered commit into
// the destination environment.
func (e *Engine) Run(ctx context.Context) error {
	e.state = newResolutionState()
	e.initializeProfiles()

	e.advance(phaseDraining)
	for !e.state.pending.Empty() {
		p, _ := e.state.pending.Pop()
		if p != nil && !p.IsDefault() {
			e.environment.AddActiveProfile(p.Name())
		}
		if err := e.load(ctx, p, e.positiveFilter, e.addToLoaded(false, false)); err != nil {
			return err
		}
		e.state.processed = append(e.state.processed, p)
		log.Debug(log.CatProfile, "Processed profile", "profile", p.String(), "pending", e.state.pending.Len())
	}

	e.advance(phaseNegativePass)
	e.resetEnvironmentProfiles()
	if err := e.load(ctx, nil, e.negativeFilter, e.addToLoaded(true, true)); err != nil {
		return err
	}

	e.advance(phaseCommitting)
	e.commit()
	e.advance(phaseDone)
	return nil
}

// ProcessedProfiles returns the profiles handled during the last run in
// processing order, the nil base profile included.
func (e *Engine) ProcessedProfiles() []*Profile {
	if e.state == nil {
		return nil
	}
	return e.state.processed
}

func (e *Engine) advance(next phase) {
	e.state.phase = next
	log.Debug(log.CatProfile, "Resolution phase", "phase", next.String())
}

// initializeProfiles seeds the pending queue: the base profile first, then
// pre-existing environment actives not captured via properties, then
// profiles activated through environment properties (includes before
// actives). Default profiles seed only when nothing else was queued.
func (e *Engine) initializeProfiles() {
	e.state.pending.Push(nil)
	viaProperty := e.profilesActivatedViaProperty()
	e.state.pending.PushAll(e.otherActiveProfiles(viaProperty))
	e.activateProfiles(viaProperty.profiles())
	if e.state.pending.Len() == 1 {
		for _, name := range e.environment.DefaultProfiles() {
			e.state.pending.Push(NewDefault(name))
		}
	}
}

func (e *Engine) profilesActivatedViaProperty() *profileSet {
	set := newProfileSet()
	if !e.environment.Has(document.KeyActiveProfiles) && !e.environment.Has(document.KeyIncludeProfiles) {
		return set
	}
	set.addNames(e.environment.StringSlice(document.KeyIncludeProfiles))
	set.addNames(e.environment.StringSlice(document.KeyActiveProfiles))
	return set
}

// otherActiveProfiles returns environment-level active profiles not already
// captured via properties. They queue ahead of property-activated profiles
// but do not lock activation themselves.
func (e *Engine) otherActiveProfiles(viaProperty *profileSet) []*Profile {
	var out []*Profile
	for _, name := range e.environment.ActiveProfiles() {
		p := New(name)
		if !viaProperty.contains(p) {
			out = append(out, p)
		}
	}
	return out
}

// activateProfiles applies the activation rule: the first non-empty
// activation wins, locks further activations out and purges unprocessed
// default profiles from the queue.
func (e *Engine) activateProfiles(profiles []*Profile) {
	if len(profiles) == 0 {
		return
	}
	if e.state.activationLocked {
		log.Debug(log.CatProfile, "Profiles already activated, activation ignored", "profiles", profileNames(profiles))
		return
	}
	e.state.pending.PushAll(profiles)
	e.state.activationLocked = true
	e.state.pending.RemoveIf(func(p *Profile) bool {
		return p != nil && p.IsDefault()
	})
	log.Info(log.CatProfile, "Activated profiles", "profiles", profileNames(profiles))
}

// includeProfiles applies the inclusion rule: new includes, minus anything
// already processed, jump to the front of the remaining queue. Inclusion is
// never blocked by the activation lock.
func (e *Engine) includeProfiles(profiles []*Profile) {
	if len(profiles) == 0 {
		return
	}
	remaining := e.state.pending.Drain()
	for _, p := range profiles {
		if !e.state.hasProcessed(p) {
			e.state.pending.Push(p)
		}
	}
	e.state.pending.PushAll(remaining)
}

// resetEnvironmentProfiles rewrites the environment's active-profile list to
// exactly the processed non-default profiles, in processing order.
func (e *Engine) resetEnvironmentProfiles() {
	var names []string
	for _, p := range e.state.processed {
		if p != nil && !p.IsDefault() {
			names = append(names, p.Name())
		}
	}
	e.environment.SetActiveProfiles(names...)
}

// addToLoaded builds the consumer for one pass. prepend routes negative-pass
// sources to the front of their bucket; checkExisting skips any source whose
// name a previous pass already produced, across all buckets.
func (e *Engine) addToLoaded(prepend, checkExisting bool) docConsumer {
	return func(p *Profile, doc *document.Document) {
		src := doc.Source()
		if checkExisting && e.state.buckets.containsSource(src.Name()) {
			return
		}
		bucket := e.state.buckets.get(p)
		if prepend {
			bucket.AddFirst(src)
		} else {
			bucket.AddLast(src)
		}
	}
}

// commit flattens the buckets in reverse discovery order through the merger,
// granting later-processed profiles higher precedence while the sentinel
// keeps the floor.
func (e *Engine) commit() {
	merger := env.NewMerger(e.environment.PropertySources())
	for _, bucket := range e.state.buckets.reversed() {
		for _, src := range bucket.All() {
			merger.Add(src)
		}
	}
}

func profileNames(profiles []*Profile) string {
	names := make([]string, len(profiles))
	for i, p := range profiles {
		names[i] = p.String()
	}
	return strings.Join(names, ",")
}
