package tracing

// Span names for the bootstrap pipeline.
const (
	// SpanBootRun is the root span covering one full pipeline run.
	SpanBootRun = "boot.run"
	// SpanBootEnvironment covers profile resolution and the merge commit.
	SpanBootEnvironment = "boot.environment"
	// SpanBootSelection covers contributor selection and sorting.
	SpanBootSelection = "boot.selection"
	// SpanWatchReload covers one watch-mode re-resolution.
	SpanWatchReload = "watch.reload"
)

// Span attribute keys.
const (
	AttrRunID            = "run.id"
	AttrPhase            = "boot.phase"
	AttrActiveProfiles   = "profiles.active"
	AttrSourceCount      = "sources.count"
	AttrContributorCount = "contributors.count"
	AttrListenerCount    = "listeners.count"
	AttrErrorMessage     = "error.message"
)

// Event names for span events.
const (
	EventPhaseDispatched = "phase.dispatched"
)
