// Package lifecycle broadcasts the fixed bootstrap phase sequence to
// registered listeners. Dispatch is synchronous and follows registration
// order; the terminal failed phase has isolated per-listener delivery so a
// broken listener cannot hide the primary failure.
package lifecycle

// Phase is one step of the bootstrap sequence. The ordinary sequence runs
// starting through running; failed is the alternate terminal phase,
// reachable from any point after starting.
type Phase int

const (
	// PhaseStarting fires before any environment work begins.
	PhaseStarting Phase = iota
	// PhaseEnvironmentPrepared fires once the effective environment is
	// committed.
	PhaseEnvironmentPrepared
	// PhaseContextPrepared fires once contributor selection has run.
	PhaseContextPrepared
	// PhaseContextLoaded fires when the assembled context is complete.
	// Listener registration reopens at this phase.
	PhaseContextLoaded
	// PhaseStarted fires after the context is live.
	PhaseStarted
	// PhaseRunning is the ordinary terminal phase.
	PhaseRunning
	// PhaseFailed is the alternate terminal phase.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseStarting:
		return "starting"
	case PhaseEnvironmentPrepared:
		return "environment-prepared"
	case PhaseContextPrepared:
		return "context-prepared"
	case PhaseContextLoaded:
		return "context-loaded"
	case PhaseStarted:
		return "started"
	case PhaseRunning:
		return "running"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}
