package lifecycle

import (
	"context"

	"github.com/zjrosen/strata/internal/env"
)

// Event is the payload broadcast for one phase.
type Event struct {
	Phase Phase
	// RunID identifies the bootstrap run the phase belongs to.
	RunID string
	// Environment is the destination environment, populated from
	// PhaseEnvironmentPrepared onward.
	Environment *env.Environment
	// Err carries the triggering error for PhaseFailed; nil otherwise.
	Err error
}

// Listener reacts to lifecycle phases. A non-nil error aborts the pipeline,
// except during the failed broadcast where delivery is isolated.
type Listener interface {
	Name() string
	OnPhase(ctx context.Context, event Event) error
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc struct {
	name string
	fn   func(ctx context.Context, event Event) error
}

// NewListenerFunc wraps fn as a named listener.
func NewListenerFunc(name string, fn func(ctx context.Context, event Event) error) *ListenerFunc {
	return &ListenerFunc{name: name, fn: fn}
}

// Name returns the listener name.
func (l *ListenerFunc) Name() string {
	return l.name
}

// OnPhase invokes the wrapped function.
func (l *ListenerFunc) OnPhase(ctx context.Context, event Event) error {
	return l.fn(ctx, event)
}
