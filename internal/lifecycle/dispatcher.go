package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/zjrosen/strata/internal/log"
)

// ErrRegistrationClosed is returned by AddListener between the start of
// dispatch and the context-loaded phase.
var ErrRegistrationClosed = errors.New("listener registration is closed until context-loaded")

// Dispatcher owns the ordered listener list and broadcasts phases to it.
// It is not safe for concurrent use; the pipeline drives it from a single
// goroutine.
type Dispatcher struct {
	listeners []Listener
	started   bool
	last      Phase
}

// NewDispatcher creates a dispatcher seeded with the given listeners.
func NewDispatcher(listeners ...Listener) *Dispatcher {
	return &Dispatcher{listeners: listeners}
}

// AddListener appends a listener. Registration closes once dispatch begins
// and reopens at context-loaded; a listener added after that sees no replay
// of earlier phases.
func (d *Dispatcher) AddListener(l Listener) error {
	if d.started && d.last < PhaseContextLoaded {
		return fmt.Errorf("%w: last phase %s", ErrRegistrationClosed, d.last)
	}
	d.listeners = append(d.listeners, l)
	return nil
}

// Len returns the number of registered listeners.
func (d *Dispatcher) Len() int {
	return len(d.listeners)
}

// Dispatch broadcasts one phase in registration order. The first listener
// error stops the broadcast and is returned wrapped with the listener name
// and phase. Listeners appended during the broadcast are not visited until
// the next phase.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event) error {
	d.started = true
	d.last = event.Phase
	log.Debug(log.CatLifecycle, "Dispatching phase", "phase", event.Phase, "listeners", len(d.listeners))
	for _, l := range d.listeners {
		if err := l.OnPhase(ctx, event); err != nil {
			return fmt.Errorf("listener %s at %s: %w", l.Name(), event.Phase, err)
		}
	}
	return nil
}

// DispatchFailed broadcasts the terminal failed phase. Delivery is isolated
// per listener. When event.Err is nil a listener error is returned
// immediately; otherwise it is logged and delivery continues so the primary
// cause stays visible to every listener.
func (d *Dispatcher) DispatchFailed(ctx context.Context, event Event) error {
	d.started = true
	d.last = PhaseFailed
	event.Phase = PhaseFailed
	log.Debug(log.CatLifecycle, "Dispatching phase", "phase", PhaseFailed, "listeners", len(d.listeners))
	for _, l := range d.listeners {
		err := l.OnPhase(ctx, event)
		if err == nil {
			continue
		}
		if event.Err == nil {
			return fmt.Errorf("listener %s at %s: %w", l.Name(), PhaseFailed, err)
		}
		if log.DebugEnabled() {
			log.ErrorErr(log.CatLifecycle, "Error handling failed broadcast", err, "listener", l.Name())
		} else {
			log.Warn(log.CatLifecycle, "Error handling failed broadcast", "listener", l.Name(), "error", err.Error())
		}
	}
	return nil
}
