// Package pubsub provides a generic publish/subscribe event system.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LogEmitted carries a formatted log line.
	LogEmitted EventType = "log"
	// PhaseAdvanced fires when the bootstrap pipeline enters a lifecycle phase.
	PhaseAdvanced EventType = "phase"
	// ProfileActivated fires when the resolution engine activates a profile.
	ProfileActivated EventType = "profile"
	// DocumentLoaded fires when a configuration document is accepted.
	DocumentLoaded EventType = "document"
	// RunCompleted fires when a bootstrap run finishes, successfully or not.
	RunCompleted EventType = "run"
	// ReloadTriggered fires when the watcher schedules a re-resolution.
	ReloadTriggered EventType = "reload"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
