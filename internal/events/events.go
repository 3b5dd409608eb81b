// Package events publishes plan lifecycle events for other processes to follow.
package events

import (
	"context"
	"errors"
	"time"
)

// Type names a lifecycle event.
type Type string

const (
	PlanCreated       Type = "plan.created"
	PlanStatusChanged Type = "plan.status_changed"
	PlanCompleted     Type = "plan.completed"
	PlanDeleted       Type = "plan.deleted"
	DayStarted        Type = "day.started"
	DayCompleted      Type = "day.completed"
	KnowledgeUpdated  Type = "knowledge.updated"
)

// Event is the JSON payload written to the bus.
type Event struct {
	Type       Type                   `json:"type"`
	PlanID     string                 `json:"planId,omitempty"`
	TraineeID  string                 `json:"traineeId,omitempty"`
	DayNumber  int                    `json:"dayNumber,omitempty"`
	OccurredAt time.Time              `json:"occurredAt"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// ErrBusDisabled is returned by Subscribe when no broker is configured.
var ErrBusDisabled = errors.New("event bus is not configured")

// Publisher emits events. Publish failures never undo the state change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Bus is a Publisher that can also be followed.
type Bus interface {
	Publisher
	// Subscribe delivers events to onEvent until ctx is cancelled.
	Subscribe(ctx context.Context, onEvent func(Event)) error
	Close() error
}

type noopBus struct{}

// NewNoopBus returns a Bus that drops every event.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, Event) error { return nil }

func (noopBus) Subscribe(context.Context, func(Event)) error { return ErrBusDisabled }

func (noopBus) Close() error { return nil }
