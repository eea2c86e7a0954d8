// internal/events/events.go
package events

import (
	"context"
	"time"
)

// Event is published after every successful mutation.
type Event struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher delivers events on a best-effort basis. Implementations log
// delivery failures instead of returning them.
type Publisher interface {
	Publish(ctx context.Context, event Event)
	Close()
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}

func (NoopPublisher) Close() {}
