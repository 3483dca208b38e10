package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	ScheduleCreated   = "schedule.created"
	ScheduleUpdated   = "schedule.updated"
	ScheduleCancelled = "schedule.cancelled"
	ScheduleCompleted = "schedule.completed"
	ScheduleDeleted   = "schedule.deleted"

	PropertyCreated = "property.created"
	PropertyUpdated = "property.updated"
	PropertyDeleted = "property.deleted"

	MemberCreated = "member.created"
	MemberUpdated = "member.updated"
	MemberDeleted = "member.deleted"

	WishlistAdded   = "wishlist.added"
	WishlistRemoved = "wishlist.removed"

	SchemaVersion = "1"
)

// Event is the envelope written as the message value.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	Source      string    `json:"source"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload,omitempty"`
}

// Publisher emits domain events after a successful write. Implementations
// log delivery failures instead of returning them.
type Publisher interface {
	Publish(ctx context.Context, eventType, aggregateID string, payload any)
	Close() error
}

func newEvent(source, eventType, aggregateID string, payload any) Event {
	return Event{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateID: aggregateID,
		Source:      source,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	}
}

type noopPublisher struct{}

func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, string, string, any) {}

func (noopPublisher) Close() error { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Publish(_ context.Context, eventType, aggregateID string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, newEvent("recorder", eventType, aggregateID, payload))
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *Recorder) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.events))
	for _, e := range r.events {
		types = append(types, e.Type)
	}
	return types
}
