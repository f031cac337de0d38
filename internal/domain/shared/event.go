package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact raised by an aggregate after a state change. Events
// are delivered after the change commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uint
	AggregateType() string
}

// BaseDomainEvent carries the envelope fields; concrete events embed it and
// add their payload.
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uint      `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	ActorID   uint      `json:"actor_id,omitempty"`
}

func NewBaseDomainEvent(eventType, aggType string, aggID uint, actor Actor) BaseDomainEvent {
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		AggID:     aggID,
		AggType:   aggType,
		ActorID:   actor.UserID,
	}
}

func (e *BaseDomainEvent) EventID() uuid.UUID    { return e.ID }
func (e *BaseDomainEvent) EventType() string     { return e.Type }
func (e *BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e *BaseDomainEvent) AggregateID() uint     { return e.AggID }
func (e *BaseDomainEvent) AggregateType() string { return e.AggType }
