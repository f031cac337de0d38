package testutil

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// EventRecorder is a shared.EventHandler that keeps every event it receives.
// With no types it subscribes to all events.
type EventRecorder struct {
	types []string

	mu     sync.Mutex
	events []shared.DomainEvent
	fail   error
}

func NewEventRecorder(types ...string) *EventRecorder {
	return &EventRecorder{types: types}
}

func (r *EventRecorder) EventTypes() []string {
	return r.types
}

func (r *EventRecorder) Handle(_ context.Context, event shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return r.fail
}

// Events returns a copy of the received events in arrival order
func (r *EventRecorder) Events() []shared.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

func (r *EventRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

// FailWith makes Handle record the event and then return err
func (r *EventRecorder) FailWith(err error) {
	r.mu.Lock()
	r.fail = err
	r.mu.Unlock()
}

// StubEvent is a bare domain event for bus and handler tests
type StubEvent struct {
	shared.BaseDomainEvent
}

// NewStubEvent builds an event of eventType raised on aggregateID by an admin actorID
func NewStubEvent(eventType string, aggregateID, actorID uint) *StubEvent {
	return &StubEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Stub", aggregateID, shared.NewActor(actorID, "Admin")),
	}
}

// WaitForCondition polls condition every interval until it holds or timeout passes
func WaitForCondition(t *testing.T, condition func() bool, timeout, interval time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(interval)
	}
	return condition()
}

// WaitForEvents waits until rec has received at least n events
func WaitForEvents(t *testing.T, rec *EventRecorder, n int, timeout time.Duration) bool {
	t.Helper()
	return WaitForCondition(t, func() bool { return rec.Count() >= n }, timeout, 5*time.Millisecond)
}
