package event

import (
	"slices"
	"sync"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// anyType keys the handlers subscribed to every event.
const anyType = ""

// HandlerRegistry maps event types to handlers. Handlers are compared by
// identity, so a handler must be a comparable value such as a pointer.
type HandlerRegistry struct {
	mu     sync.RWMutex
	byType map[string][]shared.EventHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{byType: make(map[string][]shared.EventHandler)}
}

// Register adds handler for eventTypes, or for every event when none are
// given. Registering the same pair twice is a no-op.
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = []string{anyType}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range eventTypes {
		if !slices.Contains(r.byType[t], handler) {
			r.byType[t] = append(r.byType[t], handler)
		}
	}
}

// Unregister drops handler from every type it was registered for.
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for t, hs := range r.byType {
		hs = slices.DeleteFunc(hs, func(h shared.EventHandler) bool { return h == handler })
		if len(hs) == 0 {
			delete(r.byType, t)
		} else {
			r.byType[t] = hs
		}
	}
}

// GetHandlers returns a fresh slice: handlers for eventType first, then the
// catch-all handlers.
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if eventType == anyType {
		return slices.Clone(r.byType[anyType])
	}
	return slices.Concat(r.byType[eventType], r.byType[anyType])
}
