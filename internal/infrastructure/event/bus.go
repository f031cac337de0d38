// Package event provides the in-process event bus that fans domain events
// out to handlers such as the notification projector.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// BusOption configures an InMemoryEventBus
type BusOption func(*InMemoryEventBus)

// WithAsyncDispatch makes Publish enqueue events for a pool of workers
// instead of running handlers on the caller's goroutine. Events are dropped
// with a warning when the queue is full.
func WithAsyncDispatch(workers, queueSize int) BusOption {
	return func(b *InMemoryEventBus) {
		if workers < 1 {
			workers = 1
		}
		if queueSize < 1 {
			queueSize = 1
		}
		b.workers = workers
		b.queue = make(chan envelope, queueSize)
	}
}

type envelope struct {
	ctx   context.Context
	event shared.DomainEvent
}

// InMemoryEventBus implements shared.EventBus with in-process pub/sub
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger

	workers int
	queue   chan envelope

	running atomic.Bool
	// guards queue against sends after close
	queueMu sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// NewInMemoryEventBus creates a new event bus. Without options it dispatches
// synchronously.
func NewInMemoryEventBus(logger *zap.Logger, opts ...BusOption) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish delivers events to their handlers. Handler failures are logged and
// never returned, so a persisted change is not reported as failed.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		if event == nil {
			continue
		}
		if b.queue != nil && b.enqueue(ctx, event) {
			continue
		}
		b.dispatch(ctx, event)
	}
	return nil
}

// enqueue reports false when the workers are not running
func (b *InMemoryEventBus) enqueue(ctx context.Context, event shared.DomainEvent) bool {
	b.queueMu.RLock()
	defer b.queueMu.RUnlock()
	if b.closed || !b.running.Load() {
		return false
	}

	// handlers outlive the request that raised the event
	env := envelope{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case b.queue <- env:
	default:
		b.logger.Warn("event queue full, dropping event",
			zap.String("event_type", event.EventType()),
			zap.String("event_id", event.EventID().String()),
		)
	}
	return true
}

// Subscribe registers a handler. With no explicit types the handler's own
// EventTypes are used; an empty list subscribes it to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)
	b.logger.Debug("handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start launches the dispatch workers when async dispatch is enabled.
// A stopped bus cannot be restarted.
func (b *InMemoryEventBus) Start(_ context.Context) error {
	b.queueMu.RLock()
	closed := b.closed
	b.queueMu.RUnlock()
	if closed || !b.running.CompareAndSwap(false, true) {
		return nil
	}
	for i := 0; i < b.workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	b.logger.Info("event bus started", zap.Int("workers", b.workers))
	return nil
}

// Stop drains queued events and waits for the workers, bounded by ctx
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	b.queueMu.Lock()
	if b.queue != nil && !b.closed {
		close(b.queue)
	}
	b.closed = true
	b.queueMu.Unlock()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		b.logger.Warn("event bus stop timed out")
		return ctx.Err()
	}
}

func (b *InMemoryEventBus) work() {
	defer b.wg.Done()
	for env := range b.queue {
		b.dispatch(env.ctx, env.event)
	}
}

func (b *InMemoryEventBus) dispatch(ctx context.Context, event shared.DomainEvent) {
	for _, handler := range b.registry.GetHandlers(event.EventType()) {
		if err := b.safeHandle(ctx, handler, event); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", event.EventType()),
				zap.String("event_id", event.EventID().String()),
				zap.Uint("aggregate_id", event.AggregateID()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", event.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return handler.Handle(ctx, event)
}
