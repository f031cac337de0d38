package shared

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
	AddDomainEvent(event DomainEvent)
	GetDomainEvents() []DomainEvent
	ClearDomainEvents()
}

// BaseAggregateRoot provides common fields for aggregate roots.
// Version is the concurrency token handed to clients; it changes on every persisted mutation.
type BaseAggregateRoot struct {
	BaseEntity
	Version      int
	CreatedBy    *uint
	UpdatedBy    *uint
	domainEvents []DomainEvent
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// CheckVersion compares the caller's token with the loaded one
func (a *BaseAggregateRoot) CheckVersion(expected int) error {
	if a.Version != expected {
		return ErrConcurrencyConflict
	}
	return nil
}

// MarkCreatedBy records the actor that created the aggregate
func (a *BaseAggregateRoot) MarkCreatedBy(actor Actor) {
	if actor.UserID == 0 {
		return
	}
	id := actor.UserID
	a.CreatedBy = &id
	a.UpdatedBy = &id
}

// MarkUpdatedBy records the actor of the latest mutation, bumps the version and touches UpdatedAt
func (a *BaseAggregateRoot) MarkUpdatedBy(actor Actor) {
	if actor.UserID != 0 {
		id := actor.UserID
		a.UpdatedBy = &id
	}
	a.Touch()
	a.IncrementVersion()
}

// AddDomainEvent adds a domain event to be published
func (a *BaseAggregateRoot) AddDomainEvent(event DomainEvent) {
	a.domainEvents = append(a.domainEvents, event)
}

// GetDomainEvents returns all pending domain events
func (a *BaseAggregateRoot) GetDomainEvents() []DomainEvent {
	return a.domainEvents
}

// ClearDomainEvents clears the pending domain events
func (a *BaseAggregateRoot) ClearDomainEvents() {
	a.domainEvents = nil
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity:   NewBaseEntity(),
		Version:      1,
		domainEvents: make([]DomainEvent, 0),
	}
}
