package identity

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// Event type constants
const (
	EventTypeUserRegistered  = "UserRegistered"
	EventTypeUserRoleChanged = "UserRoleChanged"
)

// UserRegisteredEvent is raised after a self-registered user is persisted
type UserRegisteredEvent struct {
	shared.BaseDomainEvent
	Email string `json:"email"`
	Name  string `json:"name"`
}

// NewUserRegisteredEvent creates a UserRegisteredEvent
func NewUserRegisteredEvent(u *User) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRegistered, AggregateTypeUser, u.ID, shared.NewActor(u.ID, string(u.Role))),
		Email:           u.Email,
		Name:            u.Name,
	}
}

// UserRoleChangedEvent is raised after a role change is persisted
type UserRoleChangedEvent struct {
	shared.BaseDomainEvent
	FromRole Role `json:"from_role"`
	ToRole   Role `json:"to_role"`
}

// NewUserRoleChangedEvent creates a UserRoleChangedEvent
func NewUserRoleChangedEvent(u *User, from Role, actor shared.Actor) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeUserRoleChanged, AggregateTypeUser, u.ID, actor),
		FromRole:        from,
		ToRole:          u.Role,
	}
}
