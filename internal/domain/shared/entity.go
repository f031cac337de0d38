package shared

import "time"

// Entity is anything with a database identity and audit timestamps.
type Entity interface {
	GetID() uint
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
}

// BaseEntity is embedded by every persisted type. ID stays zero until the
// row is inserted.
type BaseEntity struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewBaseEntity() BaseEntity {
	now := time.Now().UTC()
	return BaseEntity{CreatedAt: now, UpdatedAt: now}
}

func (e *BaseEntity) GetID() uint             { return e.ID }
func (e *BaseEntity) GetCreatedAt() time.Time { return e.CreatedAt }
func (e *BaseEntity) GetUpdatedAt() time.Time { return e.UpdatedAt }

func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now().UTC()
}
