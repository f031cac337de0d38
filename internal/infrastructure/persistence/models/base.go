package models

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AggregateModel adds the concurrency token and audit columns of an aggregate root
type AggregateModel struct {
	BaseModel
	Version   int   `gorm:"not null;default:1"`
	CreatedBy *uint `gorm:"index"`
	UpdatedBy *uint
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.Version = a.Version
	m.CreatedBy = a.CreatedBy
	m.UpdatedBy = a.UpdatedBy
}

// ToDomainAggregateRoot rebuilds the domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity: m.BaseModel.ToDomain(),
		Version:    m.Version,
		CreatedBy:  m.CreatedBy,
		UpdatedBy:  m.UpdatedBy,
	}
}

// AllModels lists every persisted model, in dependency order, for AutoMigrate
func AllModels() []any {
	return []any{
		&UserModel{},
		&NotificationModel{},
		&CarrierModel{},
		&CustomerModel{},
		&SellerModel{},
		&OrderModel{},
		&DeliveryNoteModel{},
		&InvoiceModel{},
		&PaymentOrderModel{},
	}
}
