package models

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
)

// DeliveryNoteModel is the persistence model for the DeliveryNote aggregate root.
type DeliveryNoteModel struct {
	AggregateModel
	DeliveryNoteNumber string                      `gorm:"type:varchar(50);not null;uniqueIndex:uq_delivery_notes_number"`
	Status             delivery.DeliveryNoteStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	OrderID            uint                        `gorm:"not null;index"`
	CarrierID          uint                        `gorm:"not null;index"`
	Date               time.Time                   `gorm:"not null"`
	Notes              string                      `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DeliveryNoteModel) TableName() string {
	return "delivery_notes"
}

// ToDomain converts the persistence model to a domain DeliveryNote.
func (m *DeliveryNoteModel) ToDomain() *delivery.DeliveryNote {
	return &delivery.DeliveryNote{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		DeliveryNoteNumber: m.DeliveryNoteNumber,
		Status:             m.Status,
		OrderID:            m.OrderID,
		CarrierID:          m.CarrierID,
		Date:               m.Date,
		Notes:              m.Notes,
	}
}

// DeliveryNoteModelFromDomain creates a persistence model from a domain DeliveryNote.
func DeliveryNoteModelFromDomain(d *delivery.DeliveryNote) *DeliveryNoteModel {
	m := &DeliveryNoteModel{
		DeliveryNoteNumber: d.DeliveryNoteNumber,
		Status:             d.Status,
		OrderID:            d.OrderID,
		CarrierID:          d.CarrierID,
		Date:               d.Date,
		Notes:              d.Notes,
	}
	m.FromDomainAggregateRoot(d.BaseAggregateRoot)
	return m
}
