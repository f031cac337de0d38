package delivery

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// EventTypeDeliveryNoteStatusChanged is raised after a status change is persisted
const EventTypeDeliveryNoteStatusChanged = "DeliveryNoteStatusChanged"

// DeliveryNoteStatusChangedEvent carries the status change of a delivery note
type DeliveryNoteStatusChangedEvent struct {
	shared.BaseDomainEvent
	DeliveryNoteNumber string             `json:"delivery_note_number"`
	OrderID            uint               `json:"order_id"`
	CarrierID          uint               `json:"carrier_id"`
	FromStatus         DeliveryNoteStatus `json:"from_status"`
	ToStatus           DeliveryNoteStatus `json:"to_status"`
}

// NewDeliveryNoteStatusChangedEvent creates a DeliveryNoteStatusChangedEvent
func NewDeliveryNoteStatusChangedEvent(note *DeliveryNote, from DeliveryNoteStatus, actor shared.Actor) *DeliveryNoteStatusChangedEvent {
	return &DeliveryNoteStatusChangedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeDeliveryNoteStatusChanged, AggregateTypeDeliveryNote, note.ID, actor),
		DeliveryNoteNumber: note.DeliveryNoteNumber,
		OrderID:            note.OrderID,
		CarrierID:          note.CarrierID,
		FromStatus:         from,
		ToStatus:           note.Status,
	}
}
