package delivery

import (
	"fmt"
	"strings"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// AggregateTypeDeliveryNote names the delivery note aggregate
const AggregateTypeDeliveryNote = "DeliveryNote"

// DeliveryNoteStatus represents the status of a delivery note
type DeliveryNoteStatus string

const (
	DeliveryNoteStatusPending   DeliveryNoteStatus = "Pending"
	DeliveryNoteStatusApproved  DeliveryNoteStatus = "Approved"
	DeliveryNoteStatusCancelled DeliveryNoteStatus = "Cancelled"
)

// IsValid checks if the status is a valid DeliveryNoteStatus
func (s DeliveryNoteStatus) IsValid() bool {
	switch s {
	case DeliveryNoteStatusPending, DeliveryNoteStatusApproved, DeliveryNoteStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DeliveryNoteStatus
func (s DeliveryNoteStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DeliveryNoteStatus) CanTransitionTo(target DeliveryNoteStatus) bool {
	switch s {
	case DeliveryNoteStatusPending:
		return target == DeliveryNoteStatusApproved || target == DeliveryNoteStatusCancelled
	case DeliveryNoteStatusApproved:
		return target == DeliveryNoteStatusCancelled
	}
	return false
}

// DeliveryNote documents goods handed to a carrier for an order
type DeliveryNote struct {
	shared.BaseAggregateRoot
	DeliveryNoteNumber string
	Status             DeliveryNoteStatus
	OrderID            uint
	CarrierID          uint
	Date               time.Time
	Notes              string
}

// NewDeliveryNote creates a pending delivery note
func NewDeliveryNote(number string, orderID, carrierID uint, date time.Time, notes string) (*DeliveryNote, error) {
	if err := validateDeliveryNote(number, orderID, carrierID); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	return &DeliveryNote{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		DeliveryNoteNumber: number,
		Status:             DeliveryNoteStatusPending,
		OrderID:            orderID,
		CarrierID:          carrierID,
		Date:               date,
		Notes:              notes,
	}, nil
}

// Update replaces the editable fields
func (d *DeliveryNote) Update(number string, orderID, carrierID uint, date time.Time, notes string) error {
	if err := validateDeliveryNote(number, orderID, carrierID); err != nil {
		return err
	}
	d.DeliveryNoteNumber = number
	d.OrderID = orderID
	d.CarrierID = carrierID
	if !date.IsZero() {
		d.Date = date
	}
	d.Notes = notes
	return nil
}

// ChangeStatus moves the delivery note along its lifecycle
func (d *DeliveryNote) ChangeStatus(target DeliveryNoteStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Invalid delivery note status: %s", target))
	}
	if !d.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot change delivery note status from %s to %s", d.Status, target))
	}
	d.Status = target
	return nil
}

func validateDeliveryNote(number string, orderID, carrierID uint) error {
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError("INVALID_DELIVERY_NOTE_NUMBER", "Delivery note number cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError("INVALID_DELIVERY_NOTE_NUMBER", "Delivery note number cannot exceed 50 characters")
	}
	if orderID == 0 {
		return shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	if carrierID == 0 {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier is required")
	}
	return nil
}
