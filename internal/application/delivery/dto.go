package delivery

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
)

// CreateDeliveryNoteRequest represents a request to create a new delivery note
type CreateDeliveryNoteRequest struct {
	DeliveryNoteNumber string    `json:"delivery_note_number" binding:"required,min=1,max=50"`
	OrderID            uint      `json:"order_id" binding:"required"`
	CarrierID          uint      `json:"carrier_id" binding:"required"`
	Date               time.Time `json:"date"`
	Notes              string    `json:"notes" binding:"max=1000"`
}

// UpdateDeliveryNoteRequest represents a request to update a delivery note
type UpdateDeliveryNoteRequest struct {
	DeliveryNoteNumber string    `json:"delivery_note_number" binding:"required,min=1,max=50"`
	OrderID            uint      `json:"order_id" binding:"required"`
	CarrierID          uint      `json:"carrier_id" binding:"required"`
	Date               time.Time `json:"date"`
	Notes              string    `json:"notes" binding:"max=1000"`
	Version            int       `json:"version" binding:"required,min=1"`
}

// ChangeDeliveryNoteStatusRequest represents a status transition request
type ChangeDeliveryNoteStatusRequest struct {
	Status  string `json:"status" binding:"required,delivery_note_status"`
	Version int    `json:"version" binding:"required,min=1"`
}

// DeliveryNoteResponse represents a delivery note in API responses
type DeliveryNoteResponse struct {
	ID                 uint      `json:"id"`
	DeliveryNoteNumber string    `json:"delivery_note_number"`
	Status             string    `json:"status"`
	OrderID            uint      `json:"order_id"`
	CarrierID          uint      `json:"carrier_id"`
	Date               time.Time `json:"date"`
	Notes              string    `json:"notes"`
	Version            int       `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToDeliveryNoteResponse converts a domain DeliveryNote to DeliveryNoteResponse
func ToDeliveryNoteResponse(d *delivery.DeliveryNote) DeliveryNoteResponse {
	return DeliveryNoteResponse{
		ID:                 d.ID,
		DeliveryNoteNumber: d.DeliveryNoteNumber,
		Status:             string(d.Status),
		OrderID:            d.OrderID,
		CarrierID:          d.CarrierID,
		Date:               d.Date,
		Notes:              d.Notes,
		Version:            d.Version,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// ToDeliveryNoteResponses converts a slice of delivery notes
func ToDeliveryNoteResponses(notes []delivery.DeliveryNote) []DeliveryNoteResponse {
	responses := make([]DeliveryNoteResponse, len(notes))
	for i := range notes {
		responses[i] = ToDeliveryNoteResponse(&notes[i])
	}
	return responses
}
