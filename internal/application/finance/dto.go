package finance

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Invoice DTOs
// =============================================================================

// CreateInvoiceRequest represents a request to create a new invoice
type CreateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,min=1,max=50"`
	OrderID       uint            `json:"order_id" binding:"required"`
	CarrierID     uint            `json:"carrier_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     time.Time       `json:"issue_date"`
}

// UpdateInvoiceRequest represents a request to update an invoice
type UpdateInvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" binding:"required,min=1,max=50"`
	OrderID       uint            `json:"order_id" binding:"required"`
	CarrierID     uint            `json:"carrier_id" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     time.Time       `json:"issue_date"`
	Version       int             `json:"version" binding:"required,min=1"`
}

// InvoiceResponse represents an invoice in API responses
type InvoiceResponse struct {
	ID            uint            `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       uint            `json:"order_id"`
	CarrierID     uint            `json:"carrier_id"`
	Amount        decimal.Decimal `json:"amount"`
	IssueDate     time.Time       `json:"issue_date"`
	Version       int             `json:"version"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToInvoiceResponse converts a domain Invoice to InvoiceResponse
func ToInvoiceResponse(i *finance.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:            i.ID,
		InvoiceNumber: i.InvoiceNumber,
		OrderID:       i.OrderID,
		CarrierID:     i.CarrierID,
		Amount:        i.Amount,
		IssueDate:     i.IssueDate,
		Version:       i.Version,
		CreatedAt:     i.CreatedAt,
		UpdatedAt:     i.UpdatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []finance.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

// =============================================================================
// Payment Order DTOs
// =============================================================================

// CreatePaymentOrderRequest represents a request to create a new payment order
type CreatePaymentOrderRequest struct {
	PaymentOrderNumber string          `json:"payment_order_number" binding:"required,min=1,max=50"`
	OrderID            uint            `json:"order_id" binding:"required"`
	CarrierID          uint            `json:"carrier_id" binding:"required"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"payment_date"`
}

// UpdatePaymentOrderRequest represents a request to update a payment order
type UpdatePaymentOrderRequest struct {
	PaymentOrderNumber string          `json:"payment_order_number" binding:"required,min=1,max=50"`
	OrderID            uint            `json:"order_id" binding:"required"`
	CarrierID          uint            `json:"carrier_id" binding:"required"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"payment_date"`
	Version            int             `json:"version" binding:"required,min=1"`
}

// PaymentOrderResponse represents a payment order in API responses
type PaymentOrderResponse struct {
	ID                 uint            `json:"id"`
	PaymentOrderNumber string          `json:"payment_order_number"`
	OrderID            uint            `json:"order_id"`
	CarrierID          uint            `json:"carrier_id"`
	Amount             decimal.Decimal `json:"amount"`
	PaymentDate        time.Time       `json:"payment_date"`
	Version            int             `json:"version"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToPaymentOrderResponse converts a domain PaymentOrder to PaymentOrderResponse
func ToPaymentOrderResponse(p *finance.PaymentOrder) PaymentOrderResponse {
	return PaymentOrderResponse{
		ID:                 p.ID,
		PaymentOrderNumber: p.PaymentOrderNumber,
		OrderID:            p.OrderID,
		CarrierID:          p.CarrierID,
		Amount:             p.Amount,
		PaymentDate:        p.PaymentDate,
		Version:            p.Version,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

// ToPaymentOrderResponses converts a slice of payment orders
func ToPaymentOrderResponses(items []finance.PaymentOrder) []PaymentOrderResponse {
	responses := make([]PaymentOrderResponse, len(items))
	for i := range items {
		responses[i] = ToPaymentOrderResponse(&items[i])
	}
	return responses
}
