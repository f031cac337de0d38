package finance

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeInvoiceCreated      = "InvoiceCreated"
	EventTypePaymentOrderCreated = "PaymentOrderCreated"
)

// InvoiceCreatedEvent is raised after an invoice is persisted
type InvoiceCreatedEvent struct {
	shared.BaseDomainEvent
	InvoiceNumber string          `json:"invoice_number"`
	OrderID       uint            `json:"order_id"`
	CarrierID     uint            `json:"carrier_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewInvoiceCreatedEvent creates an InvoiceCreatedEvent
func NewInvoiceCreatedEvent(invoice *Invoice, actor shared.Actor) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoiceCreated, AggregateTypeInvoice, invoice.ID, actor),
		InvoiceNumber:   invoice.InvoiceNumber,
		OrderID:         invoice.OrderID,
		CarrierID:       invoice.CarrierID,
		Amount:          invoice.Amount,
	}
}

// PaymentOrderCreatedEvent is raised after a payment order is persisted
type PaymentOrderCreatedEvent struct {
	shared.BaseDomainEvent
	PaymentOrderNumber string          `json:"payment_order_number"`
	OrderID            uint            `json:"order_id"`
	CarrierID          uint            `json:"carrier_id"`
	Amount             decimal.Decimal `json:"amount"`
}

// NewPaymentOrderCreatedEvent creates a PaymentOrderCreatedEvent
func NewPaymentOrderCreatedEvent(p *PaymentOrder, actor shared.Actor) *PaymentOrderCreatedEvent {
	return &PaymentOrderCreatedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypePaymentOrderCreated, AggregateTypePaymentOrder, p.ID, actor),
		PaymentOrderNumber: p.PaymentOrderNumber,
		OrderID:            p.OrderID,
		CarrierID:          p.CarrierID,
		Amount:             p.Amount,
	}
}
