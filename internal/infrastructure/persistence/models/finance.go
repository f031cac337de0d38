package models

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root.
// One invoice per (order, carrier) pair.
type InvoiceModel struct {
	AggregateModel
	InvoiceNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:uq_invoices_invoice_number"`
	OrderID       uint            `gorm:"not null;uniqueIndex:uq_invoices_order_carrier,priority:1"`
	CarrierID     uint            `gorm:"not null;uniqueIndex:uq_invoices_order_carrier,priority:2;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	IssueDate     time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		InvoiceNumber:     m.InvoiceNumber,
		OrderID:           m.OrderID,
		CarrierID:         m.CarrierID,
		Amount:            m.Amount,
		IssueDate:         m.IssueDate,
	}
}

// InvoiceModelFromDomain creates a persistence model from a domain Invoice.
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		InvoiceNumber: i.InvoiceNumber,
		OrderID:       i.OrderID,
		CarrierID:     i.CarrierID,
		Amount:        i.Amount,
		IssueDate:     i.IssueDate,
	}
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	return m
}

// PaymentOrderModel is the persistence model for the PaymentOrder aggregate root.
type PaymentOrderModel struct {
	AggregateModel
	PaymentOrderNumber string          `gorm:"type:varchar(50);not null;uniqueIndex:uq_payment_orders_number"`
	OrderID            uint            `gorm:"not null;uniqueIndex:uq_payment_orders_order_carrier,priority:1"`
	CarrierID          uint            `gorm:"not null;uniqueIndex:uq_payment_orders_order_carrier,priority:2;index"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	PaymentDate        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PaymentOrderModel) TableName() string {
	return "payment_orders"
}

// ToDomain converts the persistence model to a domain PaymentOrder.
func (m *PaymentOrderModel) ToDomain() *finance.PaymentOrder {
	return &finance.PaymentOrder{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		PaymentOrderNumber: m.PaymentOrderNumber,
		OrderID:            m.OrderID,
		CarrierID:          m.CarrierID,
		Amount:             m.Amount,
		PaymentDate:        m.PaymentDate,
	}
}

// PaymentOrderModelFromDomain creates a persistence model from a domain PaymentOrder.
func PaymentOrderModelFromDomain(p *finance.PaymentOrder) *PaymentOrderModel {
	m := &PaymentOrderModel{
		PaymentOrderNumber: p.PaymentOrderNumber,
		OrderID:            p.OrderID,
		CarrierID:          p.CarrierID,
		Amount:             p.Amount,
		PaymentDate:        p.PaymentDate,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
