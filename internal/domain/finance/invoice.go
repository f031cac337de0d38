package finance

import (
	"strings"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice names the invoice aggregate
const AggregateTypeInvoice = "Invoice"

// Invoice conflict codes
const (
	CodeInvoiceNumberAlreadyExists       = "INVOICE_NUMBER_ALREADY_EXISTS"
	CodeInvoiceCarrierOrderAlreadyExists = "INVOICE_CARRIER_ORDER_ALREADY_EXISTS"
	CodeCarrierHasPendingDeliveryNotes   = "CARRIER_HAS_PENDING_DELIVERY_NOTES"
)

// Invoice is the carrier's bill for transporting one order
type Invoice struct {
	shared.BaseAggregateRoot
	InvoiceNumber string
	OrderID       uint
	CarrierID     uint
	Amount        decimal.Decimal
	IssueDate     time.Time
}

// NewInvoice creates an invoice
func NewInvoice(invoiceNumber string, orderID, carrierID uint, amount decimal.Decimal, issueDate time.Time) (*Invoice, error) {
	if err := validateDocument("INVALID_INVOICE_NUMBER", "Invoice number", invoiceNumber, orderID, carrierID, amount); err != nil {
		return nil, err
	}
	if issueDate.IsZero() {
		issueDate = time.Now()
	}
	return &Invoice{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		OrderID:           orderID,
		CarrierID:         carrierID,
		Amount:            amount,
		IssueDate:         issueDate,
	}, nil
}

// Update replaces the editable fields
func (i *Invoice) Update(invoiceNumber string, orderID, carrierID uint, amount decimal.Decimal, issueDate time.Time) error {
	if err := validateDocument("INVALID_INVOICE_NUMBER", "Invoice number", invoiceNumber, orderID, carrierID, amount); err != nil {
		return err
	}
	i.InvoiceNumber = invoiceNumber
	i.OrderID = orderID
	i.CarrierID = carrierID
	i.Amount = amount
	if !issueDate.IsZero() {
		i.IssueDate = issueDate
	}
	return nil
}

func validateDocument(code, label, number string, orderID, carrierID uint, amount decimal.Decimal) error {
	if strings.TrimSpace(number) == "" {
		return shared.NewDomainError(code, label+" cannot be empty")
	}
	if len(number) > 50 {
		return shared.NewDomainError(code, label+" cannot exceed 50 characters")
	}
	if orderID == 0 {
		return shared.NewDomainError("INVALID_ORDER", "Order is required")
	}
	if carrierID == 0 {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier is required")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Amount cannot be negative")
	}
	return nil
}
