package finance

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypePaymentOrder names the payment order aggregate
const AggregateTypePaymentOrder = "PaymentOrder"

// Payment order conflict codes
const (
	CodePaymentOrderNumberAlreadyExists       = "PAYMENT_ORDER_NUMBER_ALREADY_EXISTS"
	CodePaymentOrderCarrierOrderAlreadyExists = "PAYMENT_ORDER_CARRIER_ORDER_ALREADY_EXISTS"
)

// PaymentOrder authorizes paying a carrier for one order
type PaymentOrder struct {
	shared.BaseAggregateRoot
	PaymentOrderNumber string
	OrderID            uint
	CarrierID          uint
	Amount             decimal.Decimal
	PaymentDate        time.Time
}

// NewPaymentOrder creates a payment order
func NewPaymentOrder(number string, orderID, carrierID uint, amount decimal.Decimal, paymentDate time.Time) (*PaymentOrder, error) {
	if err := validateDocument("INVALID_PAYMENT_ORDER_NUMBER", "Payment order number", number, orderID, carrierID, amount); err != nil {
		return nil, err
	}
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	return &PaymentOrder{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		PaymentOrderNumber: number,
		OrderID:            orderID,
		CarrierID:          carrierID,
		Amount:             amount,
		PaymentDate:        paymentDate,
	}, nil
}

// Update replaces the editable fields
func (p *PaymentOrder) Update(number string, orderID, carrierID uint, amount decimal.Decimal, paymentDate time.Time) error {
	if err := validateDocument("INVALID_PAYMENT_ORDER_NUMBER", "Payment order number", number, orderID, carrierID, amount); err != nil {
		return err
	}
	p.PaymentOrderNumber = number
	p.OrderID = orderID
	p.CarrierID = carrierID
	p.Amount = amount
	if !paymentDate.IsZero() {
		p.PaymentDate = paymentDate
	}
	return nil
}
