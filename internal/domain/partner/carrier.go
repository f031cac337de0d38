package partner

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// AggregateTypeCarrier names the carrier aggregate
const AggregateTypeCarrier = "Carrier"

// Dependent categories that block carrier deletion
const (
	CarrierDependentDeliveryNotes = "delivery_notes"
	CarrierDependentInvoices      = "invoices"
	CarrierDependentPaymentOrders = "payment_orders"
	CarrierDependentOrders        = "orders"
)

// Carrier is a transport company that moves orders
type Carrier struct {
	shared.BaseAggregateRoot
	Name  string
	TaxID string
	Email string
	Phone string
}

// NewCarrier creates a carrier
func NewCarrier(name, taxID, email, phone string) (*Carrier, error) {
	if err := validateName("Carrier", name); err != nil {
		return nil, err
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}
	return &Carrier{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TaxID:             taxID,
		Email:             email,
		Phone:             phone,
	}, nil
}

// Update replaces the editable fields
func (c *Carrier) Update(name, taxID, email, phone string) error {
	if err := validateName("Carrier", name); err != nil {
		return err
	}
	if err := validateContact(email, phone); err != nil {
		return err
	}
	c.Name = name
	c.TaxID = taxID
	c.Email = email
	c.Phone = phone
	return nil
}
