package partner

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// AggregateTypeCustomer names the customer aggregate
const AggregateTypeCustomer = "Customer"

// CustomerDependentOrders is the only category blocking customer deletion
const CustomerDependentOrders = "orders"

// Customer receives the goods of an order
type Customer struct {
	shared.BaseAggregateRoot
	Name    string
	TaxID   string
	Email   string
	Phone   string
	Address string
}

// NewCustomer creates a customer
func NewCustomer(name, taxID, email, phone, address string) (*Customer, error) {
	if err := validateName("Customer", name); err != nil {
		return nil, err
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}
	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		TaxID:             taxID,
		Email:             email,
		Phone:             phone,
		Address:           address,
	}, nil
}

// Update replaces the editable fields
func (c *Customer) Update(name, taxID, email, phone, address string) error {
	if err := validateName("Customer", name); err != nil {
		return err
	}
	if err := validateContact(email, phone); err != nil {
		return err
	}
	c.Name = name
	c.TaxID = taxID
	c.Email = email
	c.Phone = phone
	c.Address = address
	return nil
}
