package partner

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// AggregateTypeSeller names the seller aggregate
const AggregateTypeSeller = "Seller"

// SellerDependentOrders is the only category blocking seller deletion
const SellerDependentOrders = "orders"

// Seller is the sales agent responsible for an order
type Seller struct {
	shared.BaseAggregateRoot
	Name  string
	Email string
	Phone string
}

// NewSeller creates a seller
func NewSeller(name, email, phone string) (*Seller, error) {
	if err := validateName("Seller", name); err != nil {
		return nil, err
	}
	if err := validateContact(email, phone); err != nil {
		return nil, err
	}
	return &Seller{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Email:             email,
		Phone:             phone,
	}, nil
}

// Update replaces the editable fields
func (s *Seller) Update(name, email, phone string) error {
	if err := validateName("Seller", name); err != nil {
		return err
	}
	if err := validateContact(email, phone); err != nil {
		return err
	}
	s.Name = name
	s.Email = email
	s.Phone = phone
	return nil
}
