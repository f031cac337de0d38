package models

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
)

// CarrierModel is the persistence model for the Carrier domain entity.
type CarrierModel struct {
	AggregateModel
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex:uq_carriers_name"`
	TaxID string `gorm:"type:varchar(20)"`
	Email string `gorm:"type:varchar(254)"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (CarrierModel) TableName() string {
	return "carriers"
}

// ToDomain converts the persistence model to a domain Carrier entity.
func (m *CarrierModel) ToDomain() *partner.Carrier {
	return &partner.Carrier{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TaxID:             m.TaxID,
		Email:             m.Email,
		Phone:             m.Phone,
	}
}

// CarrierModelFromDomain creates a persistence model from a domain Carrier.
func CarrierModelFromDomain(c *partner.Carrier) *CarrierModel {
	m := &CarrierModel{
		Name:  c.Name,
		TaxID: c.TaxID,
		Email: c.Email,
		Phone: c.Phone,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// CustomerModel is the persistence model for the Customer domain entity.
type CustomerModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex:uq_customers_name"`
	TaxID   string `gorm:"type:varchar(20)"`
	Email   string `gorm:"type:varchar(254)"`
	Phone   string `gorm:"type:varchar(50)"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		TaxID:             m.TaxID,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
	}
}

// CustomerModelFromDomain creates a persistence model from a domain Customer.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{
		Name:    c.Name,
		TaxID:   c.TaxID,
		Email:   c.Email,
		Phone:   c.Phone,
		Address: c.Address,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// SellerModel is the persistence model for the Seller domain entity.
type SellerModel struct {
	AggregateModel
	Name  string `gorm:"type:varchar(100);not null;uniqueIndex:uq_sellers_name"`
	Email string `gorm:"type:varchar(254)"`
	Phone string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (SellerModel) TableName() string {
	return "sellers"
}

// ToDomain converts the persistence model to a domain Seller entity.
func (m *SellerModel) ToDomain() *partner.Seller {
	return &partner.Seller{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Email:             m.Email,
		Phone:             m.Phone,
	}
}

// SellerModelFromDomain creates a persistence model from a domain Seller.
func SellerModelFromDomain(s *partner.Seller) *SellerModel {
	m := &SellerModel{
		Name:  s.Name,
		Email: s.Email,
		Phone: s.Phone,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
