package models

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber string            `gorm:"type:varchar(50);not null;uniqueIndex:uq_orders_order_number"`
	Status      trade.OrderStatus `gorm:"type:varchar(20);not null;default:'Pending';index"`
	SellerID    uint              `gorm:"not null;index"`
	CustomerID  uint              `gorm:"not null;index"`
	CarrierID   *uint             `gorm:"index"`
	Price       decimal.Decimal   `gorm:"type:decimal(18,2);not null;default:0"`
	Origin      string            `gorm:"type:varchar(255)"`
	Destination string            `gorm:"type:varchar(255)"`
	Notes       string            `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order.
func (m *OrderModel) ToDomain() *trade.Order {
	return &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		Status:            m.Status,
		SellerID:          m.SellerID,
		CustomerID:        m.CustomerID,
		CarrierID:         m.CarrierID,
		Price:             m.Price,
		Origin:            m.Origin,
		Destination:       m.Destination,
		Notes:             m.Notes,
	}
}

// OrderModelFromDomain creates a persistence model from a domain Order.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
		SellerID:    o.SellerID,
		CustomerID:  o.CustomerID,
		CarrierID:   o.CarrierID,
		Price:       o.Price,
		Origin:      o.Origin,
		Destination: o.Destination,
		Notes:       o.Notes,
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	return m
}
