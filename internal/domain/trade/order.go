package trade

import (
	"fmt"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder names the order aggregate
const AggregateTypeOrder = "Order"

// Document categories removed together with an order
const (
	OrderDependentDeliveryNotes = "delivery_notes"
	OrderDependentInvoices      = "invoices"
	OrderDependentPaymentOrders = "payment_orders"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "Pending"
	OrderStatusRejected OrderStatus = "Rejected"
	OrderStatusClosed   OrderStatus = "Closed"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusRejected, OrderStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// IsLocked reports whether the order no longer accepts attachments or edits
func (s OrderStatus) IsLocked() bool {
	return s == OrderStatusClosed || s == OrderStatusRejected
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusClosed || target == OrderStatusRejected
	case OrderStatusRejected:
		return target == OrderStatusPending
	case OrderStatusClosed:
		return false
	}
	return false
}

// Order is a shipment request placed by a customer through a seller
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber string
	Status      OrderStatus
	SellerID    uint
	CustomerID  uint
	CarrierID   *uint
	Price       decimal.Decimal
	Origin      string
	Destination string
	Notes       string
}

// NewOrder creates a pending order
func NewOrder(orderNumber string, sellerID, customerID uint, carrierID *uint, price decimal.Decimal) (*Order, error) {
	if err := validateOrderNumber(orderNumber); err != nil {
		return nil, err
	}
	if err := validateParties(sellerID, customerID); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		Status:            OrderStatusPending,
		SellerID:          sellerID,
		CustomerID:        customerID,
		CarrierID:         carrierID,
		Price:             price,
	}, nil
}

// EnsureOpen fails when the order is closed or rejected
func (o *Order) EnsureOpen() error {
	if o.Status.IsLocked() {
		return ErrClosedOrRejectedOrder(o.OrderNumber)
	}
	return nil
}

// Update replaces the editable fields of an open order
func (o *Order) Update(orderNumber string, sellerID, customerID uint, carrierID *uint, price decimal.Decimal) error {
	if err := o.EnsureOpen(); err != nil {
		return err
	}
	if err := validateOrderNumber(orderNumber); err != nil {
		return err
	}
	if err := validateParties(sellerID, customerID); err != nil {
		return err
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	o.OrderNumber = orderNumber
	o.SellerID = sellerID
	o.CustomerID = customerID
	o.CarrierID = carrierID
	o.Price = price
	return nil
}

// ChangeStatus moves the order along its lifecycle
func (o *Order) ChangeStatus(target OrderStatus) error {
	if !target.IsValid() {
		return shared.NewValidationError("INVALID_STATUS", fmt.Sprintf("Invalid order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewConflictError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, target))
	}
	o.Status = target
	return nil
}

// ErrClosedOrRejectedOrder is raised when a closed or rejected order would be mutated
func ErrClosedOrRejectedOrder(orderNumber string) *shared.DomainError {
	return shared.NewConflictError(shared.CodeClosedOrRejectedOrder,
		fmt.Sprintf("Order '%s' is closed or rejected and cannot be modified", orderNumber))
}

func validateOrderNumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if len(orderNumber) > 50 {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot exceed 50 characters")
	}
	return nil
}

func validateParties(sellerID, customerID uint) error {
	if sellerID == 0 {
		return shared.NewDomainError("INVALID_SELLER", "Seller is required")
	}
	if customerID == 0 {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer is required")
	}
	return nil
}

// SetRoute sets the free-text route and notes of the order
func (o *Order) SetRoute(origin, destination, notes string) {
	o.Origin = origin
	o.Destination = destination
	o.Notes = notes
}
