package trade

import (
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents a request to create a new order
type CreateOrderRequest struct {
	OrderNumber string          `json:"order_number" binding:"required,min=1,max=50"`
	SellerID    uint            `json:"seller_id" binding:"required"`
	CustomerID  uint            `json:"customer_id" binding:"required"`
	CarrierID   *uint           `json:"carrier_id"`
	Price       decimal.Decimal `json:"price"`
	Origin      string          `json:"origin" binding:"max=200"`
	Destination string          `json:"destination" binding:"max=200"`
	Notes       string          `json:"notes" binding:"max=1000"`
}

// UpdateOrderRequest represents a request to update an order
type UpdateOrderRequest struct {
	OrderNumber string          `json:"order_number" binding:"required,min=1,max=50"`
	SellerID    uint            `json:"seller_id" binding:"required"`
	CustomerID  uint            `json:"customer_id" binding:"required"`
	CarrierID   *uint           `json:"carrier_id"`
	Price       decimal.Decimal `json:"price"`
	Origin      string          `json:"origin" binding:"max=200"`
	Destination string          `json:"destination" binding:"max=200"`
	Notes       string          `json:"notes" binding:"max=1000"`
	Version     int             `json:"version" binding:"required,min=1"`
}

// ChangeOrderStatusRequest represents a request to move an order to another status
type ChangeOrderStatusRequest struct {
	Status  string `json:"status" binding:"required,order_status"`
	Version int    `json:"version" binding:"required,min=1"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID          uint            `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	SellerID    uint            `json:"seller_id"`
	CustomerID  uint            `json:"customer_id"`
	CarrierID   *uint           `json:"carrier_id,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Notes       string          `json:"notes"`
	CreatedBy   *uint           `json:"created_by,omitempty"`
	Version     int             `json:"version"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		SellerID:    o.SellerID,
		CustomerID:  o.CustomerID,
		CarrierID:   o.CarrierID,
		Price:       o.Price,
		Origin:      o.Origin,
		Destination: o.Destination,
		Notes:       o.Notes,
		CreatedBy:   o.CreatedBy,
		Version:     o.Version,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []trade.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
