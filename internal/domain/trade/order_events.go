package trade

import (
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// EventTypeOrderStatusChanged is raised after an order status change is persisted
const EventTypeOrderStatusChanged = "OrderStatusChanged"

// OrderStatusChangedEvent carries the status change of an order
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	CreatedBy   *uint       `json:"created_by,omitempty"`
}

// NewOrderStatusChangedEvent creates an OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus, actor shared.Actor) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID, actor),
		OrderNumber:     order.OrderNumber,
		FromStatus:      from,
		ToStatus:        order.Status,
		CreatedBy:       order.CreatedBy,
	}
}
