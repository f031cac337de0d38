package identity

import (
	"context"
	"fmt"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"go.uber.org/zap"
)

// Notifier delivers notifications to users or roles
type Notifier interface {
	Notify(ctx context.Context, msg NotificationMessage, userIDs ...uint) error
	NotifyRole(ctx context.Context, role identity.Role, msg NotificationMessage) error
}

// NotificationEventHandler turns domain events into in-app notifications.
// Delivery failures are logged and swallowed so they never fail the originating request.
type NotificationEventHandler struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewNotificationEventHandler creates a new NotificationEventHandler
func NewNotificationEventHandler(notifier Notifier, logger *zap.Logger) *NotificationEventHandler {
	return &NotificationEventHandler{notifier: notifier, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *NotificationEventHandler) EventTypes() []string {
	return []string{
		identity.EventTypeUserRegistered,
		identity.EventTypeUserRoleChanged,
		trade.EventTypeOrderStatusChanged,
		delivery.EventTypeDeliveryNoteStatusChanged,
		finance.EventTypeInvoiceCreated,
		finance.EventTypePaymentOrderCreated,
	}
}

// Handle dispatches an event to its notification rule
func (h *NotificationEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	var err error
	switch e := event.(type) {
	case *identity.UserRegisteredEvent:
		err = h.notifier.NotifyRole(ctx, identity.RoleAdmin, NotificationMessage{
			Title:   "New user registration",
			Message: fmt.Sprintf("New user %s is awaiting approval", e.Email),
			Link:    fmt.Sprintf("/users/%d", e.AggregateID()),
		})
	case *identity.UserRoleChangedEvent:
		err = h.notifier.Notify(ctx, NotificationMessage{
			Title:   "Role updated",
			Message: fmt.Sprintf("Your role has been changed to %s", e.ToRole),
		}, e.AggregateID())
	case *trade.OrderStatusChangedEvent:
		if e.CreatedBy == nil {
			return nil
		}
		err = h.notifier.Notify(ctx, NotificationMessage{
			Title:   "Order status changed",
			Message: fmt.Sprintf("Order %s changed from %s to %s", e.OrderNumber, e.FromStatus, e.ToStatus),
			Link:    fmt.Sprintf("/orders/%d", e.AggregateID()),
		}, *e.CreatedBy)
	case *delivery.DeliveryNoteStatusChangedEvent:
		err = h.notifier.NotifyRole(ctx, identity.RoleLogistics, NotificationMessage{
			Title:   "Delivery note status changed",
			Message: fmt.Sprintf("Delivery note %s changed from %s to %s", e.DeliveryNoteNumber, e.FromStatus, e.ToStatus),
			Link:    fmt.Sprintf("/delivery-notes/%d", e.AggregateID()),
		})
	case *finance.InvoiceCreatedEvent:
		err = h.notifier.NotifyRole(ctx, identity.RolePayments, NotificationMessage{
			Title:   "New invoice",
			Message: fmt.Sprintf("Invoice %s was registered for an amount of %s", e.InvoiceNumber, e.Amount.StringFixed(2)),
			Link:    fmt.Sprintf("/invoices/%d", e.AggregateID()),
		})
	case *finance.PaymentOrderCreatedEvent:
		err = h.notifier.NotifyRole(ctx, identity.RolePayments, NotificationMessage{
			Title:   "New payment order",
			Message: fmt.Sprintf("Payment order %s was issued for an amount of %s", e.PaymentOrderNumber, e.Amount.StringFixed(2)),
			Link:    fmt.Sprintf("/payment-orders/%d", e.AggregateID()),
		})
	default:
		h.logger.Warn("unexpected event type", zap.String("event_type", event.EventType()))
		return nil
	}

	if err != nil {
		h.logger.Error("Failed to create notifications",
			zap.String("event_type", event.EventType()),
			zap.Uint("aggregate_id", event.AggregateID()),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*NotificationEventHandler)(nil)
