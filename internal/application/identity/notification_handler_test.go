package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockNotifier is a mock implementation of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, msg NotificationMessage, userIDs ...uint) error {
	return m.Called(ctx, msg, userIDs).Error(0)
}

func (m *MockNotifier) NotifyRole(ctx context.Context, role identity.Role, msg NotificationMessage) error {
	return m.Called(ctx, role, msg).Error(0)
}

func TestNotificationEventHandler_EventTypes(t *testing.T) {
	h := NewNotificationEventHandler(new(MockNotifier), zap.NewNop())

	assert.ElementsMatch(t, []string{
		"UserRegistered", "UserRoleChanged", "OrderStatusChanged",
		"DeliveryNoteStatusChanged", "InvoiceCreated", "PaymentOrderCreated",
	}, h.EventTypes())
}

func TestNotificationEventHandler_Handle(t *testing.T) {
	ctx := context.Background()
	actor := shared.NewActor(1, "Admin")

	t.Run("user registered notifies admins", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		user := storedUser(12, "new@example.com", identity.RolePending)
		notifier.On("NotifyRole", ctx, identity.RoleAdmin, mock.MatchedBy(func(msg NotificationMessage) bool {
			return msg.Message == "New user new@example.com is awaiting approval"
		})).Return(nil)

		require.NoError(t, h.Handle(ctx, identity.NewUserRegisteredEvent(user)))
		notifier.AssertExpectations(t)
	})

	t.Run("role change notifies the user", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		user := storedUser(12, "new@example.com", identity.RoleLogistics)
		notifier.On("Notify", ctx, mock.MatchedBy(func(msg NotificationMessage) bool {
			return msg.Message == "Your role has been changed to Logistics"
		}), []uint{12}).Return(nil)

		require.NoError(t, h.Handle(ctx, identity.NewUserRoleChangedEvent(user, identity.RolePending, actor)))
		notifier.AssertExpectations(t)
	})

	t.Run("order status change notifies creator", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		order, err := trade.NewOrder("OC-7", 1, 2, nil, decimal.NewFromInt(10))
		require.NoError(t, err)
		order.ID = 7
		order.MarkCreatedBy(shared.NewActor(3, "Purchasing"))
		order.Status = trade.OrderStatusClosed
		notifier.On("Notify", ctx, mock.Anything, []uint{3}).Return(nil)

		require.NoError(t, h.Handle(ctx, trade.NewOrderStatusChangedEvent(order, trade.OrderStatusPending, actor)))
		notifier.AssertExpectations(t)
	})

	t.Run("order without creator is skipped", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		order, err := trade.NewOrder("OC-8", 1, 2, nil, decimal.NewFromInt(10))
		require.NoError(t, err)

		require.NoError(t, h.Handle(ctx, trade.NewOrderStatusChangedEvent(order, trade.OrderStatusPending, actor)))
		notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("delivery note status notifies logistics", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		note, err := delivery.NewDeliveryNote("R-1", 1, 2, time.Time{}, "")
		require.NoError(t, err)
		notifier.On("NotifyRole", ctx, identity.RoleLogistics, mock.Anything).Return(nil)

		require.NoError(t, h.Handle(ctx, delivery.NewDeliveryNoteStatusChangedEvent(note, delivery.DeliveryNoteStatusPending, actor)))
		notifier.AssertExpectations(t)
	})

	t.Run("finance events notify payments", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		invoice, err := finance.NewInvoice("F-1", 1, 2, decimal.RequireFromString("1200.5"), time.Time{})
		require.NoError(t, err)
		payment, err := finance.NewPaymentOrder("OP-1", 1, 2, decimal.NewFromInt(900), time.Time{})
		require.NoError(t, err)
		notifier.On("NotifyRole", ctx, identity.RolePayments, mock.MatchedBy(func(msg NotificationMessage) bool {
			return msg.Message == "Invoice F-1 was registered for an amount of 1200.50"
		})).Return(nil).Once()
		notifier.On("NotifyRole", ctx, identity.RolePayments, mock.MatchedBy(func(msg NotificationMessage) bool {
			return msg.Title == "New payment order"
		})).Return(nil).Once()

		require.NoError(t, h.Handle(ctx, finance.NewInvoiceCreatedEvent(invoice, actor)))
		require.NoError(t, h.Handle(ctx, finance.NewPaymentOrderCreatedEvent(payment, actor)))
		notifier.AssertExpectations(t)
	})

	t.Run("delivery failures are swallowed", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())
		notifier.On("NotifyRole", ctx, identity.RoleAdmin, mock.Anything).Return(errors.New("db down"))

		err := h.Handle(ctx, identity.NewUserRegisteredEvent(storedUser(12, "new@example.com", identity.RolePending)))

		assert.NoError(t, err)
	})

	t.Run("unknown event is ignored", func(t *testing.T) {
		notifier := new(MockNotifier)
		h := NewNotificationEventHandler(notifier, zap.NewNop())

		assert.NoError(t, h.Handle(ctx, testutil.NewStubEvent("SomethingElse", 1, 1)))
	})
}
