package identity

import (
	"context"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var reader = shared.NewActor(8, "Payments")

func newNotificationService() (*NotificationService, *testutil.MockNotificationRepository, *testutil.MockUserRepository) {
	notifications := new(testutil.MockNotificationRepository)
	users := new(testutil.MockUserRepository)
	svc := NewNotificationService(notifications, users, 0, zap.NewNop())
	return svc, notifications, users
}

func storedNotification(id, userID uint, title string) identity.Notification {
	n, _ := identity.NewNotification(userID, title, "", "")
	n.ID = id
	return *n
}

func TestNotificationService_GetMine(t *testing.T) {
	ctx := context.Background()

	t.Run("purges expired notifications before paging", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		notifications.On("DeleteOlderThan", ctx, uint(8), now.Add(-30*24*time.Hour)).Return(int64(3), nil)
		notifications.On("FindByUser", ctx, uint(8), mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 50
		})).Return([]identity.Notification{storedNotification(2, 8, "New invoice")}, nil)
		notifications.On("CountByUser", ctx, uint(8)).Return(int64(1), nil)

		page, err := svc.GetMine(ctx, reader, &shared.Filter{Page: 0, PageSize: 500})

		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "New invoice", page.Items[0].Title)
		assert.Equal(t, 1, page.TotalPages)
		notifications.AssertExpectations(t)
	})

	t.Run("nil filter", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()

		_, err := svc.GetMine(ctx, reader, nil)

		assert.ErrorIs(t, err, shared.ErrArgumentNull)
		notifications.AssertNotCalled(t, "DeleteOlderThan", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNotificationService_PurgeExpired(t *testing.T) {
	ctx := context.Background()
	svc, notifications, _ := newNotificationService()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	notifications.On("DeleteAllOlderThan", ctx, now.Add(-identity.DefaultNotificationRetention)).Return(int64(12), nil)

	purged, err := svc.PurgeExpired(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(12), purged)
	notifications.AssertExpectations(t)
}

func TestNotificationService_ReadState(t *testing.T) {
	ctx := context.Background()

	t.Run("unread count", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("CountUnread", ctx, uint(8)).Return(int64(4), nil)

		resp, err := svc.UnreadCount(ctx, reader)

		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Count)
	})

	t.Run("mark foreign notification as read", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("MarkAsRead", ctx, uint(8), uint(70)).Return(shared.ErrNotFound)

		err := svc.MarkAsRead(ctx, reader, 70)

		assertDomainCode(t, err, CodeNotificationNotFound)
	})

	t.Run("mark all as read", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("MarkAllAsRead", ctx, uint(8)).Return(int64(2), nil)

		require.NoError(t, svc.MarkAllAsRead(ctx, reader))
		notifications.AssertExpectations(t)
	})
}

func TestNotificationService_BulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes own notifications", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("FindByIDs", ctx, uint(8), []uint{1, 2}).Return([]identity.Notification{
			storedNotification(1, 8, "a"), storedNotification(2, 8, "b"),
		}, nil)
		notifications.On("DeleteByIDs", ctx, uint(8), []uint{1, 2}).Return(nil)

		err := svc.BulkDelete(ctx, reader, []uint{1, 2, 2})

		require.NoError(t, err)
		notifications.AssertExpectations(t)
	})

	t.Run("foreign id is reported as not found", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("FindByIDs", ctx, uint(8), []uint{1, 9}).Return([]identity.Notification{
			storedNotification(1, 8, "a"),
		}, nil)

		err := svc.BulkDelete(ctx, reader, []uint{1, 9})

		assertDomainCode(t, err, CodeSomeNotificationsNotFound)
		assert.True(t, shared.IsNotFound(err))
		notifications.AssertNotCalled(t, "DeleteByIDs", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("single delete", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("FindByIDs", ctx, uint(8), []uint{9}).Return([]identity.Notification{}, nil)

		err := svc.Delete(ctx, reader, 9)

		assertDomainCode(t, err, CodeNotificationNotFound)
	})

	t.Run("nil ids", func(t *testing.T) {
		svc, _, _ := newNotificationService()

		assert.ErrorIs(t, svc.BulkDelete(ctx, reader, nil), shared.ErrArgumentNull)
	})
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	msg := NotificationMessage{Title: "New invoice", Message: "F-1"}

	t.Run("skips duplicate and zero recipients", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()
		notifications.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*identity.Notification) bool {
			return len(batch) == 2 && batch[0].UserID == 3 && batch[1].UserID == 4
		})).Return(nil)

		err := svc.Notify(ctx, msg, 3, 0, 4, 3)

		require.NoError(t, err)
		notifications.AssertExpectations(t)
	})

	t.Run("no recipients is a no-op", func(t *testing.T) {
		svc, notifications, _ := newNotificationService()

		require.NoError(t, svc.Notify(ctx, msg))
		notifications.AssertNotCalled(t, "CreateBatch", mock.Anything, mock.Anything)
	})

	t.Run("notify role", func(t *testing.T) {
		svc, notifications, users := newNotificationService()
		users.On("FindIDsByRole", ctx, identity.RolePayments).Return([]uint{8, 9}, nil)
		notifications.On("CreateBatch", ctx, mock.MatchedBy(func(batch []*identity.Notification) bool {
			return len(batch) == 2
		})).Return(nil)

		require.NoError(t, svc.NotifyRole(ctx, identity.RolePayments, msg))
		notifications.AssertExpectations(t)
	})

	t.Run("notify unknown role", func(t *testing.T) {
		svc, _, _ := newNotificationService()

		err := svc.NotifyRole(ctx, identity.Role("Drivers"), msg)

		assertDomainCode(t, err, "INVALID_ROLE")
	})
}
