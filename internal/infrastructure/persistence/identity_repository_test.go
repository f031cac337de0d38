package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createUser(t *testing.T, repo *GormUserRepository, email string, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUserWithRole(email, "Test User", "secret123", role)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func createNotifications(t *testing.T, repo *GormNotificationRepository, userID uint, titles ...string) []*identity.Notification {
	t.Helper()
	batch := make([]*identity.Notification, 0, len(titles))
	for _, title := range titles {
		n, err := identity.NewNotification(userID, title, "", "")
		require.NoError(t, err)
		batch = append(batch, n)
	}
	require.NoError(t, repo.CreateBatch(context.Background(), batch))
	return batch
}

func TestGormUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	admin := createUser(t, repo, "admin@example.com", identity.RoleAdmin)
	createUser(t, repo, "ops@example.com", identity.RoleLogistics)
	createUser(t, repo, "ops2@example.com", identity.RoleLogistics)

	t.Run("find by email ignores case", func(t *testing.T) {
		u, err := repo.FindByEmail(ctx, "  ADMIN@example.com ")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, u.ID)
		assert.True(t, u.VerifyPassword("secret123"))

		_, err = repo.FindByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("role queries", func(t *testing.T) {
		n, err := repo.CountByRole(ctx, identity.RoleLogistics)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		ids, err := repo.FindIDsByRole(ctx, identity.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []uint{admin.ID}, ids)

		f, err := shared.NormalizeFilter(&shared.Filter{Filters: map[string]any{"role": string(identity.RoleLogistics)}})
		require.NoError(t, err)
		users, err := repo.FindAll(ctx, f)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("email uniqueness excludes the user itself", func(t *testing.T) {
		exists, err := repo.ExistsByEmail(ctx, "admin@example.com", admin.ID)
		require.NoError(t, err)
		assert.False(t, exists)

		exists, err = repo.ExistsByEmail(ctx, "admin@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("image key round trip", func(t *testing.T) {
		u, err := repo.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		u.SetImage("users/1/avatar.png")
		u.MarkUpdatedBy(shared.NewActor(admin.ID, "Admin"))
		require.NoError(t, repo.SaveWithLock(ctx, u))

		reloaded, err := repo.FindByID(ctx, admin.ID)
		require.NoError(t, err)
		assert.Equal(t, "users/1/avatar.png", reloaded.ImageKey)
	})
}

func TestGormUserRepository_DeleteCascadesNotifications(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	notifications := NewGormNotificationRepository(db)
	ctx := context.Background()

	gone := createUser(t, users, "gone@example.com", identity.RoleLogistics)
	kept := createUser(t, users, "kept@example.com", identity.RoleLogistics)
	createNotifications(t, notifications, gone.ID, "a", "b")
	createNotifications(t, notifications, kept.ID, "c")

	require.NoError(t, users.DeleteByIDs(ctx, []uint{gone.ID}))

	n, err := notifications.CountByUser(ctx, gone.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
	n, err = notifications.CountByUser(ctx, kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	found, err := users.FindByIDs(ctx, []uint{gone.ID, kept.ID})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, kept.ID, found[0].ID)
}

func TestGormUserRepository_GuardedAdminWrites(t *testing.T) {
	db := newTestDB(t)
	users := NewGormUserRepository(db)
	notifications := NewGormNotificationRepository(db)
	ctx := context.Background()
	actor := shared.NewActor(1, "Admin")

	first := createUser(t, users, "first@example.com", identity.RoleAdmin)
	second := createUser(t, users, "second@example.com", identity.RoleAdmin)
	ops := createUser(t, users, "ops@example.com", identity.RoleLogistics)

	demote := func(u *identity.User) error {
		t.Helper()
		require.NoError(t, u.ChangeRole(identity.RoleLogistics))
		u.MarkUpdatedBy(actor)
		return users.SaveKeepingAdmin(ctx, u)
	}

	t.Run("demotion lands while another admin remains", func(t *testing.T) {
		u, err := users.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.NoError(t, demote(u))

		n, err := users.CountByRole(ctx, identity.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("last admin is not demoted", func(t *testing.T) {
		u, err := users.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.ErrorIs(t, demote(u), identity.ErrNoAdminRemains)

		reloaded, err := users.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleAdmin, reloaded.Role)
	})

	t.Run("stale version still reports a conflict", func(t *testing.T) {
		u, err := users.FindByID(ctx, second.ID)
		require.NoError(t, err)
		u.Version = 7
		assert.ErrorIs(t, demote(u), shared.ErrConcurrencyConflict)
	})

	t.Run("deleting the last admin rolls the batch back", func(t *testing.T) {
		createNotifications(t, notifications, ops.ID, "kept")
		scope := NewGormTransactionScope(db)

		err := scope.Execute(ctx, func(ctx context.Context) error {
			return users.DeleteKeepingAdmin(ctx, []uint{second.ID, ops.ID})
		})

		assert.ErrorIs(t, err, identity.ErrNoAdminRemains)
		found, err := users.FindByIDs(ctx, []uint{second.ID, ops.ID})
		require.NoError(t, err)
		assert.Len(t, found, 2)
		n, err := notifications.CountByUser(ctx, ops.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("admin is deleted once another exists", func(t *testing.T) {
		u, err := users.FindByID(ctx, ops.ID)
		require.NoError(t, err)
		require.NoError(t, u.ChangeRole(identity.RoleAdmin))
		u.MarkUpdatedBy(actor)
		require.NoError(t, users.SaveWithLock(ctx, u))

		require.NoError(t, users.DeleteKeepingAdmin(ctx, []uint{second.ID}))

		ids, err := users.FindIDsByRole(ctx, identity.RoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, []uint{ops.ID}, ids)
	})
}

func TestGormNotificationRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormNotificationRepository(db)
	ctx := context.Background()

	mine := createNotifications(t, repo, 1, "first", "second", "third")
	theirs := createNotifications(t, repo, 2, "other")
	for _, n := range mine {
		require.NotZero(t, n.ID)
	}

	t.Run("queries are scoped to the owner", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 1, theirs[0].ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		found, err := repo.FindByIDs(ctx, 1, []uint{mine[0].ID, theirs[0].ID})
		require.NoError(t, err)
		assert.Len(t, found, 1)
	})

	t.Run("list is newest first and paged", func(t *testing.T) {
		f, err := shared.NormalizeFilter(&shared.Filter{Page: 1, PageSize: 2})
		require.NoError(t, err)
		page, err := repo.FindByUser(ctx, 1, f)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "third", page[0].Title)
	})

	t.Run("mark as read", func(t *testing.T) {
		require.NoError(t, repo.MarkAsRead(ctx, 1, mine[0].ID))
		unread, err := repo.CountUnread(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), unread)

		err = repo.MarkAsRead(ctx, 1, theirs[0].ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		affected, err := repo.MarkAllAsRead(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), affected)

		unread, err = repo.CountUnread(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), unread, "other users are untouched")
	})

	t.Run("delete older than cutoff", func(t *testing.T) {
		old := time.Now().UTC().Add(-45 * 24 * time.Hour)
		require.NoError(t, db.Model(&models.NotificationModel{}).
			Where("id = ?", mine[0].ID).
			Update("created_at", old).Error)

		removed, err := repo.DeleteOlderThan(ctx, 1, time.Now().UTC().Add(-identity.DefaultNotificationRetention))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		total, err := repo.CountByUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
	})

	t.Run("delete by ids", func(t *testing.T) {
		require.NoError(t, repo.DeleteByIDs(ctx, 1, []uint{mine[1].ID, theirs[0].ID}))

		total, err := repo.CountByUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		total, err = repo.CountByUser(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total, "another user's notification survives")
	})

	t.Run("sweep ignores the owner", func(t *testing.T) {
		old := time.Now().UTC().Add(-90 * 24 * time.Hour)
		require.NoError(t, db.Model(&models.NotificationModel{}).
			Where("id = ?", theirs[0].ID).
			Update("created_at", old).Error)

		removed, err := repo.DeleteAllOlderThan(ctx, time.Now().UTC().Add(-identity.DefaultNotificationRetention))
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		total, err := repo.CountByUser(ctx, 2)
		require.NoError(t, err)
		assert.Zero(t, total)
		total, err = repo.CountByUser(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})
}

func TestGormTransactionScope(t *testing.T) {
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	carriers := NewGormCarrierRepository(db)
	ctx := context.Background()

	t.Run("error rolls back every write", func(t *testing.T) {
		boom := errors.New("boom")
		err := scope.Execute(ctx, func(ctx context.Context) error {
			c, err := partner.NewCarrier("Rollback", "", "", "")
			require.NoError(t, err)
			if err := carriers.Create(ctx, c); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, err, boom)

		exists, err := carriers.ExistsByName(ctx, "Rollback", 0)
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("nested scopes share the outer transaction", func(t *testing.T) {
		err := scope.Execute(ctx, func(outer context.Context) error {
			return scope.Execute(outer, func(inner context.Context) error {
				assert.Same(t, outer.Value(txKey{}).(*gorm.DB), inner.Value(txKey{}).(*gorm.DB))
				c, err := partner.NewCarrier("Committed", "", "", "")
				require.NoError(t, err)
				return carriers.Create(inner, c)
			})
		})
		require.NoError(t, err)

		exists, err := carriers.ExistsByName(ctx, "Committed", 0)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
