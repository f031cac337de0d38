package identity

import (
	"context"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	shared.Repository[User]

	// FindByIDs returns the users among ids that exist
	FindByIDs(ctx context.Context, ids []uint) ([]User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindIDsByRole returns the ids of every user holding role
	FindIDsByRole(ctx context.Context, role Role) ([]uint, error)

	// ExistsByEmail checks for another user with this email
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)

	// CountByRole counts users holding role
	CountByRole(ctx context.Context, role Role) (int64, error)

	Create(ctx context.Context, user *User) error
	SaveWithLock(ctx context.Context, user *User) error
	DeleteByIDs(ctx context.Context, ids []uint) error

	// SaveKeepingAdmin is SaveWithLock for a user leaving the admin role. The
	// write only lands while another administrator exists, otherwise it returns
	// ErrNoAdminRemains.
	SaveKeepingAdmin(ctx context.Context, user *User) error

	// DeleteKeepingAdmin is DeleteByIDs guarded the same way: it removes nothing
	// and returns ErrNoAdminRemains unless an administrator outside ids remains.
	DeleteKeepingAdmin(ctx context.Context, ids []uint) error
}

// NotificationRepository defines the interface for notification persistence
type NotificationRepository interface {
	// FindByID finds a notification owned by userID
	FindByID(ctx context.Context, userID, id uint) (*Notification, error)

	// FindByIDs returns the notifications among ids owned by userID
	FindByIDs(ctx context.Context, userID uint, ids []uint) ([]Notification, error)

	// FindByUser lists a user's notifications, newest first
	FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]Notification, error)

	// CountByUser counts a user's notifications
	CountByUser(ctx context.Context, userID uint) (int64, error)

	// CountUnread counts a user's unread notifications
	CountUnread(ctx context.Context, userID uint) (int64, error)

	// CreateBatch inserts notifications and assigns their IDs
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// MarkAsRead flags one notification as read
	MarkAsRead(ctx context.Context, userID, id uint) error

	// MarkAllAsRead flags every unread notification of a user as read
	MarkAllAsRead(ctx context.Context, userID uint) (int64, error)

	// DeleteByIDs removes notifications owned by userID
	DeleteByIDs(ctx context.Context, userID uint, ids []uint) error

	// DeleteOlderThan purges a user's notifications created before cutoff
	DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error)

	// DeleteAllOlderThan purges every notification created before cutoff
	DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
