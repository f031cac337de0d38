package identity

import (
	"strings"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// DefaultNotificationRetention is how long notifications are kept
const DefaultNotificationRetention = 30 * 24 * time.Hour

// Notification is a message addressed to one user
type Notification struct {
	shared.BaseEntity
	UserID  uint
	Title   string
	Message string
	Link    string
	IsRead  bool
}

// NewNotification creates an unread notification
func NewNotification(userID uint, title, message, link string) (*Notification, error) {
	if userID == 0 {
		return nil, shared.NewDomainError("INVALID_USER", "Notification recipient is required")
	}
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title cannot be empty")
	}
	if len(title) > 200 {
		title = title[:200]
	}
	return &Notification{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		Title:      title,
		Message:    message,
		Link:       link,
	}, nil
}

// MarkAsRead flags the notification as read
func (n *Notification) MarkAsRead() {
	if n.IsRead {
		return
	}
	n.IsRead = true
	n.Touch()
}

// IsExpired reports whether the notification is older than the retention window
func (n *Notification) IsExpired(now time.Time, retention time.Duration) bool {
	return n.CreatedAt.Before(now.Add(-retention))
}
