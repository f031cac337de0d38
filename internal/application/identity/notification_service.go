package identity

import (
	"context"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Notification error codes
const (
	CodeNotificationNotFound      = "NOTIFICATION_NOT_FOUND"
	CodeSomeNotificationsNotFound = "SOME_NOTIFICATIONS_NOT_FOUND"
)

// NotificationService manages the notifications of the calling user and
// delivers new ones to users or whole roles
type NotificationService struct {
	notificationRepo identity.NotificationRepository
	userRepo         identity.UserRepository
	retention        time.Duration
	now              func() time.Time
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService.
// A non-positive retention falls back to the default window.
func NewNotificationService(
	notificationRepo identity.NotificationRepository,
	userRepo identity.UserRepository,
	retention time.Duration,
	logger *zap.Logger,
) *NotificationService {
	if retention <= 0 {
		retention = identity.DefaultNotificationRetention
	}
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		retention:        retention,
		now:              time.Now,
		logger:           logger,
	}
}

// GetMine purges the actor's expired notifications and returns one page of the rest
func (s *NotificationService) GetMine(ctx context.Context, actor shared.Actor, filter *shared.Filter) (*shared.Paginated[NotificationResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	purged, err := s.notificationRepo.DeleteOlderThan(ctx, actor.UserID, s.now().Add(-s.retention))
	if err != nil {
		return nil, err
	}
	if purged > 0 {
		s.logger.Debug("Expired notifications purged", zap.Uint("user_id", actor.UserID), zap.Int64("count", purged))
	}

	notifications, err := s.notificationRepo.FindByUser(ctx, actor.UserID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.notificationRepo.CountByUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToNotificationResponses(notifications), total, f.Page, f.PageSize)
	return &page, nil
}

// UnreadCount returns how many of the actor's notifications are unread
func (s *NotificationService) UnreadCount(ctx context.Context, actor shared.Actor) (*UnreadCountResponse, error) {
	count, err := s.notificationRepo.CountUnread(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: count}, nil
}

// PurgeExpired removes every notification past the retention window,
// whoever owns it. It runs from the background scheduler.
func (s *NotificationService) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := s.notificationRepo.DeleteAllOlderThan(ctx, s.now().Add(-s.retention))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		s.logger.Info("Expired notifications swept", zap.Int64("count", purged))
	}
	return purged, nil
}

// MarkAsRead flags one of the actor's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, actor shared.Actor, id uint) error {
	if err := s.notificationRepo.MarkAsRead(ctx, actor.UserID, id); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(CodeNotificationNotFound, "Notification"))
	}
	return nil
}

// MarkAllAsRead flags every unread notification of the actor as read
func (s *NotificationService) MarkAllAsRead(ctx context.Context, actor shared.Actor) error {
	updated, err := s.notificationRepo.MarkAllAsRead(ctx, actor.UserID)
	if err != nil {
		return err
	}
	s.logger.Debug("Notifications marked as read", zap.Uint("user_id", actor.UserID), zap.Int64("count", updated))
	return nil
}

// Delete removes one of the actor's notifications
func (s *NotificationService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	return s.deleteMany(ctx, actor, []uint{id}, shared.EntityNotFound(CodeNotificationNotFound, "Notification"))
}

// BulkDelete removes several of the actor's notifications. Ids owned by other
// users are reported as not found and nothing is deleted.
func (s *NotificationService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	return s.deleteMany(ctx, actor, ids, shared.SomeNotFound(CodeSomeNotificationsNotFound, "notifications"))
}

func (s *NotificationService) deleteMany(ctx context.Context, actor shared.Actor, ids []uint, notFound *shared.DomainError) error {
	unique, err := shared.UniqueIDs(ids)
	if err != nil {
		return err
	}
	if len(unique) == 0 {
		return nil
	}

	owned, err := s.notificationRepo.FindByIDs(ctx, actor.UserID, unique)
	if err != nil {
		return err
	}
	if len(owned) != len(unique) {
		return notFound
	}
	return s.notificationRepo.DeleteByIDs(ctx, actor.UserID, unique)
}

// Notify delivers the same message to every user in userIDs. Duplicates and zero ids are skipped.
func (s *NotificationService) Notify(ctx context.Context, msg NotificationMessage, userIDs ...uint) error {
	recipients := make([]*identity.Notification, 0, len(userIDs))
	seen := make(map[uint]struct{}, len(userIDs))
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		n, err := identity.NewNotification(id, msg.Title, msg.Message, msg.Link)
		if err != nil {
			return err
		}
		recipients = append(recipients, n)
	}
	if len(recipients) == 0 {
		return nil
	}
	if err := s.notificationRepo.CreateBatch(ctx, recipients); err != nil {
		return err
	}
	s.logger.Debug("Notifications created", zap.String("title", msg.Title), zap.Int("recipients", len(recipients)))
	return nil
}

// NotifyRole delivers a message to every user holding role
func (s *NotificationService) NotifyRole(ctx context.Context, role identity.Role, msg NotificationMessage) error {
	if !role.IsValid() {
		return shared.NewValidationError("INVALID_ROLE", "Invalid role: "+string(role))
	}
	ids, err := s.userRepo.FindIDsByRole(ctx, role)
	if err != nil {
		return err
	}
	return s.Notify(ctx, msg, ids...)
}

