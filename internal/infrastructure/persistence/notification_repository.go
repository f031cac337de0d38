package persistence

import (
	"context"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements identity.NotificationRepository.
// Every query is scoped to the owning user.
type GormNotificationRepository struct {
	db *gorm.DB
}

var _ identity.NotificationRepository = (*GormNotificationRepository)(nil)

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) owned(ctx context.Context, userID uint) *gorm.DB {
	return dbFromContext(ctx, r.db).Model(&models.NotificationModel{}).Where("user_id = ?", userID)
}

// FindByID finds a notification owned by userID
func (r *GormNotificationRepository) FindByID(ctx context.Context, userID, id uint) (*identity.Notification, error) {
	var model models.NotificationModel
	if err := r.owned(ctx, userID).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the notifications among ids owned by userID
func (r *GormNotificationRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]identity.Notification, error) {
	out := make([]identity.Notification, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.NotificationModel
	if err := r.owned(ctx, userID).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// FindByUser lists a user's notifications, newest first
func (r *GormNotificationRepository) FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]identity.Notification, error) {
	var rows []models.NotificationModel
	query := r.owned(ctx, userID).Order("created_at DESC").Order("id DESC")
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]identity.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// CountByUser counts a user's notifications
func (r *GormNotificationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.owned(ctx, userID).Count(&count).Error
	return count, err
}

// CountUnread counts a user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.owned(ctx, userID).Where("is_read = ?", false).Count(&count).Error
	return count, err
}

// CreateBatch inserts notifications and assigns their IDs
func (r *GormNotificationRepository) CreateBatch(ctx context.Context, notifications []*identity.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, len(notifications))
	for i, n := range notifications {
		rows[i] = models.NotificationModelFromDomain(n)
	}
	if err := dbFromContext(ctx, r.db).CreateInBatches(rows, 100).Error; err != nil {
		return err
	}
	for i, n := range notifications {
		n.ID = rows[i].ID
	}
	return nil
}

// MarkAsRead flags one notification as read
func (r *GormNotificationRepository) MarkAsRead(ctx context.Context, userID, id uint) error {
	result := r.owned(ctx, userID).Where("id = ?", id).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// MarkAllAsRead flags every unread notification of a user as read
func (r *GormNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	result := r.owned(ctx, userID).Where("is_read = ?", false).
		Updates(map[string]any{"is_read": true, "updated_at": time.Now().UTC()})
	return result.RowsAffected, result.Error
}

// DeleteByIDs removes notifications owned by userID
func (r *GormNotificationRepository) DeleteByIDs(ctx context.Context, userID uint, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return dbFromContext(ctx, r.db).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.NotificationModel{}).Error
}

// DeleteOlderThan purges a user's notifications created before cutoff
func (r *GormNotificationRepository) DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Where("user_id = ? AND created_at < ?", userID, cutoff).
		Delete(&models.NotificationModel{})
	return result.RowsAffected, result.Error
}

func (r *GormNotificationRepository) DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := dbFromContext(ctx, r.db).
		Where("created_at < ?", cutoff).
		Delete(&models.NotificationModel{})
	return result.RowsAffected, result.Error
}
