package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var deliveryNoteList = listQuery{
	searchColumns: []string{"delivery_note_number", "notes"},
	filterColumns: map[string]string{
		"status":     "status",
		"order_id":   "order_id",
		"carrier_id": "carrier_id",
	},
	sortFields: deliveryNoteSort,
}

// GormDeliveryNoteRepository implements delivery.DeliveryNoteRepository using GORM
type GormDeliveryNoteRepository struct {
	db *gorm.DB
}

var _ delivery.DeliveryNoteRepository = (*GormDeliveryNoteRepository)(nil)

// NewGormDeliveryNoteRepository creates a new GormDeliveryNoteRepository
func NewGormDeliveryNoteRepository(db *gorm.DB) *GormDeliveryNoteRepository {
	return &GormDeliveryNoteRepository{db: db}
}

func (r *GormDeliveryNoteRepository) FindByID(ctx context.Context, id uint) (*delivery.DeliveryNote, error) {
	var model models.DeliveryNoteModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormDeliveryNoteRepository) FindByIDs(ctx context.Context, ids []uint) ([]delivery.DeliveryNote, error) {
	notes := make([]delivery.DeliveryNote, 0, len(ids))
	if len(ids) == 0 {
		return notes, nil
	}
	var rows []models.DeliveryNoteModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		notes = append(notes, *rows[i].ToDomain())
	}
	return notes, nil
}

// FindAll lists delivery notes. Supported filters: status, order_id, carrier_id.
func (r *GormDeliveryNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]delivery.DeliveryNote, error) {
	var rows []models.DeliveryNoteModel
	query := deliveryNoteList.page(dbFromContext(ctx, r.db).Model(&models.DeliveryNoteModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	notes := make([]delivery.DeliveryNote, len(rows))
	for i := range rows {
		notes[i] = *rows[i].ToDomain()
	}
	return notes, nil
}

func (r *GormDeliveryNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := deliveryNoteList.where(dbFromContext(ctx, r.db).Model(&models.DeliveryNoteModel{}), filter).Count(&count).Error
	return count, err
}

func (r *GormDeliveryNoteRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.DeliveryNoteModel{}, "delivery_note_number", number, excludeID)
}

// ExistsPendingForOrderAndCarrier reports whether a pending delivery note
// links the order and carrier
func (r *GormDeliveryNoteRepository) ExistsPendingForOrderAndCarrier(ctx context.Context, orderID, carrierID uint) (bool, error) {
	var count int64
	err := dbFromContext(ctx, r.db).Model(&models.DeliveryNoteModel{}).
		Where("order_id = ? AND carrier_id = ? AND status = ?", orderID, carrierID, delivery.DeliveryNoteStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormDeliveryNoteRepository) Create(ctx context.Context, note *delivery.DeliveryNote) error {
	model := models.DeliveryNoteModelFromDomain(note)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	note.ID = model.ID
	return nil
}

func (r *GormDeliveryNoteRepository) SaveWithLock(ctx context.Context, note *delivery.DeliveryNote) error {
	return saveWithLock(ctx, r.db, models.DeliveryNoteModelFromDomain(note), note.ID, note.Version)
}

func (r *GormDeliveryNoteRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.DeliveryNoteModel{}, ids)
}
