package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var carrierList = listQuery{
	searchColumns: []string{"name", "tax_id", "email"},
	sortFields:    partnerSort,
}

// GormCarrierRepository implements partner.CarrierRepository using GORM
type GormCarrierRepository struct {
	db *gorm.DB
}

var _ partner.CarrierRepository = (*GormCarrierRepository)(nil)

// NewGormCarrierRepository creates a new GormCarrierRepository
func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// FindByID finds a carrier by its ID
func (r *GormCarrierRepository) FindByID(ctx context.Context, id uint) (*partner.Carrier, error) {
	var model models.CarrierModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists carriers matching the filter
func (r *GormCarrierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Carrier, error) {
	var rows []models.CarrierModel
	query := carrierList.page(dbFromContext(ctx, r.db).Model(&models.CarrierModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	carriers := make([]partner.Carrier, len(rows))
	for i := range rows {
		carriers[i] = *rows[i].ToDomain()
	}
	return carriers, nil
}

// Count counts carriers matching the filter
func (r *GormCarrierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := carrierList.where(dbFromContext(ctx, r.db).Model(&models.CarrierModel{}), filter)
	err := query.Count(&count).Error
	return count, err
}

// ExistsByName checks for another carrier with exactly this name
func (r *GormCarrierRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.CarrierModel{}, "name", name, excludeID)
}

// Create inserts a new carrier and assigns its ID
func (r *GormCarrierRepository) Create(ctx context.Context, carrier *partner.Carrier) error {
	model := models.CarrierModelFromDomain(carrier)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	carrier.ID = model.ID
	return nil
}

// SaveWithLock persists changes if nobody else updated the carrier first
func (r *GormCarrierRepository) SaveWithLock(ctx context.Context, carrier *partner.Carrier) error {
	return saveWithLock(ctx, r.db, models.CarrierModelFromDomain(carrier), carrier.ID, carrier.Version)
}

// FindDependents counts the orders, delivery notes, invoices and payment
// orders referencing each carrier
func (r *GormCarrierRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	return findDependents(ctx, r.db, &models.CarrierModel{}, ids,
		dependentSource{partner.CarrierDependentOrders, &models.OrderModel{}, "carrier_id"},
		dependentSource{partner.CarrierDependentDeliveryNotes, &models.DeliveryNoteModel{}, "carrier_id"},
		dependentSource{partner.CarrierDependentInvoices, &models.InvoiceModel{}, "carrier_id"},
		dependentSource{partner.CarrierDependentPaymentOrders, &models.PaymentOrderModel{}, "carrier_id"},
	)
}

// DeleteByIDs removes carriers
func (r *GormCarrierRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.CarrierModel{}, ids)
}
