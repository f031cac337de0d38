package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var sellerList = listQuery{
	searchColumns: []string{"name", "email", "phone"},
	sortFields:    partnerSort,
}

// GormSellerRepository implements partner.SellerRepository using GORM
type GormSellerRepository struct {
	db *gorm.DB
}

var _ partner.SellerRepository = (*GormSellerRepository)(nil)

// NewGormSellerRepository creates a new GormSellerRepository
func NewGormSellerRepository(db *gorm.DB) *GormSellerRepository {
	return &GormSellerRepository{db: db}
}

// FindByID finds a seller by its ID
func (r *GormSellerRepository) FindByID(ctx context.Context, id uint) (*partner.Seller, error) {
	var model models.SellerModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all sellers matching the filter
func (r *GormSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Seller, error) {
	var rows []models.SellerModel
	query := sellerList.page(dbFromContext(ctx, r.db).Model(&models.SellerModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	sellers := make([]partner.Seller, len(rows))
	for i := range rows {
		sellers[i] = *rows[i].ToDomain()
	}
	return sellers, nil
}

// Count counts sellers matching the filter
func (r *GormSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := sellerList.where(dbFromContext(ctx, r.db).Model(&models.SellerModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByName checks for another seller with exactly this name
func (r *GormSellerRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.SellerModel{}, "name", name, excludeID)
}

// Create inserts a new seller
func (r *GormSellerRepository) Create(ctx context.Context, seller *partner.Seller) error {
	model := models.SellerModelFromDomain(seller)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	seller.ID = model.ID
	return nil
}

// SaveWithLock saves a seller with optimistic locking (version check)
func (r *GormSellerRepository) SaveWithLock(ctx context.Context, seller *partner.Seller) error {
	return saveWithLock(ctx, r.db, models.SellerModelFromDomain(seller), seller.ID, seller.Version)
}

// FindDependents counts the orders each seller is responsible for
func (r *GormSellerRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	return findDependents(ctx, r.db, &models.SellerModel{}, ids,
		dependentSource{partner.SellerDependentOrders, &models.OrderModel{}, "seller_id"},
	)
}

// DeleteByIDs removes sellers
func (r *GormSellerRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.SellerModel{}, ids)
}
