package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var customerList = listQuery{
	searchColumns: []string{"name", "tax_id", "email", "address"},
	sortFields:    partnerSort,
}

// GormCustomerRepository implements partner.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

var _ partner.CustomerRepository = (*GormCustomerRepository)(nil)

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uint) (*partner.Customer, error) {
	var model models.CustomerModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	var rows []models.CustomerModel
	query := customerList.page(dbFromContext(ctx, r.db).Model(&models.CustomerModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	customers := make([]partner.Customer, len(rows))
	for i := range rows {
		customers[i] = *rows[i].ToDomain()
	}
	return customers, nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := customerList.where(dbFromContext(ctx, r.db).Model(&models.CustomerModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByName checks for another customer with exactly this name
func (r *GormCustomerRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.CustomerModel{}, "name", name, excludeID)
}

// Create inserts a new customer
func (r *GormCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	model := models.CustomerModelFromDomain(customer)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	customer.ID = model.ID
	return nil
}

// SaveWithLock saves a customer with optimistic locking (version check)
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return saveWithLock(ctx, r.db, models.CustomerModelFromDomain(customer), customer.ID, customer.Version)
}

// FindDependents counts the orders placed for each customer
func (r *GormCustomerRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	return findDependents(ctx, r.db, &models.CustomerModel{}, ids,
		dependentSource{partner.CustomerDependentOrders, &models.OrderModel{}, "customer_id"},
	)
}

// DeleteByIDs removes customers
func (r *GormCustomerRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.CustomerModel{}, ids)
}
