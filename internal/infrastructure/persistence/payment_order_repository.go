package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var paymentOrderList = listQuery{
	searchColumns: []string{"payment_order_number"},
	filterColumns: map[string]string{
		"order_id":   "order_id",
		"carrier_id": "carrier_id",
	},
	sortFields: paymentOrderSort,
}

// GormPaymentOrderRepository implements finance.PaymentOrderRepository using GORM
type GormPaymentOrderRepository struct {
	db *gorm.DB
}

var _ finance.PaymentOrderRepository = (*GormPaymentOrderRepository)(nil)

// NewGormPaymentOrderRepository creates a new GormPaymentOrderRepository
func NewGormPaymentOrderRepository(db *gorm.DB) *GormPaymentOrderRepository {
	return &GormPaymentOrderRepository{db: db}
}

// FindByID finds a payment order by ID
func (r *GormPaymentOrderRepository) FindByID(ctx context.Context, id uint) (*finance.PaymentOrder, error) {
	var model models.PaymentOrderModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the payment orders among ids that exist
func (r *GormPaymentOrderRepository) FindByIDs(ctx context.Context, ids []uint) ([]finance.PaymentOrder, error) {
	paymentOrders := make([]finance.PaymentOrder, 0, len(ids))
	if len(ids) == 0 {
		return paymentOrders, nil
	}
	var rows []models.PaymentOrderModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		paymentOrders = append(paymentOrders, *rows[i].ToDomain())
	}
	return paymentOrders, nil
}

// FindAll lists payment orders
func (r *GormPaymentOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.PaymentOrder, error) {
	var rows []models.PaymentOrderModel
	query := paymentOrderList.page(dbFromContext(ctx, r.db).Model(&models.PaymentOrderModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	paymentOrders := make([]finance.PaymentOrder, len(rows))
	for i := range rows {
		paymentOrders[i] = *rows[i].ToDomain()
	}
	return paymentOrders, nil
}

// Count counts payment orders matching the filter
func (r *GormPaymentOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := paymentOrderList.where(dbFromContext(ctx, r.db).Model(&models.PaymentOrderModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByNumber checks for another payment order with exactly this number
func (r *GormPaymentOrderRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.PaymentOrderModel{}, "payment_order_number", number, excludeID)
}

// ExistsByOrderAndCarrier checks for another payment order for the same order and carrier
func (r *GormPaymentOrderRepository) ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.PaymentOrderModel{}).
		Where("order_id = ? AND carrier_id = ?", orderID, carrierID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new payment order
func (r *GormPaymentOrderRepository) Create(ctx context.Context, paymentOrder *finance.PaymentOrder) error {
	model := models.PaymentOrderModelFromDomain(paymentOrder)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return carrierOrderError(translateError(err), "uq_payment_orders_order_carrier")
	}
	paymentOrder.ID = model.ID
	return nil
}

// SaveWithLock saves a payment order with optimistic locking
func (r *GormPaymentOrderRepository) SaveWithLock(ctx context.Context, paymentOrder *finance.PaymentOrder) error {
	err := saveWithLock(ctx, r.db, models.PaymentOrderModelFromDomain(paymentOrder), paymentOrder.ID, paymentOrder.Version)
	return carrierOrderError(err, "uq_payment_orders_order_carrier")
}

// DeleteByIDs removes payment orders
func (r *GormPaymentOrderRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.PaymentOrderModel{}, ids)
}
