package persistence

import (
	"context"
	"fmt"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var orderList = listQuery{
	searchColumns: []string{"order_number", "origin", "destination"},
	filterColumns: map[string]string{
		"status":      "status",
		"seller_id":   "seller_id",
		"customer_id": "customer_id",
		"carrier_id":  "carrier_id",
	},
	sortFields: orderSort,
}

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by ID
func (r *GormOrderRepository) FindByID(ctx context.Context, id uint) (*trade.Order, error) {
	var model models.OrderModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists orders. Supported filters: status, seller_id, customer_id, carrier_id.
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var rows []models.OrderModel
	query := orderList.page(dbFromContext(ctx, r.db).Model(&models.OrderModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, nil
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := orderList.where(dbFromContext(ctx, r.db).Model(&models.OrderModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByOrderNumber checks for another order with exactly this number
func (r *GormOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.OrderModel{}, "order_number", orderNumber, excludeID)
}

// Create inserts a new order
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return translateError(err)
	}
	order.ID = model.ID
	return nil
}

// SaveWithLock saves an order with optimistic locking
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return saveWithLock(ctx, r.db, models.OrderModelFromDomain(order), order.ID, order.Version)
}

// FindByIDs returns the orders among ids that exist
func (r *GormOrderRepository) FindByIDs(ctx context.Context, ids []uint) ([]trade.Order, error) {
	orders := make([]trade.Order, 0, len(ids))
	if len(ids) == 0 {
		return orders, nil
	}
	var rows []models.OrderModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		orders = append(orders, *rows[i].ToDomain())
	}
	return orders, nil
}

var orderDocuments = []dependentSource{
	{trade.OrderDependentDeliveryNotes, &models.DeliveryNoteModel{}, "order_id"},
	{trade.OrderDependentInvoices, &models.InvoiceModel{}, "order_id"},
	{trade.OrderDependentPaymentOrders, &models.PaymentOrderModel{}, "order_id"},
}

// DeleteWithDocuments removes the orders after their delivery notes, invoices
// and payment orders. Run it inside a transaction scope so a failure leaves
// every row in place.
func (r *GormOrderRepository) DeleteWithDocuments(ctx context.Context, ids []uint) (map[string]int64, error) {
	removed := make(map[string]int64, len(orderDocuments))
	if len(ids) == 0 {
		return removed, nil
	}
	tx := dbFromContext(ctx, r.db)
	for _, doc := range orderDocuments {
		result := tx.Where(doc.fkColumn+" IN ?", ids).Delete(doc.model)
		if result.Error != nil {
			return nil, fmt.Errorf("delete %s: %w", doc.category, result.Error)
		}
		removed[doc.category] = result.RowsAffected
	}
	if err := deleteByIDs(ctx, r.db, &models.OrderModel{}, ids); err != nil {
		return nil, err
	}
	return removed, nil
}
