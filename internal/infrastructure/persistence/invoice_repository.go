package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

var invoiceList = listQuery{
	searchColumns: []string{"invoice_number"},
	filterColumns: map[string]string{
		"order_id":   "order_id",
		"carrier_id": "carrier_id",
	},
	sortFields: invoiceSort,
}

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uint) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := dbFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs returns the invoices among ids that exist
func (r *GormInvoiceRepository) FindByIDs(ctx context.Context, ids []uint) ([]finance.Invoice, error) {
	invoices := make([]finance.Invoice, 0, len(ids))
	if len(ids) == 0 {
		return invoices, nil
	}
	var rows []models.InvoiceModel
	if err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		invoices = append(invoices, *rows[i].ToDomain())
	}
	return invoices, nil
}

// FindAll lists invoices
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	var rows []models.InvoiceModel
	query := invoiceList.page(dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	invoices := make([]finance.Invoice, len(rows))
	for i := range rows {
		invoices[i] = *rows[i].ToDomain()
	}
	return invoices, nil
}

// Count counts invoices matching the filter
func (r *GormInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	err := invoiceList.where(dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}), filter).Count(&count).Error
	return count, err
}

// ExistsByNumber checks for another invoice with exactly this number
func (r *GormInvoiceRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	return existsExcluding(ctx, r.db, &models.InvoiceModel{}, "invoice_number", number, excludeID)
}

// ExistsByOrderAndCarrier checks for another invoice for the same order and carrier
func (r *GormInvoiceRepository) ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error) {
	var count int64
	query := dbFromContext(ctx, r.db).Model(&models.InvoiceModel{}).
		Where("order_id = ? AND carrier_id = ?", orderID, carrierID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new invoice
func (r *GormInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	if err := dbFromContext(ctx, r.db).Create(model).Error; err != nil {
		return carrierOrderError(translateError(err), "uq_invoices_order_carrier")
	}
	invoice.ID = model.ID
	return nil
}

// SaveWithLock saves an invoice with optimistic locking
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	err := saveWithLock(ctx, r.db, models.InvoiceModelFromDomain(invoice), invoice.ID, invoice.Version)
	return carrierOrderError(err, "uq_invoices_order_carrier")
}

// DeleteByIDs removes invoices
func (r *GormInvoiceRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return deleteByIDs(ctx, r.db, &models.InvoiceModel{}, ids)
}
