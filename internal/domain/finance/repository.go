package finance

import (
	"context"
	"fmt"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// ErrCarrierOrderTaken is returned by Create and SaveWithLock when the unique
// (order, carrier) key already holds a document. It also matches
// shared.ErrDuplicateKey.
var ErrCarrierOrderTaken = fmt.Errorf("%w: order and carrier pair already used", shared.ErrDuplicateKey)

// InvoiceRepository defines the interface for invoice persistence
type InvoiceRepository interface {
	shared.Repository[Invoice]

	// FindByIDs returns the invoices among ids that exist
	FindByIDs(ctx context.Context, ids []uint) ([]Invoice, error)

	// ExistsByNumber checks for another invoice with exactly this number
	ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error)

	// ExistsByOrderAndCarrier checks for another invoice for the same order and carrier
	ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error)

	Create(ctx context.Context, invoice *Invoice) error
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	DeleteByIDs(ctx context.Context, ids []uint) error
}

// PaymentOrderRepository defines the interface for payment order persistence
type PaymentOrderRepository interface {
	shared.Repository[PaymentOrder]
	FindByIDs(ctx context.Context, ids []uint) ([]PaymentOrder, error)
	ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error)
	ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error)
	Create(ctx context.Context, paymentOrder *PaymentOrder) error
	SaveWithLock(ctx context.Context, paymentOrder *PaymentOrder) error
	DeleteByIDs(ctx context.Context, ids []uint) error
}
