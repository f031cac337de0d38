package trade

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	shared.Repository[Order]

	// FindByIDs returns the orders among ids that exist
	FindByIDs(ctx context.Context, ids []uint) ([]Order, error)

	// DeleteWithDocuments removes the orders together with their delivery notes,
	// invoices and payment orders, returning the number of documents removed
	// per dependent category
	DeleteWithDocuments(ctx context.Context, ids []uint) (map[string]int64, error)

	// ExistsByOrderNumber checks for another order with exactly this number
	ExistsByOrderNumber(ctx context.Context, orderNumber string, excludeID uint) (bool, error)

	// Create inserts a new order and assigns its ID
	Create(ctx context.Context, order *Order) error

	// SaveWithLock persists changes only if the stored version is order.Version-1
	SaveWithLock(ctx context.Context, order *Order) error
}
