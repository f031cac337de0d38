package partner

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// CarrierRepository defines the interface for carrier persistence
type CarrierRepository interface {
	shared.Repository[Carrier]
	shared.DeletableRepository

	// ExistsByName checks for another carrier with exactly this name.
	// excludeID skips the carrier being updated; pass 0 on create.
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)

	// Create inserts a new carrier and assigns its ID
	Create(ctx context.Context, carrier *Carrier) error

	// SaveWithLock persists changes only if the stored version is carrier.Version-1
	SaveWithLock(ctx context.Context, carrier *Carrier) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	shared.Repository[Customer]
	shared.DeletableRepository
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, customer *Customer) error
	SaveWithLock(ctx context.Context, customer *Customer) error
}

// SellerRepository defines the interface for seller persistence
type SellerRepository interface {
	shared.Repository[Seller]
	shared.DeletableRepository
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	Create(ctx context.Context, seller *Seller) error
	SaveWithLock(ctx context.Context, seller *Seller) error
}
