package delivery

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
)

// DeliveryNoteRepository defines the interface for delivery note persistence
type DeliveryNoteRepository interface {
	shared.Repository[DeliveryNote]

	// FindByIDs returns the delivery notes among ids that exist
	FindByIDs(ctx context.Context, ids []uint) ([]DeliveryNote, error)

	// ExistsByNumber checks for another delivery note with exactly this number
	ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error)

	// ExistsPendingForOrderAndCarrier reports whether a pending delivery note links the order and carrier
	ExistsPendingForOrderAndCarrier(ctx context.Context, orderID, carrierID uint) (bool, error)

	Create(ctx context.Context, note *DeliveryNote) error
	SaveWithLock(ctx context.Context, note *DeliveryNote) error
	DeleteByIDs(ctx context.Context, ids []uint) error
}
