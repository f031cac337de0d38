package trade

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
)

// OrderGate guards documents attached to an order against closed or rejected orders
type OrderGate struct {
	orderRepo trade.OrderRepository
}

// NewOrderGate creates a new OrderGate
func NewOrderGate(orderRepo trade.OrderRepository) *OrderGate {
	return &OrderGate{orderRepo: orderRepo}
}

// EnsureOpen loads each distinct order and fails with CLOSED_OR_REJECTED_ORDER
// when any of them is closed or rejected.
func (g *OrderGate) EnsureOpen(ctx context.Context, orderIDs ...uint) error {
	seen := make(map[uint]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		order, err := g.orderRepo.FindByID(ctx, id)
		if err != nil {
			return shared.NotFoundAs(err, shared.EntityNotFound(CodeOrderNotFound, "Order"))
		}
		if err := order.EnsureOpen(); err != nil {
			return err
		}
	}
	return nil
}
