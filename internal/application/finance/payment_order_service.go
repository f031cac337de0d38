package finance

import (
	"context"
	"errors"

	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// Payment order error codes
const (
	CodePaymentOrderNotFound      = "PAYMENT_ORDER_NOT_FOUND"
	CodeSomePaymentOrdersNotFound = "SOME_PAYMENT_ORDERS_NOT_FOUND"
)

// PaymentOrderService handles payment order business operations
type PaymentOrderService struct {
	paymentOrderRepo finance.PaymentOrderRepository
	carrierRepo      partner.CarrierRepository
	orderGate        *tradeapp.OrderGate
	txScope          shared.TransactionScope
	events           shared.EventPublisher
	logger           *zap.Logger
}

// NewPaymentOrderService creates a new PaymentOrderService
func NewPaymentOrderService(
	paymentOrderRepo finance.PaymentOrderRepository,
	carrierRepo partner.CarrierRepository,
	orderGate *tradeapp.OrderGate,
	txScope shared.TransactionScope,
	logger *zap.Logger,
) *PaymentOrderService {
	return &PaymentOrderService{
		paymentOrderRepo: paymentOrderRepo,
		carrierRepo:      carrierRepo,
		orderGate:        orderGate,
		txScope:          txScope,
		logger:           logger,
	}
}

// SetEventPublisher sets the publisher for payment order events
func (s *PaymentOrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// List returns a page of payment orders
func (s *PaymentOrderService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[PaymentOrderResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	items, err := s.paymentOrderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.paymentOrderRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToPaymentOrderResponses(items), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves a payment order by ID
func (s *PaymentOrderService) GetByID(ctx context.Context, id uint) (*PaymentOrderResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToPaymentOrderResponse(p)
	return &response, nil
}

// Create creates a payment order for an open order
func (s *PaymentOrderService) Create(ctx context.Context, actor shared.Actor, req *CreatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	p, err := finance.NewPaymentOrder(req.PaymentOrderNumber, req.OrderID, req.CarrierID, req.Amount, req.PaymentDate)
	if err != nil {
		return nil, err
	}
	p.MarkCreatedBy(actor)

	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		if err := s.checkRules(ctx, p, 0); err != nil {
			return err
		}
		return s.paymentOrderRepo.Create(ctx, p)
	})
	if err != nil {
		return nil, s.translateWriteError(err, p.PaymentOrderNumber)
	}

	s.logger.Info("Payment order created",
		zap.Uint("payment_order_id", p.ID),
		zap.String("payment_order_number", p.PaymentOrderNumber),
		zap.Uint("actor_id", actor.UserID))

	if s.events != nil {
		if err := s.events.Publish(ctx, finance.NewPaymentOrderCreatedEvent(p, actor)); err != nil {
			s.logger.Error("Failed to publish payment order created event", zap.Error(err))
		}
	}

	response := ToPaymentOrderResponse(p)
	return &response, nil
}

// Update updates a payment order whose current and target orders are open
func (s *PaymentOrderService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdatePaymentOrderRequest) (*PaymentOrderResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}

	var p *finance.PaymentOrder
	err := s.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		if p, err = s.find(ctx, id); err != nil {
			return err
		}
		if err := p.CheckVersion(req.Version); err != nil {
			return err
		}
		if err := s.orderGate.EnsureOpen(ctx, p.OrderID); err != nil {
			return err
		}
		if err := p.Update(req.PaymentOrderNumber, req.OrderID, req.CarrierID, req.Amount, req.PaymentDate); err != nil {
			return err
		}
		if err := s.checkRules(ctx, p, id); err != nil {
			return err
		}
		p.MarkUpdatedBy(actor)
		return s.paymentOrderRepo.SaveWithLock(ctx, p)
	})
	if err != nil {
		return nil, s.translateWriteError(err, req.PaymentOrderNumber)
	}

	s.logger.Info("Payment order updated",
		zap.Uint("payment_order_id", p.ID),
		zap.Int("version", p.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToPaymentOrderResponse(p)
	return &response, nil
}

// Delete deletes a single payment order
func (s *PaymentOrderService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	if err := s.deleteMany(ctx, []uint{id}, shared.EntityNotFound(CodePaymentOrderNotFound, "Payment order")); err != nil {
		return err
	}
	s.logger.Info("Payment order deleted", zap.Uint("payment_order_id", id), zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of payment orders atomically
func (s *PaymentOrderService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	if err := s.deleteMany(ctx, ids, shared.SomeNotFound(CodeSomePaymentOrdersNotFound, "payment orders")); err != nil {
		return err
	}
	s.logger.Info("Payment orders deleted", zap.Int("requested", len(ids)), zap.Uint("actor_id", actor.UserID))
	return nil
}

func (s *PaymentOrderService) deleteMany(ctx context.Context, ids []uint, notFound *shared.DomainError) error {
	unique, err := shared.UniqueIDs(ids)
	if err != nil || len(unique) == 0 {
		return err
	}

	return s.txScope.Execute(ctx, func(ctx context.Context) error {
		items, err := s.paymentOrderRepo.FindByIDs(ctx, unique)
		if err != nil {
			return err
		}
		if len(items) != len(unique) {
			return notFound
		}
		orderIDs := make([]uint, 0, len(items))
		for _, p := range items {
			orderIDs = append(orderIDs, p.OrderID)
		}
		if err := s.orderGate.EnsureOpen(ctx, orderIDs...); err != nil {
			return err
		}
		return s.paymentOrderRepo.DeleteByIDs(ctx, unique)
	})
}

func (s *PaymentOrderService) checkRules(ctx context.Context, p *finance.PaymentOrder, excludeID uint) error {
	if err := s.orderGate.EnsureOpen(ctx, p.OrderID); err != nil {
		return err
	}
	if _, err := s.carrierRepo.FindByID(ctx, p.CarrierID); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(tradeapp.CodeCarrierNotFound, "Carrier"))
	}

	taken, err := s.paymentOrderRepo.ExistsByNumber(ctx, p.PaymentOrderNumber, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return paymentOrderNumberTaken(p.PaymentOrderNumber)
	}

	taken, err = s.paymentOrderRepo.ExistsByOrderAndCarrier(ctx, p.OrderID, p.CarrierID, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return paymentOrderCarrierOrderTaken()
	}
	return nil
}

func (s *PaymentOrderService) find(ctx context.Context, id uint) (*finance.PaymentOrder, error) {
	p, err := s.paymentOrderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodePaymentOrderNotFound, "Payment order"))
	}
	return p, nil
}

func (s *PaymentOrderService) translateWriteError(err error, number string) error {
	switch {
	case errors.Is(err, finance.ErrCarrierOrderTaken):
		return paymentOrderCarrierOrderTaken()
	case errors.Is(err, shared.ErrDuplicateKey):
		return paymentOrderNumberTaken(number)
	case errors.Is(err, shared.ErrNotFound):
		return shared.EntityNotFound(CodePaymentOrderNotFound, "Payment order")
	}
	return err
}

func paymentOrderCarrierOrderTaken() *shared.DomainError {
	return shared.NewConflictError(finance.CodePaymentOrderCarrierOrderAlreadyExists,
		"A payment order for this order and carrier already exists")
}

func paymentOrderNumberTaken(number string) *shared.DomainError {
	return shared.AlreadyExists(finance.CodePaymentOrderNumberAlreadyExists, "payment order", "number", number)
}
