package trade

import (
	"context"
	"errors"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"go.uber.org/zap"
)

// Order error codes
const (
	CodeOrderNotFound            = "ORDER_NOT_FOUND"
	CodeSomeOrdersNotFound       = "SOME_ORDERS_NOT_FOUND"
	CodeOrderNumberAlreadyExists = "ORDER_NUMBER_ALREADY_EXISTS"
	CodeSellerNotFound           = "SELLER_NOT_FOUND"
	CodeCustomerNotFound         = "CUSTOMER_NOT_FOUND"
	CodeCarrierNotFound          = "CARRIER_NOT_FOUND"
)

// OrderService handles order-related business operations
type OrderService struct {
	orderRepo    trade.OrderRepository
	sellerRepo   partner.SellerRepository
	customerRepo partner.CustomerRepository
	carrierRepo  partner.CarrierRepository
	txScope      shared.TransactionScope
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orderRepo trade.OrderRepository,
	sellerRepo partner.SellerRepository,
	customerRepo partner.CustomerRepository,
	carrierRepo partner.CarrierRepository,
	txScope shared.TransactionScope,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		sellerRepo:   sellerRepo,
		customerRepo: customerRepo,
		carrierRepo:  carrierRepo,
		txScope:      txScope,
		logger:       logger,
	}
}

// SetEventPublisher sets the publisher for order events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

// List returns a page of orders, newest first. Supported filters: status, seller_id, customer_id.
func (s *OrderService) List(ctx context.Context, filter *shared.Filter) (*shared.Paginated[OrderResponse], error) {
	f, err := shared.NormalizeFilter(filter)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.orderRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToOrderResponses(orders), total, f.Page, f.PageSize)
	return &page, nil
}

// GetByID retrieves an order by ID
func (s *OrderService) GetByID(ctx context.Context, id uint) (*OrderResponse, error) {
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// Create creates a new pending order
func (s *OrderService) Create(ctx context.Context, actor shared.Actor, req *CreateOrderRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	order, err := trade.NewOrder(req.OrderNumber, req.SellerID, req.CustomerID, req.CarrierID, req.Price)
	if err != nil {
		return nil, err
	}
	order.SetRoute(req.Origin, req.Destination, req.Notes)
	order.MarkCreatedBy(actor)

	if err := s.ensureReferences(ctx, order); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, req.OrderNumber, 0); err != nil {
		return nil, err
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, s.translateWriteError(err, req.OrderNumber)
	}

	s.logger.Info("Order created",
		zap.Uint("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.Uint("actor_id", actor.UserID))

	response := ToOrderResponse(order)
	return &response, nil
}

// Update updates an open order, rejecting stale versions
func (s *OrderService) Update(ctx context.Context, actor shared.Actor, id uint, req *UpdateOrderRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}
	if err := order.Update(req.OrderNumber, req.SellerID, req.CustomerID, req.CarrierID, req.Price); err != nil {
		return nil, err
	}
	order.SetRoute(req.Origin, req.Destination, req.Notes)

	if err := s.ensureReferences(ctx, order); err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, req.OrderNumber, id); err != nil {
		return nil, err
	}

	order.MarkUpdatedBy(actor)
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, s.translateWriteError(err, req.OrderNumber)
	}

	s.logger.Info("Order updated",
		zap.Uint("order_id", order.ID),
		zap.Int("version", order.Version),
		zap.Uint("actor_id", actor.UserID))

	response := ToOrderResponse(order)
	return &response, nil
}

// ChangeStatus moves an order to another status
func (s *OrderService) ChangeStatus(ctx context.Context, actor shared.Actor, id uint, req *ChangeOrderStatusRequest) (*OrderResponse, error) {
	if req == nil {
		return nil, shared.ErrArgumentNull
	}
	order, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := order.CheckVersion(req.Version); err != nil {
		return nil, err
	}

	from := order.Status
	if err := order.ChangeStatus(trade.OrderStatus(req.Status)); err != nil {
		s.logger.Warn("Order status change rejected",
			zap.Uint("order_id", id),
			zap.String("from", string(from)),
			zap.String("to", req.Status))
		return nil, err
	}

	order.MarkUpdatedBy(actor)
	if err := s.orderRepo.SaveWithLock(ctx, order); err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeOrderNotFound, "Order"))
	}

	s.logger.Info("Order status changed",
		zap.Uint("order_id", order.ID),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)),
		zap.Uint("actor_id", actor.UserID))

	if s.events != nil {
		if err := s.events.Publish(ctx, trade.NewOrderStatusChangedEvent(order, from, actor)); err != nil {
			s.logger.Error("Failed to publish order status event", zap.Error(err))
		}
	}

	response := ToOrderResponse(order)
	return &response, nil
}

// Delete deletes an open order together with its delivery notes, invoices
// and payment orders
func (s *OrderService) Delete(ctx context.Context, actor shared.Actor, id uint) error {
	_, removed, err := s.deleteMany(ctx, []uint{id}, shared.EntityNotFound(CodeOrderNotFound, "Order"))
	if err != nil {
		return err
	}
	s.logger.Info("Order deleted",
		zap.Uint("order_id", id),
		zap.Any("documents", removed),
		zap.Uint("actor_id", actor.UserID))
	return nil
}

// BulkDelete deletes a set of open orders and their documents atomically
func (s *OrderService) BulkDelete(ctx context.Context, actor shared.Actor, ids []uint) error {
	deleted, removed, err := s.deleteMany(ctx, ids, shared.SomeNotFound(CodeSomeOrdersNotFound, "orders"))
	if err != nil {
		return err
	}
	if len(deleted) > 0 {
		s.logger.Info("Orders deleted",
			zap.Uints("order_ids", deleted),
			zap.Any("documents", removed),
			zap.Uint("actor_id", actor.UserID))
	}
	return nil
}

// deleteMany fails the whole batch when any id is unknown or any order is
// closed or rejected; otherwise the documents go first, then the orders.
// It returns the de-duplicated ids and the documents removed per category.
func (s *OrderService) deleteMany(ctx context.Context, ids []uint, notFound *shared.DomainError) ([]uint, map[string]int64, error) {
	unique, err := shared.UniqueIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	if len(unique) == 0 {
		return unique, nil, nil
	}

	var removed map[string]int64
	err = s.txScope.Execute(ctx, func(ctx context.Context) error {
		orders, err := s.orderRepo.FindByIDs(ctx, unique)
		if err != nil {
			return err
		}
		found := make([]uint, len(orders))
		for i := range orders {
			found[i] = orders[i].ID
		}
		if len(shared.MissingIDs(unique, found)) > 0 {
			return notFound
		}
		for i := range orders {
			if err := orders[i].EnsureOpen(); err != nil {
				return err
			}
		}
		removed, err = s.orderRepo.DeleteWithDocuments(ctx, unique)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return unique, removed, nil
}

func (s *OrderService) find(ctx context.Context, id uint) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, shared.NotFoundAs(err, shared.EntityNotFound(CodeOrderNotFound, "Order"))
	}
	return order, nil
}

func (s *OrderService) ensureReferences(ctx context.Context, order *trade.Order) error {
	if _, err := s.sellerRepo.FindByID(ctx, order.SellerID); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(CodeSellerNotFound, "Seller"))
	}
	if _, err := s.customerRepo.FindByID(ctx, order.CustomerID); err != nil {
		return shared.NotFoundAs(err, shared.EntityNotFound(CodeCustomerNotFound, "Customer"))
	}
	if order.CarrierID != nil {
		if _, err := s.carrierRepo.FindByID(ctx, *order.CarrierID); err != nil {
			return shared.NotFoundAs(err, shared.EntityNotFound(CodeCarrierNotFound, "Carrier"))
		}
	}
	return nil
}

func (s *OrderService) ensureUniqueNumber(ctx context.Context, number string, excludeID uint) error {
	exists, err := s.orderRepo.ExistsByOrderNumber(ctx, number, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.AlreadyExists(CodeOrderNumberAlreadyExists, "order", "number", number)
	}
	return nil
}

func (s *OrderService) translateWriteError(err error, number string) error {
	if errors.Is(err, shared.ErrDuplicateKey) {
		return shared.AlreadyExists(CodeOrderNumberAlreadyExists, "order", "number", number)
	}
	return shared.NotFoundAs(err, shared.EntityNotFound(CodeOrderNotFound, "Order"))
}
