package trade

import (
	"context"
	"testing"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testActor = shared.NewActor(3, "Purchasing")

type orderServiceFixture struct {
	svc       *OrderService
	orders    *testutil.MockOrderRepository
	sellers   *testutil.MockSellerRepository
	customers *testutil.MockCustomerRepository
	carriers  *testutil.MockCarrierRepository
	events    *testutil.MockEventPublisher
}

func newOrderServiceFixture() *orderServiceFixture {
	f := &orderServiceFixture{
		orders:    new(testutil.MockOrderRepository),
		sellers:   new(testutil.MockSellerRepository),
		customers: new(testutil.MockCustomerRepository),
		carriers:  new(testutil.MockCarrierRepository),
		events:    new(testutil.MockEventPublisher),
	}
	f.svc = NewOrderService(f.orders, f.sellers, f.customers, f.carriers, shared.NoOpTransactionScope{}, zap.NewNop())
	f.svc.SetEventPublisher(f.events)
	return f
}

func (f *orderServiceFixture) expectParties(ctx context.Context) {
	seller, _ := partner.NewSeller("Ana", "", "")
	customer, _ := partner.NewCustomer("Initech", "", "", "", "")
	f.sellers.On("FindByID", ctx, uint(1)).Return(seller, nil)
	f.customers.On("FindByID", ctx, uint(2)).Return(customer, nil)
}

func newStoredOrder(id uint, number string, status trade.OrderStatus) *trade.Order {
	o, _ := trade.NewOrder(number, 1, 2, nil, decimal.NewFromInt(1500))
	o.ID = id
	o.Status = status
	return o
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestOrderService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates pending order", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.expectParties(ctx)
		f.orders.On("ExistsByOrderNumber", ctx, "OC-0001", uint(0)).Return(false, nil)
		f.orders.On("Create", ctx, mock.AnythingOfType("*trade.Order")).Run(func(args mock.Arguments) {
			args.Get(1).(*trade.Order).ID = 10
		}).Return(nil)

		resp, err := f.svc.Create(ctx, testActor, &CreateOrderRequest{
			OrderNumber: "OC-0001",
			SellerID:    1,
			CustomerID:  2,
			Price:       decimal.NewFromInt(2500),
			Origin:      "Rosario",
			Destination: "Córdoba",
		})

		require.NoError(t, err)
		assert.Equal(t, uint(10), resp.ID)
		assert.Equal(t, "Pending", resp.Status)
		assert.Equal(t, "Rosario", resp.Origin)
		require.NotNil(t, resp.CreatedBy)
		assert.Equal(t, uint(3), *resp.CreatedBy)
	})

	t.Run("unknown seller", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.sellers.On("FindByID", ctx, uint(1)).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, testActor, &CreateOrderRequest{OrderNumber: "OC-1", SellerID: 1, CustomerID: 2})

		assertDomainCode(t, err, CodeSellerNotFound)
		f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown carrier", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.expectParties(ctx)
		carrierID := uint(9)
		f.carriers.On("FindByID", ctx, carrierID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(ctx, testActor, &CreateOrderRequest{OrderNumber: "OC-1", SellerID: 1, CustomerID: 2, CarrierID: &carrierID})

		assertDomainCode(t, err, CodeCarrierNotFound)
	})

	t.Run("duplicate number", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.expectParties(ctx)
		f.orders.On("ExistsByOrderNumber", ctx, "OC-0001", uint(0)).Return(true, nil)

		_, err := f.svc.Create(ctx, testActor, &CreateOrderRequest{OrderNumber: "OC-0001", SellerID: 1, CustomerID: 2})

		assertDomainCode(t, err, CodeOrderNumberAlreadyExists)
		assert.Equal(t, "An order with the number 'OC-0001' already exists", err.Error())
	})

	t.Run("nil request", func(t *testing.T) {
		f := newOrderServiceFixture()
		_, err := f.svc.Create(ctx, testActor, nil)
		assert.ErrorIs(t, err, shared.ErrArgumentNull)
	})
}

func TestOrderService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects closed order", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, uint(4)).Return(newStoredOrder(4, "OC-4", trade.OrderStatusClosed), nil)

		_, err := f.svc.Update(ctx, testActor, 4, &UpdateOrderRequest{OrderNumber: "OC-4", SellerID: 1, CustomerID: 2, Version: 1})

		assertDomainCode(t, err, shared.CodeClosedOrRejectedOrder)
		assert.True(t, shared.IsConflict(err))
		f.orders.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects stale version", func(t *testing.T) {
		f := newOrderServiceFixture()
		stored := newStoredOrder(4, "OC-4", trade.OrderStatusPending)
		stored.Version = 3
		f.orders.On("FindByID", ctx, uint(4)).Return(stored, nil)

		_, err := f.svc.Update(ctx, testActor, 4, &UpdateOrderRequest{OrderNumber: "OC-4", SellerID: 1, CustomerID: 2, Version: 2})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("keeps own number", func(t *testing.T) {
		f := newOrderServiceFixture()
		stored := newStoredOrder(4, "OC-4", trade.OrderStatusPending)
		f.orders.On("FindByID", ctx, uint(4)).Return(stored, nil)
		f.expectParties(ctx)
		f.orders.On("ExistsByOrderNumber", ctx, "OC-4", uint(4)).Return(false, nil)
		f.orders.On("SaveWithLock", ctx, stored).Return(nil)

		resp, err := f.svc.Update(ctx, testActor, 4, &UpdateOrderRequest{
			OrderNumber: "OC-4",
			SellerID:    1,
			CustomerID:  2,
			Price:       decimal.NewFromInt(99),
			Version:     1,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, resp.Version)
		assert.True(t, decimal.NewFromInt(99).Equal(resp.Price))
	})

	t.Run("concurrent save", func(t *testing.T) {
		f := newOrderServiceFixture()
		stored := newStoredOrder(4, "OC-4", trade.OrderStatusPending)
		f.orders.On("FindByID", ctx, uint(4)).Return(stored, nil)
		f.expectParties(ctx)
		f.orders.On("ExistsByOrderNumber", ctx, "OC-4", uint(4)).Return(false, nil)
		f.orders.On("SaveWithLock", ctx, stored).Return(shared.ErrConcurrencyConflict)

		_, err := f.svc.Update(ctx, testActor, 4, &UpdateOrderRequest{OrderNumber: "OC-4", SellerID: 1, CustomerID: 2, Version: 1})

		assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})
}

func TestOrderService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("closes pending order and publishes event", func(t *testing.T) {
		f := newOrderServiceFixture()
		stored := newStoredOrder(5, "OC-5", trade.OrderStatusPending)
		f.orders.On("FindByID", ctx, uint(5)).Return(stored, nil)
		f.orders.On("SaveWithLock", ctx, stored).Return(nil)
		f.events.On("Publish", ctx, mock.MatchedBy(func(events []shared.DomainEvent) bool {
			if len(events) != 1 {
				return false
			}
			e, ok := events[0].(*trade.OrderStatusChangedEvent)
			return ok && e.FromStatus == "Pending" && e.ToStatus == "Closed"
		})).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, testActor, 5, &ChangeOrderStatusRequest{Status: "Closed", Version: 1})

		require.NoError(t, err)
		assert.Equal(t, "Closed", resp.Status)
		f.events.AssertExpectations(t)
	})

	t.Run("closed order is terminal", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByID", ctx, uint(5)).Return(newStoredOrder(5, "OC-5", trade.OrderStatusClosed), nil)

		_, err := f.svc.ChangeStatus(ctx, testActor, 5, &ChangeOrderStatusRequest{Status: "Pending", Version: 1})

		assertDomainCode(t, err, "INVALID_STATUS_TRANSITION")
		f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})

	t.Run("publish failure does not fail the change", func(t *testing.T) {
		f := newOrderServiceFixture()
		stored := newStoredOrder(5, "OC-5", trade.OrderStatusRejected)
		f.orders.On("FindByID", ctx, uint(5)).Return(stored, nil)
		f.orders.On("SaveWithLock", ctx, stored).Return(nil)
		f.events.On("Publish", ctx, mock.Anything).Return(assert.AnError)

		resp, err := f.svc.ChangeStatus(ctx, testActor, 5, &ChangeOrderStatusRequest{Status: "Pending", Version: 1})

		require.NoError(t, err)
		assert.Equal(t, "Pending", resp.Status)
	})
}

func TestOrderService_BulkDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unique ids with their documents", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{1, 2}).Return([]trade.Order{
			*newStoredOrder(1, "OC-1", trade.OrderStatusPending),
			*newStoredOrder(2, "OC-2", trade.OrderStatusPending),
		}, nil)
		f.orders.On("DeleteWithDocuments", ctx, []uint{1, 2}).Return(map[string]int64{
			trade.OrderDependentDeliveryNotes: 2,
			trade.OrderDependentInvoices:      1,
		}, nil)

		err := f.svc.BulkDelete(ctx, testActor, []uint{1, 2, 2, 1})

		require.NoError(t, err)
		f.orders.AssertExpectations(t)
	})

	t.Run("missing id fails the whole batch", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{1, 99}).Return([]trade.Order{
			*newStoredOrder(1, "OC-1", trade.OrderStatusPending),
		}, nil)

		err := f.svc.BulkDelete(ctx, testActor, []uint{1, 99})

		assertDomainCode(t, err, CodeSomeOrdersNotFound)
		assert.Equal(t, "Some of the specified orders were not found", err.Error())
		f.orders.AssertNotCalled(t, "DeleteWithDocuments", mock.Anything, mock.Anything)
	})

	t.Run("one closed order fails the whole batch", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{1, 2}).Return([]trade.Order{
			*newStoredOrder(1, "OC-1", trade.OrderStatusPending),
			*newStoredOrder(2, "OC-2", trade.OrderStatusClosed),
		}, nil)

		err := f.svc.BulkDelete(ctx, testActor, []uint{1, 2})

		assertDomainCode(t, err, shared.CodeClosedOrRejectedOrder)
		f.orders.AssertNotCalled(t, "DeleteWithDocuments", mock.Anything, mock.Anything)
	})

	t.Run("empty list is a no-op", func(t *testing.T) {
		f := newOrderServiceFixture()
		require.NoError(t, f.svc.BulkDelete(ctx, testActor, []uint{}))
		f.orders.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything)
	})

	t.Run("nil list", func(t *testing.T) {
		f := newOrderServiceFixture()
		assert.ErrorIs(t, f.svc.BulkDelete(ctx, testActor, nil), shared.ErrArgumentNull)
	})
}

func TestOrderService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("open order cascades to its documents", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{1}).Return([]trade.Order{
			*newStoredOrder(1, "O-1", trade.OrderStatusPending),
		}, nil)
		f.orders.On("DeleteWithDocuments", ctx, []uint{1}).Return(map[string]int64{
			trade.OrderDependentDeliveryNotes: 1,
		}, nil)

		require.NoError(t, f.svc.Delete(ctx, testActor, 1))
		f.orders.AssertExpectations(t)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{7}).Return([]trade.Order{}, nil)

		err := f.svc.Delete(ctx, testActor, 7)

		assertDomainCode(t, err, CodeOrderNotFound)
	})

	t.Run("rejected order is locked", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{3}).Return([]trade.Order{
			*newStoredOrder(3, "O-3", trade.OrderStatusRejected),
		}, nil)

		err := f.svc.Delete(ctx, testActor, 3)

		assertDomainCode(t, err, shared.CodeClosedOrRejectedOrder)
		f.orders.AssertNotCalled(t, "DeleteWithDocuments", mock.Anything, mock.Anything)
	})

	t.Run("storage failure is returned", func(t *testing.T) {
		f := newOrderServiceFixture()
		f.orders.On("FindByIDs", ctx, []uint{1}).Return([]trade.Order{
			*newStoredOrder(1, "O-1", trade.OrderStatusPending),
		}, nil)
		f.orders.On("DeleteWithDocuments", ctx, []uint{1}).Return(nil, assert.AnError)

		assert.ErrorIs(t, f.svc.Delete(ctx, testActor, 1), assert.AnError)
	})
}

func TestOrderService_List(t *testing.T) {
	ctx := context.Background()
	f := newOrderServiceFixture()
	f.orders.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Page == 1 && filter.PageSize == shared.MaxPageSize && filter.OrderDir == "desc"
	})).Return([]trade.Order{*newStoredOrder(1, "OC-1", trade.OrderStatusPending)}, nil)
	f.orders.On("Count", ctx, mock.Anything).Return(int64(51), nil)

	page, err := f.svc.List(ctx, &shared.Filter{Page: 0, PageSize: 500})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages)

	_, err = f.svc.List(ctx, nil)
	assert.ErrorIs(t, err, shared.ErrArgumentNull)
}
