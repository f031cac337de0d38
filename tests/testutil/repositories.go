package testutil

import (
	"context"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/delivery"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/finance"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/partner"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/trade"
	"github.com/stretchr/testify/mock"
)

// =============================================================================
// Partner repositories
// =============================================================================

// MockCarrierRepository is a mock implementation of partner.CarrierRepository
type MockCarrierRepository struct {
	mock.Mock
}

func (m *MockCarrierRepository) FindByID(ctx context.Context, id uint) (*partner.Carrier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Carrier), args.Error(1)
}

func (m *MockCarrierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Carrier, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Carrier), args.Error(1)
}

func (m *MockCarrierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCarrierRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]shared.Dependents), args.Error(1)
}

func (m *MockCarrierRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockCarrierRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCarrierRepository) Create(ctx context.Context, carrier *partner.Carrier) error {
	return m.Called(ctx, carrier).Error(0)
}

func (m *MockCarrierRepository) SaveWithLock(ctx context.Context, carrier *partner.Carrier) error {
	return m.Called(ctx, carrier).Error(0)
}

// MockCustomerRepository is a mock implementation of partner.CustomerRepository
type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uint) (*partner.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCustomerRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]shared.Dependents), args.Error(1)
}

func (m *MockCustomerRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockCustomerRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCustomerRepository) Create(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

func (m *MockCustomerRepository) SaveWithLock(ctx context.Context, customer *partner.Customer) error {
	return m.Called(ctx, customer).Error(0)
}

// MockSellerRepository is a mock implementation of partner.SellerRepository
type MockSellerRepository struct {
	mock.Mock
}

func (m *MockSellerRepository) FindByID(ctx context.Context, id uint) (*partner.Seller, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Seller), args.Error(1)
}

func (m *MockSellerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Seller, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Seller), args.Error(1)
}

func (m *MockSellerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSellerRepository) FindDependents(ctx context.Context, ids []uint) ([]shared.Dependents, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]shared.Dependents), args.Error(1)
}

func (m *MockSellerRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockSellerRepository) ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockSellerRepository) Create(ctx context.Context, seller *partner.Seller) error {
	return m.Called(ctx, seller).Error(0)
}

func (m *MockSellerRepository) SaveWithLock(ctx context.Context, seller *partner.Seller) error {
	return m.Called(ctx, seller).Error(0)
}

// =============================================================================
// Trade repositories
// =============================================================================

// MockOrderRepository is a mock implementation of trade.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uint) (*trade.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) FindByIDs(ctx context.Context, ids []uint) ([]trade.Order, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]trade.Order), args.Error(1)
}

func (m *MockOrderRepository) DeleteWithDocuments(ctx context.Context, ids []uint) (map[string]int64, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *MockOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string, excludeID uint) (bool, error) {
	args := m.Called(ctx, orderNumber, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order) error {
	return m.Called(ctx, order).Error(0)
}

// =============================================================================
// Finance repositories
// =============================================================================

// MockInvoiceRepository is a mock implementation of finance.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uint) (*finance.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDs(ctx context.Context, ids []uint) ([]finance.Invoice, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]finance.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error) {
	args := m.Called(ctx, orderID, carrierID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockInvoiceRepository) Create(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	return m.Called(ctx, invoice).Error(0)
}

func (m *MockInvoiceRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

// MockPaymentOrderRepository is a mock implementation of finance.PaymentOrderRepository
type MockPaymentOrderRepository struct {
	mock.Mock
}

func (m *MockPaymentOrderRepository) FindByID(ctx context.Context, id uint) (*finance.PaymentOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]finance.PaymentOrder, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]finance.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentOrderRepository) FindByIDs(ctx context.Context, ids []uint) ([]finance.PaymentOrder, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]finance.PaymentOrder), args.Error(1)
}

func (m *MockPaymentOrderRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentOrderRepository) ExistsByOrderAndCarrier(ctx context.Context, orderID, carrierID, excludeID uint) (bool, error) {
	args := m.Called(ctx, orderID, carrierID, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentOrderRepository) Create(ctx context.Context, p *finance.PaymentOrder) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentOrderRepository) SaveWithLock(ctx context.Context, p *finance.PaymentOrder) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPaymentOrderRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

// =============================================================================
// Delivery repositories
// =============================================================================

// MockDeliveryNoteRepository is a mock implementation of delivery.DeliveryNoteRepository
type MockDeliveryNoteRepository struct {
	mock.Mock
}

func (m *MockDeliveryNoteRepository) FindByID(ctx context.Context, id uint) (*delivery.DeliveryNote, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.DeliveryNote), args.Error(1)
}

func (m *MockDeliveryNoteRepository) FindAll(ctx context.Context, filter shared.Filter) ([]delivery.DeliveryNote, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]delivery.DeliveryNote), args.Error(1)
}

func (m *MockDeliveryNoteRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDeliveryNoteRepository) FindByIDs(ctx context.Context, ids []uint) ([]delivery.DeliveryNote, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]delivery.DeliveryNote), args.Error(1)
}

func (m *MockDeliveryNoteRepository) ExistsByNumber(ctx context.Context, number string, excludeID uint) (bool, error) {
	args := m.Called(ctx, number, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryNoteRepository) ExistsPendingForOrderAndCarrier(ctx context.Context, orderID, carrierID uint) (bool, error) {
	args := m.Called(ctx, orderID, carrierID)
	return args.Bool(0), args.Error(1)
}

func (m *MockDeliveryNoteRepository) Create(ctx context.Context, note *delivery.DeliveryNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockDeliveryNoteRepository) SaveWithLock(ctx context.Context, note *delivery.DeliveryNote) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockDeliveryNoteRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

// =============================================================================
// Identity repositories
// =============================================================================

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindByIDs(ctx context.Context, ids []uint) ([]identity.User, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindIDsByRole(ctx context.Context, role identity.Role) ([]uint, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, role identity.Role) (int64, error) {
	args := m.Called(ctx, role)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) SaveWithLock(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) DeleteByIDs(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *MockUserRepository) SaveKeepingAdmin(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) DeleteKeepingAdmin(ctx context.Context, ids []uint) error {
	return m.Called(ctx, ids).Error(0)
}

// MockNotificationRepository is a mock implementation of identity.NotificationRepository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, userID, id uint) (*identity.Notification, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByIDs(ctx context.Context, userID uint, ids []uint) ([]identity.Notification, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]identity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID uint, filter shared.Filter) ([]identity.Notification, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).([]identity.Notification), args.Error(1)
}

func (m *MockNotificationRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) CreateBatch(ctx context.Context, notifications []*identity.Notification) error {
	return m.Called(ctx, notifications).Error(0)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, userID, id uint) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteByIDs(ctx context.Context, userID uint, ids []uint) error {
	return m.Called(ctx, userID, ids).Error(0)
}

func (m *MockNotificationRepository) DeleteOlderThan(ctx context.Context, userID uint, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, userID, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) DeleteAllOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Events
// =============================================================================

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

var (
	_ partner.CarrierRepository       = (*MockCarrierRepository)(nil)
	_ partner.CustomerRepository      = (*MockCustomerRepository)(nil)
	_ partner.SellerRepository        = (*MockSellerRepository)(nil)
	_ trade.OrderRepository           = (*MockOrderRepository)(nil)
	_ finance.InvoiceRepository       = (*MockInvoiceRepository)(nil)
	_ finance.PaymentOrderRepository  = (*MockPaymentOrderRepository)(nil)
	_ delivery.DeliveryNoteRepository = (*MockDeliveryNoteRepository)(nil)
	_ identity.UserRepository         = (*MockUserRepository)(nil)
	_ identity.NotificationRepository = (*MockNotificationRepository)(nil)
	_ shared.EventPublisher           = (*MockEventPublisher)(nil)
)
