package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	deliveryapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/delivery"
	financeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/finance"
	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	partnerapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/partner"
	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/cache"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/event"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/storage"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/handler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/router"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const adminPassword = "admin-secret-1"

// apiServer wires the whole API over a migrated database, the way the
// server binary does, with a synchronous event bus.
type apiServer struct {
	db     *TestDB
	engine *gin.Engine
	users  *persistence.GormUserRepository
}

func newAPIServer(t *testing.T) *apiServer {
	t.Helper()
	require.NoError(t, middleware.SetupValidator())

	testDB := NewTestDB(t)
	gdb := testDB.DB
	log := zap.NewNop()

	txScope := persistence.NewGormTransactionScope(gdb)
	carrierRepo := persistence.NewGormCarrierRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	sellerRepo := persistence.NewGormSellerRepository(gdb)
	orderRepo := persistence.NewGormOrderRepository(gdb)
	noteRepo := persistence.NewGormDeliveryNoteRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	paymentRepo := persistence.NewGormPaymentOrderRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-secret-with-enough-length",
		RefreshSecret:          "integration-refresh-secret-with-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "norviguet-integration",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	bus := event.NewInMemoryEventBus(log)
	gate := tradeapp.NewOrderGate(orderRepo)

	orderService := tradeapp.NewOrderService(orderRepo, sellerRepo, customerRepo, carrierRepo, txScope, log)
	orderService.SetEventPublisher(bus)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, txScope, log)
	authService.SetEventPublisher(bus)
	userService := identityapp.NewUserService(userRepo, storage.NewMemoryBlobStorage(), blacklist, txScope,
		identityapp.UserServiceConfig{TokenRevocationTTL: time.Hour}, log)
	userService.SetEventPublisher(bus)
	notificationService := identityapp.NewNotificationService(notificationRepo, userRepo, 0, log)
	bus.Subscribe(identityapp.NewNotificationEventHandler(notificationService, log))
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	base := handler.NewBaseHandler(true, 10)
	h := router.Handlers{
		Auth:         handler.NewAuthHandler(base, authService),
		User:         handler.NewUserHandler(base, userService, 0),
		Notification: handler.NewNotificationHandler(base, notificationService),
		Carrier:      handler.NewCarrierHandler(base, partnerapp.NewCarrierService(carrierRepo, txScope, log)),
		Customer:     handler.NewCustomerHandler(base, partnerapp.NewCustomerService(customerRepo, txScope, log)),
		Seller:       handler.NewSellerHandler(base, partnerapp.NewSellerService(sellerRepo, txScope, log)),
		Order:        handler.NewOrderHandler(base, orderService),
		DeliveryNote: handler.NewDeliveryNoteHandler(base, deliveryapp.NewDeliveryNoteService(noteRepo, carrierRepo, gate, txScope, log)),
		Invoice:      handler.NewInvoiceHandler(base, financeapp.NewInvoiceService(invoiceRepo, carrierRepo, noteRepo, gate, txScope, log)),
		PaymentOrder: handler.NewPaymentOrderHandler(base, financeapp.NewPaymentOrderService(paymentRepo, carrierRepo, gate, txScope, log)),
	}

	keys := cache.NewInMemoryKeyStore()
	t.Cleanup(func() { _ = keys.Close() })

	engine := testutil.NewEngine(middleware.RequestID())
	router.NewRouter(engine).Register(router.APIGroups(h, router.APIConfig{
		Authenticate: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
		}),
		Idempotency: middleware.Idempotency(middleware.IdempotencyConfig{Store: keys, TTL: time.Hour}),
	})...).Setup()

	return &apiServer{db: testDB, engine: engine, users: userRepo}
}

// login seeds a user with role and returns its bearer header
func (s *apiServer) login(t *testing.T, email string, role identity.Role) map[string]string {
	t.Helper()
	user, err := identity.NewUserWithRole(email, "Integration "+role.String(), adminPassword, role)
	require.NoError(t, err)
	require.NoError(t, s.users.Create(context.Background(), user))

	w := s.do(t, http.MethodPost, "/api/v1/auth/login", identityapp.LoginRequest{Email: email, Password: adminPassword}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tokens := testutil.DecodeData[identityapp.TokenResponse](t, w)
	return map[string]string{"Authorization": "Bearer " + tokens.AccessToken}
}

func (s *apiServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	if headers == nil {
		return testutil.PerformRequest(t, s.engine, method, path, body)
	}
	return testutil.PerformRequest(t, s.engine, method, path, body, headers)
}

type created struct {
	ID      uint `json:"id"`
	Version int  `json:"version"`
}

func (s *apiServer) create(t *testing.T, path string, body any, headers map[string]string) created {
	t.Helper()
	w := s.do(t, http.MethodPost, path, body, headers)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return testutil.DecodeData[created](t, w)
}

func TestAPI_FreightLifecycle(t *testing.T) {
	s := newAPIServer(t)
	admin := s.login(t, "admin@norviguet.test", identity.RoleAdmin)

	carrier := s.create(t, "/api/v1/carriers", partnerapp.CreateCarrierRequest{Name: "Transportes Litoral"}, admin)
	customer := s.create(t, "/api/v1/customers", partnerapp.CreateCustomerRequest{Name: "Corralón Centro"}, admin)
	seller := s.create(t, "/api/v1/sellers", partnerapp.CreateSellerRequest{Name: "Lucía Pereyra"}, admin)

	w := s.do(t, http.MethodPost, "/api/v1/carriers", partnerapp.CreateCarrierRequest{Name: "Transportes Litoral"}, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, "CARRIER_NAME_ALREADY_EXISTS")

	order := s.create(t, "/api/v1/orders", tradeapp.CreateOrderRequest{
		OrderNumber: "OC-1001",
		SellerID:    seller.ID,
		CustomerID:  customer.ID,
		CarrierID:   &carrier.ID,
		Price:       decimal.RequireFromString("125000.50"),
	}, admin)

	note := s.create(t, "/api/v1/delivery-notes", deliveryapp.CreateDeliveryNoteRequest{
		DeliveryNoteNumber: "R-1001",
		OrderID:            order.ID,
		CarrierID:          carrier.ID,
		Date:               time.Now().UTC(),
	}, admin)

	invoice := financeapp.CreateInvoiceRequest{
		InvoiceNumber: "A-0001-00001234",
		OrderID:       order.ID,
		CarrierID:     carrier.ID,
		Amount:        decimal.RequireFromString("98000"),
		IssueDate:     time.Now().UTC(),
	}
	w = s.do(t, http.MethodPost, "/api/v1/invoices", invoice, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, "CARRIER_HAS_PENDING_DELIVERY_NOTES")

	w = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/delivery-notes/%d/status", note.ID),
		deliveryapp.ChangeDeliveryNoteStatusRequest{Status: "Approved", Version: note.Version}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	s.create(t, "/api/v1/invoices", invoice, admin)

	w = s.do(t, http.MethodPost, "/api/v1/invoices", invoice, admin)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/carriers/%d", carrier.ID), nil, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, "CARRIER_HAS_ASSOCIATIONS")

	w = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", order.ID),
		tradeapp.ChangeOrderStatusRequest{Status: "Closed", Version: order.Version}, admin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	closed := testutil.DecodeData[created](t, w)

	w = s.do(t, http.MethodPost, "/api/v1/payment-orders", financeapp.CreatePaymentOrderRequest{
		PaymentOrderNumber: "OP-0001",
		OrderID:            order.ID,
		CarrierID:          carrier.ID,
		Amount:             decimal.RequireFromString("98000"),
		PaymentDate:        time.Now().UTC(),
	}, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, shared.CodeClosedOrRejectedOrder)

	w = s.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/orders/%d/status", order.ID),
		tradeapp.ChangeOrderStatusRequest{Status: "Pending", Version: closed.Version}, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, "INVALID_STATUS_TRANSITION")
}

func TestAPI_BulkDeleteIsAllOrNothing(t *testing.T) {
	s := newAPIServer(t)
	admin := s.login(t, "admin@norviguet.test", identity.RoleAdmin)

	a := s.create(t, "/api/v1/sellers", partnerapp.CreateSellerRequest{Name: "Vendedor A"}, admin)
	b := s.create(t, "/api/v1/sellers", partnerapp.CreateSellerRequest{Name: "Vendedor B"}, admin)

	w := s.do(t, http.MethodPost, "/api/v1/sellers/bulk-delete",
		map[string][]uint{"ids": {a.ID, b.ID, 9999}}, admin)
	testutil.AssertErrorCode(t, w, http.StatusNotFound, "SOME_SELLERS_NOT_FOUND")

	w = s.do(t, http.MethodGet, "/api/v1/sellers", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), testutil.DecodeEnvelope(t, w).Meta.Total)

	w = s.do(t, http.MethodPost, "/api/v1/sellers/bulk-delete", map[string][]uint{"ids": {a.ID, b.ID}}, admin)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestAPI_ReplayedCreateIsRejected(t *testing.T) {
	s := newAPIServer(t)
	admin := s.login(t, "admin@norviguet.test", identity.RoleAdmin)
	admin[middleware.IdempotencyKeyHeader] = "customer-create-1"

	w := s.do(t, http.MethodPost, "/api/v1/customers", partnerapp.CreateCustomerRequest{Name: "Cliente Uno"}, admin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/v1/customers", partnerapp.CreateCustomerRequest{Name: "Cliente Uno"}, admin)
	testutil.AssertErrorCode(t, w, http.StatusConflict, middleware.ErrCodeDuplicateRequest)

	w = s.do(t, http.MethodGet, "/api/v1/customers", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(1), testutil.DecodeEnvelope(t, w).Meta.Total)
}

func TestAPI_RolesAndProfile(t *testing.T) {
	s := newAPIServer(t)
	admin := s.login(t, "admin@norviguet.test", identity.RoleAdmin)
	payments := s.login(t, "pagos@norviguet.test", identity.RolePayments)

	w := s.do(t, http.MethodPost, "/api/v1/carriers", partnerapp.CreateCarrierRequest{Name: "Sin Permiso"}, payments)
	testutil.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")

	w = s.do(t, http.MethodGet, "/api/v1/users/me", nil, payments)
	require.Equal(t, http.StatusOK, w.Code)
	me := testutil.DecodeData[identityapp.UserResponse](t, w)
	assert.Equal(t, "pagos@norviguet.test", me.Email)

	w = s.do(t, http.MethodGet, "/api/v1/users", nil, payments)
	testutil.AssertErrorCode(t, w, http.StatusForbidden, "FORBIDDEN")

	w = s.do(t, http.MethodGet, "/api/v1/users", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), testutil.DecodeEnvelope(t, w).Meta.Total)
}
