package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/cache"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/handler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
	m.Run()
}

func TestRouter(t *testing.T) {
	t.Run("defaults to v1", func(t *testing.T) {
		r := NewRouter(gin.New())
		assert.Equal(t, "/api/v1", r.BasePath())
	})

	t.Run("mounts registrars under the versioned prefix with shared middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("carriers", "/carriers")
		g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "carriers") })

		NewRouter(engine, WithAPIVersion("v2")).
			Use(func(c *gin.Context) {
				c.Header("X-API", "yes")
				c.Next()
			}).
			Register(g).
			Setup()

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/carriers", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "yes", w.Header().Get("X-API"))
		assert.Equal(t, "carriers", w.Body.String())
	})
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("orders", "/orders")
		assert.Equal(t, "orders", g.Name())
		assert.Equal(t, "/orders", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		ok := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("items", "/items")
		g.GET("", ok).POST("", ok).PUT("/:id", ok).PATCH("/:id", ok).DELETE("/:id", ok)
		g.RegisterRoutes(engine.Group("/api/v1"))

		tests := []struct{ method, path string }{
			{http.MethodGet, "/api/v1/items"},
			{http.MethodPost, "/api/v1/items"},
			{http.MethodPut, "/api/v1/items/1"},
			{http.MethodPatch, "/api/v1/items/1"},
			{http.MethodDelete, "/api/v1/items/1"},
		}
		for _, tt := range tests {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusOK, w.Code, tt.method)
			assert.Equal(t, tt.method, w.Body.String())
		}
	})

	t.Run("group middleware runs before route middleware", func(t *testing.T) {
		engine := gin.New()
		var order []string
		g := NewDomainGroup("items", "/items").Use(func(c *gin.Context) {
			order = append(order, "group")
			c.Next()
		})
		g.GET("", func(c *gin.Context) {
			order = append(order, "route")
			c.Next()
		}, func(c *gin.Context) {
			order = append(order, "handler")
			c.Status(http.StatusNoContent)
		})
		g.RegisterRoutes(engine.Group(""))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, []string{"group", "route", "handler"}, order)
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("users", "/users")
		g.Group("me", "/me").GET("/image", func(c *gin.Context) { c.String(http.StatusOK, "image") })
		g.RegisterRoutes(engine.Group("/api/v1"))

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/users/me/image", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// apiFixture serves the real route table. Services are nil: every request
// that passes the gates is made to fail validation in the handler, before
// any service call.
type apiFixture struct {
	engine *gin.Engine
	jwt    *auth.JWTService
}

func newAPIFixture(t *testing.T, rateLimit gin.HandlerFunc, mods ...func(*APIConfig)) *apiFixture {
	t.Helper()
	jwt := auth.NewJWTService(config.JWTConfig{
		Secret:                 "router-test-secret-with-enough-length",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "norviguet-test",
		MaxRefreshCount:        3,
	})

	base := handler.NewBaseHandler(false, 10)
	h := Handlers{
		Auth:         handler.NewAuthHandler(base, nil),
		User:         handler.NewUserHandler(base, nil, 0),
		Notification: handler.NewNotificationHandler(base, nil),
		Carrier:      handler.NewCarrierHandler(base, nil),
		Customer:     handler.NewCustomerHandler(base, nil),
		Seller:       handler.NewSellerHandler(base, nil),
		Order:        handler.NewOrderHandler(base, nil),
		DeliveryNote: handler.NewDeliveryNoteHandler(base, nil),
		Invoice:      handler.NewInvoiceHandler(base, nil),
		PaymentOrder: handler.NewPaymentOrderHandler(base, nil),
	}

	engine := testutil.NewEngine(middleware.RequestID())
	cfg := APIConfig{
		Authenticate:  middleware.JWTAuth(middleware.JWTMiddlewareConfig{JWTService: jwt}),
		AuthRateLimit: rateLimit,
	}
	for _, mod := range mods {
		mod(&cfg)
	}
	NewRouter(engine).Register(APIGroups(h, cfg)...).Setup()
	return &apiFixture{engine: engine, jwt: jwt}
}

func (f *apiFixture) token(t *testing.T, role identity.Role) map[string]string {
	t.Helper()
	pair, err := f.jwt.GenerateTokenPair(auth.TokenSubject{UserID: 7, Email: "gate@norviguet.test", Role: role.String()})
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + pair.AccessToken}
}

func (f *apiFixture) do(t *testing.T, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.PerformRequest(t, f.engine, method, path, strings.NewReader("{"), headers)
}

func TestAPIGroups_RequiresAuthentication(t *testing.T) {
	f := newAPIFixture(t, nil)

	for _, path := range []string{
		"/api/v1/carriers", "/api/v1/customers", "/api/v1/sellers", "/api/v1/orders",
		"/api/v1/delivery-notes", "/api/v1/invoices", "/api/v1/payment-orders",
		"/api/v1/users", "/api/v1/users/me", "/api/v1/notifications", "/api/v1/auth/me",
	} {
		w := f.do(t, http.MethodGet, path, nil)
		testutil.AssertErrorCode(t, w, http.StatusUnauthorized, dto.ErrCodeUnauthorized)
	}
}

func TestAPIGroups_RoleGates(t *testing.T) {
	f := newAPIFixture(t, nil)

	tests := []struct {
		name    string
		role    identity.Role
		method  string
		path    string
		allowed bool
	}{
		{"pending cannot read carriers", identity.RolePending, http.MethodGet, "/api/v1/carriers/x", false},
		{"payments reads carriers", identity.RolePayments, http.MethodGet, "/api/v1/carriers/x", true},
		{"purchasing cannot write carriers", identity.RolePurchasing, http.MethodPost, "/api/v1/carriers", false},
		{"logistics writes carriers", identity.RoleLogistics, http.MethodPost, "/api/v1/carriers", true},
		{"logistics writes sellers", identity.RoleLogistics, http.MethodPut, "/api/v1/sellers/1", true},
		{"payments cannot bulk delete customers", identity.RolePayments, http.MethodPost, "/api/v1/customers/bulk-delete", false},
		{"logistics cannot write orders", identity.RoleLogistics, http.MethodPost, "/api/v1/orders", false},
		{"purchasing writes orders", identity.RolePurchasing, http.MethodPost, "/api/v1/orders", true},
		{"payments cannot change order status", identity.RolePayments, http.MethodPatch, "/api/v1/orders/1/status", false},
		{"admin changes order status", identity.RoleAdmin, http.MethodPatch, "/api/v1/orders/1/status", true},
		{"purchasing reads delivery notes", identity.RolePurchasing, http.MethodGet, "/api/v1/delivery-notes/x", true},
		{"purchasing cannot change delivery note status", identity.RolePurchasing, http.MethodPatch, "/api/v1/delivery-notes/1/status", false},
		{"logistics changes delivery note status", identity.RoleLogistics, http.MethodPatch, "/api/v1/delivery-notes/1/status", true},
		{"logistics cannot write invoices", identity.RoleLogistics, http.MethodPost, "/api/v1/invoices", false},
		{"payments writes invoices", identity.RolePayments, http.MethodPost, "/api/v1/invoices", true},
		{"payments writes payment orders", identity.RolePayments, http.MethodPut, "/api/v1/payment-orders/1", true},
		{"pending cannot read payment orders", identity.RolePending, http.MethodGet, "/api/v1/payment-orders/x", false},
		{"logistics cannot list users", identity.RoleLogistics, http.MethodGet, "/api/v1/users/x", false},
		{"admin reads users", identity.RoleAdmin, http.MethodGet, "/api/v1/users/x", true},
		{"purchasing cannot change roles", identity.RolePurchasing, http.MethodPatch, "/api/v1/users/1/role", false},
		{"pending updates own profile", identity.RolePending, http.MethodPut, "/api/v1/users/me", true},
		{"pending marks notifications", identity.RolePending, http.MethodPatch, "/api/v1/notifications/x/read", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, tt.method, tt.path, f.token(t, tt.role))
			if tt.allowed {
				// the handler rejected the malformed input, so the gate let it through
				assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
				return
			}
			testutil.AssertErrorCode(t, w, http.StatusForbidden, dto.ErrCodeForbidden)
		})
	}
}

func TestAPIGroups_PublicAuthRoutesAreRateLimited(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	t.Cleanup(limiter.Stop)
	f := newAPIFixture(t, middleware.RateLimit(limiter))

	w := f.do(t, http.MethodPost, "/api/v1/auth/login", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/auth/register", nil)
	testutil.AssertErrorCode(t, w, http.StatusTooManyRequests, dto.ErrCodeRateLimited)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAPIGroups_IdempotencyGuardsCreates(t *testing.T) {
	store := cache.NewInMemoryKeyStore()
	t.Cleanup(func() { _ = store.Close() })
	f := newAPIFixture(t, nil, func(cfg *APIConfig) {
		cfg.Idempotency = middleware.Idempotency(middleware.IdempotencyConfig{Store: store, TTL: time.Minute})
	})

	headers := f.token(t, identity.RoleLogistics)
	headers[middleware.IdempotencyKeyHeader] = strings.Repeat("k", 200)

	w := f.do(t, http.MethodPost, "/api/v1/carriers", headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), middleware.IdempotencyKeyHeader)

	w = f.do(t, http.MethodPut, "/api/v1/carriers/1", headers)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), middleware.IdempotencyKeyHeader, "updates are not guarded")

	headers[middleware.IdempotencyKeyHeader] = "create-1"
	f.do(t, http.MethodPost, "/api/v1/carriers", headers)
	assert.Zero(t, store.Size(), "a rejected create releases its key")
}

func TestAPIGroups_RoutesAreRegistered(t *testing.T) {
	f := newAPIFixture(t, nil)

	registered := map[string]bool{}
	for _, r := range f.engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, res := range []string{"carriers", "customers", "sellers", "orders", "delivery-notes", "invoices", "payment-orders"} {
		prefix := "/api/v1/" + res
		for _, route := range []string{
			"GET " + prefix,
			"GET " + prefix + "/:id",
			"POST " + prefix,
			"PUT " + prefix + "/:id",
			"DELETE " + prefix + "/:id",
			"POST " + prefix + "/bulk-delete",
		} {
			assert.True(t, registered[route], route)
		}
	}
	for _, route := range []string{
		"POST /api/v1/auth/login",
		"POST /api/v1/auth/logout",
		"PATCH /api/v1/users/:id/role",
		"PUT /api/v1/users/me/image",
		"GET /api/v1/users/:id/image",
		"PATCH /api/v1/notifications/read-all",
		"GET /api/v1/notifications/unread-count",
	} {
		assert.True(t, registered[route], route)
	}
}

func TestNewEngine(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Env: "development"},
		HTTP:    config.HTTPConfig{MaxBodySize: 16, CORSAllowOrigins: []string{"https://app.norviguet.test"}},
		Swagger: config.SwaggerConfig{Enabled: false},
	}
	engine, err := NewEngine(EngineConfig{Config: cfg, Logger: zap.NewNop()})
	require.NoError(t, err)
	RegisterSystemRoutes(engine, handler.NewSystemHandler(nil, "test"), cfg.Swagger)
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("health answers with request id and security headers", func(t *testing.T) {
		w := testutil.PerformRequest(t, engine, http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("oversized bodies are rejected", func(t *testing.T) {
		w := testutil.PerformRequest(t, engine, http.MethodPost, "/echo", map[string]string{"name": "a body longer than sixteen bytes"})
		testutil.AssertErrorCode(t, w, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge)
	})

	t.Run("preflight for an allowed origin", func(t *testing.T) {
		w := testutil.PerformRequest(t, engine, http.MethodOptions, "/api/v1/carriers", nil,
			map[string]string{"Origin": "https://app.norviguet.test"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://app.norviguet.test", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("disabled swagger answers 404", func(t *testing.T) {
		w := testutil.PerformRequest(t, engine, http.MethodGet, "/swagger/index.html", nil)
		testutil.AssertErrorCode(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
	})
}
