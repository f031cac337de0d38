// Command server runs the freight control REST API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	deliveryapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/delivery"
	financeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/finance"
	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	partnerapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/partner"
	tradeapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/trade"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/auth"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/cache"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/event"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/persistence"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/scheduler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/storage"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/telemetry"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/handler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/router"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	_ "github.com/francoragout/norviguet-control-fletes-api-sub000/docs"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Norviguet Freight Control API
//	@version		1.0
//	@description	Carriers, customers, sellers, orders and the documents that settle them: delivery notes, invoices and payment orders.

//	@contact.name	API Support
//	@contact.url	https://github.com/francoragout/norviguet-control-fletes-api-sub000

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()
	telemetry.ServiceVersion = version

	logProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfigFrom(cfg.Telemetry), baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := logProvider.Bridge(baseLog, zapcore.InfoLevel)
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting freight control API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.ConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfigFrom(cfg.Telemetry), log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// Database
	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithGormLogger(logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()
	log.Info("Database connected", zap.String("driver", db.Driver()))

	if db.Driver() == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite schema", zap.Error(err))
		}
	}

	slowQuery := time.Duration(cfg.Telemetry.SlowQueryMS) * time.Millisecond
	if err := telemetry.RegisterDBTracing(db.DB,
		telemetry.DBTracingConfigFor(db.Driver(), cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled, slowQuery), log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to get sql.DB", zap.Error(err))
	}
	meter := meterProvider.Meter("norviguet/http")
	if meterProvider.IsEnabled() {
		if _, err := telemetry.RegisterDBPoolMetrics(meter, sqlDB); err != nil {
			log.Warn("Failed to register database pool metrics", zap.Error(err))
		}
	} else {
		meter = nil
	}

	// Token blacklist: redis when configured, otherwise process-local
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Enabled {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisBlacklist.Close()
		}()
		blacklist = redisBlacklist
		log.Info("Token blacklist backed by redis")
	} else {
		blacklist = auth.NewInMemoryTokenBlacklist()
		log.Warn("Redis disabled, token revocations are kept in memory")
	}

	keyStore, err := cache.NewKeyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency key store", zap.Error(err))
	}
	defer func() {
		_ = keyStore.Close()
	}()

	// Profile image storage
	var images identityapp.ImageStorage
	if cfg.Storage.Type == "s3" {
		s3Storage, err := storage.NewS3BlobStorage(&cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize blob storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err), zap.String("bucket", s3Storage.Bucket()))
		}
		images = s3Storage
	} else {
		images = storage.NewMemoryBlobStorage()
		log.Warn("Using in-memory blob storage, profile images are lost on restart")
	}

	eventBus := event.NewInMemoryEventBus(log, event.WithAsyncDispatch(4, 256))

	// Repositories
	gdb := db.DB
	txScope := persistence.NewGormTransactionScope(gdb)
	carrierRepo := persistence.NewGormCarrierRepository(gdb)
	customerRepo := persistence.NewGormCustomerRepository(gdb)
	sellerRepo := persistence.NewGormSellerRepository(gdb)
	orderRepo := persistence.NewGormOrderRepository(gdb)
	deliveryNoteRepo := persistence.NewGormDeliveryNoteRepository(gdb)
	invoiceRepo := persistence.NewGormInvoiceRepository(gdb)
	paymentOrderRepo := persistence.NewGormPaymentOrderRepository(gdb)
	userRepo := persistence.NewGormUserRepository(gdb)
	notificationRepo := persistence.NewGormNotificationRepository(gdb)

	// Services
	jwtService := auth.NewJWTService(cfg.JWT)
	orderGate := tradeapp.NewOrderGate(orderRepo)

	carrierService := partnerapp.NewCarrierService(carrierRepo, txScope, log)
	customerService := partnerapp.NewCustomerService(customerRepo, txScope, log)
	sellerService := partnerapp.NewSellerService(sellerRepo, txScope, log)
	orderService := tradeapp.NewOrderService(orderRepo, sellerRepo, customerRepo, carrierRepo, txScope, log)
	orderService.SetEventPublisher(eventBus)
	deliveryNoteService := deliveryapp.NewDeliveryNoteService(deliveryNoteRepo, carrierRepo, orderGate, txScope, log)
	invoiceService := financeapp.NewInvoiceService(invoiceRepo, carrierRepo, deliveryNoteRepo, orderGate, txScope, log)
	paymentOrderService := financeapp.NewPaymentOrderService(paymentOrderRepo, carrierRepo, orderGate, txScope, log)

	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, txScope, log)
	authService.SetEventPublisher(eventBus)
	userService := identityapp.NewUserService(userRepo, images, blacklist, txScope, identityapp.UserServiceConfig{
		MaxImageSize:       cfg.Storage.MaxImageSize,
		TokenRevocationTTL: cfg.JWT.RefreshTokenExpiration,
	}, log)
	userService.SetEventPublisher(eventBus)
	notificationService := identityapp.NewNotificationService(notificationRepo, userRepo, cfg.Notification.Retention(), log)

	eventBus.Subscribe(identityapp.NewNotificationEventHandler(notificationService, log))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	jobs := scheduler.NewScheduler(log)
	if cfg.Notification.PurgeInterval > 0 {
		err := jobs.Register(scheduler.Task{
			Name:       "notification-purge",
			Interval:   cfg.Notification.PurgeInterval,
			RunOnStart: true,
			Run: func(ctx context.Context) error {
				_, err := notificationService.PurgeExpired(ctx)
				return err
			},
		})
		if err != nil {
			log.Fatal("Failed to register notification purge", zap.Error(err))
		}
	}
	if err := jobs.Start(ctx); err != nil {
		log.Fatal("Failed to start scheduler", zap.Error(err))
	}

	// HTTP
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to setup validator", zap.Error(err))
	}
	engine, err := router.NewEngine(router.EngineConfig{Config: cfg, Logger: log, Meter: meter})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	base := handler.NewBaseHandler(cfg.App.IsDevelopment(), cfg.Pagination.DefaultPageSize)
	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(base, authService),
		User:         handler.NewUserHandler(base, userService, cfg.Storage.MaxImageSize),
		Notification: handler.NewNotificationHandler(base, notificationService),
		Carrier:      handler.NewCarrierHandler(base, carrierService),
		Customer:     handler.NewCustomerHandler(base, customerService),
		Seller:       handler.NewSellerHandler(base, sellerService),
		Order:        handler.NewOrderHandler(base, orderService),
		DeliveryNote: handler.NewDeliveryNoteHandler(base, deliveryNoteService),
		Invoice:      handler.NewInvoiceHandler(base, invoiceService),
		PaymentOrder: handler.NewPaymentOrderHandler(base, paymentOrderService),
	}

	apiCfg := router.APIConfig{
		Authenticate: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:     jwtService,
			TokenBlacklist: blacklist,
			Logger:         log,
		}),
		Idempotency: middleware.Idempotency(middleware.IdempotencyConfig{
			Store:  keyStore,
			TTL:    cfg.HTTP.IdempotencyTTL,
			Logger: log,
		}),
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		defer limiter.Stop()
		apiCfg.AuthRateLimit = middleware.RateLimit(limiter)
	}

	router.RegisterSystemRoutes(engine, handler.NewSystemHandler(sqlDB, version), cfg.Swagger)
	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.APIGroups(handlers, apiCfg)...).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := jobs.Stop(shutdownCtx); err != nil {
		log.Error("Scheduler did not stop", zap.Error(err))
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown tracer provider", zap.Error(err))
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shutdown meter provider", zap.Error(err))
	}
	if err := logProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Failed to shutdown log provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
