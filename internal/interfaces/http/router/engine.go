package router

import (
	"fmt"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/handler"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// quietPrefixes are neither access-logged nor traced
var quietPrefixes = []string{"/health", "/ping", "/swagger"}

// EngineConfig holds what NewEngine needs to build the global middleware chain
type EngineConfig struct {
	Config *config.Config
	Logger *zap.Logger
	// Meter records HTTP metrics; nil disables them
	Meter metric.Meter
}

// NewEngine creates the gin engine with the global middleware chain:
// request id, access log, recovery, tracing, metrics, CORS, security headers
// and the body size limit.
func NewEngine(cfg EngineConfig) (*gin.Engine, error) {
	c := cfg.Config
	if c.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(c.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = !c.App.IsDevelopment()

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(cfg.Logger, quietPrefixes...),
		logger.Recovery(cfg.Logger),
		middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName:  c.Telemetry.ServiceName,
			Enabled:      c.Telemetry.Enabled,
			SkipPrefixes: quietPrefixes,
		}),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(cfg.Meter, cfg.Logger),
		middleware.CORSWithConfig(middleware.CORSConfigFrom(c.HTTP)),
		middleware.SecureWithConfig(security),
	)
	if c.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(c.HTTP.MaxBodySize))
	}
	return engine, nil
}

// RegisterSystemRoutes mounts /health, /ping and the API documentation
func RegisterSystemRoutes(engine *gin.Engine, system *handler.SystemHandler, swagger config.SwaggerConfig) {
	engine.GET("/health", system.Health)
	engine.GET("/ping", system.Ping)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(swagger),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)
}
