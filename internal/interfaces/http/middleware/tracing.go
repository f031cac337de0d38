// Package middleware provides the gin middleware chain of the API.
package middleware

import (
	"net/http"
	"strings"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
	// SkipPrefixes are paths that never get a server span, e.g. /health
	SkipPrefixes []string
}

// TracingWithConfig wraps otelgin. Span names follow "METHOD /route/:param".
// Pair it with SpanErrorMarker, which annotates the span before it ends.
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	base := otelgin.Middleware(cfg.ServiceName,
		otelgin.WithFilter(func(r *http.Request) bool {
			for _, prefix := range cfg.SkipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					return false
				}
			}
			return true
		}),
	)

	return base
}

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := c.GetString(logger.RequestIDKey); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if actor, ok := GetActor(c); ok && actor.IsAuthenticated() {
		span.SetAttributes(
			attribute.Int64(telemetry.SpanAttrActorID, int64(actor.UserID)),
			attribute.String(telemetry.SpanAttrActorRole, actor.Role),
		)
	}
}

// SpanErrorMarker tags the server span with the request id and the actor, and
// marks it failed for 4xx and 5xx responses. It must run after
// TracingWithConfig so the span is still open when the chain returns.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		enrichSpan(c, span)

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}
		message := http.StatusText(status)
		if status >= http.StatusInternalServerError {
			message = "Internal Server Error"
		}
		span.SetStatus(codes.Error, message)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
