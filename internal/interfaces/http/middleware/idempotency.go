package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/cache"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/logger"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"

	// ErrCodeDuplicateRequest is returned for a replayed Idempotency-Key
	ErrCodeDuplicateRequest = "DUPLICATE_REQUEST"

	maxIdempotencyKeyLength = 128
)

// IdempotencyConfig configures Idempotency
type IdempotencyConfig struct {
	Store cache.KeyStore
	// TTL is how long a successful request keeps its key
	TTL    time.Duration
	Logger *zap.Logger
}

// Idempotency rejects a request that repeats an Idempotency-Key the same
// user already sent to the same route. Requests without the header pass
// through. A key is released again when the request does not succeed or
// the handler panics, so the client may retry it. Store failures let the
// request through.
func Idempotency(cfg IdempotencyConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if key == "" {
			c.Next()
			return
		}
		requestID := c.GetString(logger.RequestIDKey)
		if len(key) > maxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest,
				fmt.Sprintf("%s must be at most %d characters", IdempotencyKeyHeader, maxIdempotencyKeyLength),
				requestID,
			))
			return
		}

		var userID uint
		if actor, ok := GetActor(c); ok {
			userID = actor.UserID
		}
		storeKey := fmt.Sprintf("%d:%s:%s:%s", userID, c.Request.Method, c.FullPath(), key)

		ctx := c.Request.Context()
		reserved, err := cfg.Store.Reserve(ctx, storeKey, ttl)
		if err != nil {
			log.Error("Failed to reserve idempotency key", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
				ErrCodeDuplicateRequest,
				"A request with this Idempotency-Key was already processed",
				requestID,
			))
			return
		}

		// Runs on panic too; the client may have gone away, so the release
		// must not inherit the request's cancellation.
		succeeded := false
		defer func() {
			if succeeded {
				return
			}
			if err := cfg.Store.Release(context.WithoutCancel(ctx), storeKey); err != nil {
				log.Warn("Failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}()

		c.Next()

		status := c.Writer.Status()
		succeeded = status >= 200 && status < 300
	}
}
