package cache

import (
	"fmt"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// KeyStoreFactory picks the key store backend from configuration
type KeyStoreFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// KeyStoreFactoryOption configures a KeyStoreFactory
type KeyStoreFactoryOption func(*KeyStoreFactory)

func WithLogger(logger *zap.Logger) KeyStoreFactoryOption {
	return func(f *KeyStoreFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether an unreachable Redis degrades to the
// in-memory store instead of failing. Defaults to true.
func WithInMemoryFallback(allow bool) KeyStoreFactoryOption {
	return func(f *KeyStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

func NewKeyStoreFactory(cfg config.RedisConfig, opts ...KeyStoreFactoryOption) *KeyStoreFactory {
	f := &KeyStoreFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable,
// otherwise an in-memory one.
func (f *KeyStoreFactory) CreateStore() (KeyStore, error) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, idempotency keys are kept in memory")
		return NewInMemoryKeyStore(), nil
	}

	store, err := NewRedisKeyStore(RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	})
	if err == nil {
		f.logger.Info("Idempotency keys backed by redis")
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for idempotency keys: %w", err)
	}
	f.logger.Warn("Redis unavailable, falling back to in-memory idempotency keys; replays are only caught per instance",
		zap.Error(err))
	return NewInMemoryKeyStore(), nil
}
