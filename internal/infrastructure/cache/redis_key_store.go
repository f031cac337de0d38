package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "fletes:idempotency:"

// RedisKeyStore keeps reservations in Redis
type RedisKeyStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisKeyStore connects to Redis and pings it before returning
func NewRedisKeyStore(cfg RedisConfig) (*RedisKeyStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisKeyStoreWithClient(client, ""), nil
}

// NewRedisKeyStoreWithClient wraps an existing client
func NewRedisKeyStoreWithClient(client *redis.Client, keyPrefix string) *RedisKeyStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisKeyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve uses SET NX with an expiry so the claim is atomic across instances
func (s *RedisKeyStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, s.keyPrefix+key, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to reserve key: %w", err)
	}
	return ok, nil
}

func (s *RedisKeyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to release key: %w", err)
	}
	return nil
}

func (s *RedisKeyStore) Close() error {
	return s.client.Close()
}

var _ KeyStore = (*RedisKeyStore)(nil)
