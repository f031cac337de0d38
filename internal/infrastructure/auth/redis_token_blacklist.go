package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "fletes:token:revoked:"

// RedisTokenBlacklist shares revocations between API instances. Revoked
// JTIs and per-user cutoffs are stored as expiring keys.
type RedisTokenBlacklist struct {
	client *redis.Client
}

// NewRedisTokenBlacklist connects to Redis and pings it before returning
func NewRedisTokenBlacklist(cfg config.RedisConfig) (*RedisTokenBlacklist, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for token blacklist: %w", err)
	}
	return NewRedisTokenBlacklistWithClient(client), nil
}

func NewRedisTokenBlacklistWithClient(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

func jtiKey(jti string) string {
	return revokedKeyPrefix + "jti:" + jti
}

func userKey(userID uint) string {
	return revokedKeyPrefix + "user:" + strconv.FormatUint(uint64(userID), 10)
}

func (b *RedisTokenBlacklist) AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error {
	if err := b.client.Set(ctx, jtiKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revoked token: %w", err)
	}
	return n > 0, nil
}

// AddUserTokensToBlacklist stores the current unix second as the user's cutoff
func (b *RedisTokenBlacklist) AddUserTokensToBlacklist(ctx context.Context, userID uint, ttl time.Duration) error {
	if err := b.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

func (b *RedisTokenBlacklist) IsUserTokenInvalidated(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	cutoff, err := b.client.Get(ctx, userKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read user token cutoff: %w", err)
	}
	return issuedNoLaterThan(tokenIssuedAt, cutoff), nil
}

func (b *RedisTokenBlacklist) Close() error {
	return b.client.Close()
}

var _ TokenBlacklist = (*RedisTokenBlacklist)(nil)
