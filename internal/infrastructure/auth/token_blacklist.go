package auth

import (
	"context"
	"sync"
	"time"
)

// TokenBlacklist revokes JWTs before they expire: a single token on logout,
// or every token of a user after a role change or deletion.
type TokenBlacklist interface {
	// AddToBlacklist revokes one token by JTI; ttl is the token's remaining lifetime
	AddToBlacklist(ctx context.Context, jti string, ttl time.Duration) error

	IsBlacklisted(ctx context.Context, jti string) (bool, error)

	// AddUserTokensToBlacklist rejects every token issued to userID up to now.
	// ttl should cover the longest token lifetime.
	AddUserTokensToBlacklist(ctx context.Context, userID uint, ttl time.Duration) error

	IsUserTokenInvalidated(ctx context.Context, userID uint, tokenIssuedAt time.Time) (bool, error)
}

// issuedNoLaterThan compares at second precision, the precision of the iat claim
func issuedNoLaterThan(issuedAt time.Time, cutoffUnix int64) bool {
	return issuedAt.Unix() <= cutoffUnix
}

type userCutoff struct {
	at        int64
	expiresAt time.Time
}

// InMemoryTokenBlacklist keeps revocations in process memory. It serves when
// Redis is disabled and in tests; revocations are not shared between instances.
type InMemoryTokenBlacklist struct {
	mu      sync.Mutex
	now     func() time.Time
	revoked map[string]time.Time
	users   map[uint]userCutoff
}

func NewInMemoryTokenBlacklist() *InMemoryTokenBlacklist {
	return &InMemoryTokenBlacklist{
		now:     time.Now,
		revoked: make(map[string]time.Time),
		users:   make(map[uint]userCutoff),
	}
}

func (b *InMemoryTokenBlacklist) AddToBlacklist(_ context.Context, jti string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[jti] = b.now().Add(ttl)
	return nil
}

// IsBlacklisted drops the entry once its token would have expired anyway
func (b *InMemoryTokenBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	until, ok := b.revoked[jti]
	if !ok {
		return false, nil
	}
	if !b.now().Before(until) {
		delete(b.revoked, jti)
		return false, nil
	}
	return true, nil
}

// AddUserTokensToBlacklist records the current second as the user's cutoff.
// A non-positive ttl keeps the cutoff for the life of the process.
func (b *InMemoryTokenBlacklist) AddUserTokensToBlacklist(_ context.Context, userID uint, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	cutoff := userCutoff{at: now.Unix()}
	if ttl > 0 {
		cutoff.expiresAt = now.Add(ttl)
	}
	b.users[userID] = cutoff
	return nil
}

func (b *InMemoryTokenBlacklist) IsUserTokenInvalidated(_ context.Context, userID uint, tokenIssuedAt time.Time) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cutoff, ok := b.users[userID]
	if !ok {
		return false, nil
	}
	if !cutoff.expiresAt.IsZero() && !b.now().Before(cutoff.expiresAt) {
		delete(b.users, userID)
		return false, nil
	}
	return issuedNoLaterThan(tokenIssuedAt, cutoff.at), nil
}

var _ TokenBlacklist = (*InMemoryTokenBlacklist)(nil)
