package persistence

import (
	"context"

	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactionScope implements shared.TransactionScope. The transaction
// travels in the context handed to fn, so every repository called with that
// context joins it.
type GormTransactionScope struct {
	db *gorm.DB
}

var _ shared.TransactionScope = (*GormTransactionScope)(nil)

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn in a transaction, rolling back when fn returns an error.
// Nested calls reuse the outer transaction.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFromContext returns the ambient transaction, or db bound to ctx
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
