package shared

import "context"

// TransactionScope runs a unit of work atomically. Repositories called with the
// context handed to fn join the same transaction.
type TransactionScope interface {
	// Execute runs fn within a transaction. If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoOpTransactionScope runs fn directly. Useful for tests with mocked repositories.
type NoOpTransactionScope struct{}

// Execute runs fn with the caller's context
func (NoOpTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
