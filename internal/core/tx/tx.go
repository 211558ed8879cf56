// Package tx defines the transaction boundary used by domain services.
// The postgres infrastructure provides the concrete implementation.
package tx

import "context"

// Manager runs a function within a database transaction.
// If a transaction already exists in ctx it is reused.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
