// Package tx defines the transaction contract the report facade depends on.
// The implementation lives in infrastructure/storage/postgres.
package tx

import (
	"context"
)

// Manager executes fn within a database transaction.
// Nested calls reuse the existing transaction from context.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with snapshot reads.
//
// Snapshot runs fn in a read-only transaction whose reads all observe the
// same database state, so every repository call made by one report sees a
// consistent set of sales, batches and products.
type ReadOnlyManager interface {
	Manager
	Snapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Passthrough runs fn directly. Used with in-memory repositories and in tests.
type Passthrough struct{}

// RunInTransaction implements Manager.
func (Passthrough) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Snapshot implements ReadOnlyManager.
func (Passthrough) Snapshot(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ ReadOnlyManager = Passthrough{}
