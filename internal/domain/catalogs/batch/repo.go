package batch

import (
	"context"
	"time"

	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/product"
)

// Filter narrows FindBatches. Soft-deleted batches are always excluded.
type Filter struct {
	// Active restricts to active (true) or inactive (false) batches; nil means both.
	Active *bool

	// Production date range, half-open [From, To)
	From *time.Time
	To   *time.Time

	ProductID *id.ID
	Category  *product.Category
}

// Repository defines read access to production batches.
type Repository interface {
	// FindBatches returns non-deleted batches ordered by production date, then batch number.
	FindBatches(ctx context.Context, filter Filter) ([]*Batch, error)
}
