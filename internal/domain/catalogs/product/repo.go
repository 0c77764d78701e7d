package product

import (
	"context"

	"batchledger/internal/core/id"
)

// Repository defines read access to the product catalog.
type Repository interface {
	// FindProductByID returns the product or an apperror NotFound.
	// Soft-deleted products are not found.
	FindProductByID(ctx context.Context, productID id.ID) (*Product, error)

	// FindProductsByIDs batch-fetches products. Unknown ids are absent from the result.
	FindProductsByIDs(ctx context.Context, productIDs []id.ID) ([]*Product, error)
}
