package sale

import (
	"context"
	"time"

	"batchledger/internal/core/id"
)

// Filter narrows FindSales. Implementations always restrict to paid,
// non-deleted sales; pending, refunded and cancelled sales never reach reports.
type Filter struct {
	// Creation date range, half-open [From, To)
	From *time.Time
	To   *time.Time

	// ProductID keeps sales with at least one line item for the product.
	// All line items of a matching sale are returned.
	ProductID *id.ID
}

// Repository defines read access to sales.
type Repository interface {
	// FindSales returns paid, non-deleted sales ordered by creation time, with
	// line items in their recorded order and allocations attached.
	FindSales(ctx context.Context, filter Filter) ([]*Sale, error)
}
