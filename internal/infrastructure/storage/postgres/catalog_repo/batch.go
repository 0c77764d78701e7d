package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ batch.Repository = (*BatchRepo)(nil)

// BatchRepo implements batch.Repository.
type BatchRepo struct {
	*BaseCatalogRepo[batch.Batch]
}

// NewBatchRepo creates a new batch repository.
func NewBatchRepo(txm *postgres.TxManager) *BatchRepo {
	return &BatchRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[batch.Batch](txm, "batches", "b"),
	}
}

// FindBatches implements batch.Repository.
func (r *BatchRepo) FindBatches(ctx context.Context, filter batch.Filter) ([]*batch.Batch, error) {
	batches, err := r.selectAll(ctx, r.filterQuery(filter))
	if err != nil {
		return nil, fmt.Errorf("find batches: %w", err)
	}
	return batches, nil
}

func (r *BatchRepo) filterQuery(filter batch.Filter) squirrel.SelectBuilder {
	q := r.baseSelect()

	if filter.Active != nil {
		q = q.Where(squirrel.Eq{r.col("is_active"): *filter.Active})
	}
	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{r.col("production_date"): *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{r.col("production_date"): *filter.To})
	}
	if filter.ProductID != nil {
		q = q.Where(squirrel.Eq{r.col("product_id"): *filter.ProductID})
	}
	if filter.Category != nil {
		q = q.Join("products p ON p.id = b.product_id").
			Where(squirrel.Eq{"p.category": *filter.Category})
	}

	return q.OrderBy(r.col("production_date"), r.col("batch_number"))
}
