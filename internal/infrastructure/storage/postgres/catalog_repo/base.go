// Package catalog_repo provides PostgreSQL implementations for catalog repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/infrastructure/storage/postgres"
)

// BaseCatalogRepo provides common read operations for catalog entities.
// Soft-deleted rows are never returned.
type BaseCatalogRepo[T any] struct {
	txm        *postgres.TxManager
	tableName  string
	alias      string
	selectCols []string
}

// NewBaseCatalogRepo creates a new base catalog repository. Columns are
// taken from T's db tags and qualified with alias.
func NewBaseCatalogRepo[T any](txm *postgres.TxManager, tableName, alias string) *BaseCatalogRepo[T] {
	return &BaseCatalogRepo[T]{
		txm:        txm,
		tableName:  tableName,
		alias:      alias,
		selectCols: postgres.Qualify(alias, postgres.ExtractDBColumns[T]()...),
	}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *BaseCatalogRepo[T]) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// col qualifies a column with the table alias.
func (r *BaseCatalogRepo[T]) col(name string) string {
	return r.alias + "." + name
}

// baseSelect selects live rows.
func (r *BaseCatalogRepo[T]) baseSelect() squirrel.SelectBuilder {
	return r.Builder().
		Select(r.selectCols...).
		From(r.tableName + " " + r.alias).
		Where(squirrel.Eq{r.col("deleted_at"): nil})
}

// GetByID retrieves a live entity by ID.
func (r *BaseCatalogRepo[T]) GetByID(ctx context.Context, entityID id.ID) (*T, error) {
	q := r.baseSelect().Where(squirrel.Eq{r.col("id"): entityID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	entity := new(T)
	if err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, entityID.String())
		}
		return nil, apperror.NewDatabase("get "+r.tableName, err)
	}
	return entity, nil
}

// selectAll runs q and scans every row.
func (r *BaseCatalogRepo[T]) selectAll(ctx context.Context, q squirrel.SelectBuilder) ([]*T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*T
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, apperror.NewDatabase("list "+r.tableName, err)
	}
	return items, nil
}
