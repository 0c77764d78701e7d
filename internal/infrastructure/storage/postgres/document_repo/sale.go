// Package document_repo provides PostgreSQL implementations for document repositories.
package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/documents/sale"
	"batchledger/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ sale.Repository = (*SaleRepo)(nil)

// Tables:
//
//	sales                  one row per order
//	sale_items             line items, ordered by position
//	sale_item_allocations  batch draws per line item, ordered by position
var saleColumns = postgres.Qualify("s", postgres.ExtractDBColumns[sale.Sale]()...)

// itemRow is a sale_items row.
type itemRow struct {
	ID                id.ID       `db:"id"`
	SaleID            id.ID       `db:"sale_id"`
	ProductID         id.ID       `db:"product_id"`
	RequestedQuantity int         `db:"requested_quantity"`
	FinalPrice        types.Money `db:"final_price"`
}

// allocationRow is a sale_item_allocations row.
type allocationRow struct {
	SaleItemID id.ID `db:"sale_item_id"`
	BatchID    id.ID `db:"batch_id"`
	Quantity   int   `db:"quantity"`
}

// SaleRepo implements sale.Repository.
type SaleRepo struct {
	txm *postgres.TxManager
}

// NewSaleRepo creates a new sale repository.
func NewSaleRepo(txm *postgres.TxManager) *SaleRepo {
	return &SaleRepo{txm: txm}
}

// Builder returns a new squirrel builder.
func (r *SaleRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// FindSales implements sale.Repository. Sales, items and allocations are
// read with three queries; callers wanting one consistent view run it inside
// a snapshot transaction.
func (r *SaleRepo) FindSales(ctx context.Context, filter sale.Filter) ([]*sale.Sale, error) {
	querier := r.txm.GetQuerier(ctx)

	var sales []*sale.Sale
	if err := r.selectInto(ctx, querier, &sales, r.salesQuery(filter)); err != nil {
		return nil, fmt.Errorf("find sales: %w", err)
	}
	if len(sales) == 0 {
		return sales, nil
	}

	saleIDs := make([]id.ID, len(sales))
	for i, s := range sales {
		saleIDs[i] = s.ID
	}

	var items []itemRow
	if err := r.selectInto(ctx, querier, &items, r.itemsQuery(saleIDs)); err != nil {
		return nil, fmt.Errorf("find sale items: %w", err)
	}

	var allocations []allocationRow
	if err := r.selectInto(ctx, querier, &allocations, r.allocationsQuery(saleIDs)); err != nil {
		return nil, fmt.Errorf("find sale allocations: %w", err)
	}

	assemble(sales, items, allocations)
	return sales, nil
}

func (r *SaleRepo) selectInto(ctx context.Context, querier postgres.Querier, dst any, q squirrel.SelectBuilder) error {
	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, dst, sql, args...); err != nil {
		return apperror.NewDatabase("select", err)
	}
	return nil
}

func (r *SaleRepo) salesQuery(filter sale.Filter) squirrel.SelectBuilder {
	q := r.Builder().
		Select(saleColumns...).
		From("sales s").
		Where(squirrel.Eq{"s.deleted_at": nil}).
		Where(squirrel.Eq{"s.payment_status": string(sale.PaymentPaid)})

	if filter.From != nil {
		q = q.Where(squirrel.GtOrEq{"s.created_at": *filter.From})
	}
	if filter.To != nil {
		q = q.Where(squirrel.Lt{"s.created_at": *filter.To})
	}
	if filter.ProductID != nil {
		q = q.Where("EXISTS (SELECT 1 FROM sale_items f WHERE f.sale_id = s.id AND f.product_id = ?)", *filter.ProductID)
	}

	return q.OrderBy("s.created_at", "s.id")
}

func (r *SaleRepo) itemsQuery(saleIDs []id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("si.id", "si.sale_id", "si.product_id", "si.requested_quantity", "si.final_price").
		From("sale_items si").
		Where("si.sale_id = ANY(?)", saleIDs).
		OrderBy("si.sale_id", "si.position")
}

func (r *SaleRepo) allocationsQuery(saleIDs []id.ID) squirrel.SelectBuilder {
	return r.Builder().
		Select("a.sale_item_id", "a.batch_id", "a.quantity").
		From("sale_item_allocations a").
		Join("sale_items si ON si.id = a.sale_item_id").
		Where("si.sale_id = ANY(?)", saleIDs).
		OrderBy("a.sale_item_id", "a.position")
}

// assemble attaches items to their sales and allocations to their items,
// preserving row order. Orphan rows are dropped.
func assemble(sales []*sale.Sale, items []itemRow, allocations []allocationRow) {
	byID := make(map[id.ID]*sale.Sale, len(sales))
	for _, s := range sales {
		byID[s.ID] = s
	}

	type position struct {
		sale  *sale.Sale
		index int
	}
	itemPos := make(map[id.ID]position, len(items))
	for _, row := range items {
		s := byID[row.SaleID]
		if s == nil {
			continue
		}
		s.Items = append(s.Items, sale.LineItem{
			ProductID:         row.ProductID,
			RequestedQuantity: row.RequestedQuantity,
			FinalPrice:        row.FinalPrice,
		})
		itemPos[row.ID] = position{sale: s, index: len(s.Items) - 1}
	}

	for _, row := range allocations {
		pos, ok := itemPos[row.SaleItemID]
		if !ok {
			continue
		}
		item := &pos.sale.Items[pos.index]
		item.Allocations = append(item.Allocations, sale.BatchAllocation{
			BatchID:  row.BatchID,
			Quantity: row.Quantity,
		})
	}
}
