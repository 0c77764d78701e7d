package document_repo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchledger/internal/core/entity"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/documents/sale"
)

const saleCols = "s.id, s.deleted_at, s.customer_id, s.payment_status, s.order_status, s.amount, s.delivery_fee, s.created_at"

func TestSaleRepo_SalesQuery(t *testing.T) {
	repo := NewSaleRepo(nil)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	productID := id.New()

	tests := []struct {
		name     string
		filter   sale.Filter
		wantSQL  string
		wantArgs []any
	}{
		{
			name:   "PaidOnly",
			filter: sale.Filter{},
			wantSQL: "SELECT " + saleCols + " FROM sales s WHERE s.deleted_at IS NULL AND s.payment_status = $1" +
				" ORDER BY s.created_at, s.id",
			wantArgs: []any{"paid"},
		},
		{
			name:   "RangeAndProduct",
			filter: sale.Filter{From: &from, To: &to, ProductID: &productID},
			wantSQL: "SELECT " + saleCols + " FROM sales s WHERE s.deleted_at IS NULL AND s.payment_status = $1" +
				" AND s.created_at >= $2 AND s.created_at < $3" +
				" AND EXISTS (SELECT 1 FROM sale_items f WHERE f.sale_id = s.id AND f.product_id = $4)" +
				" ORDER BY s.created_at, s.id",
			wantArgs: []any{"paid", from, to, productID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := repo.salesQuery(tt.filter).ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSaleRepo_ChildQueries(t *testing.T) {
	repo := NewSaleRepo(nil)
	ids := []id.ID{id.New()}

	sql, args, err := repo.itemsQuery(ids).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT si.id, si.sale_id, si.product_id, si.requested_quantity, si.final_price"+
		" FROM sale_items si WHERE si.sale_id = ANY($1) ORDER BY si.sale_id, si.position", sql)
	assert.Equal(t, []any{ids}, args)

	sql, _, err = repo.allocationsQuery(ids).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT a.sale_item_id, a.batch_id, a.quantity FROM sale_item_allocations a"+
		" JOIN sale_items si ON si.id = a.sale_item_id WHERE si.sale_id = ANY($1)"+
		" ORDER BY a.sale_item_id, a.position", sql)
}

func TestAssemble(t *testing.T) {
	s1 := &sale.Sale{BaseEntity: entity.NewBaseEntity()}
	s2 := &sale.Sale{BaseEntity: entity.NewBaseEntity()}
	p1, p2 := id.New(), id.New()
	i1, i2, i3 := id.New(), id.New(), id.New()
	b1, b2 := id.New(), id.New()

	items := []itemRow{
		{ID: i1, SaleID: s1.ID, ProductID: p1, RequestedQuantity: 30, FinalPrice: types.MustMoney("10")},
		{ID: i2, SaleID: s1.ID, ProductID: p2, RequestedQuantity: 5, FinalPrice: types.MustMoney("2")},
		{ID: i3, SaleID: s2.ID, ProductID: p1, RequestedQuantity: 1, FinalPrice: types.MustMoney("10")},
		{ID: id.New(), SaleID: id.New(), ProductID: p1, RequestedQuantity: 99},
	}
	allocations := []allocationRow{
		{SaleItemID: i1, BatchID: b1, Quantity: 20},
		{SaleItemID: i1, BatchID: b2, Quantity: 10},
		{SaleItemID: i3, BatchID: b2, Quantity: 1},
		{SaleItemID: id.New(), BatchID: b1, Quantity: 7},
	}

	assemble([]*sale.Sale{s1, s2}, items, allocations)

	require.Len(t, s1.Items, 2)
	assert.Equal(t, p1, s1.Items[0].ProductID)
	assert.Equal(t, []sale.BatchAllocation{{BatchID: b1, Quantity: 20}, {BatchID: b2, Quantity: 10}}, s1.Items[0].Allocations)
	assert.Empty(t, s1.Items[1].Allocations)
	assert.Equal(t, 30, s1.Items[0].AllocatedQuantity())

	require.Len(t, s2.Items, 1)
	assert.Equal(t, 1, s2.Items[0].AllocatedQuantity())
}
