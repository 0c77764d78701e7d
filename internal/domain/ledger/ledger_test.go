package ledger

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"batchledger/internal/core/entity"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/documents/sale"
)

func newBatch(productID id.ID, number string, qty int) *batch.Batch {
	return &batch.Batch{
		BaseEntity:     entity.NewBaseEntity(),
		ProductID:      productID,
		BatchNumber:    number,
		Quantity:       qty,
		ProductionDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		IsActive:       true,
	}
}

func newSale(status sale.PaymentStatus, items ...sale.LineItem) *sale.Sale {
	return &sale.Sale{
		BaseEntity:    entity.NewBaseEntity(),
		PaymentStatus: status,
		CreatedAt:     time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC),
		Items:         items,
	}
}

func line(productID id.ID, qty int, allocs ...sale.BatchAllocation) sale.LineItem {
	return sale.LineItem{
		ProductID:         productID,
		RequestedQuantity: qty,
		FinalPrice:        types.MustMoney("10"),
		Allocations:       allocs,
	}
}

func TestSoldQuantityForBatch_SingleSale(t *testing.T) {
	p1 := id.New()
	b1 := newBatch(p1, "B1", 100)
	s1 := newSale(sale.PaymentPaid, line(p1, 30, sale.BatchAllocation{BatchID: b1.ID, Quantity: 30}))

	sales := []*sale.Sale{s1}

	assert.Equal(t, 30, SoldQuantityForBatch(sales, b1.ID))
	assert.Equal(t, 70, Remaining(b1, SoldByBatch(sales)))
}

func TestSoldQuantityForBatch_IgnoresUnpaidAndDeleted(t *testing.T) {
	p1 := id.New()
	b1 := newBatch(p1, "B1", 100)
	alloc := sale.BatchAllocation{BatchID: b1.ID, Quantity: 5}

	deleted := newSale(sale.PaymentPaid, line(p1, 5, alloc))
	deletedAt := time.Now()
	deleted.DeletedAt = &deletedAt

	sales := []*sale.Sale{
		newSale(sale.PaymentPaid, line(p1, 5, alloc)),
		newSale(sale.PaymentPending, line(p1, 5, alloc)),
		newSale(sale.PaymentRefunded, line(p1, 5, alloc)),
		deleted,
		nil,
	}

	assert.Equal(t, 5, SoldQuantityForBatch(sales, b1.ID))
	assert.Equal(t, 5, SoldByBatch(sales).Of(b1.ID))
}

func TestSoldQuantityForBatch_NoAllocations(t *testing.T) {
	assert.Equal(t, 0, SoldQuantityForBatch(nil, id.New()))
	assert.Equal(t, 0, SoldByBatch(nil).Of(id.New()))
}

func TestSoldByBatch_MatchesPerBatchScanInAnyOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	p := id.New()
	batches := make([]*batch.Batch, 5)
	for i := range batches {
		batches[i] = newBatch(p, string(rune('A'+i)), 1000)
	}

	statuses := []sale.PaymentStatus{sale.PaymentPaid, sale.PaymentPaid, sale.PaymentPending}
	var sales []*sale.Sale
	for i := 0; i < 50; i++ {
		var items []sale.LineItem
		for j := 0; j < 1+rng.Intn(3); j++ {
			var allocs []sale.BatchAllocation
			qty := 0
			for k := 0; k < 1+rng.Intn(3); k++ {
				n := 1 + rng.Intn(10)
				qty += n
				allocs = append(allocs, sale.BatchAllocation{BatchID: batches[rng.Intn(len(batches))].ID, Quantity: n})
			}
			items = append(items, line(p, qty, allocs...))
		}
		sales = append(sales, newSale(statuses[rng.Intn(len(statuses))], items...))
	}

	sold := SoldByBatch(sales)
	rng.Shuffle(len(sales), func(i, j int) { sales[i], sales[j] = sales[j], sales[i] })
	shuffled := SoldByBatch(sales)

	for _, b := range batches {
		assert.Equal(t, SoldQuantityForBatch(sales, b.ID), sold.Of(b.ID))
		assert.Equal(t, sold.Of(b.ID), shuffled.Of(b.ID))
	}
}

func TestScan_CleanLedger(t *testing.T) {
	p1 := id.New()
	b1 := newBatch(p1, "B1", 100)
	sales := []*sale.Sale{
		newSale(sale.PaymentPaid, line(p1, 30, sale.BatchAllocation{BatchID: b1.ID, Quantity: 30})),
	}

	assert.Empty(t, Scan([]*batch.Batch{b1}, sales))
}

func TestScan_ReportsEveryKind(t *testing.T) {
	p1 := id.New()
	b1 := newBatch(p1, "B1", 10)
	ghost := id.New()

	s1 := newSale(sale.PaymentPaid,
		line(p1, 12, sale.BatchAllocation{BatchID: b1.ID, Quantity: 12}),
		line(p1, 5, sale.BatchAllocation{BatchID: b1.ID, Quantity: 2}),
	)
	s2 := newSale(sale.PaymentPaid, line(p1, 3, sale.BatchAllocation{BatchID: ghost, Quantity: 3}))

	issues := Scan([]*batch.Batch{b1}, []*sale.Sale{s1, s2})
	require.Len(t, issues, 3)

	assert.Equal(t, IssueAllocationMismatch, issues[0].Kind)
	assert.Equal(t, s1.ID, *issues[0].SaleID)
	assert.Equal(t, 1, *issues[0].LineIndex)
	assert.Equal(t, 5, issues[0].Expected)
	assert.Equal(t, 2, issues[0].Actual)

	assert.Equal(t, IssueUnknownBatch, issues[1].Kind)
	assert.Equal(t, ghost, *issues[1].BatchID)

	assert.Equal(t, IssueOversoldBatch, issues[2].Kind)
	assert.Equal(t, b1.ID, *issues[2].BatchID)
	assert.Equal(t, 10, issues[2].Expected)
	assert.Equal(t, 14, issues[2].Actual)
	assert.Equal(t, -4, Remaining(b1, SoldByBatch([]*sale.Sale{s1, s2})))

	counts := Summary(issues)
	assert.Equal(t, 1, counts[IssueAllocationMismatch])
	assert.Equal(t, 1, counts[IssueOversoldBatch])
	assert.Equal(t, 1, counts[IssueUnknownBatch])
}

func TestScan_SkipsUnpaidSales(t *testing.T) {
	p1 := id.New()
	b1 := newBatch(p1, "B1", 1)
	pending := newSale(sale.PaymentPending, line(p1, 50, sale.BatchAllocation{BatchID: id.New(), Quantity: 1}))

	assert.Empty(t, Scan([]*batch.Batch{b1}, []*sale.Sale{pending}))
}

func TestIssue_AsError(t *testing.T) {
	saleID, lineIdx := id.New(), 2
	issue := Issue{
		Kind:      IssueAllocationMismatch,
		SaleID:    &saleID,
		LineIndex: &lineIdx,
		Expected:  5,
		Actual:    3,
		Message:   "line 2 allocates 3 of 5 requested units",
	}

	err := issue.AsError()
	assert.Equal(t, "DATA_INTEGRITY", err.Code)
	assert.Equal(t, "allocation_mismatch", err.Details["kind"])
	assert.Equal(t, saleID.String(), err.Details["sale_id"])
	assert.Equal(t, 2, err.Details["line"])
	assert.Equal(t, 5, err.Details["expected"])
	assert.NotContains(t, err.Details, "batch_id")
}
