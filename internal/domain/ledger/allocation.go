// Package ledger reconciles recorded batch allocations against production
// batches. It is the single source of truth for how much of a batch has left
// inventory: sold quantity is lifetime-to-date over paid, non-deleted sales.
package ledger

import (
	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/documents/sale"
)

// SoldQuantities maps batch id to the total quantity allocated from it.
type SoldQuantities map[id.ID]int

// Of returns the sold quantity for a batch, 0 when nothing was allocated.
func (s SoldQuantities) Of(batchID id.ID) int {
	return s[batchID]
}

// SoldQuantityForBatch sums allocation quantities referencing batchID across
// every paid, non-deleted sale. There is no date filter.
//
// Prefer SoldByBatch when more than one batch is needed: this walks all sales
// on every call.
func SoldQuantityForBatch(sales []*sale.Sale, batchID id.ID) int {
	total := 0
	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		for _, item := range s.Items {
			for _, a := range item.Allocations {
				if a.BatchID == batchID {
					total += a.Quantity
				}
			}
		}
	}
	return total
}

// SoldByBatch computes sold quantities for every referenced batch in one pass.
func SoldByBatch(sales []*sale.Sale) SoldQuantities {
	sold := make(SoldQuantities)
	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		for _, item := range s.Items {
			for _, a := range item.Allocations {
				sold[a.BatchID] += a.Quantity
			}
		}
	}
	return sold
}

// Remaining is produced minus sold. A negative result means the batch was
// over-allocated; it is returned as is, never clamped.
func Remaining(b *batch.Batch, sold SoldQuantities) int {
	return b.Quantity - sold.Of(b.ID)
}
