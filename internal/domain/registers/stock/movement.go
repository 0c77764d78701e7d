// Package stock provides the stock movement register: production receipts
// and sale expenses folded into a bucketed ledger with a running balance.
//
// The register is recomputed from batches and sales on every call. The
// opening balance of the queried window is always 0, so closing stock is
// window-relative.
package stock

import (
	"sort"

	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/documents/sale"
)

// Movement is one bucket of the ledger.
type Movement struct {
	Date         string `json:"date"`
	Produced     int    `json:"produced"`
	Sold         int    `json:"sold"`
	NetChange    int    `json:"netChange"`
	ClosingStock int    `json:"closingStock"`
}

// Reconcile merges batch production and sale consumption into buckets.
//
// Batches are keyed by ProductionDate and sale lines by the sale's CreatedAt.
// Sales are taken as given: payment status and date filtering belong to the
// caller. When productID is set only that product's batches and lines count.
func Reconcile(batches []*batch.Batch, sales []*sale.Sale, g period.Granularity, productID *id.ID) []Movement {
	buckets := make(map[string]*Movement)
	bucket := func(key string) *Movement {
		m, ok := buckets[key]
		if !ok {
			m = &Movement{Date: key}
			buckets[key] = m
		}
		return m
	}

	for _, b := range batches {
		if b == nil || b.IsDeleted() {
			continue
		}
		if productID != nil && b.ProductID != *productID {
			continue
		}
		bucket(period.DateKey(b.ProductionDate, g)).Produced += b.Quantity
	}

	for _, s := range sales {
		if s == nil || s.IsDeleted() {
			continue
		}
		qty := 0
		for _, item := range s.Items {
			if productID != nil && item.ProductID != *productID {
				continue
			}
			qty += item.RequestedQuantity
		}
		if qty == 0 {
			continue
		}
		bucket(period.DateKey(s.CreatedAt, g)).Sold += qty
	}

	movements := make([]Movement, 0, len(buckets))
	for _, m := range buckets {
		m.NetChange = m.Produced - m.Sold
		movements = append(movements, *m)
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].Date < movements[j].Date })

	closing := 0
	for i := range movements {
		closing += movements[i].NetChange
		movements[i].ClosingStock = closing
	}
	return movements
}
