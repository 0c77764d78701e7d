// Package inventory derives stock read models from production batches.
//
// Two views coexist and must not be conflated:
//   - BatchProduction and Aging report net remaining (produced minus sold).
//   - CurrentInventory reports gross stock (produced only).
package inventory

import (
	"time"

	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/ledger"
)

// BatchRow is one batch in the production report.
type BatchRow struct {
	BatchID           id.ID            `json:"batchId"`
	BatchNumber       string           `json:"batchNumber"`
	ProductID         id.ID            `json:"productId"`
	ProductName       string           `json:"productName"`
	Category          product.Category `json:"category"`
	Quantity          int              `json:"quantity"`
	SoldQuantity      int              `json:"soldQuantity"`
	RemainingQuantity int              `json:"remainingQuantity"`
	SoldPercentage    float64          `json:"soldPercentage"`
	ProductionDate    time.Time        `json:"productionDate"`
	ExpiryDate        *time.Time       `json:"expiryDate,omitempty"`
	// DaysUntilExpiry is 0 when the batch has no expiry date.
	DaysUntilExpiry int `json:"daysUntilExpiry"`
}

// BatchSummary aggregates the production report.
type BatchSummary struct {
	TotalBatches       int     `json:"totalBatches"`
	TotalProduction    int     `json:"totalProduction"`
	TotalSold          int     `json:"totalSold"`
	TotalRemaining     int     `json:"totalRemaining"`
	AverageUtilization float64 `json:"averageUtilization"`
}

// BatchProductionReport lists active batches with their sell-through.
type BatchProductionReport struct {
	Summary BatchSummary `json:"summary"`
	Batches []BatchRow   `json:"batches"`
}

// BatchProduction computes net remaining and utilization for every live batch,
// in input order. Remaining may be negative for over-allocated batches.
func BatchProduction(batches []*batch.Batch, sold ledger.SoldQuantities, products product.Index, now time.Time) BatchProductionReport {
	report := BatchProductionReport{Batches: make([]BatchRow, 0, len(batches))}

	for _, b := range batches {
		if b == nil || !b.Live() {
			continue
		}
		soldQty := sold.Of(b.ID)
		row := BatchRow{
			BatchID:           b.ID,
			BatchNumber:       b.BatchNumber,
			ProductID:         b.ProductID,
			ProductName:       products.NameOf(b.ProductID),
			Quantity:          b.Quantity,
			SoldQuantity:      soldQty,
			RemainingQuantity: ledger.Remaining(b, sold),
			SoldPercentage:    types.Percent(soldQty, b.Quantity),
			ProductionDate:    b.ProductionDate,
			ExpiryDate:        b.ExpiryDate,
		}
		row.Category, _ = products.CategoryOf(b.ProductID)
		if b.HasExpiry() {
			row.DaysUntilExpiry = period.CeilDays(now, *b.ExpiryDate)
		}

		report.Batches = append(report.Batches, row)
		report.Summary.TotalBatches++
		report.Summary.TotalProduction += row.Quantity
		report.Summary.TotalSold += row.SoldQuantity
		report.Summary.TotalRemaining += row.RemainingQuantity
	}

	report.Summary.AverageUtilization = types.Percent(report.Summary.TotalSold, report.Summary.TotalProduction)
	return report
}
