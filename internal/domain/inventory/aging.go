package inventory

import (
	"sort"
	"time"

	"batchledger/internal/core/id"
	"batchledger/internal/core/period"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/ledger"
)

// AgingStatus buckets a batch by days until expiry.
type AgingStatus string

const (
	StatusExpired  AgingStatus = "expired"
	StatusCritical AgingStatus = "critical"
	StatusAging    AgingStatus = "aging"
	StatusFresh    AgingStatus = "fresh"
)

const (
	// NoExpiryDays stands in for batches without an expiry date.
	NoExpiryDays = 999999

	criticalDays = 30
	agingDays    = 90
)

// Classify maps days until expiry to a status.
func Classify(days int) AgingStatus {
	switch {
	case days < 0:
		return StatusExpired
	case days <= criticalDays:
		return StatusCritical
	case days <= agingDays:
		return StatusAging
	default:
		return StatusFresh
	}
}

// AgingRow is one batch with unsold stock.
type AgingRow struct {
	BatchID           id.ID            `json:"batchId"`
	BatchNumber       string           `json:"batchNumber"`
	ProductID         id.ID            `json:"productId"`
	ProductName       string           `json:"productName"`
	Category          product.Category `json:"category"`
	RemainingQuantity int              `json:"remainingQuantity"`
	ProductionDate    time.Time        `json:"productionDate"`
	ExpiryDate        *time.Time       `json:"expiryDate,omitempty"`
	DaysUntilExpiry   int              `json:"daysUntilExpiry"`
	Status            AgingStatus      `json:"status"`
}

// AgingSummary counts batches per status.
type AgingSummary struct {
	TotalBatches   int `json:"totalBatches"`
	TotalRemaining int `json:"totalRemaining"`
	Expired        int `json:"expired"`
	Critical       int `json:"critical"`
	Aging          int `json:"aging"`
	Fresh          int `json:"fresh"`
}

// AgingReport lists batches most urgent first.
type AgingReport struct {
	Summary AgingSummary `json:"summary"`
	Batches []AgingRow   `json:"batches"`
}

// Aging classifies every live batch that still has remaining stock.
// Rows are stably sorted by DaysUntilExpiry ascending.
func Aging(batches []*batch.Batch, sold ledger.SoldQuantities, products product.Index, now time.Time) AgingReport {
	report := AgingReport{Batches: make([]AgingRow, 0, len(batches))}

	for _, b := range batches {
		if b == nil || !b.Live() {
			continue
		}
		remaining := ledger.Remaining(b, sold)
		if remaining <= 0 {
			continue
		}

		days := NoExpiryDays
		if b.HasExpiry() {
			days = period.CeilDays(now, *b.ExpiryDate)
		}
		row := AgingRow{
			BatchID:           b.ID,
			BatchNumber:       b.BatchNumber,
			ProductID:         b.ProductID,
			ProductName:       products.NameOf(b.ProductID),
			RemainingQuantity: remaining,
			ProductionDate:    b.ProductionDate,
			ExpiryDate:        b.ExpiryDate,
			DaysUntilExpiry:   days,
			Status:            Classify(days),
		}
		row.Category, _ = products.CategoryOf(b.ProductID)
		report.Batches = append(report.Batches, row)

		report.Summary.TotalBatches++
		report.Summary.TotalRemaining += remaining
		switch row.Status {
		case StatusExpired:
			report.Summary.Expired++
		case StatusCritical:
			report.Summary.Critical++
		case StatusAging:
			report.Summary.Aging++
		default:
			report.Summary.Fresh++
		}
	}

	sort.SliceStable(report.Batches, func(i, j int) bool {
		return report.Batches[i].DaysUntilExpiry < report.Batches[j].DaysUntilExpiry
	})
	return report
}
