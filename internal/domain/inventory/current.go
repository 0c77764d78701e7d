package inventory

import (
	"sort"
	"time"

	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
)

// DefaultLowStockThreshold applies when the caller does not supply one.
const DefaultLowStockThreshold = 100

// ProductStock is the gross stock of one product.
type ProductStock struct {
	ProductID       id.ID            `json:"productId"`
	ProductName     string           `json:"productName"`
	Category        product.Category `json:"category"`
	TotalStock      int              `json:"totalStock"`
	BatchCount      int              `json:"batchCount"`
	WholesalePrice  types.Money      `json:"wholesalePrice"`
	TotalValue      types.Money      `json:"totalValue"`
	IsLowStock      bool             `json:"isLowStock"`
	OldestBatchDate time.Time        `json:"oldestBatchDate"`
	NewestBatchDate time.Time        `json:"newestBatchDate"`
}

// InventorySummary aggregates the current inventory report.
type InventorySummary struct {
	TotalProducts int         `json:"totalProducts"`
	TotalStock    int         `json:"totalStock"`
	TotalValue    types.Money `json:"totalValue"`
	LowStockCount int         `json:"lowStockCount"`
	Threshold     int         `json:"threshold"`
}

// CurrentInventoryReport is the gross stock view.
type CurrentInventoryReport struct {
	Summary  InventorySummary `json:"summary"`
	Products []ProductStock   `json:"products"`
}

// CurrentInventory groups live batches by product. TotalStock is the sum of
// produced quantities; sold quantity is deliberately not subtracted.
//
// Products without live batches are absent from the output. Batches whose
// product is not in the index are skipped.
func CurrentInventory(batches []*batch.Batch, products product.Index, threshold int) CurrentInventoryReport {
	byProduct := make(map[id.ID]*ProductStock)

	for _, b := range batches {
		if b == nil || !b.Live() {
			continue
		}
		p := products.Get(b.ProductID)
		if p == nil {
			continue
		}

		row, ok := byProduct[p.ID]
		if !ok {
			row = &ProductStock{
				ProductID:       p.ID,
				ProductName:     p.Name,
				Category:        p.Category,
				WholesalePrice:  p.WholesalePrice,
				OldestBatchDate: b.ProductionDate,
				NewestBatchDate: b.ProductionDate,
			}
			byProduct[p.ID] = row
		}

		row.TotalStock += b.Quantity
		row.BatchCount++
		if b.ProductionDate.Before(row.OldestBatchDate) {
			row.OldestBatchDate = b.ProductionDate
		}
		if b.ProductionDate.After(row.NewestBatchDate) {
			row.NewestBatchDate = b.ProductionDate
		}
	}

	report := CurrentInventoryReport{
		Summary:  InventorySummary{TotalValue: types.Zero(), Threshold: threshold},
		Products: make([]ProductStock, 0, len(byProduct)),
	}
	for _, row := range byProduct {
		row.TotalValue = row.WholesalePrice.Mul(types.MoneyFromInt(row.TotalStock))
		row.IsLowStock = row.TotalStock < threshold

		report.Products = append(report.Products, *row)
		report.Summary.TotalProducts++
		report.Summary.TotalStock += row.TotalStock
		report.Summary.TotalValue = report.Summary.TotalValue.Add(row.TotalValue)
		if row.IsLowStock {
			report.Summary.LowStockCount++
		}
	}

	sort.Slice(report.Products, func(i, j int) bool {
		a, b := report.Products[i], report.Products[j]
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return id.Less(a.ProductID, b.ProductID)
	})

	return report
}
