package analytics

import (
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

// Metrics are the headline sales figures for a sale set.
type Metrics struct {
	TotalRevenue      types.Money `json:"totalRevenue"`
	TotalSales        int         `json:"totalSales"`
	AverageOrderValue types.Money `json:"averageOrderValue"`
	TotalQuantitySold int         `json:"totalQuantitySold"`
}

// ComputeMetrics totals revenue, order count and quantity.
//
// Without a filter a sale contributes its recorded Amount when present, so
// delivery fees and discounts baked into it are kept. With a filter, revenue
// is re-derived from matching line items only, and a sale counts when at
// least one of its lines matches. The two modes are not expected to agree to
// the cent.
func ComputeMetrics(sales []*sale.Sale, products product.Index, filter LineFilter) Metrics {
	m := Metrics{TotalRevenue: types.Zero()}

	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		lines := matchedLines(s, products, filter)
		if filter.Active() && len(lines) == 0 {
			continue
		}

		lineRevenue := types.Zero()
		for _, item := range lines {
			lineRevenue = lineRevenue.Add(item.Revenue())
			m.TotalQuantitySold += item.RequestedQuantity
		}

		if !filter.Active() && s.Amount != nil {
			m.TotalRevenue = m.TotalRevenue.Add(*s.Amount)
		} else {
			m.TotalRevenue = m.TotalRevenue.Add(lineRevenue)
		}
		m.TotalSales++
	}

	m.AverageOrderValue = types.SafeDiv(m.TotalRevenue, types.MoneyFromInt(m.TotalSales))
	return m
}
