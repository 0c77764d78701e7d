package analytics

import (
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

// Share is one category's slice of revenue.
type Share struct {
	Category             product.Category `json:"category"`
	Revenue              types.Money      `json:"revenue"`
	Quantity             int              `json:"quantity"`
	PercentageOfTotal    float64          `json:"percentageOfTotal"`
	CumulativePercentage float64          `json:"cumulativePercentage"`
}

// Distribution splits line-item revenue across categories.
type Distribution struct {
	TotalRevenue types.Money `json:"totalRevenue"`
	Shares       []Share     `json:"shares"`
}

// RevenueDistribution reports each category's share of revenue, largest
// first, with a running cumulative percentage.
func RevenueDistribution(sales []*sale.Sale, products product.Index, filter LineFilter) Distribution {
	rows := ByCategory(sales, products, filter)

	d := Distribution{TotalRevenue: types.Zero(), Shares: make([]Share, 0, len(rows))}
	for _, r := range rows {
		d.TotalRevenue = d.TotalRevenue.Add(r.TotalRevenue)
	}

	cumulative := types.Zero()
	for _, r := range rows {
		cumulative = cumulative.Add(r.TotalRevenue)
		d.Shares = append(d.Shares, Share{
			Category:             r.Category,
			Revenue:              r.TotalRevenue,
			Quantity:             r.TotalQuantitySold,
			PercentageOfTotal:    r.PercentageOfTotal,
			CumulativePercentage: types.PercentOf(cumulative, d.TotalRevenue),
		})
	}
	return d
}
