package analytics

import (
	"sort"

	"batchledger/internal/core/period"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

// SeriesPoint is one time bucket.
type SeriesPoint struct {
	Date     string      `json:"date"`
	Revenue  types.Money `json:"revenue"`
	Quantity int         `json:"quantity"`
	Orders   int         `json:"orders"`
}

// TimeSeries buckets sales by createdAt at the given granularity. Revenue is
// always re-derived from line items, never taken from the sale Amount.
// Buckets are sorted ascending by date key.
func TimeSeries(sales []*sale.Sale, products product.Index, filter LineFilter, g period.Granularity) []SeriesPoint {
	buckets := make(map[string]*SeriesPoint)

	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		lines := matchedLines(s, products, filter)
		if filter.Active() && len(lines) == 0 {
			continue
		}

		key := period.DateKey(s.CreatedAt, g)
		point, ok := buckets[key]
		if !ok {
			point = &SeriesPoint{Date: key, Revenue: types.Zero()}
			buckets[key] = point
		}
		for _, item := range lines {
			point.Revenue = point.Revenue.Add(item.Revenue())
			point.Quantity += item.RequestedQuantity
		}
		point.Orders++
	}

	series := make([]SeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series
}
