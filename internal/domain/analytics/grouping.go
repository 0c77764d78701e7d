package analytics

import (
	"fmt"
	"sort"
	"strings"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

// ProductRow aggregates matching line items of one product.
type ProductRow struct {
	Rank              int              `json:"rank,omitempty"`
	ProductID         id.ID            `json:"productId"`
	ProductName       string           `json:"productName"`
	Category          product.Category `json:"category"`
	TotalQuantitySold int              `json:"totalQuantitySold"`
	TotalRevenue      types.Money      `json:"totalRevenue"`
	SalesCount        int              `json:"salesCount"`
	AveragePrice      types.Money      `json:"averagePrice"`
	PercentageOfTotal float64          `json:"percentageOfTotal"`
}

// CategoryRow aggregates matching line items of one category.
type CategoryRow struct {
	Category          product.Category `json:"category"`
	TotalQuantitySold int              `json:"totalQuantitySold"`
	TotalRevenue      types.Money      `json:"totalRevenue"`
	SalesCount        int              `json:"salesCount"`
	ProductCount      int              `json:"productCount"`
	AveragePrice      types.Money      `json:"averagePrice"`
	PercentageOfTotal float64          `json:"percentageOfTotal"`
}

// SortOrder orders ranked rows by revenue.
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// ParseSortOrder accepts asc/desc case-insensitively; empty means desc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDesc, nil
	case SortDesc, SortAsc:
		return o, nil
	default:
		return "", apperror.NewInvalidInput("sortOrder", fmt.Sprintf("unknown sort order %q, expected asc or desc", s))
	}
}

// ByProduct groups matching line items by product. AveragePrice is
// revenue/quantity after each accumulation, not a mean of unit prices.
// Rows are sorted by revenue descending, then product id.
func ByProduct(sales []*sale.Sale, products product.Index, filter LineFilter) []ProductRow {
	rows := make(map[id.ID]*ProductRow)
	total := types.Zero()

	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		seen := make(map[id.ID]bool)
		for _, item := range matchedLines(s, products, filter) {
			row, ok := rows[item.ProductID]
			if !ok {
				row = &ProductRow{ProductID: item.ProductID, TotalRevenue: types.Zero()}
				if p := products.Get(item.ProductID); p != nil {
					row.ProductName = p.Name
					row.Category = p.Category
				}
				rows[item.ProductID] = row
			}

			revenue := item.Revenue()
			row.TotalQuantitySold += item.RequestedQuantity
			row.TotalRevenue = row.TotalRevenue.Add(revenue)
			row.AveragePrice = types.SafeDiv(row.TotalRevenue, types.MoneyFromInt(row.TotalQuantitySold))
			if !seen[item.ProductID] {
				seen[item.ProductID] = true
				row.SalesCount++
			}
			total = total.Add(revenue)
		}
	}

	out := make([]ProductRow, 0, len(rows))
	for _, row := range rows {
		row.PercentageOfTotal = types.PercentOf(row.TotalRevenue, total)
		out = append(out, *row)
	}
	sortProducts(out, SortDesc)
	return out
}

// ByCategory groups matching line items by product category. Lines whose
// product is unknown have no category and are left out.
// Rows are sorted by revenue descending, then category.
func ByCategory(sales []*sale.Sale, products product.Index, filter LineFilter) []CategoryRow {
	rows := make(map[product.Category]*CategoryRow)
	productsSeen := make(map[product.Category]map[id.ID]struct{})
	total := types.Zero()

	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		seen := make(map[product.Category]bool)
		for _, item := range matchedLines(s, products, filter) {
			category, ok := products.CategoryOf(item.ProductID)
			if !ok {
				continue
			}
			row, ok := rows[category]
			if !ok {
				row = &CategoryRow{Category: category, TotalRevenue: types.Zero()}
				rows[category] = row
				productsSeen[category] = make(map[id.ID]struct{})
			}

			revenue := item.Revenue()
			row.TotalQuantitySold += item.RequestedQuantity
			row.TotalRevenue = row.TotalRevenue.Add(revenue)
			row.AveragePrice = types.SafeDiv(row.TotalRevenue, types.MoneyFromInt(row.TotalQuantitySold))
			if !seen[category] {
				seen[category] = true
				row.SalesCount++
			}
			productsSeen[category][item.ProductID] = struct{}{}
			total = total.Add(revenue)
		}
	}

	out := make([]CategoryRow, 0, len(rows))
	for category, row := range rows {
		row.ProductCount = len(productsSeen[category])
		row.PercentageOfTotal = types.PercentOf(row.TotalRevenue, total)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// TopProducts ranks products by revenue in the given order, keeps at most
// limit rows (all when limit <= 0) and numbers them from 1 after truncation.
// PercentageOfTotal stays relative to all matching products.
func TopProducts(sales []*sale.Sale, products product.Index, filter LineFilter, limit int, order SortOrder) []ProductRow {
	rows := ByProduct(sales, products, filter)
	sortProducts(rows, order)

	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func sortProducts(rows []ProductRow, order SortOrder) {
	sort.Slice(rows, func(i, j int) bool {
		if c := rows[i].TotalRevenue.Cmp(rows[j].TotalRevenue); c != 0 {
			if order == SortAsc {
				return c < 0
			}
			return c > 0
		}
		return id.Less(rows[i].ProductID, rows[j].ProductID)
	})
}
