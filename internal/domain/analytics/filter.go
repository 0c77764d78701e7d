// Package analytics turns sale snapshots into revenue, quantity and order
// metrics: totals, time series, period comparisons and per-product or
// per-category groupings.
//
// Every function is pure. Only paid, non-deleted sales are considered.
package analytics

import (
	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

// LineFilter narrows metrics to line items of one product and/or category.
// The zero value matches everything.
type LineFilter struct {
	ProductID *id.ID
	Category  *product.Category
}

// Active reports whether any filter is set.
func (f LineFilter) Active() bool {
	return f.ProductID != nil || f.Category != nil
}

// Matches reports whether a line item passes the filter. A line whose product
// is unknown never matches a category filter.
func (f LineFilter) Matches(item sale.LineItem, products product.Index) bool {
	if f.ProductID != nil && item.ProductID != *f.ProductID {
		return false
	}
	if f.Category != nil {
		category, ok := products.CategoryOf(item.ProductID)
		if !ok || category != *f.Category {
			return false
		}
	}
	return true
}

// matchedLines returns the line items of s that pass the filter.
func matchedLines(s *sale.Sale, products product.Index, filter LineFilter) []sale.LineItem {
	if !filter.Active() {
		return s.Items
	}
	matched := make([]sale.LineItem, 0, len(s.Items))
	for _, item := range s.Items {
		if filter.Matches(item, products) {
			matched = append(matched, item)
		}
	}
	return matched
}
