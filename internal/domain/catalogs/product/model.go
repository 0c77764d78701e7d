// Package product provides the Product catalog. Products are read-only
// reference data for the report engines: name, category and unit prices.
package product

import (
	"batchledger/internal/core/entity"
	"batchledger/internal/core/id"
	"batchledger/internal/core/types"
)

// Category classifies a product. Values are owned by the catalog
// (e.g. "bread", "pastry"); reports group by the raw value.
type Category string

// Product is a manufactured item.
type Product struct {
	entity.BaseEntity

	Name           string      `db:"name" json:"name"`
	Category       Category    `db:"category" json:"category"`
	WholesalePrice types.Money `db:"wholesale_price" json:"wholesalePrice"`
	RetailPrice    types.Money `db:"retail_price" json:"retailPrice"`
}

// Index is an in-memory product lookup built once per report request.
type Index map[id.ID]*Product

// NewIndex builds an Index from a product list, skipping nils.
func NewIndex(products ...*Product) Index {
	idx := make(Index, len(products))
	for _, p := range products {
		if p != nil {
			idx[p.ID] = p
		}
	}
	return idx
}

// Get returns the product or nil.
func (i Index) Get(productID id.ID) *Product {
	return i[productID]
}

// CategoryOf returns the product's category and whether the product is known.
func (i Index) CategoryOf(productID id.ID) (Category, bool) {
	p := i[productID]
	if p == nil {
		return "", false
	}
	return p.Category, true
}

// NameOf returns the product's name or an empty string.
func (i Index) NameOf(productID id.ID) string {
	if p := i[productID]; p != nil {
		return p.Name
	}
	return ""
}
