// Package batch provides the production Batch catalog.
//
// A batch is created once at production time with a fixed quantity and is
// afterwards only deactivated or soft-deleted. Corrections are made by
// creating adjustment batches, never by editing Quantity.
package batch

import (
	"time"

	"batchledger/internal/core/entity"
	"batchledger/internal/core/id"
)

// Batch is a discrete production run of a product.
type Batch struct {
	entity.BaseEntity

	ProductID      id.ID      `db:"product_id" json:"productId"`
	BatchNumber    string     `db:"batch_number" json:"batchNumber"`
	Quantity       int        `db:"quantity" json:"quantity"`
	ProductionDate time.Time  `db:"production_date" json:"productionDate"`
	ExpiryDate     *time.Time `db:"expiry_date" json:"expiryDate,omitempty"`
	IsActive       bool       `db:"is_active" json:"isActive"`
}

// HasExpiry reports whether an expiry date is set.
func (b *Batch) HasExpiry() bool {
	return b.ExpiryDate != nil
}

// Live reports whether the batch counts towards stock: active and not deleted.
func (b *Batch) Live() bool {
	return b.IsActive && !b.IsDeleted()
}
