// Package entity provides fields shared by the ledger records.
package entity

import (
	"time"

	"batchledger/internal/core/id"
)

// SoftDelete carries the soft-delete timestamp. Records with DeletedAt set
// stay in storage but are invisible to every report.
type SoftDelete struct {
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// IsDeleted returns true if the record has been soft-deleted.
func (s SoftDelete) IsDeleted() bool {
	return s.DeletedAt != nil
}

// BaseEntity contains the identity and soft-delete marker common to
// products, batches and sales.
type BaseEntity struct {
	ID id.ID `db:"id" json:"id"`
	SoftDelete
}

// NewBaseEntity creates a BaseEntity with a generated ID.
func NewBaseEntity() BaseEntity {
	return BaseEntity{ID: id.New()}
}
