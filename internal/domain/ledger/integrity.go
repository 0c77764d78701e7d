package ledger

import (
	"fmt"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/documents/sale"
)

// IssueKind classifies a ledger inconsistency.
type IssueKind string

const (
	// IssueAllocationMismatch: a line item's allocations do not add up to its requested quantity.
	IssueAllocationMismatch IssueKind = "allocation_mismatch"
	// IssueOversoldBatch: more was allocated from a batch than it produced.
	IssueOversoldBatch IssueKind = "oversold_batch"
	// IssueUnknownBatch: an allocation references a batch that is not in the snapshot.
	IssueUnknownBatch IssueKind = "unknown_batch"
)

// Issue is one integrity finding. Findings are reported alongside results;
// they never abort a report.
type Issue struct {
	Kind      IssueKind `json:"kind"`
	SaleID    *id.ID    `json:"saleId,omitempty"`
	LineIndex *int      `json:"lineIndex,omitempty"`
	BatchID   *id.ID    `json:"batchId,omitempty"`
	ProductID *id.ID    `json:"productId,omitempty"`
	Expected  int       `json:"expected"`
	Actual    int       `json:"actual"`
	Message   string    `json:"message"`
}

// AsError renders the issue as a DataIntegrity AppError for logging and APIs.
func (i Issue) AsError() *apperror.AppError {
	err := apperror.NewDataIntegrity(string(i.Kind), i.Message).
		WithDetail("expected", i.Expected).
		WithDetail("actual", i.Actual)
	if i.SaleID != nil {
		err.WithDetail("sale_id", i.SaleID.String())
	}
	if i.LineIndex != nil {
		err.WithDetail("line", *i.LineIndex)
	}
	if i.BatchID != nil {
		err.WithDetail("batch_id", i.BatchID.String())
	}
	if i.ProductID != nil {
		err.WithDetail("product_id", i.ProductID.String())
	}
	return err
}

// Scan checks the snapshot for integrity problems. Line-level findings come
// first in sale order, then batch-level findings in batch order.
//
// batches should hold every non-deleted batch; allocations pointing elsewhere
// are reported as IssueUnknownBatch.
func Scan(batches []*batch.Batch, sales []*sale.Sale) []Issue {
	known := make(map[id.ID]struct{}, len(batches))
	for _, b := range batches {
		known[b.ID] = struct{}{}
	}

	var issues []Issue
	for _, s := range sales {
		if s == nil || !s.Counted() {
			continue
		}
		saleID := s.ID
		for i, item := range s.Items {
			line := i
			productID := item.ProductID

			if allocated := item.AllocatedQuantity(); allocated != item.RequestedQuantity {
				issues = append(issues, Issue{
					Kind:      IssueAllocationMismatch,
					SaleID:    &saleID,
					LineIndex: &line,
					ProductID: &productID,
					Expected:  item.RequestedQuantity,
					Actual:    allocated,
					Message: fmt.Sprintf("line %d allocates %d of %d requested units",
						line, allocated, item.RequestedQuantity),
				})
			}

			for _, a := range item.Allocations {
				if _, ok := known[a.BatchID]; ok {
					continue
				}
				batchID := a.BatchID
				issues = append(issues, Issue{
					Kind:      IssueUnknownBatch,
					SaleID:    &saleID,
					LineIndex: &line,
					BatchID:   &batchID,
					ProductID: &productID,
					Actual:    a.Quantity,
					Message:   fmt.Sprintf("allocation of %d units references unknown batch", a.Quantity),
				})
			}
		}
	}

	sold := SoldByBatch(sales)
	for _, b := range batches {
		if remaining := Remaining(b, sold); remaining < 0 {
			batchID, productID := b.ID, b.ProductID
			issues = append(issues, Issue{
				Kind:      IssueOversoldBatch,
				BatchID:   &batchID,
				ProductID: &productID,
				Expected:  b.Quantity,
				Actual:    sold.Of(b.ID),
				Message: fmt.Sprintf("batch %s sold %d of %d produced units",
					b.BatchNumber, sold.Of(b.ID), b.Quantity),
			})
		}
	}

	return issues
}

// Summary counts issues per kind.
func Summary(issues []Issue) map[IssueKind]int {
	counts := map[IssueKind]int{
		IssueAllocationMismatch: 0,
		IssueOversoldBatch:      0,
		IssueUnknownBatch:       0,
	}
	for _, i := range issues {
		counts[i.Kind]++
	}
	return counts
}
