package reports

import (
	"context"
	"fmt"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
	"batchledger/internal/domain/ledger"
	"batchledger/pkg/logger"
)

// lookupChunkSize bounds the ids sent in one FindProductsByIDs call.
const lookupChunkSize = 200

// fetch describes what one report reads.
type fetch struct {
	sales   []sale.Filter
	batches *batch.Filter
	// product, when set, must exist or the report fails with NotFound.
	product *id.ID
}

// snapshot is the in-memory input of one report.
type snapshot struct {
	sales    [][]*sale.Sale
	batches  []*batch.Batch
	products product.Index
}

// allSales flattens every fetched sale list.
func (s *snapshot) allSales() []*sale.Sale {
	if len(s.sales) == 1 {
		return s.sales[0]
	}
	var out []*sale.Sale
	for _, list := range s.sales {
		out = append(out, list...)
	}
	return out
}

// load reads sales and batches inside one snapshot transaction, then
// resolves the referenced products.
//
// Product lookups run after the transaction on pooled connections: a
// transaction connection cannot serve concurrent queries, and products are
// reference data that reports only read.
func (s *Service) load(ctx context.Context, f fetch) (*snapshot, error) {
	snap := &snapshot{sales: make([][]*sale.Sale, len(f.sales))}

	err := s.txm.Snapshot(ctx, func(ctx context.Context) error {
		if f.product != nil {
			if _, err := s.products.FindProductByID(ctx, *f.product); err != nil {
				return fmt.Errorf("find product: %w", err)
			}
		}
		for i, filter := range f.sales {
			sales, err := s.sales.FindSales(ctx, filter)
			if err != nil {
				return fmt.Errorf("find sales: %w", err)
			}
			snap.sales[i] = sales
		}
		if f.batches != nil {
			batches, err := s.batches.FindBatches(ctx, *f.batches)
			if err != nil {
				return fmt.Errorf("find batches: %w", err)
			}
			snap.batches = batches
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	products, err := s.resolveProducts(ctx, referencedProducts(snap))
	if err != nil {
		return nil, err
	}
	snap.products = products

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("report.sales", len(snap.allSales())),
		attribute.Int("report.batches", len(snap.batches)),
		attribute.Int("report.products", len(snap.products)),
	)
	return snap, nil
}

// referencedProducts returns the distinct product ids of every batch and
// line item, sorted.
func referencedProducts(snap *snapshot) []id.ID {
	seen := make(map[id.ID]struct{})
	for _, b := range snap.batches {
		seen[b.ProductID] = struct{}{}
	}
	for _, list := range snap.sales {
		for _, s := range list {
			for _, item := range s.Items {
				seen[item.ProductID] = struct{}{}
			}
		}
	}

	ids := make([]id.ID, 0, len(seen))
	for productID := range seen {
		ids = append(ids, productID)
	}
	sort.Slice(ids, func(i, j int) bool { return id.Less(ids[i], ids[j]) })
	return ids
}

// resolveProducts fetches products in parallel chunks. Missing products are
// logged and left out of the index; engines degrade to empty names and no
// category for them.
func (s *Service) resolveProducts(ctx context.Context, ids []id.ID) (product.Index, error) {
	if len(ids) == 0 {
		return product.Index{}, nil
	}

	var chunks [][]id.ID
	for start := 0; start < len(ids); start += lookupChunkSize {
		end := min(start+lookupChunkSize, len(ids))
		chunks = append(chunks, ids[start:end])
	}

	results := make([][]*product.Product, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.LookupConcurrency)
	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			found, err := s.products.FindProductsByIDs(gctx, chunk)
			if err != nil {
				return err
			}
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve products: %w", err)
	}

	idx := make(product.Index, len(ids))
	for _, found := range results {
		for _, p := range found {
			if p != nil {
				idx[p.ID] = p
			}
		}
	}
	for _, productID := range ids {
		if idx.Get(productID) == nil {
			logger.Warn(ctx, "referenced product not found", "product_id", productID)
		}
	}
	return idx, nil
}

// warnIntegrity logs every ledger inconsistency in the snapshot and returns
// how many were found. Findings never fail a report.
func warnIntegrity(ctx context.Context, batches []*batch.Batch, sales []*sale.Sale) []ledger.Issue {
	issues := ledger.Scan(batches, sales)
	for _, issue := range issues {
		kv := []any{"kind", issue.Kind, "expected", issue.Expected, "actual", issue.Actual}
		if issue.SaleID != nil {
			kv = append(kv, "sale_id", *issue.SaleID)
		}
		if issue.LineIndex != nil {
			kv = append(kv, "line", *issue.LineIndex)
		}
		if issue.BatchID != nil {
			kv = append(kv, "batch_id", *issue.BatchID)
		}
		logger.Warn(ctx, issue.Message, kv...)
	}
	return issues
}
