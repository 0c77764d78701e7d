package reports

import (
	"context"
	"sync"

	"batchledger/internal/core/apperror"
	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/batch"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/domain/documents/sale"
)

type memSales struct {
	sales []*sale.Sale
	err   error
}

func (m *memSales) FindSales(_ context.Context, f sale.Filter) ([]*sale.Sale, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []*sale.Sale
	for _, s := range m.sales {
		if !s.Counted() {
			continue
		}
		if f.From != nil && s.CreatedAt.Before(*f.From) {
			continue
		}
		if f.To != nil && !s.CreatedAt.Before(*f.To) {
			continue
		}
		if f.ProductID != nil && !hasProduct(s, *f.ProductID) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func hasProduct(s *sale.Sale, productID id.ID) bool {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}

type memBatches struct {
	batches  []*batch.Batch
	products *memProducts
}

func (m *memBatches) FindBatches(_ context.Context, f batch.Filter) ([]*batch.Batch, error) {
	var out []*batch.Batch
	for _, b := range m.batches {
		if b.IsDeleted() {
			continue
		}
		if f.Active != nil && b.IsActive != *f.Active {
			continue
		}
		if f.From != nil && b.ProductionDate.Before(*f.From) {
			continue
		}
		if f.To != nil && !b.ProductionDate.Before(*f.To) {
			continue
		}
		if f.ProductID != nil && b.ProductID != *f.ProductID {
			continue
		}
		if f.Category != nil {
			p := m.products.byID[b.ProductID]
			if p == nil || p.Category != *f.Category {
				continue
			}
		}
		out = append(out, b)
	}
	return out, nil
}

type memProducts struct {
	mu    sync.Mutex
	byID  map[id.ID]*product.Product
	calls int
}

func newMemProducts(products ...*product.Product) *memProducts {
	m := &memProducts{byID: make(map[id.ID]*product.Product)}
	for _, p := range products {
		m.byID[p.ID] = p
	}
	return m
}

func (m *memProducts) FindProductByID(_ context.Context, productID id.ID) (*product.Product, error) {
	p, ok := m.byID[productID]
	if !ok {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

func (m *memProducts) FindProductsByIDs(_ context.Context, ids []id.ID) ([]*product.Product, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	var out []*product.Product
	for _, productID := range ids {
		if p, ok := m.byID[productID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
