package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"batchledger/internal/core/id"
	"batchledger/internal/domain/catalogs/product"
	"batchledger/internal/infrastructure/storage/postgres"
)

// Compile-time check.
var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	*BaseCatalogRepo[product.Product]
}

// NewProductRepo creates a new product repository.
func NewProductRepo(txm *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		BaseCatalogRepo: NewBaseCatalogRepo[product.Product](txm, "products", "p"),
	}
}

// FindProductByID implements product.Repository.
func (r *ProductRepo) FindProductByID(ctx context.Context, productID id.ID) (*product.Product, error) {
	p, err := r.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product %s: %w", productID, err)
	}
	return p, nil
}

// FindProductsByIDs implements product.Repository.
func (r *ProductRepo) FindProductsByIDs(ctx context.Context, productIDs []id.ID) ([]*product.Product, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	products, err := r.selectAll(ctx, r.byIDsQuery(productIDs))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) byIDsQuery(productIDs []id.ID) squirrel.SelectBuilder {
	return r.baseSelect().
		Where(squirrel.Eq{r.col("id"): productIDs}).
		OrderBy(r.col("id"))
}
