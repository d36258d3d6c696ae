package repositories

import (
	"storefront/internal/apperrors"
	"storefront/internal/catalog"
	"storefront/internal/models"
)

// ProductRepository defines read-only access to the product catalog.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id string) (*models.Product, error)
}

// CatalogProductRepository serves products from an immutable catalog snapshot.
type CatalogProductRepository struct {
	snapshot *catalog.Snapshot
}

// NewCatalogProductRepository wraps snapshot. A nil snapshot behaves as an empty catalog.
func NewCatalogProductRepository(snapshot *catalog.Snapshot) *CatalogProductRepository {
	if snapshot == nil {
		snapshot = catalog.NewSnapshot(nil)
	}
	return &CatalogProductRepository{snapshot: snapshot}
}

// GetAll returns all products in dataset order.
func (r *CatalogProductRepository) GetAll() ([]models.Product, error) {
	return r.snapshot.All(), nil
}

// GetByID returns a product by its ID.
func (r *CatalogProductRepository) GetByID(id string) (*models.Product, error) {
	p, ok := r.snapshot.Get(id)
	if !ok {
		return nil, apperrors.NotFound("product")
	}
	return &p, nil
}
