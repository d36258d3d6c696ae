// Package catalog holds the static product dataset served by the storefront.
// The dataset is read once at startup and never mutated afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"storefront/internal/models"
)

// Snapshot is an immutable, ordered view of the catalog. It is safe for concurrent use.
type Snapshot struct {
	products []models.Product
	byID     map[string]int
}

// NewSnapshot copies products into a new Snapshot.
func NewSnapshot(products []models.Product) *Snapshot {
	s := &Snapshot{
		products: make([]models.Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(s.products, products)
	for i, p := range s.products {
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
	}
	return s
}

// Load reads a JSON array of products from path.
func Load(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return NewSnapshot(products), nil
}

// All returns a copy of every product in dataset order.
func (s *Snapshot) All() []models.Product {
	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the product with the given id.
func (s *Snapshot) Get(id string) (models.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Product{}, false
	}
	return s.products[i], true
}

// Len reports the number of products.
func (s *Snapshot) Len() int {
	return len(s.products)
}
