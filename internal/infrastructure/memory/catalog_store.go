package memory

import (
	"context"
	"fmt"
	"sync"

	"ibook/internal/domain/inventory"
)

// CatalogStore holds the live catalog behind a single writer lock. The
// catalog's invariants (identity uniqueness, cascade delete, zero-quantity
// pruning) are not safe under unsynchronized mutation, so every command
// runs inside Mutate; readers receive deep clones and never observe a
// partially applied command.
type CatalogStore struct {
	mu      sync.RWMutex
	catalog *inventory.Catalog
}

// NewCatalogStore wraps catalog; a nil catalog starts empty.
func NewCatalogStore(catalog *inventory.Catalog) *CatalogStore {
	if catalog == nil {
		catalog = inventory.NewCatalog()
	}
	return &CatalogStore{catalog: catalog}
}

// Mutate runs fn against the live catalog under the writer lock.
func (s *CatalogStore) Mutate(ctx context.Context, fn func(*inventory.Catalog) error) error {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.catalog)
}

// Snapshot returns deep copies of all products in insertion order.
func (s *CatalogStore) Snapshot(ctx context.Context) ([]*inventory.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	products := s.catalog.Products()
	out := make([]*inventory.Product, 0, len(products))
	for _, product := range products {
		out = append(out, product.Clone())
	}
	return out, nil
}

// Find returns a deep copy of the identified product.
func (s *CatalogStore) Find(ctx context.Context, key inventory.ProductKey) (*inventory.Product, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.catalog.Find(key)
	if !ok {
		return nil, fmt.Errorf("%w: product %s", inventory.ErrNotFound, key)
	}
	return product.Clone(), nil
}

var _ inventory.Repository = (*CatalogStore)(nil)
