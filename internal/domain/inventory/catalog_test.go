package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogAddProduct(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50)))

	// Same identity is a duplicate even when other fields differ.
	err := catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "skimmed", 1.99))
	assert.ErrorIs(t, err, ErrDuplicate)

	// Same name in another category is a different product.
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Beverages", "", 2.50)))
	assert.Equal(t, 2, catalog.Len())
}

func TestCatalogRemoveProduct(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50)))

	require.NoError(t, catalog.RemoveProduct(mustKey(t, "Milk", "Dairy")))
	assert.Zero(t, catalog.Len())

	err := catalog.RemoveProduct(mustKey(t, "Milk", "Dairy"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogSetProduct(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50)))
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Bread", "Bakery", "", 1.20)))

	// Replacing a product with new fields under the same identity is fine.
	require.NoError(t, catalog.SetProduct(mustKey(t, "Milk", "Dairy"),
		mustProduct(t, "Milk", "Dairy", "whole milk", 2.80)))
	got, ok := catalog.Find(mustKey(t, "Milk", "Dairy"))
	require.True(t, ok)
	assert.Equal(t, "whole milk", got.Description().String())

	// Position in the listing is preserved.
	products := catalog.Products()
	require.Len(t, products, 2)
	assert.Equal(t, "Milk", products[0].Name().String())

	// Moving onto another product's identity collides.
	err := catalog.SetProduct(mustKey(t, "Milk", "Dairy"),
		mustProduct(t, "Bread", "Bakery", "", 2.80))
	assert.ErrorIs(t, err, ErrDuplicate)

	// A missing target is reported as such.
	err = catalog.SetProduct(mustKey(t, "Butter", "Dairy"),
		mustProduct(t, "Butter", "Dairy", "", 3.10))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogSetProducts(t *testing.T) {
	catalog := NewCatalog()

	err := catalog.SetProducts([]*Product{
		mustProduct(t, "Milk", "Dairy", "", 2.50),
		mustProduct(t, "Milk", "Dairy", "dup", 2.50),
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.Zero(t, catalog.Len())

	require.NoError(t, catalog.SetProducts([]*Product{
		mustProduct(t, "Milk", "Dairy", "", 2.50),
		mustProduct(t, "Bread", "Bakery", "", 1.20),
	}))
	assert.Equal(t, 2, catalog.Len())
}

func TestCatalogItemLifecycle(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Bread", "Bakery", "sourdough", 1.20)))
	key := mustKey(t, "Bread", "Bakery")
	item := mustItem(t, key, "2026-12-01", 5)

	require.NoError(t, catalog.AddItem(key, item))
	assert.Equal(t, 5, catalog.TotalQuantity())

	require.NoError(t, catalog.IncrementItemCount(key, item, MustQuantity(3)))
	assert.Equal(t, 8, catalog.TotalQuantity())

	// Draining the batch removes it entirely.
	require.NoError(t, catalog.DecrementItemCount(key, item, MustQuantity(8)))
	product, ok := catalog.Find(key)
	require.True(t, ok)
	assert.Zero(t, product.ItemCount())

	// The batch is gone, so further adjustments are not found.
	err := catalog.DecrementItemCount(key, item, MustQuantity(1))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogItemOperationsOnMissingProduct(t *testing.T) {
	catalog := NewCatalog()
	key := mustKey(t, "Ghost", "Nowhere")
	item := mustItem(t, key, "2026-12-01", 1)

	assert.ErrorIs(t, catalog.AddItem(key, item), ErrNotFound)
	assert.ErrorIs(t, catalog.RemoveItem(key, item), ErrNotFound)
	assert.ErrorIs(t, catalog.SetItemCount(key, item, MustQuantity(1)), ErrNotFound)
}

func TestCatalogDecrementBelowZeroLeavesCatalogUntouched(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Bread", "Bakery", "", 1.20)))
	key := mustKey(t, "Bread", "Bakery")
	item := mustItem(t, key, "2026-12-01", 3)
	require.NoError(t, catalog.AddItem(key, item))

	err := catalog.DecrementItemCount(key, item, MustQuantity(4))
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 3, catalog.TotalQuantity())
}

func TestCatalogExpiredItems(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50,
		mustItem(t, mustKey(t, "Milk", "Dairy"), "2020-01-01", 2))))
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Bread", "Bakery", "", 1.20,
		mustItem(t, mustKey(t, "Bread", "Bakery"), "2099-01-01", 3))))

	expired := catalog.ExpiredItems()
	require.Len(t, expired, 1)
	assert.Equal(t, mustKey(t, "Milk", "Dairy"), expired[0].ProductKey())
}

func TestCatalogFilter(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50)))
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Bread", "Bakery", "", 1.20)))

	dairy := catalog.Filter(func(p *Product) bool {
		return p.Category() == "Dairy"
	})
	require.Len(t, dairy, 1)
	assert.Equal(t, "Milk", dairy[0].Name().String())
}

func TestCatalogClone(t *testing.T) {
	catalog := NewCatalog()
	require.NoError(t, catalog.AddProduct(mustProduct(t, "Milk", "Dairy", "", 2.50)))

	clone := catalog.Clone()
	require.NoError(t, clone.AddProduct(mustProduct(t, "Bread", "Bakery", "", 1.20)))

	assert.Equal(t, 1, catalog.Len())
	assert.Equal(t, 2, clone.Len())
}
