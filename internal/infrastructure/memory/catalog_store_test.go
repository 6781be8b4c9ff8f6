package memory

import (
	"context"
	"sync"
	"testing"

	"ibook/internal/domain/inventory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedProduct(t *testing.T, name, category string) *inventory.Product {
	t.Helper()
	n, err := inventory.NewName(name)
	require.NoError(t, err)
	c, err := inventory.NewCategory(category)
	require.NoError(t, err)
	p, err := inventory.NewProduct(n, c, "", inventory.MustPrice(1.00), nil)
	require.NoError(t, err)
	return p
}

func TestCatalogStoreMutateAndFind(t *testing.T) {
	store := NewCatalogStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.AddProduct(seedProduct(t, "Milk", "Dairy"))
	}))

	key, err := inventory.NewProductKey("Milk", "Dairy")
	require.NoError(t, err)
	got, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "Milk", got.Name().String())

	missing, err := inventory.NewProductKey("Ghost", "Nowhere")
	require.NoError(t, err)
	_, err = store.Find(ctx, missing)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestCatalogStoreMutateRollsNothingBackButPropagatesError(t *testing.T) {
	store := NewCatalogStore(nil)
	ctx := context.Background()

	err := store.Mutate(ctx, func(c *inventory.Catalog) error {
		key, err := inventory.NewProductKey("Ghost", "Nowhere")
		require.NoError(t, err)
		return c.RemoveProduct(key)
	})
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestCatalogStoreSnapshotReturnsClones(t *testing.T) {
	store := NewCatalogStore(nil)
	ctx := context.Background()
	require.NoError(t, store.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.AddProduct(seedProduct(t, "Milk", "Dairy"))
	}))

	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	// Mutating the snapshot must not affect the store.
	key := snapshot[0].Key()
	item, err := inventory.NewUnitItem(key, inventory.MustExpiryDate("2026-12-01"))
	require.NoError(t, err)
	require.NoError(t, snapshot[0].AddItem(item))

	got, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, got.ItemCount())
}

func TestCatalogStoreConcurrentAccess(t *testing.T) {
	store := NewCatalogStore(nil)
	ctx := context.Background()
	require.NoError(t, store.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.AddProduct(seedProduct(t, "Bread", "Bakery"))
	}))
	key, err := inventory.NewProductKey("Bread", "Bakery")
	require.NoError(t, err)
	item, err := inventory.NewItem(key, inventory.MustExpiryDate("2026-12-01"), inventory.MustQuantity(1))
	require.NoError(t, err)
	require.NoError(t, store.Mutate(ctx, func(c *inventory.Catalog) error {
		return c.AddItem(key, item)
	}))

	const goroutines = 16
	const iterations = 50

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_ = store.Mutate(ctx, func(c *inventory.Catalog) error {
					return c.IncrementItemCount(key, item, inventory.MustQuantity(1))
				})
				_, _ = store.Snapshot(ctx)
			}
		}()
	}
	wg.Wait()

	got, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1+goroutines*iterations, got.TotalQuantity())
}
