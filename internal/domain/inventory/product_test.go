package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustProduct(t *testing.T, name, category, description string, price float64, items ...Item) *Product {
	t.Helper()
	n, err := NewName(name)
	require.NoError(t, err)
	c, err := NewCategory(category)
	require.NoError(t, err)
	d, err := NewDescription(description)
	require.NoError(t, err)
	p, err := NewProduct(n, c, d, MustPrice(price), items)
	require.NoError(t, err)
	return p
}

func TestNewProductRekeysCarriedItems(t *testing.T) {
	oldKey := mustKey(t, "Old Milk", "Dairy")
	carried := mustItem(t, oldKey, "2026-12-01", 4)

	product := mustProduct(t, "Milk", "Dairy", "whole milk", 2.50, carried)

	items := product.Items()
	require.Len(t, items, 1)
	assert.Equal(t, product.Key(), items[0].ProductKey())
	assert.Equal(t, 4, items[0].Quantity().Value())
}

func TestProductIdentityVersusEquality(t *testing.T) {
	a := mustProduct(t, "Milk", "Dairy", "whole milk", 2.50)
	b := mustProduct(t, "Milk", "Dairy", "skimmed", 1.99)
	c := mustProduct(t, "Milk", "Beverages", "whole milk", 2.50)

	// Identity is name + category only.
	assert.True(t, a.SameProduct(b))
	assert.False(t, a.SameProduct(c))
	assert.False(t, a.SameProduct(nil))

	// Equality covers all scalar fields but not items.
	assert.False(t, a.Equals(b))
	withItems := mustProduct(t, "Milk", "Dairy", "whole milk", 2.50,
		mustItem(t, a.Key(), "2026-12-01", 3))
	assert.True(t, a.Equals(withItems))
	assert.False(t, a.Equals(nil))
}

func TestProductAddItemRejectsForeignKey(t *testing.T) {
	product := mustProduct(t, "Milk", "Dairy", "", 2.50)
	foreign := mustItem(t, mustKey(t, "Cheese", "Dairy"), "2026-12-01", 1)

	err := product.AddItem(foreign)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestProductItemOperations(t *testing.T) {
	product := mustProduct(t, "Milk", "Dairy", "", 2.50)
	item := mustItem(t, product.Key(), "2026-12-01", 4)

	require.NoError(t, product.AddItem(item))
	assert.Equal(t, 1, product.ItemCount())
	assert.Equal(t, 4, product.TotalQuantity())

	require.NoError(t, product.IncrementItemCount(item, MustQuantity(3)))
	got, ok := product.FindItem(item)
	require.True(t, ok)
	assert.Equal(t, 7, got.Quantity().Value())

	require.NoError(t, product.SetItemCount(item, MustQuantity(2)))
	require.NoError(t, product.DecrementItemCount(item, MustQuantity(2)))
	_, ok = product.FindItem(item)
	assert.False(t, ok)
}

func TestProductClone(t *testing.T) {
	product := mustProduct(t, "Milk", "Dairy", "whole milk", 2.50,
		mustItem(t, mustKey(t, "Milk", "Dairy"), "2026-12-01", 4))

	clone := product.Clone()
	require.True(t, product.Equals(clone))

	// Mutating the clone leaves the original untouched.
	require.NoError(t, clone.AddItem(mustItem(t, product.Key(), "2026-12-02", 1)))
	assert.Equal(t, 1, product.ItemCount())
	assert.Equal(t, 2, clone.ItemCount())
}

func TestProductExpiredItems(t *testing.T) {
	key := mustKey(t, "Milk", "Dairy")
	product := mustProduct(t, "Milk", "Dairy", "", 2.50,
		mustItem(t, key, "2020-01-01", 2),
		mustItem(t, key, "2099-01-01", 3),
	)

	expired := product.ExpiredItems()
	require.Len(t, expired, 1)
	assert.Equal(t, "2020-01-01", expired[0].ExpiryDate().String())
}
