package inventory

import (
	"fmt"
)

// Catalog is the top-level collection of all products, unique by weak
// identity and kept in insertion order. It is not safe for concurrent use;
// concurrent callers go through a synchronized Repository.
type Catalog struct {
	products []*Product
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{}
}

// AddProduct appends product, rejecting a second product with the same
// name and category even when the data fields differ.
func (c *Catalog) AddProduct(product *Product) error {
	if product == nil {
		return fmt.Errorf("%w: product is required", ErrValidation)
	}
	if _, ok := c.Find(product.Key()); ok {
		return fmt.Errorf("%w: product %s", ErrDuplicate, product.Key())
	}
	c.products = append(c.products, product)
	return nil
}

// RemoveProduct deletes the product with the given identity. Its owned
// items disappear with it; they are not tracked independently.
func (c *Catalog) RemoveProduct(key ProductKey) error {
	idx := c.indexOf(key)
	if idx < 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	c.products = append(c.products[:idx], c.products[idx+1:]...)
	return nil
}

// SetProduct replaces the product identified by key with updated,
// preserving its position. A collision with a different existing product
// fails; colliding with itself is how in-place field updates work.
func (c *Catalog) SetProduct(key ProductKey, updated *Product) error {
	if updated == nil {
		return fmt.Errorf("%w: product is required", ErrValidation)
	}
	idx := c.indexOf(key)
	if idx < 0 {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	if other := c.indexOf(updated.Key()); other >= 0 && other != idx {
		return fmt.Errorf("%w: product %s", ErrDuplicate, updated.Key())
	}
	c.products[idx] = updated
	return nil
}

// SetProducts bulk-replaces the contents, rejecting duplicate identities
// across the supplied list. Used when loading a persisted snapshot.
func (c *Catalog) SetProducts(products []*Product) error {
	replacement := make([]*Product, 0, len(products))
	for _, product := range products {
		if product == nil {
			return fmt.Errorf("%w: product is required", ErrValidation)
		}
		for _, seen := range replacement {
			if seen.SameProduct(product) {
				return fmt.Errorf("%w: product %s", ErrDuplicate, product.Key())
			}
		}
		replacement = append(replacement, product)
	}
	c.products = replacement
	return nil
}

// Find returns the product with the given identity.
func (c *Catalog) Find(key ProductKey) (*Product, bool) {
	idx := c.indexOf(key)
	if idx < 0 {
		return nil, false
	}
	return c.products[idx], true
}

// Products returns the contained products in insertion order. The slice is
// a copy; the products themselves are the live instances.
func (c *Catalog) Products() []*Product {
	out := make([]*Product, len(c.products))
	copy(out, c.products)
	return out
}

// Filter returns the products satisfying predicate, in insertion order.
// A nil predicate selects everything.
func (c *Catalog) Filter(predicate func(*Product) bool) []*Product {
	var out []*Product
	for _, product := range c.products {
		if predicate == nil || predicate(product) {
			out = append(out, product)
		}
	}
	return out
}

// Len returns the number of contained products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// AddItem adds a batch to the identified product.
func (c *Catalog) AddItem(key ProductKey, item Item) error {
	product, ok := c.Find(key)
	if !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	return product.AddItem(item)
}

// RemoveItem deletes a batch from the identified product.
func (c *Catalog) RemoveItem(key ProductKey, item Item) error {
	product, ok := c.Find(key)
	if !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	return product.RemoveItem(item)
}

// SetItemCount replaces a batch's quantity on the identified product.
func (c *Catalog) SetItemCount(key ProductKey, item Item, quantity Quantity) error {
	product, ok := c.Find(key)
	if !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	return product.SetItemCount(item, quantity)
}

// IncrementItemCount raises a batch's quantity on the identified product.
func (c *Catalog) IncrementItemCount(key ProductKey, item Item, delta Quantity) error {
	product, ok := c.Find(key)
	if !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	return product.IncrementItemCount(item, delta)
}

// DecrementItemCount lowers a batch's quantity on the identified product.
func (c *Catalog) DecrementItemCount(key ProductKey, item Item, delta Quantity) error {
	product, ok := c.Find(key)
	if !ok {
		return fmt.Errorf("%w: product %s", ErrNotFound, key)
	}
	return product.DecrementItemCount(item, delta)
}

// ExpiredItems returns every expired batch across all products, in
// product insertion order.
func (c *Catalog) ExpiredItems() []Item {
	var out []Item
	for _, product := range c.products {
		out = append(out, product.ExpiredItems()...)
	}
	return out
}

// TotalQuantity sums the stock of every product.
func (c *Catalog) TotalQuantity() int {
	total := 0
	for _, product := range c.products {
		total += product.TotalQuantity()
	}
	return total
}

// Clone returns a deep copy of the catalog and all contained products.
func (c *Catalog) Clone() *Catalog {
	clone := &Catalog{products: make([]*Product, 0, len(c.products))}
	for _, product := range c.products {
		clone.products = append(clone.products, product.Clone())
	}
	return clone
}

func (c *Catalog) indexOf(key ProductKey) int {
	for idx, product := range c.products {
		if product.Key() == key {
			return idx
		}
	}
	return -1
}
