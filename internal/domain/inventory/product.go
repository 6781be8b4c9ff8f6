package inventory

import (
	"fmt"
)

// ProductKey is the weak identity of a product: name plus category. Items
// carry it as their back-reference, and the catalog keys uniqueness on it.
type ProductKey struct {
	Name     Name
	Category Category
}

// NewProductKey validates the raw pair and builds a key.
func NewProductKey(name, category string) (ProductKey, error) {
	n, err := NewName(name)
	if err != nil {
		return ProductKey{}, err
	}
	c, err := NewCategory(category)
	if err != nil {
		return ProductKey{}, err
	}
	return ProductKey{Name: n, Category: c}, nil
}

// IsZero reports whether the key was never set.
func (k ProductKey) IsZero() bool {
	return k == ProductKey{}
}

func (k ProductKey) String() string {
	return fmt.Sprintf("%s (%s)", k.Name, k.Category)
}

// Product is a sellable good. Its four scalar fields are immutable after
// construction; the only mutable state is the owned item collection,
// reached exclusively through the dedicated methods below.
type Product struct {
	name        Name
	category    Category
	description Description
	price       Price

	items ItemList
}

// NewProduct validates the scalar fields and takes ownership of items,
// re-keying each one to this product's identity. Items default to empty.
func NewProduct(name Name, category Category, description Description, price Price, items []Item) (*Product, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: product requires a name", ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: product requires a category", ErrValidation)
	}
	p := &Product{
		name:        name,
		category:    category,
		description: description,
		price:       price,
	}
	rekeyed := make([]Item, 0, len(items))
	for _, item := range items {
		if item.ExpiryDate().IsZero() {
			return nil, fmt.Errorf("%w: item requires an expiry date", ErrValidation)
		}
		rekeyed = append(rekeyed, item.rekey(p.Key()))
	}
	if err := p.items.SetItems(rekeyed); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Product) Name() Name { return p.name }

func (p *Product) Category() Category { return p.category }

func (p *Product) Description() Description { return p.description }

func (p *Product) Price() Price { return p.price }

// Key returns the weak identity of the product.
func (p *Product) Key() ProductKey {
	return ProductKey{Name: p.name, Category: p.category}
}

// SameProduct is the weak identity comparison: same name and category.
// It is nil-safe and used for duplicate detection and lookup.
func (p *Product) SameProduct(other *Product) bool {
	if other == p {
		return true
	}
	return other != nil && p.Key() == other.Key()
}

// Equals is the strong comparison over all four scalar fields. The owned
// items are excluded.
func (p *Product) Equals(other *Product) bool {
	if other == p {
		return true
	}
	return other != nil &&
		p.name == other.name &&
		p.category == other.category &&
		p.description == other.description &&
		p.price.Equal(other.price)
}

// AddItem adds a batch to the owned collection. The item must already
// reference this product.
func (p *Product) AddItem(item Item) error {
	if item.ProductKey() != p.Key() {
		return fmt.Errorf("%w: item %s does not belong to product %s", ErrInvalidArgument, item, p.Key())
	}
	return p.items.Add(item)
}

// RemoveItem deletes the batch matching item by identity.
func (p *Product) RemoveItem(item Item) error {
	return p.items.Remove(item)
}

// SetItemCount replaces the matched batch's quantity; zero removes it.
func (p *Product) SetItemCount(item Item, quantity Quantity) error {
	return p.items.SetCount(item, quantity)
}

// IncrementItemCount raises the matched batch's quantity by delta.
func (p *Product) IncrementItemCount(item Item, delta Quantity) error {
	return p.items.Increment(item, delta)
}

// DecrementItemCount lowers the matched batch's quantity by delta,
// pruning at exactly zero and failing below it.
func (p *Product) DecrementItemCount(item Item, delta Quantity) error {
	return p.items.Decrement(item, delta)
}

// FindItem returns the owned batch matching item by identity.
func (p *Product) FindItem(item Item) (Item, bool) {
	return p.items.Find(item)
}

// TotalQuantity sums all owned batches.
func (p *Product) TotalQuantity() int {
	return p.items.TotalQuantity()
}

// Items returns a copy of the owned batches in insertion order.
func (p *Product) Items() []Item {
	return p.items.Items()
}

// ItemsByExpiry returns a copy of the owned batches sorted by expiry date.
func (p *Product) ItemsByExpiry() []Item {
	return p.items.SortedByExpiry()
}

// ExpiredItems returns the owned batches whose expiry date has passed.
func (p *Product) ExpiredItems() []Item {
	return p.items.Expired()
}

// ItemCount returns the number of distinct batches.
func (p *Product) ItemCount() int {
	return p.items.Len()
}

// Clone returns a deep copy. Readers that must not observe later mutation
// take clones instead of the live product.
func (p *Product) Clone() *Product {
	clone := &Product{
		name:        p.name,
		category:    p.category,
		description: p.description,
		price:       p.price,
	}
	// Items are immutable values; copying the slice is a full deep copy.
	_ = clone.items.SetItems(p.items.Items())
	return clone
}

func (p *Product) String() string {
	return fmt.Sprintf("%s; Category: %s; Description: %s; Price: %s", p.name, p.category, p.description, p.price)
}
