package inventory

import (
	"fmt"
)

// Item is an immutable batch of one product expiring on a specific date.
// It carries a ProductKey as a non-owning back-reference to its owner;
// the key is for display and lookup only and is never traversed to mutate
// the owner.
type Item struct {
	key        ProductKey
	expiryDate ExpiryDate
	quantity   Quantity
}

// NewItem validates every field and builds an item.
func NewItem(key ProductKey, expiryDate ExpiryDate, quantity Quantity) (Item, error) {
	if key.IsZero() {
		return Item{}, fmt.Errorf("%w: item requires a product reference", ErrValidation)
	}
	if expiryDate.IsZero() {
		return Item{}, fmt.Errorf("%w: item requires an expiry date", ErrValidation)
	}
	return Item{key: key, expiryDate: expiryDate, quantity: quantity}, nil
}

// NewUnitItem builds an item with the default quantity of one.
func NewUnitItem(key ProductKey, expiryDate ExpiryDate) (Item, error) {
	return NewItem(key, expiryDate, UnitQuantity())
}

func (i Item) ProductKey() ProductKey { return i.key }

func (i Item) ExpiryDate() ExpiryDate { return i.expiryDate }

func (i Item) Quantity() Quantity { return i.quantity }

// SameItem is the weak identity: same product key and same expiry date.
// Quantity does not participate; two batches of the same product and date
// are the same item regardless of size.
func (i Item) SameItem(other Item) bool {
	return i.key == other.key && i.expiryDate.Equal(other.expiryDate)
}

// Equals is the strong comparison: same identity and same quantity.
func (i Item) Equals(other Item) bool {
	return i.SameItem(other) && i.quantity == other.quantity
}

// Add combines two batches of the same item into a new one. Both operands
// must be the same item.
func (i Item) Add(other Item) (Item, error) {
	if !i.SameItem(other) {
		return Item{}, fmt.Errorf("%w: cannot add items with different identities", ErrInvalidArgument)
	}
	q, err := i.quantity.Add(other.quantity)
	if err != nil {
		return Item{}, err
	}
	return i.WithQuantity(q), nil
}

// Subtract removes the other batch's quantity from this one. Both operands
// must be the same item; going below zero fails at the quantity level.
func (i Item) Subtract(other Item) (Item, error) {
	if !i.SameItem(other) {
		return Item{}, fmt.Errorf("%w: cannot subtract items with different identities", ErrInvalidArgument)
	}
	q, err := i.quantity.Subtract(other.quantity)
	if err != nil {
		return Item{}, err
	}
	return i.WithQuantity(q), nil
}

// Increment returns a copy holding delta more units; it fails when the
// result would overflow at the quantity level.
func (i Item) Increment(delta Quantity) (Item, error) {
	q, err := i.quantity.Add(delta)
	if err != nil {
		return Item{}, err
	}
	return i.WithQuantity(q), nil
}

// Decrement returns a copy holding delta fewer units; it fails without
// clamping when the result would be negative.
func (i Item) Decrement(delta Quantity) (Item, error) {
	q, err := i.quantity.Subtract(delta)
	if err != nil {
		return Item{}, err
	}
	return i.WithQuantity(q), nil
}

// WithQuantity returns a copy carrying the given quantity.
func (i Item) WithQuantity(quantity Quantity) Item {
	return Item{key: i.key, expiryDate: i.expiryDate, quantity: quantity}
}

// IsEmpty reports whether the batch holds zero units.
func (i Item) IsEmpty() bool {
	return i.quantity.IsEmpty()
}

// IsExpired reports whether the expiry date has passed, evaluated now.
func (i Item) IsExpired() bool {
	return i.expiryDate.IsPast()
}

// Compare orders items by expiry date only. Ties are not broken further.
func (i Item) Compare(other Item) int {
	return i.expiryDate.Compare(other.expiryDate)
}

// rekey re-associates the item with a new owner identity. Used when a
// product is reconstructed or a snapshot is loaded.
func (i Item) rekey(key ProductKey) Item {
	return Item{key: key, expiryDate: i.expiryDate, quantity: i.quantity}
}

func (i Item) String() string {
	return fmt.Sprintf("%s; ExpiryDate: %s; Quantity: %s", i.key, i.expiryDate, i.quantity)
}
