package inventory

import (
	"fmt"
	"sort"
)

// ItemList is an ordered collection of items unique by weak identity.
// Insertion order is preserved; SortedByExpiry produces an explicitly
// sorted copy when a consumer asks for one. The zero value is usable.
type ItemList struct {
	items []Item
}

// Add appends item, rejecting a second batch with the same identity.
func (l *ItemList) Add(item Item) error {
	if l.Contains(item) {
		return fmt.Errorf("%w: item %s", ErrDuplicate, item)
	}
	l.items = append(l.items, item)
	return nil
}

// Remove deletes the element matching item by identity.
func (l *ItemList) Remove(item Item) error {
	idx := l.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, item)
	}
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	return nil
}

// SetCount replaces the quantity of the element matching item by identity.
// A zero quantity removes the element entirely; this is the single rule
// that prunes empty stock from the collection.
func (l *ItemList) SetCount(item Item, quantity Quantity) error {
	idx := l.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, item)
	}
	if quantity.IsEmpty() {
		l.items = append(l.items[:idx], l.items[idx+1:]...)
		return nil
	}
	l.items[idx] = l.items[idx].WithQuantity(quantity)
	return nil
}

// Increment raises the matched element's quantity by delta. Overflow fails
// and leaves the collection untouched.
func (l *ItemList) Increment(item Item, delta Quantity) error {
	idx := l.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, item)
	}
	quantity, err := l.items[idx].Quantity().Add(delta)
	if err != nil {
		return err
	}
	return l.SetCount(item, quantity)
}

// Decrement lowers the matched element's quantity by delta. Reaching
// exactly zero removes the element; going below zero fails and leaves the
// collection untouched.
func (l *ItemList) Decrement(item Item, delta Quantity) error {
	idx := l.indexOf(item)
	if idx < 0 {
		return fmt.Errorf("%w: item %s", ErrNotFound, item)
	}
	quantity, err := l.items[idx].Quantity().Subtract(delta)
	if err != nil {
		return err
	}
	return l.SetCount(item, quantity)
}

// SetItems bulk-replaces the contents, rejecting duplicates across the
// supplied list. Used at construction and reconstruction time.
func (l *ItemList) SetItems(items []Item) error {
	replacement := make([]Item, 0, len(items))
	for _, item := range items {
		for _, seen := range replacement {
			if seen.SameItem(item) {
				return fmt.Errorf("%w: item %s", ErrDuplicate, item)
			}
		}
		replacement = append(replacement, item)
	}
	l.items = replacement
	return nil
}

// Find returns the element matching item by identity.
func (l *ItemList) Find(item Item) (Item, bool) {
	idx := l.indexOf(item)
	if idx < 0 {
		return Item{}, false
	}
	return l.items[idx], true
}

// Contains reports whether an element matches item by identity.
func (l *ItemList) Contains(item Item) bool {
	return l.indexOf(item) >= 0
}

// TotalQuantity sums the quantities of all contained items.
func (l *ItemList) TotalQuantity() int {
	total := 0
	for _, item := range l.items {
		total += item.Quantity().Value()
	}
	return total
}

// Items returns a copy of the contents in insertion order.
func (l *ItemList) Items() []Item {
	out := make([]Item, len(l.items))
	copy(out, l.items)
	return out
}

// SortedByExpiry returns a copy sorted by expiry date, earliest first.
func (l *ItemList) SortedByExpiry() []Item {
	out := l.Items()
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Compare(out[b]) < 0
	})
	return out
}

// Expired returns the items whose expiry date has passed, evaluated now.
func (l *ItemList) Expired() []Item {
	var out []Item
	for _, item := range l.items {
		if item.IsExpired() {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of contained items.
func (l *ItemList) Len() int {
	return len(l.items)
}

func (l *ItemList) indexOf(item Item) int {
	for idx, candidate := range l.items {
		if candidate.SameItem(item) {
			return idx
		}
	}
	return -1
}
