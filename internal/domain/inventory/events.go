package inventory

import "time"

// Change event names emitted after successful catalog mutations.
// Presentation and persistence layers subscribe by name; the model itself
// never dispatches.
const (
	EventProductAdded   = "catalog.product_added"
	EventProductUpdated = "catalog.product_updated"
	EventProductRemoved = "catalog.product_removed"
	EventItemAdded      = "catalog.item_added"
	EventItemCountSet   = "catalog.item_count_set"
	EventItemRemoved    = "catalog.item_removed"
)

// EventNames lists every catalog change event, for subscribers that
// observe all mutations.
func EventNames() []string {
	return []string{
		EventProductAdded,
		EventProductUpdated,
		EventProductRemoved,
		EventItemAdded,
		EventItemCountSet,
		EventItemRemoved,
	}
}

// ProductAddedEvent is emitted when a new product enters the catalog.
type ProductAddedEvent struct {
	Key        ProductKey
	OccurredAt time.Time
}

func (ProductAddedEvent) EventName() string { return EventProductAdded }

func NewProductAddedEvent(key ProductKey) ProductAddedEvent {
	return ProductAddedEvent{Key: key, OccurredAt: time.Now().UTC()}
}

// ProductUpdatedEvent is emitted when a product is reconstructed with new
// fields. OldKey differs from Key when the identity itself changed.
type ProductUpdatedEvent struct {
	OldKey     ProductKey
	Key        ProductKey
	OccurredAt time.Time
}

func (ProductUpdatedEvent) EventName() string { return EventProductUpdated }

func NewProductUpdatedEvent(oldKey, key ProductKey) ProductUpdatedEvent {
	return ProductUpdatedEvent{OldKey: oldKey, Key: key, OccurredAt: time.Now().UTC()}
}

// ProductRemovedEvent is emitted when a product and all its items leave
// the catalog.
type ProductRemovedEvent struct {
	Key        ProductKey
	OccurredAt time.Time
}

func (ProductRemovedEvent) EventName() string { return EventProductRemoved }

func NewProductRemovedEvent(key ProductKey) ProductRemovedEvent {
	return ProductRemovedEvent{Key: key, OccurredAt: time.Now().UTC()}
}

// ItemAddedEvent is emitted when a new batch is added to a product.
type ItemAddedEvent struct {
	Key        ProductKey
	ExpiryDate ExpiryDate
	Quantity   int
	OccurredAt time.Time
}

func (ItemAddedEvent) EventName() string { return EventItemAdded }

func NewItemAddedEvent(key ProductKey, expiryDate ExpiryDate, quantity int) ItemAddedEvent {
	return ItemAddedEvent{Key: key, ExpiryDate: expiryDate, Quantity: quantity, OccurredAt: time.Now().UTC()}
}

// ItemCountSetEvent is emitted when a batch's quantity changes to a
// non-zero value.
type ItemCountSetEvent struct {
	Key        ProductKey
	ExpiryDate ExpiryDate
	Quantity   int
	OccurredAt time.Time
}

func (ItemCountSetEvent) EventName() string { return EventItemCountSet }

func NewItemCountSetEvent(key ProductKey, expiryDate ExpiryDate, quantity int) ItemCountSetEvent {
	return ItemCountSetEvent{Key: key, ExpiryDate: expiryDate, Quantity: quantity, OccurredAt: time.Now().UTC()}
}

// ItemRemovedEvent is emitted when a batch leaves its product, whether by
// explicit removal or by its quantity reaching zero.
type ItemRemovedEvent struct {
	Key        ProductKey
	ExpiryDate ExpiryDate
	OccurredAt time.Time
}

func (ItemRemovedEvent) EventName() string { return EventItemRemoved }

func NewItemRemovedEvent(key ProductKey, expiryDate ExpiryDate) ItemRemovedEvent {
	return ItemRemovedEvent{Key: key, ExpiryDate: expiryDate, OccurredAt: time.Now().UTC()}
}
