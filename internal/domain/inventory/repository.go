package inventory

import "context"

// Repository mediates shared access to a catalog. The catalog itself is a
// single-writer structure; implementations serialize mutations behind one
// lock and serve reads from snapshots so a reader never observes a
// partially applied command.
type Repository interface {
	// Mutate runs fn against the live catalog under the writer lock.
	// The mutation is atomic: if fn returns an error the catalog is
	// left exactly as before (fn must fail before mutating, which every
	// catalog operation guarantees).
	Mutate(ctx context.Context, fn func(*Catalog) error) error

	// Snapshot returns deep copies of all products, insertion-ordered.
	Snapshot(ctx context.Context) ([]*Product, error)

	// Find returns a deep copy of the identified product.
	Find(ctx context.Context, key ProductKey) (*Product, error)
}
