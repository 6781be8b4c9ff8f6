package inventory

import "errors"

// Failure kinds surfaced by the model. Callers dispatch with errors.Is;
// every error returned by this package wraps exactly one of these.
var (
	// ErrValidation marks a malformed or missing field value at construction.
	ErrValidation = errors.New("inventory: invalid value")

	// ErrInvalidArgument marks an operation whose precondition was violated,
	// such as adding two items that are not the same item.
	ErrInvalidArgument = errors.New("inventory: precondition violated")

	// ErrDuplicate marks a uniqueness violation within a collection.
	ErrDuplicate = errors.New("inventory: already exists")

	// ErrNotFound marks a lookup of an entry absent from its collection.
	ErrNotFound = errors.New("inventory: not found")
)
