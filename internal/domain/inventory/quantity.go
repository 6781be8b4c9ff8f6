package inventory

import (
	"fmt"
	"strconv"
)

// Quantity is a validated non-negative stock count.
type Quantity struct {
	value int
}

// NewQuantity validates value and wraps it.
func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, fmt.Errorf("%w: quantity cannot be negative", ErrValidation)
	}
	return Quantity{value: value}, nil
}

// MustQuantity is NewQuantity for trusted inputs; it panics on a negative value.
func MustQuantity(value int) Quantity {
	q, err := NewQuantity(value)
	if err != nil {
		panic(err)
	}
	return q
}

// UnitQuantity returns a quantity of one.
func UnitQuantity() Quantity {
	return Quantity{value: 1}
}

func (q Quantity) Value() int {
	return q.value
}

// Add returns the sum of both quantities, failing when the sum would wrap
// past the integer maximum. Both operands are non-negative, so wrapping is
// the only way a sum could come out below either operand.
func (q Quantity) Add(other Quantity) (Quantity, error) {
	sum := q.value + other.value
	if sum < q.value {
		return Quantity{}, fmt.Errorf("%w: quantity overflow (%d + %d)", ErrValidation, q.value, other.value)
	}
	return Quantity{value: sum}, nil
}

// Subtract returns the difference, failing when the result would be negative.
// There is no clamping to zero; callers that want partial subtraction must
// inspect Value first.
func (q Quantity) Subtract(other Quantity) (Quantity, error) {
	if other.value > q.value {
		return Quantity{}, fmt.Errorf("%w: quantity cannot go below zero (%d - %d)", ErrValidation, q.value, other.value)
	}
	return Quantity{value: q.value - other.value}, nil
}

// IsEmpty reports whether the quantity is exactly zero.
func (q Quantity) IsEmpty() bool {
	return q.value == 0
}

func (q Quantity) String() string {
	return strconv.Itoa(q.value)
}
