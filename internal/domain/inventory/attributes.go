package inventory

import (
	"fmt"
	"math"
	"strings"
)

const (
	maxNameLength        = 80
	maxCategoryLength    = 40
	maxDescriptionLength = 500
)

// Name identifies a product together with its category.
type Name string

// NewName validates and normalizes a product name.
func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: product name cannot be blank", ErrValidation)
	}
	if len(trimmed) > maxNameLength {
		return "", fmt.Errorf("%w: product name cannot exceed %d characters", ErrValidation, maxNameLength)
	}
	return Name(trimmed), nil
}

func (n Name) String() string { return string(n) }

// Category groups products for identity and display.
type Category string

// NewCategory validates and normalizes a category.
func NewCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: category cannot be blank", ErrValidation)
	}
	if len(trimmed) > maxCategoryLength {
		return "", fmt.Errorf("%w: category cannot exceed %d characters", ErrValidation, maxCategoryLength)
	}
	return Category(trimmed), nil
}

func (c Category) String() string { return string(c) }

// Description is free-form product text; blank is allowed.
type Description string

// NewDescription validates a description.
func NewDescription(value string) (Description, error) {
	if len(value) > maxDescriptionLength {
		return "", fmt.Errorf("%w: description cannot exceed %d characters", ErrValidation, maxDescriptionLength)
	}
	return Description(value), nil
}

func (d Description) String() string { return string(d) }

// Price is a validated non-negative amount.
type Price struct {
	amount float64
}

// NewPrice validates amount.
func NewPrice(amount float64) (Price, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Price{}, fmt.Errorf("%w: price must be a finite number", ErrValidation)
	}
	if amount < 0 {
		return Price{}, fmt.Errorf("%w: price cannot be negative", ErrValidation)
	}
	return Price{amount: amount}, nil
}

// MustPrice is NewPrice for trusted inputs; it panics on bad input.
func MustPrice(amount float64) Price {
	p, err := NewPrice(amount)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Price) Amount() float64 { return p.amount }

// Equal reports amount equality.
func (p Price) Equal(other Price) bool { return p.amount == other.amount }

func (p Price) String() string {
	return fmt.Sprintf("$%.2f", p.amount)
}
