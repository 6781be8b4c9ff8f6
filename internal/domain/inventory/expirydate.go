package inventory

import (
	"fmt"
	"time"
)

// ExpiryDateLayout is the fixed external string format for expiry dates.
const ExpiryDateLayout = "2006-01-02"

// ExpiryDate is a calendar date after which stock counts as expired.
// Past dates are permitted; expiry is only meaningful relative to "now".
type ExpiryDate struct {
	date time.Time
}

// NewExpiryDate parses value in the fixed YYYY-MM-DD layout.
func NewExpiryDate(value string) (ExpiryDate, error) {
	t, err := time.Parse(ExpiryDateLayout, value)
	if err != nil {
		return ExpiryDate{}, fmt.Errorf("%w: expiry date must be a valid date in %s form: %q", ErrValidation, ExpiryDateLayout, value)
	}
	return ExpiryDate{date: t.UTC()}, nil
}

// MustExpiryDate is NewExpiryDate for trusted inputs; it panics on bad input.
func MustExpiryDate(value string) ExpiryDate {
	e, err := NewExpiryDate(value)
	if err != nil {
		panic(err)
	}
	return e
}

// IsPast reports whether the date is strictly before today. It is evaluated
// against the current date on every call, never cached.
func (e ExpiryDate) IsPast() bool {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return e.date.Before(today)
}

// Before reports calendar ordering.
func (e ExpiryDate) Before(other ExpiryDate) bool {
	return e.date.Before(other.date)
}

// Equal reports whether both hold the same calendar date.
func (e ExpiryDate) Equal(other ExpiryDate) bool {
	return e.date.Equal(other.date)
}

// Compare returns -1, 0 or +1 by calendar-date order.
func (e ExpiryDate) Compare(other ExpiryDate) int {
	return e.date.Compare(other.date)
}

// IsZero reports whether the date was never set.
func (e ExpiryDate) IsZero() bool {
	return e.date.IsZero()
}

func (e ExpiryDate) String() string {
	return e.date.Format(ExpiryDateLayout)
}
