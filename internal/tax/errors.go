package tax

import "errors"

var (
	// ErrInvalidInput marks missing or out-of-range caller input such as a negative age.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidTable is returned when a slab table breaks its ordering rules.
	ErrInvalidTable = errors.New("invalid slab table")
	// ErrUnknownRegime is returned by LookupRegime for names it does not know.
	ErrUnknownRegime = errors.New("unknown tax regime")
)
