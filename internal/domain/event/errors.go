package event

import "errors"

var (
	// reserve / cancel
	ErrInvalidCount      = errors.New("seat count must be positive")
	ErrInsufficientSeats = errors.New("not enough free seats")
	ErrNotEnoughReserved = errors.New("not enough reserved seats")

	// persisted line parsing
	ErrMalformedLine = errors.New("malformed event line")
)
