package execution

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidUTF8 is the cause of a DecodingError for non UTF-8 bytes
	ErrInvalidUTF8 = errors.New("invalid UTF-8")

	// ErrNotANumber is the cause of a DecodingError for a payload that is
	// not a bare numeric literal
	ErrNotANumber = errors.New("payload is not a numeric literal")

	// ErrNegativePrice is returned when scaling a price below zero
	ErrNegativePrice = errors.New("price is negative")

	// ErrPriceOutOfRange is returned when a scaled price needs more than 128 bits
	ErrPriceOutOfRange = errors.New("scaled price does not fit in 128 bits")
)

// DecodingError is an unrecoverable precondition failure: the host input or
// the fetched payload could not be decoded. It aborts the routine before any
// report is made.
type DecodingError struct {
	What  string
	Cause error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("failed to decode %s: %v", e.What, e.Cause)
}

func (e *DecodingError) Unwrap() error {
	return e.Cause
}
