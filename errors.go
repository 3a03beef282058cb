package networth

import (
	"errors"
	"fmt"
)

// ErrNoValuationData is returned by reports requested over an empty scope,
// e.g. an all-time-high over a ledger with no value-included account. The
// peak is undefined there, so a zero result would be a lie.
var ErrNoValuationData = errors.New("no valuation data")

// RateNotFoundError is returned when a conversion needs a historical rate
// that the rate store does not have, on the requested date or any earlier
// one. It is never silently substituted with zero or a stale guess.
type RateNotFoundError struct {
	Currency string
	On       Date
}

func (e *RateNotFoundError) Error() string {
	return fmt.Sprintf("no %s rate on or before %s", e.Currency, e.On)
}
