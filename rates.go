package networth

import (
	"github.com/shopspring/decimal"
)

// RateStore is the read-only, date-keyed rate series consumed from the rate
// import pipeline. Both lookups answer with the rate on the exact date or
// the most recent earlier one, never interpolated, and report "no data"
// through the boolean rather than an error.
type RateStore interface {
	// CryptoRate returns the price of one crypto major unit in the
	// reference fiat on (or last before) the given date.
	CryptoRate(on Date) (decimal.Decimal, bool)
	// FiatRate returns the rate converting one unit of the given fiat
	// into the reference fiat on (or last before) the given date.
	FiatRate(on Date, code string) (decimal.Decimal, bool)
}

// MemoryRateStore holds daily rate points in memory, one series for the
// crypto price and one per fiat currency. At most one point per date per
// series; appending on an existing date overwrites it.
type MemoryRateStore struct {
	crypto History[decimal.Decimal]
	fiat   map[string]*History[decimal.Decimal]
}

func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{fiat: make(map[string]*History[decimal.Decimal])}
}

// AppendCryptoRate records the crypto price for a date.
func (s *MemoryRateStore) AppendCryptoRate(on Date, price decimal.Decimal) {
	s.crypto.Append(on, price)
}

// AppendFiatRate records a fiat-to-reference rate for a date.
func (s *MemoryRateStore) AppendFiatRate(on Date, code string, rate decimal.Decimal) {
	h, ok := s.fiat[code]
	if !ok {
		h = &History[decimal.Decimal]{}
		s.fiat[code] = h
	}
	h.Append(on, rate)
}

func (s *MemoryRateStore) CryptoRate(on Date) (decimal.Decimal, bool) {
	return s.crypto.ValueAsOf(on)
}

func (s *MemoryRateStore) FiatRate(on Date, code string) (decimal.Decimal, bool) {
	h, ok := s.fiat[code]
	if !ok {
		return decimal.Decimal{}, false
	}
	return h.ValueAsOf(on)
}

var _ RateStore = (*MemoryRateStore)(nil)
