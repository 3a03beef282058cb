package networth

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CryptoCurrency is the code of the single cryptocurrency tracked by the
// ledger. Its amounts are accounted in the smallest unit (satoshi).
const CryptoCurrency = "BTC"

// cryptoFraction is the number of decimal digits between the crypto major
// unit and its smallest unit.
const cryptoFraction = 8

func init() {
	// go-money only knows ISO 4217; register the crypto currency so that
	// formatting and fraction lookups work like for any fiat.
	money.AddCurrency(CryptoCurrency, "₿", "$1", ".", ",", cryptoFraction)
}

// Money represents a monetary value in a single currency, either a fiat
// currency or the cryptocurrency.
type Money struct {
	value decimal.Decimal // in major units
	cur   string
}

func newDecimal[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float32:
		return decimal.NewFromFloat32(v)
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int32:
		return decimal.NewFromInt32(v)
	case int64:
		return decimal.NewFromInt(v)
	case uint:
		return decimal.NewFromUint64(uint64(v))
	case uint32:
		return decimal.NewFromInt(int64(v))
	case uint64:
		return decimal.NewFromUint64(v)
	}
	panic("unreachable")
}

// M creates a Money value in the given currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// Sats creates a crypto Money value from an amount in the smallest unit.
func Sats(n int64) Money {
	return Money{value: decimal.NewFromInt(n).Shift(-cryptoFraction), cur: CryptoCurrency}
}

// currency returns the money's full currency description.
func (m Money) currency() money.Currency {
	// calling the constructor guarantees a non-nil currency
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

func (m Money) Currency() string { return m.cur }

// IsCrypto reports whether the value is denominated in the cryptocurrency.
func (m Money) IsCrypto() bool { return m.cur == CryptoCurrency }

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal { return m.value }

// Sats returns the amount in the crypto smallest unit.
// It is only meaningful for crypto values.
func (m Money) Sats() int64 { return m.value.Shift(cryptoFraction).IntPart() }

func (m Money) Equal(n Money) bool           { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                 { return m.value.IsZero() }
func (m Money) IsPositive() bool             { return m.value.IsPositive() }
func (m Money) IsNegative() bool             { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool        { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool     { return m.value.GreaterThan(n.value) }
func (m Money) Neg() Money                   { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Abs() Money                   { return Money{value: m.value.Abs(), cur: m.cur} }
func (m Money) Add(n Money) Money            { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money            { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }
func (m Money) Mul(q decimal.Decimal) Money  { return Money{value: m.value.Mul(q), cur: m.cur} }
func (m Money) Div(q decimal.Decimal) Money  { return Money{value: m.value.Div(q), cur: m.cur} }

// cur makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic("currency mismatch " + a.cur + "!=" + b.cur)
	}
	return a.cur
}
