package networth

import (
	"context"
	"fmt"
	"iter"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Valuation reconstructs account balances at arbitrary past dates and
// converts them into a target currency using the rate store. It is a pure
// reader: it never touches the balance cache, whose figures only answer
// "all time" and "as of today".
type Valuation struct {
	accounts      AccountSource
	entries       EntrySource
	rates         RateStore
	referenceFiat string
}

// NewValuation creates a valuation provider. referenceFiat is the pivot
// currency of the rate series.
func NewValuation(accounts AccountSource, entries EntrySource, rates RateStore, referenceFiat string) *Valuation {
	return &Valuation{accounts: accounts, entries: entries, rates: rates, referenceFiat: referenceFiat}
}

// ValueAt reconstructs every account's balance on the given date: the
// initial amount plus the effect of every entry dated on or before it.
// This is O(entries) and favors historical accuracy over speed.
func (v *Valuation) ValueAt(on Date) map[uuid.UUID]Money {
	balances := make(map[uuid.UUID]Money)
	for a := range v.accounts.Accounts() {
		balances[a.ID] = a.InitialAmount
	}
	for e := range v.entries.Entries() {
		if e.When().After(on) {
			break // entries are chronological
		}
		for _, id := range e.Touches() {
			if _, known := balances[id]; !known {
				continue // entry referencing a deleted account
			}
			effect, _ := e.EffectOn(id)
			balances[id] = balances[id].Add(effect)
		}
	}
	return balances
}

// AccountValueAt reconstructs one account's balance on the given date.
func (v *Valuation) AccountValueAt(id uuid.UUID, on Date) (Money, error) {
	a, ok := v.accounts.Account(id)
	if !ok {
		return Money{}, fmt.Errorf("unknown account %s", id)
	}
	balance := a.InitialAmount
	for e := range v.entries.AccountEntries(id) {
		if e.When().After(on) {
			break
		}
		effect, _ := e.EffectOn(id)
		balance = balance.Add(effect)
	}
	return balance, nil
}

// ToFiat converts an amount into the target currency at the given date.
// Conversion is deterministic for a fixed date: same-currency amounts pass
// through, crypto legs use the crypto price series, and fiat-to-fiat pivots
// through the reference fiat. A missing rate is a hard failure.
func (v *Valuation) ToFiat(amount Money, on Date, target string) (Money, error) {
	src := amount.Currency()
	if src == target {
		return amount, nil
	}

	// First into the reference fiat.
	ref := amount
	if src != v.referenceFiat {
		switch {
		case amount.IsCrypto():
			price, ok := v.rates.CryptoRate(on)
			if !ok {
				return Money{}, &RateNotFoundError{Currency: src, On: on}
			}
			ref = M(amount.Decimal().Mul(price), v.referenceFiat)
		default:
			rate, ok := v.rates.FiatRate(on, src)
			if !ok {
				return Money{}, &RateNotFoundError{Currency: src, On: on}
			}
			ref = M(amount.Decimal().Mul(rate), v.referenceFiat)
		}
	}
	if target == v.referenceFiat {
		return ref, nil
	}

	// Then out of the reference fiat into the target.
	if target == CryptoCurrency {
		price, ok := v.rates.CryptoRate(on)
		if !ok {
			return Money{}, &RateNotFoundError{Currency: target, On: on}
		}
		return M(ref.Decimal().Div(price), CryptoCurrency), nil
	}
	rate, ok := v.rates.FiatRate(on, target)
	if !ok {
		return Money{}, &RateNotFoundError{Currency: target, On: on}
	}
	return M(ref.Decimal().Div(rate), target), nil
}

// valueIncluded iterates over the accounts counting toward wealth figures.
func (v *Valuation) valueIncluded() iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for a := range v.accounts.Accounts() {
			if !a.IncludeInValue {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}

// WealthAt computes total wealth on a date: the sum over value-included
// accounts of their balance converted to the target currency.
func (v *Valuation) WealthAt(on Date, target string) (Money, error) {
	balances := v.ValueAt(on)
	total := M(0, target)
	for a := range v.valueIncluded() {
		converted, err := v.ToFiat(balances[a.ID], on, target)
		if err != nil {
			return Money{}, fmt.Errorf("valuing account %q on %s: %w", a.Name, on, err)
		}
		total = total.Add(converted)
	}
	return total, nil
}

// WealthInCrypto expresses total wealth on a date in crypto units.
func (v *Valuation) WealthInCrypto(on Date) (Money, error) {
	ref, err := v.WealthAt(on, v.referenceFiat)
	if err != nil {
		return Money{}, err
	}
	price, ok := v.rates.CryptoRate(on)
	if !ok {
		return Money{}, &RateNotFoundError{Currency: CryptoCurrency, On: on}
	}
	return M(ref.Decimal().Div(price), CryptoCurrency), nil
}

// WealthSeries computes total wealth for every day of the range, in order.
// Days are valued concurrently with a bounded worker count so the
// O(days x entries) scan can run off the interactive path.
func (v *Valuation) WealthSeries(ctx context.Context, r Range, target string) ([]Money, error) {
	out := make([]Money, r.Len())
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	i := 0
	for on := range r.Days() {
		idx := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, err := v.WealthAt(on, target)
			if err != nil {
				return err
			}
			out[idx] = w
			return nil
		})
		i++
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// hasEntryUpTo reports whether the account has at least one entry dated on
// or before the given date.
func (v *Valuation) hasEntryUpTo(id uuid.UUID, on Date) bool {
	for e := range v.entries.AccountEntries(id) {
		if !e.When().After(on) {
			return true
		}
		break // entries are chronological
	}
	return false
}

// earliestEntryDate returns the first effective date across value-included
// accounts, or false when none of them has any entry.
func (v *Valuation) earliestEntryDate() (Date, bool) {
	included := make(map[uuid.UUID]bool)
	for a := range v.valueIncluded() {
		included[a.ID] = true
	}
	for e := range v.entries.Entries() {
		for _, id := range e.Touches() {
			if included[id] {
				return e.When(), true
			}
		}
	}
	return Date{}, false
}
