package networth

import (
	"iter"

	"github.com/google/uuid"
)

// EntryKind identifies one of the six ledger entry shapes.
type EntryKind string

const (
	KindCredit         EntryKind = "credit"          // single-leg, money in
	KindDebit          EntryKind = "debit"           // single-leg, money out
	KindTransferFiat   EntryKind = "transfer"        // fiat -> fiat
	KindTransferBuy    EntryKind = "buy"             // fiat -> crypto
	KindTransferSell   EntryKind = "sell"            // crypto -> fiat
	KindTransferCrypto EntryKind = "crypto-transfer" // crypto -> crypto
)

// Entry is the closed variant of ledger entry shapes. The balance cache and
// the valuation provider never branch per shape: they fold the single
// EffectOn projection over the entry set.
type Entry interface {
	ID() uuid.UUID
	Kind() EntryKind
	When() Date // effective date

	// EffectOn returns the signed effect of the entry on the given
	// account's balance, and false when the entry does not touch it.
	EffectOn(account uuid.UUID) (Money, bool)

	// Touches lists the accounts affected by the entry.
	Touches() []uuid.UUID
}

type baseEntry struct {
	id uuid.UUID
	on Date
}

func (e baseEntry) ID() uuid.UUID { return e.id }
func (e baseEntry) When() Date    { return e.on }

// Credit is a single-currency entry adding money to an account.
type Credit struct {
	baseEntry
	Account uuid.UUID
	Amount  Money // positive magnitude

	// Equivalent optionally tags the entry with its crypto-unit
	// equivalent at the time of writing. Zero means untagged.
	Equivalent Money
}

// NewCredit creates a credit entry. The amount is a positive magnitude.
func NewCredit(id uuid.UUID, on Date, account uuid.UUID, amount Money) Credit {
	return Credit{baseEntry: baseEntry{id: id, on: on}, Account: account, Amount: amount}
}

func (e Credit) Kind() EntryKind { return KindCredit }

func (e Credit) EffectOn(account uuid.UUID) (Money, bool) {
	if account == e.Account {
		return e.Amount, true
	}
	return Money{}, false
}

func (e Credit) Touches() []uuid.UUID { return []uuid.UUID{e.Account} }

// Debit is a single-currency entry removing money from an account.
type Debit struct {
	baseEntry
	Account uuid.UUID
	Amount  Money // positive magnitude

	// Equivalent optionally tags the entry with its crypto-unit
	// equivalent at the time of writing. Zero means untagged.
	Equivalent Money
}

// NewDebit creates a debit entry. The amount is a positive magnitude.
func NewDebit(id uuid.UUID, on Date, account uuid.UUID, amount Money) Debit {
	return Debit{baseEntry: baseEntry{id: id, on: on}, Account: account, Amount: amount}
}

func (e Debit) Kind() EntryKind { return KindDebit }

func (e Debit) EffectOn(account uuid.UUID) (Money, bool) {
	if account == e.Account {
		return e.Amount.Neg(), true
	}
	return Money{}, false
}

func (e Debit) Touches() []uuid.UUID { return []uuid.UUID{e.Account} }

// Transfer moves money between two accounts, possibly exchanging currency
// kinds on the way. The four transfer kinds (fiat->fiat, fiat->crypto,
// crypto->fiat, crypto->crypto) share this one struct; the kind is fixed at
// construction from the leg currencies.
type Transfer struct {
	baseEntry
	kind       EntryKind
	From, To   uuid.UUID
	FromAmount Money // positive magnitude debited from From
	ToAmount   Money // positive magnitude credited to To
}

// NewTransfer creates a transfer entry between two accounts. Amounts are
// positive magnitudes, one per leg.
func NewTransfer(id uuid.UUID, on Date, from, to uuid.UUID, fromAmount, toAmount Money) Transfer {
	kind := KindTransferFiat
	switch {
	case !fromAmount.IsCrypto() && toAmount.IsCrypto():
		kind = KindTransferBuy
	case fromAmount.IsCrypto() && !toAmount.IsCrypto():
		kind = KindTransferSell
	case fromAmount.IsCrypto() && toAmount.IsCrypto():
		kind = KindTransferCrypto
	}
	return Transfer{
		baseEntry:  baseEntry{id: id, on: on},
		kind:       kind,
		From:       from,
		To:         to,
		FromAmount: fromAmount,
		ToAmount:   toAmount,
	}
}

func (e Transfer) Kind() EntryKind { return e.kind }

func (e Transfer) EffectOn(account uuid.UUID) (Money, bool) {
	// A self transfer nets out on the single account it touches.
	if account == e.From && account == e.To {
		return e.ToAmount.Sub(e.FromAmount), true
	}
	if account == e.From {
		return e.FromAmount.Neg(), true
	}
	if account == e.To {
		return e.ToAmount, true
	}
	return Money{}, false
}

func (e Transfer) Touches() []uuid.UUID {
	if e.From == e.To {
		return []uuid.UUID{e.From}
	}
	return []uuid.UUID{e.From, e.To}
}

// EntrySource is the read access to the authoritative entry set this
// package consumes from the ledger module. Iteration is in chronological
// order.
type EntrySource interface {
	// Entries iterates over every entry, oldest first.
	Entries() iter.Seq[Entry]
	// AccountEntries iterates over the entries touching one account,
	// oldest first.
	AccountEntries(id uuid.UUID) iter.Seq[Entry]
}
