package networth

import (
	"iter"
	"sort"

	"github.com/google/uuid"
)

// MemoryLedger is an in-memory implementation of the AccountSource and
// EntrySource contracts. The real ledger module owns its own persistence;
// this implementation is the reference for the expected iteration order and
// backs the package tests.
type MemoryLedger struct {
	accounts map[uuid.UUID]Account
	order    []uuid.UUID // account creation order
	entries  []Entry     // chronological, stable for same-day entries
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{accounts: make(map[uuid.UUID]Account)}
}

// AddAccount registers an account.
func (l *MemoryLedger) AddAccount(a Account) {
	if _, ok := l.accounts[a.ID]; !ok {
		l.order = append(l.order, a.ID)
	}
	l.accounts[a.ID] = a
}

// RemoveAccount forgets an account. Its entries are left untouched.
func (l *MemoryLedger) RemoveAccount(id uuid.UUID) {
	delete(l.accounts, id)
	for i, o := range l.order {
		if o == id {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Append records an entry, keeping the set chronological.
func (l *MemoryLedger) Append(e Entry) {
	l.entries = append(l.entries, e)
	sort.SliceStable(l.entries, func(i, j int) bool {
		return l.entries[i].When().Before(l.entries[j].When())
	})
}

// Remove deletes the entry with the given id.
func (l *MemoryLedger) Remove(id uuid.UUID) (Entry, bool) {
	for i, e := range l.entries {
		if e.ID() == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return e, true
		}
	}
	return nil, false
}

// Replace swaps the entry sharing the new entry's id and returns the
// previous version. Date, amounts and accounts are replaced atomically.
func (l *MemoryLedger) Replace(e Entry) (previous Entry, ok bool) {
	previous, ok = l.Remove(e.ID())
	l.Append(e)
	return previous, ok
}

func (l *MemoryLedger) Account(id uuid.UUID) (Account, bool) {
	a, ok := l.accounts[id]
	return a, ok
}

func (l *MemoryLedger) Accounts() iter.Seq[Account] {
	return func(yield func(Account) bool) {
		for _, id := range l.order {
			if !yield(l.accounts[id]) {
				return
			}
		}
	}
}

func (l *MemoryLedger) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if !yield(e) {
				return
			}
		}
	}
}

func (l *MemoryLedger) AccountEntries(id uuid.UUID) iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		for _, e := range l.entries {
			if _, ok := e.EffectOn(id); ok {
				if !yield(e) {
					return
				}
			}
		}
	}
}

var (
	_ AccountSource = (*MemoryLedger)(nil)
	_ EntrySource   = (*MemoryLedger)(nil)
)
