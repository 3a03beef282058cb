package networth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
)

// memStore is an in-memory RecordStore for tests.
type memStore struct {
	mu      sync.Mutex
	recs    map[uuid.UUID]Record
	failing bool // when set, every write fails
}

func newMemStore() *memStore {
	return &memStore{recs: make(map[uuid.UUID]Record)}
}

func (s *memStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	s.recs[rec.AccountID] = rec
	return nil
}

func (s *memStore) Delete(_ context.Context, accountID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("store down")
	}
	delete(s.recs, accountID)
	return nil
}

func (s *memStore) All(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]Record, 0, len(s.recs))
	for _, rec := range s.recs {
		recs = append(recs, rec)
	}
	return recs, nil
}

// fixture wires a memory ledger, a rate store, a balance cache and a
// valuation provider around a fixed "today".
type fixture struct {
	t      *testing.T
	today  Date
	ledger *MemoryLedger
	rates  *MemoryRateStore
	store  *memStore
	cache  *BalanceCache
	val    *Valuation
}

func newFixture(t *testing.T, today string) *fixture {
	t.Helper()
	ledger := NewMemoryLedger()
	rates := NewMemoryRateStore()
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &fixture{
		t:      t,
		today:  MustParse(today),
		ledger: ledger,
		rates:  rates,
		store:  store,
		cache:  NewBalanceCache(ledger, ledger, store, logger),
		val:    NewValuation(ledger, ledger, rates, "EUR"),
	}
}

// account creates a value-included account and its cache record.
func (f *fixture) account(name string, initial Money) Account {
	f.t.Helper()
	a := Account{
		ID:             uuid.New(),
		Name:           name,
		Currency:       initial.Currency(),
		InitialAmount:  initial,
		IncludeInValue: true,
	}
	f.ledger.AddAccount(a)
	if err := f.cache.OnAccountCreated(context.Background(), a, f.today); err != nil {
		f.t.Fatalf("OnAccountCreated(%s) failed: %v", name, err)
	}
	return a
}

// excludedAccount creates an account that does not count toward wealth.
func (f *fixture) excludedAccount(name string, initial Money) Account {
	f.t.Helper()
	a := f.account(name, initial)
	a.IncludeInValue = false
	f.ledger.AddAccount(a)
	return a
}

func (f *fixture) write(e Entry) {
	f.t.Helper()
	f.ledger.Append(e)
	if err := f.cache.OnEntryWritten(context.Background(), e, nil); err != nil {
		f.t.Fatalf("OnEntryWritten failed: %v", err)
	}
}

// edit replaces the entry sharing e's id and notifies the cache.
func (f *fixture) edit(e Entry) {
	f.t.Helper()
	previous, ok := f.ledger.Replace(e)
	if !ok {
		f.t.Fatalf("edit: no entry with id %s", e.ID())
	}
	if err := f.cache.OnEntryWritten(context.Background(), e, previous); err != nil {
		f.t.Fatalf("OnEntryWritten failed: %v", err)
	}
}

func (f *fixture) delete(id uuid.UUID) {
	f.t.Helper()
	e, ok := f.ledger.Remove(id)
	if !ok {
		f.t.Fatalf("delete: no entry with id %s", id)
	}
	if err := f.cache.OnEntryDeleted(context.Background(), e); err != nil {
		f.t.Fatalf("OnEntryDeleted failed: %v", err)
	}
}

func (f *fixture) credit(a Account, on string, amount Money) Credit {
	e := NewCredit(uuid.New(), MustParse(on), a.ID, amount)
	f.write(e)
	return e
}

func (f *fixture) debit(a Account, on string, amount Money) Debit {
	e := NewDebit(uuid.New(), MustParse(on), a.ID, amount)
	f.write(e)
	return e
}

func (f *fixture) transfer(from, to Account, on string, fromAmount, toAmount Money) Transfer {
	e := NewTransfer(uuid.New(), MustParse(on), from.ID, to.ID, fromAmount, toAmount)
	f.write(e)
	return e
}

// balance fails the test on a missing record.
func (f *fixture) balance(a Account) (allTime, asOfToday Money) {
	f.t.Helper()
	allTime, asOfToday, err := f.cache.GetBalance(a.ID)
	if err != nil {
		f.t.Fatalf("GetBalance(%s) failed: %v", a.Name, err)
	}
	return allTime, asOfToday
}

func eur(v float64) Money { return M(v, "EUR") }
func usd(v float64) Money { return M(v, "USD") }
