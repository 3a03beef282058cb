package networth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Record is the materialized balance of one account. It is the only mutable
// persisted state owned by this package: one record per account, created
// with it, deleted with it, rebuildable from scratch by replaying entries.
type Record struct {
	AccountID uuid.UUID

	// AllTimeTotal is the initial amount plus the effect of every entry
	// regardless of date. Future-dated entries count immediately.
	AllTimeTotal Money

	// AsOfTodayTotal is the initial amount plus the effect of entries
	// dated on or before AsOfDate.
	AsOfTodayTotal Money

	// AsOfDate is the last evaluated calendar date.
	AsOfDate Date
}

// RecordStore persists balance records across restarts.
type RecordStore interface {
	Save(ctx context.Context, rec Record) error
	Delete(ctx context.Context, accountID uuid.UUID) error
	All(ctx context.Context) ([]Record, error)
}

// BalanceCache maintains one Record per account, updated incrementally on
// entry writes and deletes, and bulk-recomputed when the calendar day
// advances. Reads are snapshot-consistent: a record is always read whole.
type BalanceCache struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record

	accounts AccountSource
	entries  EntrySource
	store    RecordStore
	log      *slog.Logger
}

// NewBalanceCache creates a cache over the given sources, persisting records
// through store.
func NewBalanceCache(accounts AccountSource, entries EntrySource, store RecordStore, logger *slog.Logger) *BalanceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &BalanceCache{
		records:  make(map[uuid.UUID]Record),
		accounts: accounts,
		entries:  entries,
		store:    store,
		log:      logger,
	}
}

// Load restores persisted records into memory.
func (c *BalanceCache) Load(ctx context.Context) error {
	recs, err := c.store.All(ctx)
	if err != nil {
		return fmt.Errorf("load balance records: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = make(map[uuid.UUID]Record, len(recs))
	for _, rec := range recs {
		c.records[rec.AccountID] = rec
	}
	c.log.InfoContext(ctx, "balance cache loaded", "records", len(recs))
	return nil
}

// GetBalance returns the account's all-time and as-of-today totals.
func (c *BalanceCache) GetBalance(id uuid.UUID) (allTime, asOfToday Money, err error) {
	c.mu.RLock()
	rec, ok := c.records[id]
	c.mu.RUnlock()
	if !ok {
		return Money{}, Money{}, fmt.Errorf("no balance record for account %s", id)
	}
	return rec.AllTimeTotal, rec.AsOfTodayTotal, nil
}

// OnAccountCreated creates the account's record. A fresh account has no
// entries yet, so both totals start at the initial amount.
func (c *BalanceCache) OnAccountCreated(ctx context.Context, a Account, today Date) error {
	rec := Record{
		AccountID:      a.ID,
		AllTimeTotal:   a.InitialAmount,
		AsOfTodayTotal: a.InitialAmount,
		AsOfDate:       today,
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save balance record for account %s: %w", a.ID, err)
	}
	c.records[a.ID] = rec
	return nil
}

// OnAccountDeleted drops the account's record.
func (c *BalanceCache) OnAccountDeleted(ctx context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete balance record for account %s: %w", id, err)
	}
	delete(c.records, id)
	return nil
}

// OnEntryWritten updates exactly the accounts touched by the new entry
// and/or its previous version. Moving an entry between accounts decrements
// the source record and increments the destination one; nothing is
// recomputed from scratch. Deltas are applied against each record's own
// AsOfDate, so a date-only edit crossing the "today" boundary lands
// correctly.
func (c *BalanceCache) OnEntryWritten(ctx context.Context, entry Entry, previous Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	touched := touchedAccounts(entry, previous)
	// A missing record is a programming error: fail before mutating anything.
	for _, id := range touched {
		if _, ok := c.records[id]; !ok {
			return fmt.Errorf("entry %s touches account %s with no balance record", entry.ID(), id)
		}
	}

	for _, id := range touched {
		rec := c.records[id]
		if previous != nil {
			if effect, ok := previous.EffectOn(id); ok {
				rec.AllTimeTotal = rec.AllTimeTotal.Sub(effect)
				if !previous.When().After(rec.AsOfDate) {
					rec.AsOfTodayTotal = rec.AsOfTodayTotal.Sub(effect)
				}
			}
		}
		if effect, ok := entry.EffectOn(id); ok {
			rec.AllTimeTotal = rec.AllTimeTotal.Add(effect)
			if !entry.When().After(rec.AsOfDate) {
				rec.AsOfTodayTotal = rec.AsOfTodayTotal.Add(effect)
			}
		}
		// All-or-nothing per account: persist first, then commit in memory.
		if err := c.store.Save(ctx, rec); err != nil {
			return fmt.Errorf("save balance record for account %s: %w", id, err)
		}
		c.records[id] = rec
	}
	return nil
}

// OnEntryDeleted reverses the entry's effect on every account it touched.
func (c *BalanceCache) OnEntryDeleted(ctx context.Context, entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range entry.Touches() {
		rec, ok := c.records[id]
		if !ok {
			return fmt.Errorf("entry %s touches account %s with no balance record", entry.ID(), id)
		}
		effect, _ := entry.EffectOn(id)
		rec.AllTimeTotal = rec.AllTimeTotal.Sub(effect)
		if !entry.When().After(rec.AsOfDate) {
			rec.AsOfTodayTotal = rec.AsOfTodayTotal.Sub(effect)
		}
		if err := c.store.Save(ctx, rec); err != nil {
			return fmt.Errorf("save balance record for account %s: %w", id, err)
		}
		c.records[id] = rec
	}
	return nil
}

// RefreshAsOfToday recomputes the record of every account whose AsOfDate is
// not currentDate. The recomputation is a full fold over the authoritative
// entry set, never an accumulation of deltas, so interleaving with ordinary
// writes converges to the same state. Accounts are processed independently:
// one failure never blocks the others, and failures are reported together.
func (c *BalanceCache) RefreshAsOfToday(ctx context.Context, currentDate Date) error {
	c.mu.RLock()
	stale := make([]uuid.UUID, 0, len(c.records))
	for id, rec := range c.records {
		if rec.AsOfDate != currentDate {
			stale = append(stale, id)
		}
	}
	c.mu.RUnlock()

	var errs error
	refreshed := 0
	for _, id := range stale {
		if err := c.refreshAccount(ctx, id, currentDate); err != nil {
			c.log.ErrorContext(ctx, "balance refresh failed", "account", id, "error", err)
			errs = multierr.Append(errs, fmt.Errorf("account %s: %w", id, err))
			continue
		}
		refreshed++
	}
	c.log.InfoContext(ctx, "balance cache refreshed", "date", currentDate.String(), "refreshed", refreshed, "failed", len(stale)-refreshed)
	return errs
}

func (c *BalanceCache) refreshAccount(ctx context.Context, id uuid.UUID, currentDate Date) error {
	account, ok := c.accounts.Account(id)
	if !ok {
		return fmt.Errorf("account no longer exists")
	}
	// Fold and commit under the same lock: a write landing between the
	// recompute and the save would be overwritten and lost until the next
	// refresh. The fold is a bounded local aggregation.
	c.mu.Lock()
	defer c.mu.Unlock()
	allTime, asOfToday := c.totals(account, currentDate)
	rec := Record{AccountID: id, AllTimeTotal: allTime, AsOfTodayTotal: asOfToday, AsOfDate: currentDate}
	if err := c.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("save balance record: %w", err)
	}
	c.records[id] = rec
	return nil
}

// Rebuild recomputes every record from scratch by replaying all entries,
// the recovery path when the persisted cache is lost or suspect.
func (c *BalanceCache) Rebuild(ctx context.Context, currentDate Date) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fresh := make(map[uuid.UUID]Record)
	for a := range c.accounts.Accounts() {
		allTime, asOfToday := c.totals(a, currentDate)
		rec := Record{AccountID: a.ID, AllTimeTotal: allTime, AsOfTodayTotal: asOfToday, AsOfDate: currentDate}
		if err := c.store.Save(ctx, rec); err != nil {
			return fmt.Errorf("save balance record for account %s: %w", a.ID, err)
		}
		fresh[a.ID] = rec
	}
	// Drop persisted records of accounts that no longer exist.
	for id := range c.records {
		if _, ok := fresh[id]; !ok {
			if err := c.store.Delete(ctx, id); err != nil {
				return fmt.Errorf("delete stale balance record for account %s: %w", id, err)
			}
		}
	}
	c.records = fresh
	c.log.InfoContext(ctx, "balance cache rebuilt", "records", len(fresh))
	return nil
}

// totals folds the authoritative entry set into both figures in one pass:
// every entry counts toward the all-time total, entries dated on or before
// the cutoff also count toward the as-of total.
func (c *BalanceCache) totals(a Account, cutoff Date) (allTime, asOfToday Money) {
	allTime, asOfToday = a.InitialAmount, a.InitialAmount
	for e := range c.entries.AccountEntries(a.ID) {
		effect, _ := e.EffectOn(a.ID)
		allTime = allTime.Add(effect)
		if !e.When().After(cutoff) {
			asOfToday = asOfToday.Add(effect)
		}
	}
	return allTime, asOfToday
}

// touchedAccounts returns the union of accounts referenced by the new and
// previous version of an entry.
func touchedAccounts(entry, previous Entry) []uuid.UUID {
	ids := entry.Touches()
	if previous == nil {
		return ids
	}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}
	for _, id := range previous.Touches() {
		if !seen[id] {
			ids = append(ids, id)
		}
	}
	return ids
}
