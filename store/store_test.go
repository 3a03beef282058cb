package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvallet/networth"
)

func openTestStore(t *testing.T) (*SQLite, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "networth.db")
	s, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func record(currency string, allTime, asOfToday float64, asOfDate string) networth.Record {
	return networth.Record{
		AccountID:      uuid.New(),
		AllTimeTotal:   networth.M(allTime, currency),
		AsOfTodayTotal: networth.M(asOfToday, currency),
		AsOfDate:       networth.MustParse(asOfDate),
	}
}

func TestSQLite_SaveAndAll(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	r1 := record("EUR", 1200, 1000, "2025-06-10")
	r2 := record(networth.CryptoCurrency, 1.5, 1.5, "2025-06-10")
	require.NoError(t, s.Save(ctx, r1))
	require.NoError(t, s.Save(ctx, r2))

	recs, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	byID := make(map[uuid.UUID]networth.Record)
	for _, r := range recs {
		byID[r.AccountID] = r
	}
	got, ok := byID[r1.AccountID]
	require.True(t, ok)
	assert.True(t, got.AllTimeTotal.Equal(r1.AllTimeTotal))
	assert.True(t, got.AsOfTodayTotal.Equal(r1.AsOfTodayTotal))
	assert.Equal(t, r1.AsOfDate, got.AsOfDate)
	assert.Equal(t, "EUR", got.AllTimeTotal.Currency())
}

func TestSQLite_SaveUpserts(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	rec := record("EUR", 1000, 1000, "2025-06-10")
	require.NoError(t, s.Save(ctx, rec))

	rec.AllTimeTotal = networth.M(1500, "EUR")
	rec.AsOfDate = networth.MustParse("2025-06-11")
	require.NoError(t, s.Save(ctx, rec))

	recs, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.True(t, recs[0].AllTimeTotal.Equal(networth.M(1500, "EUR")))
	assert.Equal(t, networth.MustParse("2025-06-11"), recs[0].AsOfDate)
}

func TestSQLite_Delete(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	rec := record("EUR", 1000, 1000, "2025-06-10")
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Delete(ctx, rec.AccountID))

	recs, err := s.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)

	// Deleting a missing record is not an error.
	require.NoError(t, s.Delete(ctx, uuid.New()))
}

func TestSQLite_ReopenKeepsRecords(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	rec := record("EUR", 1000, 900, "2025-06-10")
	require.NoError(t, s.Save(ctx, rec))
	require.NoError(t, s.Close())

	// Reopening runs the migrations again: they must be a no-op.
	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	recs, err := reopened.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.AccountID, recs[0].AccountID)
	assert.True(t, recs[0].AsOfTodayTotal.Equal(networth.M(900, "EUR")))
}
