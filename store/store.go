// Package store persists balance cache records in SQLite. Records are the
// only durable state of the valuation core; everything else is recomputed
// on read.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nvallet/networth"

	_ "modernc.org/sqlite"
)

// SQLite implements networth.RecordStore on a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and runs the
// schema migrations.
func Open(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("balance record store opened", "path", dbPath)
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save upserts one record. The whole record is written in one statement so
// readers never observe a half-updated row.
func (s *SQLite) Save(ctx context.Context, rec networth.Record) error {
	const q = `
		INSERT INTO balance_records (account_id, currency, all_time, as_of_today, as_of_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (account_id) DO UPDATE SET
			currency = excluded.currency,
			all_time = excluded.all_time,
			as_of_today = excluded.as_of_today,
			as_of_date = excluded.as_of_date`
	_, err := s.db.ExecContext(ctx, q,
		rec.AccountID.String(),
		rec.AllTimeTotal.Currency(),
		rec.AllTimeTotal.Decimal().String(),
		rec.AsOfTodayTotal.Decimal().String(),
		rec.AsOfDate.String(),
	)
	if err != nil {
		return fmt.Errorf("save balance record: %w", err)
	}
	slog.DebugContext(ctx, "balance record saved", "account", rec.AccountID, "as_of", rec.AsOfDate.String())
	return nil
}

// Delete removes the record of one account.
func (s *SQLite) Delete(ctx context.Context, accountID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM balance_records WHERE account_id = ?`, accountID.String())
	if err != nil {
		return fmt.Errorf("delete balance record: %w", err)
	}
	return nil
}

// All returns every persisted record.
func (s *SQLite) All(ctx context.Context) ([]networth.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT account_id, currency, all_time, as_of_today, as_of_date
		FROM balance_records`)
	if err != nil {
		return nil, fmt.Errorf("query balance records: %w", err)
	}
	defer rows.Close()

	var recs []networth.Record
	for rows.Next() {
		var id, currency, allTime, asOfToday, asOfDate string
		if err := rows.Scan(&id, &currency, &allTime, &asOfToday, &asOfDate); err != nil {
			return nil, fmt.Errorf("scan balance record: %w", err)
		}
		rec, err := parseRecord(id, currency, allTime, asOfToday, asOfDate)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func parseRecord(id, currency, allTime, asOfToday, asOfDate string) (networth.Record, error) {
	accountID, err := uuid.Parse(id)
	if err != nil {
		return networth.Record{}, fmt.Errorf("invalid account id %q: %w", id, err)
	}
	all, err := decimal.NewFromString(allTime)
	if err != nil {
		return networth.Record{}, fmt.Errorf("invalid all-time total %q: %w", allTime, err)
	}
	asOf, err := decimal.NewFromString(asOfToday)
	if err != nil {
		return networth.Record{}, fmt.Errorf("invalid as-of-today total %q: %w", asOfToday, err)
	}
	on, err := networth.ParseDate(asOfDate)
	if err != nil {
		return networth.Record{}, fmt.Errorf("invalid as-of date: %w", err)
	}
	return networth.Record{
		AccountID:      accountID,
		AllTimeTotal:   networth.M(all, currency),
		AsOfTodayTotal: networth.M(asOf, currency),
		AsOfDate:       on,
	}, nil
}

var _ networth.RecordStore = (*SQLite)(nil)
