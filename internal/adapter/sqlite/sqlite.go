// Package sqlite implements the entry store on an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"weightduel/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS weight_entries (
    user_name TEXT NOT NULL,
    day TEXT NOT NULL,
    weight REAL NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
    PRIMARY KEY (user_name, day)
);

CREATE INDEX IF NOT EXISTS idx_weight_entries_day ON weight_entries(day);
`

const upsertEntrySQL = `INSERT INTO weight_entries (user_name, day, weight) VALUES (?, ?, ?)
ON CONFLICT(user_name, day) DO UPDATE SET weight = excluded.weight,
    updated_at = strftime('%Y-%m-%dT%H:%M:%SZ', 'now')`

// DB is an EntryRepository backed by SQLite.
type DB struct {
	conn *sql.DB
}

var _ domain.EntryRepository = (*DB)(nil)

// Open opens (creating if needed) the database file at path and migrates it.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		return nil, multierr.Append(fmt.Errorf("pinging database: %w", err), conn.Close())
	}

	db := &DB{conn: conn}
	if _, err := conn.Exec(schema); err != nil {
		return nil, multierr.Append(fmt.Errorf("running migrations: %w", err), conn.Close())
	}
	return db, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.conn.Close()
}

// UpsertEntry inserts or replaces the entry at (user, date).
func (db *DB) UpsertEntry(ctx context.Context, e domain.Entry) error {
	if _, err := db.conn.ExecContext(ctx, upsertEntrySQL, e.User, e.Date, e.Weight); err != nil {
		return fmt.Errorf("upserting entry: %w", err)
	}
	return nil
}

// UpsertEntries upserts all entries in one transaction.
func (db *DB) UpsertEntries(ctx context.Context, entries []domain.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertEntrySQL)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.User, e.Date, e.Weight); err != nil {
			return fmt.Errorf("upserting %s/%s: %w", e.User, e.Date, err)
		}
	}
	return tx.Commit()
}

// ListEntries returns every stored entry.
func (db *DB) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT user_name, day, weight FROM weight_entries`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.User, &e.Date, &e.Weight); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEntry removes the entry at (user, date).
func (db *DB) DeleteEntry(ctx context.Context, user, date string) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM weight_entries WHERE user_name = ? AND day = ?`, user, date)
	if err != nil {
		return false, fmt.Errorf("deleting entry: %w", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
