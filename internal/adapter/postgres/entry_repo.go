package postgres

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"weightduel/internal/domain"
)

const upsertEntrySQL = `INSERT INTO weight_entries(user_name, day, weight, updated_at) VALUES($1, $2, $3, now())
ON CONFLICT (user_name, day) DO UPDATE SET weight = EXCLUDED.weight, updated_at = EXCLUDED.updated_at;`

var _ domain.EntryRepository = (*DB)(nil)

// UpsertEntry inserts or replaces the entry at (user, date).
func (d *DB) UpsertEntry(ctx context.Context, e domain.Entry) error {
	_, err := d.sql.ExecContext(ctx, upsertEntrySQL, e.User, e.Date, e.Weight)
	return err
}

// UpsertEntries upserts all entries in a single transaction.
func (d *DB) UpsertEntries(ctx context.Context, entries []domain.Entry) (err error) {
	if len(entries) == 0 {
		return nil
	}

	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			err = multierr.Append(err, tx.Rollback())
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertEntrySQL)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err = stmt.ExecContext(ctx, e.User, e.Date, e.Weight); err != nil {
			return fmt.Errorf("upsert %s/%s: %w", e.User, e.Date, err)
		}
	}
	return tx.Commit()
}

// ListEntries returns every stored entry.
func (d *DB) ListEntries(ctx context.Context) ([]domain.Entry, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT user_name, day, weight FROM weight_entries;")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		if err := rows.Scan(&e.User, &e.Date, &e.Weight); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// DeleteEntry removes the entry at (user, date).
func (d *DB) DeleteEntry(ctx context.Context, user, date string) (bool, error) {
	res, err := d.sql.ExecContext(ctx, "DELETE FROM weight_entries WHERE user_name=$1 AND day=$2;", user, date)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
