// Package sqlstore keeps link records in a two-column SQL table. The same
// queries serve Postgres, SQLite and libSQL; placeholders are rebound for
// the driver the connection was opened with.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/og-shortener/internal/entity"
)

const schema = `CREATE TABLE IF NOT EXISTS link_records (
	slug  TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

type RecordRepository struct {
	db *sqlx.DB
}

func NewRecordRepository(db *sqlx.DB) *RecordRepository {
	return &RecordRepository{db: db}
}

// EnsureSchema creates the records table when it does not exist. Postgres
// deployments get the table from migrations instead.
func (r *RecordRepository) EnsureSchema(ctx context.Context) error {
	const op = "adapter.repository.sqlstore.RecordRepository.EnsureSchema"

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%s: failed to create link_records table: %w", op, err)
	}

	return nil
}

func (r *RecordRepository) Get(ctx context.Context, slug string) (string, error) {
	const op = "adapter.repository.sqlstore.RecordRepository.Get"
	const query = `SELECT value FROM link_records WHERE slug = ?`

	var value string

	if err := r.db.GetContext(ctx, &value, r.db.Rebind(query), slug); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, entity.ErrLinkNotFound)
		}

		return "", fmt.Errorf("%s: failed to get row from link_records table: %w", op, err)
	}

	return value, nil
}

func (r *RecordRepository) Set(ctx context.Context, slug, value string) error {
	const op = "adapter.repository.sqlstore.RecordRepository.Set"
	const query = `INSERT INTO link_records (slug, value) VALUES (?, ?)
		ON CONFLICT (slug) DO UPDATE SET value = excluded.value`

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(query), slug, value); err != nil {
		return fmt.Errorf("%s: failed to upsert into link_records table: %w", op, err)
	}

	return nil
}
