package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bmitrack/internal/domain"
)

var (
	_ domain.KeyValueStore     = (*DB)(nil)
	_ domain.UserRepository    = (*DB)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// GetItem returns the document stored under key.
func (d *DB) GetItem(ctx context.Context, key string) ([]byte, error) {
	var v []byte
	err := d.sql.QueryRowContext(ctx, "SELECT value FROM kv_items WHERE key=$1;", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return v, err
}

// SetItem upserts the document stored under key.
func (d *DB) SetItem(ctx context.Context, key string, value []byte) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO kv_items(key, value, updated_at) VALUES($1, $2, $3) ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at;",
		key, string(value), time.Now().UTC(),
	)
	return err
}
