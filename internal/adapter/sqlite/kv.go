package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jonboulle/clockwork"
)

const kvTable = "catalog_kv"

// KVStore is a key-value byte store in the catalog_kv table.
type KVStore struct {
	db    *sql.DB
	sb    sq.StatementBuilderType
	clock clockwork.Clock
}

func NewKVStore(db *sql.DB, clock clockwork.Clock) *KVStore {
	return &KVStore{
		db:    db,
		sb:    sq.StatementBuilder.RunWith(db),
		clock: clock,
	}
}

// Get returns the value stored under key, or domain.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := s.sb.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		QueryRowContext(ctx).
		Scan(&value)
	if err != nil {
		return nil, mapError(err, "storage key", key)
	}
	return value, nil
}

// Set inserts or replaces the value under key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	now := s.clock.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.sb.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, now).
		Suffix("ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ExecContext(ctx)
	if err != nil {
		return mapError(err, "storage key", key)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	_, err := s.sb.Delete(kvTable).
		Where(sq.Eq{"key": key}).
		ExecContext(ctx)
	if err != nil {
		return mapError(err, "storage key", key)
	}
	return nil
}

// UpdatedAt returns when key was last written.
func (s *KVStore) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	query, args, err := s.sb.Select("updated_at").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("build select: %w", err)
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		return time.Time{}, mapError(err, "storage key", key)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("storage key %s: parse updated_at: %w", key, err)
	}
	return t, nil
}
