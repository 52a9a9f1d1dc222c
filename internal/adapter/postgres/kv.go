package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

const kvTable = "catalog_kv"

// KVStore is a key-value byte store in the catalog_kv table.
type KVStore struct {
	q  Querier
	sb sq.StatementBuilderType
}

// NewKVStore creates a store that runs its statements on q.
func NewKVStore(q Querier) *KVStore {
	return &KVStore{q: q, sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}
}

// Get returns the value stored under key, or domain.ErrNotFound.
func (s *KVStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.sb.Select("value").
		From(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte
	if err := s.q.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		return nil, mapError(err, "storage key", key)
	}
	return value, nil
}

// Set inserts or replaces the value under key.
func (s *KVStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.sb.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "storage key", key)
	}
	return nil
}

// Delete removes key. A missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	query, args, err := s.sb.Delete(kvTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return mapError(err, "storage key", key)
	}
	return nil
}
