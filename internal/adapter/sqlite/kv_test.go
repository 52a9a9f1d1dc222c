package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

func openTestDB(t *testing.T) (*KVStore, *clockwork.FakeClock, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "catalogs.db")
	db, err := Open(context.Background(), path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	return NewKVStore(db, clock), clock, path
}

func TestKVStore_RoundTrip(t *testing.T) {
	t.Parallel()
	store, clock, _ := openTestDB(t)
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", []byte("first")))
	first, err := store.UpdatedAt(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UTC(), first)

	clock.Advance(time.Minute)
	require.NoError(t, store.Set(ctx, "k", []byte("second")))

	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	second, err := store.UpdatedAt(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, second.Sub(first))

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"), "deleting a missing key is not an error")

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.UpdatedAt(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOpen_ReopensMigratedDatabase(t *testing.T) {
	t.Parallel()
	store, _, path := openTestDB(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "xcstrings-editor:catalogs", []byte(`{"version":2}`)))

	db, err := Open(ctx, path, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	got, err := NewKVStore(db, clockwork.NewRealClock()).Get(ctx, "xcstrings-editor:catalogs")
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":2}`, string(got))
}

func TestKVStore_CanceledContext(t *testing.T) {
	t.Parallel()
	store, _, _ := openTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Set(ctx, "k", []byte("v"))
	assert.ErrorIs(t, err, context.Canceled)
}
