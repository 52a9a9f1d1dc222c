package postgres_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/postgres"
	"github.com/rokartur/xcstrings-editor-sub000/internal/adapter/postgres/testhelper"
	"github.com/rokartur/xcstrings-editor-sub000/internal/domain"
)

func TestKVStore_RoundTrip(t *testing.T) {
	t.Parallel()
	store := postgres.NewKVStore(testhelper.SetupTestDB(t))
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	_, err := store.Get(ctx, key)
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.Set(ctx, key, []byte("first")))
	require.NoError(t, store.Set(ctx, key, []byte("second")))

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)

	require.NoError(t, store.Delete(ctx, key))
	require.NoError(t, store.Delete(ctx, key))

	_, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
