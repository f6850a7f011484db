package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/store"
)

func TestStoreError(t *testing.T) {
	t.Parallel()

	wrapped := errors.New("disk full")
	err := store.NewStoreError(store.EntityLedgerEntry, "save", "write failed", wrapped)
	assert.Equal(t, "save operation on ledger_entry failed: write failed: disk full", err.Error())
	assert.ErrorIs(t, err, wrapped)

	bare := store.NewStoreError(store.EntityLedgerEntry, "load", "no data", nil)
	assert.Equal(t, "load operation on ledger_entry failed: no data", bare.Error())

	var target *store.StoreError
	assert.True(t, errors.As(error(err), &target))
	assert.Equal(t, "save", target.Operation)

	corrupt := store.NewStoreError(store.EntityLedgerEntry, "load", "bad json", store.ErrCorrupt)
	assert.True(t, store.IsCorruptError(corrupt))
	assert.False(t, store.IsNotFoundError(corrupt))
}

func TestValidateEntries(t *testing.T) {
	t.Parallel()

	assert.NoError(t, store.ValidateEntries(nil))
	assert.NoError(t, store.ValidateEntries(map[string]domain.LedgerEntry{
		"a": {Correct: 1, Visits: 1},
	}))
	assert.ErrorIs(t, store.ValidateEntries(map[string]domain.LedgerEntry{
		"a": {Correct: 1, Visits: 3},
	}), store.ErrInvalidEntity)
	assert.ErrorIs(t, store.ValidateEntries(map[string]domain.LedgerEntry{
		"": {},
	}), store.ErrInvalidEntity)

	assert.ErrorIs(t, store.CheckLoaded(map[string]domain.LedgerEntry{
		"a": {Incorrect: -1},
	}), store.ErrCorrupt)
}

func TestMemoryLedgerStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	seed := map[string]domain.LedgerEntry{"a": {Correct: 1, Visits: 1}}
	s := store.NewMemoryLedgerStore(seed)
	seed["a"] = domain.LedgerEntry{}

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerEntry{Correct: 1, Visits: 1}, got["a"])

	got["b"] = domain.LedgerEntry{Incorrect: 1, Visits: 1}
	require.NoError(t, s.Save(ctx, got))
	assert.Equal(t, 1, s.Saves())

	err = s.Save(ctx, map[string]domain.LedgerEntry{"x": {Visits: 1}})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.Equal(t, 1, s.Saves())

	reloaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, reloaded, 2)

	require.NoError(t, s.Close())
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrClosed)
	assert.ErrorIs(t, s.Save(ctx, nil), store.ErrClosed)
}

func TestMemoryLedgerStoreEmpty(t *testing.T) {
	t.Parallel()

	got, err := store.NewMemoryLedgerStore(nil).Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
