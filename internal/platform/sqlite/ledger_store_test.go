package sqlite_test

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/platform/sqlite"
	"github.com/phrazzld/studygraph/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openStore(t *testing.T, path, namespace string) *sqlite.LedgerStore {
	t.Helper()
	s, err := sqlite.Open(context.Background(), path, namespace, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestLedgerStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	s := openStore(t, path, "heatmap")

	empty, err := s.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	want := map[string]domain.LedgerEntry{
		"q-1": {Correct: 2, Incorrect: 1, Visits: 3},
		"q-2": {},
	}
	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	// Save replaces, not merges
	require.NoError(t, s.Save(ctx, map[string]domain.LedgerEntry{"q-3": {Correct: 1, Visits: 1}}))
	got, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.LedgerEntry{"q-3": {Correct: 1, Visits: 1}}, got)
}

func TestLedgerStorePersistsAcrossOpen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := sqlite.Open(ctx, path, "heatmap", testLogger())
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, map[string]domain.LedgerEntry{"q": {Incorrect: 1, Visits: 1}}))
	require.NoError(t, first.Close())

	second := openStore(t, path, "heatmap")
	got, err := second.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerEntry{Incorrect: 1, Visits: 1}, got["q"])
}

func TestLedgerStoreNamespaces(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")

	a := openStore(t, path, "deck-a")
	require.NoError(t, a.Save(ctx, map[string]domain.LedgerEntry{"q": {Correct: 1, Visits: 1}}))

	b := openStore(t, path, "deck-b")
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestLedgerStoreRejectsInvalidEntries(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := openStore(t, filepath.Join(t.TempDir(), "ledger.db"), "heatmap")

	require.NoError(t, s.Save(ctx, map[string]domain.LedgerEntry{"keep": {Correct: 1, Visits: 1}}))

	err := s.Save(ctx, map[string]domain.LedgerEntry{"bad": {Correct: 1, Visits: 2}})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)

	var storeErr *store.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "save", storeErr.Operation)

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, got, "keep")
}

func TestLedgerStoreCheckConstraint(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.db")
	_ = openStore(t, path, "heatmap")

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	_, err = db.ExecContext(ctx,
		`INSERT INTO ledger_entries (namespace, card_id, correct, incorrect, visits) VALUES ('heatmap', 'x', 1, 1, 5)`)
	require.Error(t, err)
	assert.ErrorIs(t, sqlite.MapError(err), store.ErrInvalidEntity)
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := sqlite.Open(context.Background(), "  ", "heatmap", nil)
	assert.Error(t, err)
	assert.Nil(t, sqlite.MapError(nil))
	assert.Panics(t, func() { sqlite.NewLedgerStore(nil, "heatmap", nil) })
}
