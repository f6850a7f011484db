package ledger_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/ledger"
	"github.com/phrazzld/studygraph/internal/platform/filestore"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/store"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// failingStore fails every operation with err.
type failingStore struct {
	err error
}

func (f failingStore) Load(context.Context) (map[string]domain.LedgerEntry, error) {
	return nil, f.err
}

func (f failingStore) Save(context.Context, map[string]domain.LedgerEntry) error {
	return f.err
}

func (f failingStore) Close() error { return nil }

func TestNewPanicsOnNilStore(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { ledger.New(nil, discard) })
}

func TestRecordResponseWritesThrough(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backing := store.NewMemoryLedgerStore(nil)
	l := ledger.New(backing, discard)

	entry, err := l.RecordResponse(ctx, "q-1", true)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerEntry{Correct: 1, Incorrect: 0, Visits: 1}, entry)

	entry, err = l.RecordResponse(ctx, "q-1", false)
	require.NoError(t, err)
	assert.Equal(t, domain.LedgerEntry{Correct: 1, Incorrect: 1, Visits: 2}, entry)

	assert.Equal(t, 2, backing.Saves())
	persisted, err := backing.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, entry, persisted["q-1"])
}

func TestEntryForUnknownCardIsZero(t *testing.T) {
	t.Parallel()
	l := ledger.New(store.NewMemoryLedgerStore(nil), discard)
	assert.True(t, l.EntryFor("never-seen").IsZero())
	assert.Equal(t, domain.CardStatusUnseen, l.EntryFor("never-seen").Status())
}

func TestVisitsInvariantHoldsForAnySequence(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := ledger.New(store.NewMemoryLedgerStore(nil), discard)

	responses := []struct {
		id      string
		correct bool
	}{
		{"a", true}, {"b", false}, {"a", false}, {"c", true},
		{"a", true}, {"b", false}, {"c", true}, {"b", true},
	}
	for _, r := range responses {
		_, err := l.RecordResponse(ctx, r.id, r.correct)
		require.NoError(t, err)
	}

	for id, e := range l.Entries() {
		assert.Equal(t, e.Correct+e.Incorrect, e.Visits, id)
		assert.NoError(t, e.Validate(), id)
	}
	assert.Equal(t, domain.LedgerEntry{Correct: 2, Incorrect: 1, Visits: 3}, l.EntryFor("a"))
	assert.Equal(t, domain.LedgerEntry{Correct: 1, Incorrect: 2, Visits: 3}, l.EntryFor("b"))
	assert.Equal(t, domain.LedgerEntry{Correct: 2, Incorrect: 0, Visits: 2}, l.EntryFor("c"))
}

func TestResetForZeroesExactlyTheGivenIDs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	seed := map[string]domain.LedgerEntry{
		"a": {Correct: 3, Incorrect: 1, Visits: 4},
		"b": {Correct: 0, Incorrect: 2, Visits: 2},
		"c": {Correct: 1, Incorrect: 1, Visits: 2},
	}
	l := ledger.New(store.NewMemoryLedgerStore(seed), discard)
	require.NoError(t, l.Load(ctx))

	require.NoError(t, l.ResetFor(ctx, []string{"a", "c", "unknown"}))

	assert.True(t, l.EntryFor("a").IsZero())
	assert.True(t, l.EntryFor("c").IsZero())
	assert.True(t, l.EntryFor("unknown").IsZero())
	assert.Equal(t, seed["b"], l.EntryFor("b"))
}

func TestLoadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	fs, err := filestore.New(filepath.Join(t.TempDir(), "heatmap.json"), discard)
	require.NoError(t, err)

	l := ledger.New(fs, discard)
	require.NoError(t, l.Load(context.Background()))
	assert.Equal(t, 0, l.Len())
}

func TestLoadCorruptStoreRecoversEmpty(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "heatmap.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	fs, err := filestore.New(path, discard)
	require.NoError(t, err)

	l := ledger.New(fs, discard)
	ctx, logBuf := logger.NewLogCaptureContext(t)

	err = l.Load(ctx)
	var loadErr *ledger.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.ErrorIs(t, err, store.ErrCorrupt)
	assert.Equal(t, 0, l.Len())
	logger.AssertLogContains(t, logBuf, "continuing with empty ledger")
	logger.AssertLogField(t, logBuf, "corrupt", true)
	logger.AssertLogField(t, logBuf, "missing", false)

	// still usable, and the next write repairs the file
	_, err = l.RecordResponse(ctx, "q-1", true)
	require.NoError(t, err)

	reopened := ledger.New(fs, discard)
	require.NoError(t, reopened.Load(context.Background()))
	assert.Equal(t, domain.LedgerEntry{Correct: 1, Visits: 1}, reopened.EntryFor("q-1"))
}

func TestLoadMissingTableIsFlagged(t *testing.T) {
	t.Parallel()
	missing := store.NewStoreError(store.EntityLedgerEntry, "load", "query failed", store.ErrNotFound)
	l := ledger.New(failingStore{err: missing}, discard)
	ctx, logBuf := logger.NewLogCaptureContext(t)

	err := l.Load(ctx)
	var loadErr *ledger.LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 0, l.Len())
	logger.AssertLogField(t, logBuf, "missing", true)
	logger.AssertLogField(t, logBuf, "corrupt", false)
}

func TestLoadReplacesPreviousState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	backing := store.NewMemoryLedgerStore(map[string]domain.LedgerEntry{
		"x": {Correct: 1, Visits: 1},
	})
	l := ledger.New(backing, discard)
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, []string{"x"}, l.IDs())

	require.NoError(t, l.Save(ctx))
	assert.Equal(t, 1, backing.Saves())
}

func TestWriteFailureKeepsInMemoryUpdate(t *testing.T) {
	t.Parallel()
	boom := errors.New("disk full")
	l := ledger.New(failingStore{err: boom}, discard)

	assert.Error(t, l.Load(context.Background()))

	entry, err := l.RecordResponse(context.Background(), "q-1", false)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, domain.LedgerEntry{Incorrect: 1, Visits: 1}, entry)
	assert.Equal(t, entry, l.EntryFor("q-1"))

	assert.ErrorIs(t, l.ResetFor(context.Background(), []string{"q-1"}), boom)
	assert.True(t, l.EntryFor("q-1").IsZero())
}

func TestEntriesReturnsCopy(t *testing.T) {
	t.Parallel()
	l := ledger.New(store.NewMemoryLedgerStore(nil), discard)
	_, err := l.RecordResponse(context.Background(), "q-1", true)
	require.NoError(t, err)

	snapshot := l.Entries()
	snapshot["q-1"] = domain.LedgerEntry{}
	assert.Equal(t, 1, l.EntryFor("q-1").Visits)
}
