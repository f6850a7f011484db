package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/store"
)

// LoadError reports that the durable ledger could not be read. The ledger
// has already been replaced by an empty one when this error is returned.
type LoadError struct {
	Err error
}

// Error implements the error interface for LoadError.
func (e *LoadError) Error() string {
	return fmt.Sprintf("ledger load failed, starting empty: %v", e.Err)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Ledger maps flashcard ids to their cumulative study counters.
// It is safe for concurrent use.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string]domain.LedgerEntry
	store   store.LedgerStore
	logger  *slog.Logger
}

// New creates an empty ledger backed by s. It panics if s is nil.
func New(s store.LedgerStore, log *slog.Logger) *Ledger {
	if s == nil {
		panic("ledger store cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Ledger{
		entries: make(map[string]domain.LedgerEntry),
		store:   s,
		logger:  log.With(slog.String("component", "ledger")),
	}
}

// Load replaces the in-memory ledger with the stored one. When the store is
// unreadable or corrupt the ledger becomes empty, the failure is logged, and
// a *LoadError is returned; the ledger remains fully usable either way.
func (l *Ledger) Load(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, l.logger)

	loaded, err := l.store.Load(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		l.entries = make(map[string]domain.LedgerEntry)
		log.Warn("ledger store unreadable, continuing with empty ledger",
			slog.String("error", err.Error()),
			slog.Bool("corrupt", store.IsCorruptError(err)),
			slog.Bool("missing", store.IsNotFoundError(err)))
		return &LoadError{Err: err}
	}

	l.entries = store.CloneEntries(loaded)
	log.Info("ledger loaded", slog.Int("entries", len(l.entries)))
	return nil
}

// Save writes the full ledger to the store.
func (l *Ledger) Save(ctx context.Context) error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.persistLocked(ctx)
}

// RecordResponse applies one study response to cardID, creating a zero
// entry first if needed, and writes the ledger through to the store.
// The in-memory update always happens; the returned error reports only a
// failed write.
func (l *Ledger) RecordResponse(ctx context.Context, cardID string, wasCorrect bool) (domain.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.entries[cardID].Record(wasCorrect)
	l.entries[cardID] = next

	logger.FromContextOrDefault(ctx, l.logger).Debug("response recorded",
		slog.String("card_id", cardID),
		slog.Bool("correct", wasCorrect),
		slog.Int("visits", next.Visits))

	return next, l.persistLocked(ctx)
}

// EntryFor returns the entry for cardID, or the zero entry if the card has
// never been answered.
func (l *Ledger) EntryFor(cardID string) domain.LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.entries[cardID]
}

// ResetFor zeroes the entries of exactly the given ids and writes the ledger
// through. Entries for other ids are untouched.
func (l *Ledger) ResetFor(ctx context.Context, cardIDs []string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range cardIDs {
		l.entries[id] = domain.LedgerEntry{}
	}

	logger.FromContextOrDefault(ctx, l.logger).Debug("ledger entries reset",
		slog.Int("count", len(cardIDs)))

	return l.persistLocked(ctx)
}

// Entries returns a copy of every stored entry.
func (l *Ledger) Entries() map[string]domain.LedgerEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return store.CloneEntries(l.entries)
}

// IDs returns the stored card ids in sorted order.
func (l *Ledger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.entries))
	for id := range l.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len reports the number of stored entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Close closes the underlying store.
func (l *Ledger) Close() error {
	return l.store.Close()
}

// persistLocked must be called with l.mu held.
func (l *Ledger) persistLocked(ctx context.Context) error {
	if err := l.store.Save(ctx, l.entries); err != nil {
		logger.FromContextOrDefault(ctx, l.logger).Error("failed to persist ledger",
			slog.String("error", err.Error()),
			slog.Int("entries", len(l.entries)))
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}
