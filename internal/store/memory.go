package store

import (
	"context"
	"sync"

	"github.com/phrazzld/studygraph/internal/domain"
)

// MemoryLedgerStore keeps the ledger in process memory. It is used for the
// "memory" driver and in tests.
type MemoryLedgerStore struct {
	mu      sync.Mutex
	entries map[string]domain.LedgerEntry
	closed  bool
	saves   int
}

var _ LedgerStore = (*MemoryLedgerStore)(nil)

// NewMemoryLedgerStore creates a store seeded with a copy of initial.
func NewMemoryLedgerStore(initial map[string]domain.LedgerEntry) *MemoryLedgerStore {
	return &MemoryLedgerStore{entries: CloneEntries(initial)}
}

// Load implements LedgerStore.
func (s *MemoryLedgerStore) Load(_ context.Context) (map[string]domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, NewStoreError(EntityLedgerEntry, "load", "store is closed", ErrClosed)
	}
	return CloneEntries(s.entries), nil
}

// Save implements LedgerStore.
func (s *MemoryLedgerStore) Save(_ context.Context, entries map[string]domain.LedgerEntry) error {
	if err := ValidateEntries(entries); err != nil {
		return NewStoreError(EntityLedgerEntry, "save", "invalid ledger", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return NewStoreError(EntityLedgerEntry, "save", "store is closed", ErrClosed)
	}
	s.entries = CloneEntries(entries)
	s.saves++
	return nil
}

// Close implements LedgerStore.
func (s *MemoryLedgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Saves reports how many successful saves have happened.
func (s *MemoryLedgerStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
