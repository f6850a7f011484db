package store

import (
	"context"
	"fmt"

	"github.com/phrazzld/studygraph/internal/domain"
)

// EntityLedgerEntry names ledger entries in StoreError values.
const EntityLedgerEntry = "ledger_entry"

// LedgerStore defines the durable key-value store behind the performance
// ledger. Keys are flashcard ids. Every implementation scopes its data to a
// single namespace.
type LedgerStore interface {
	// Load reads the full ledger. A store that has never been written
	// returns an empty, non-nil map.
	// Returns ErrCorrupt (wrapped) if the persisted data cannot be decoded
	// or an entry breaks its invariant.
	Load(ctx context.Context) (map[string]domain.LedgerEntry, error)

	// Save replaces the full ledger with entries. Entries are validated
	// first; an invalid entry fails the save with ErrInvalidEntity and
	// leaves the persisted data unchanged.
	Save(ctx context.Context, entries map[string]domain.LedgerEntry) error

	// Close releases any resources held by the store.
	Close() error
}

// ValidateEntries checks every entry before persistence.
func ValidateEntries(entries map[string]domain.LedgerEntry) error {
	for id, entry := range entries {
		if id == "" {
			return fmt.Errorf("%w: empty card id", ErrInvalidEntity)
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: card %s: %v", ErrInvalidEntity, id, err)
		}
	}
	return nil
}

// CheckLoaded verifies entries read back from storage, reporting violations
// as ErrCorrupt.
func CheckLoaded(entries map[string]domain.LedgerEntry) error {
	for id, entry := range entries {
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: card %s: %v", ErrCorrupt, id, err)
		}
	}
	return nil
}

// CloneEntries returns a shallow copy of entries, never nil.
func CloneEntries(entries map[string]domain.LedgerEntry) map[string]domain.LedgerEntry {
	out := make(map[string]domain.LedgerEntry, len(entries))
	for id, e := range entries {
		out[id] = e
	}
	return out
}
