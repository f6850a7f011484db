// Package filestore persists the performance ledger as a single JSON
// document on the local filesystem.
//
// The document maps flashcard ids to their counters:
//
//	{"q-1": {"correct": 2, "incorrect": 1, "visits": 3}}
//
// Writes go to a temporary file in the same directory which is then renamed
// over the target, so a crash never leaves a half-written ledger behind.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/store"
)

// LedgerStore is a JSON file backed store.LedgerStore. The file path is
// the namespace.
type LedgerStore struct {
	path   string
	logger *slog.Logger
	mu     sync.Mutex
}

// Ensure LedgerStore implements store.LedgerStore interface
var _ store.LedgerStore = (*LedgerStore)(nil)

// New creates a store for the JSON document at path. The file and its
// directory are created on the first Save.
func New(path string, logger *slog.Logger) (*LedgerStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerStore{
		path:   filepath.Clean(path),
		logger: logger.With(slog.String("component", "file_ledger_store")),
	}, nil
}

// Path returns the location of the JSON document.
func (s *LedgerStore) Path() string {
	return s.path
}

// Load implements store.LedgerStore. A missing file is an empty ledger.
func (s *LedgerStore) Load(ctx context.Context) (map[string]domain.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug("ledger file does not exist yet", slog.String("path", s.path))
		return map[string]domain.LedgerEntry{}, nil
	}
	if err != nil {
		return nil, store.NewStoreError(store.EntityLedgerEntry, "load", "read failed", err)
	}

	entries := map[string]domain.LedgerEntry{}
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, store.NewStoreError(store.EntityLedgerEntry, "load", "undecodable ledger file",
				fmt.Errorf("%w: %v", store.ErrCorrupt, err))
		}
	}
	if entries == nil {
		// the document was the JSON literal null
		entries = map[string]domain.LedgerEntry{}
	}
	if err := store.CheckLoaded(entries); err != nil {
		return nil, store.NewStoreError(store.EntityLedgerEntry, "load", "invalid entry", err)
	}
	return entries, nil
}

// Save implements store.LedgerStore.
func (s *LedgerStore) Save(ctx context.Context, entries map[string]domain.LedgerEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateEntries(entries); err != nil {
		return store.NewStoreError(store.EntityLedgerEntry, "save", "invalid ledger", err)
	}
	if entries == nil {
		entries = map[string]domain.LedgerEntry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return store.NewStoreError(store.EntityLedgerEntry, "save", "encode failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, data); err != nil {
		log.Error("failed to write ledger file",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityLedgerEntry, "save", "write failed", err)
	}
	log.Debug("ledger file written", slog.String("path", s.path), slog.Int("count", len(entries)))
	return nil
}

// Close implements store.LedgerStore. There is nothing to release.
func (s *LedgerStore) Close() error {
	return nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
