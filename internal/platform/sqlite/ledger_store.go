package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/platform/migrate"
	"github.com/phrazzld/studygraph/internal/platform/sqlite/migrations"
	"github.com/phrazzld/studygraph/internal/store"
)

// LedgerStore persists ledger entries in a SQLite database.
type LedgerStore struct {
	db        *sql.DB
	namespace string
	logger    *slog.Logger
}

// Ensure LedgerStore implements store.LedgerStore interface
var _ store.LedgerStore = (*LedgerStore)(nil)

// Open opens (creating if needed) the SQLite database at path, applies the
// embedded migrations, and returns a store scoped to namespace.
func Open(ctx context.Context, path, namespace string, logger *slog.Logger) (*LedgerStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer at a time; the ledger is a single-session resource
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := migrate.Up(ctx, db, goose.DialectSQLite3, migrations.FS, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return NewLedgerStore(db, namespace, logger), nil
}

// NewLedgerStore wraps an already migrated database handle.
// If logger is nil, a default logger will be used.
func NewLedgerStore(db *sql.DB, namespace string, logger *slog.Logger) *LedgerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &LedgerStore{
		db:        db,
		namespace: namespace,
		logger:    logger.With(slog.String("component", "sqlite_ledger_store")),
	}
}

// Load implements store.LedgerStore.
func (s *LedgerStore) Load(ctx context.Context) (map[string]domain.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := loadEntries(ctx, s.db, s.namespace)
	if err != nil {
		log.Error("failed to load ledger entries",
			slog.String("namespace", s.namespace),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError(store.EntityLedgerEntry, "load", "query failed", MapError(err))
	}
	if err := store.CheckLoaded(entries); err != nil {
		return nil, store.NewStoreError(store.EntityLedgerEntry, "load", "invalid row", err)
	}

	log.Debug("ledger entries loaded",
		slog.String("namespace", s.namespace),
		slog.Int("count", len(entries)))
	return entries, nil
}

// Save implements store.LedgerStore. The namespace's rows are replaced in a
// single transaction.
func (s *LedgerStore) Save(ctx context.Context, entries map[string]domain.LedgerEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateEntries(entries); err != nil {
		return store.NewStoreError(store.EntityLedgerEntry, "save", "invalid ledger", err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return replaceEntries(ctx, tx, s.namespace, entries)
	})
	if err != nil {
		log.Error("failed to save ledger entries",
			slog.String("namespace", s.namespace),
			slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityLedgerEntry, "save", "write failed", MapError(err))
	}

	log.Debug("ledger entries saved",
		slog.String("namespace", s.namespace),
		slog.Int("count", len(entries)))
	return nil
}

// Close implements store.LedgerStore.
func (s *LedgerStore) Close() error {
	return s.db.Close()
}

func loadEntries(ctx context.Context, q store.DBTX, namespace string) (map[string]domain.LedgerEntry, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT card_id, correct, incorrect, visits
		   FROM ledger_entries
		  WHERE namespace = ?
		  ORDER BY card_id`,
		namespace,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	entries := make(map[string]domain.LedgerEntry)
	for rows.Next() {
		var (
			id    string
			entry domain.LedgerEntry
		)
		if err := rows.Scan(&id, &entry.Correct, &entry.Incorrect, &entry.Visits); err != nil {
			return nil, err
		}
		entries[id] = entry
	}
	return entries, rows.Err()
}

func replaceEntries(ctx context.Context, q store.DBTX, namespace string, entries map[string]domain.LedgerEntry) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM ledger_entries WHERE namespace = ?`, namespace); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	stmt, err := q.PrepareContext(ctx,
		`INSERT INTO ledger_entries (namespace, card_id, correct, incorrect, visits)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() { _ = stmt.Close() }()

	for id, e := range entries {
		if _, err := stmt.ExecContext(ctx, namespace, id, e.Correct, e.Incorrect, e.Visits); err != nil {
			return err
		}
	}
	return nil
}

// MapError maps SQLite constraint failures to store errors.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_CHECK, sqlite3lib.SQLITE_CONSTRAINT_NOTNULL:
			return fmt.Errorf("%w: constraint violation: %v", store.ErrInvalidEntity, err)
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: duplicate card: %v", store.ErrInvalidEntity, err)
		}
	}
	return err
}
