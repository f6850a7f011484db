package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/pressly/goose/v3"

	"github.com/phrazzld/studygraph/internal/domain"
	"github.com/phrazzld/studygraph/internal/platform/logger"
	"github.com/phrazzld/studygraph/internal/platform/migrate"
	"github.com/phrazzld/studygraph/internal/platform/postgres/migrations"
	"github.com/phrazzld/studygraph/internal/store"
)

// PostgresLedgerStore implements the store.LedgerStore interface
// using a PostgreSQL database as the storage backend.
type PostgresLedgerStore struct {
	db        *sql.DB
	namespace string
	logger    *slog.Logger
}

// Ensure PostgresLedgerStore implements store.LedgerStore interface
var _ store.LedgerStore = (*PostgresLedgerStore)(nil)

// Open connects to dsn with the pgx driver, verifies the connection,
// applies the embedded migrations, and returns a store scoped to namespace.
func Open(ctx context.Context, dsn, namespace string, logger *slog.Logger) (*PostgresLedgerStore, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("database dsn is required")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := migrate.Up(ctx, db, goose.DialectPostgres, migrations.FS, logger); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return NewPostgresLedgerStore(db, namespace, logger), nil
}

// NewPostgresLedgerStore creates a new PostgreSQL implementation of the LedgerStore interface.
// It accepts a database connection that should be initialized and migrated by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresLedgerStore(db *sql.DB, namespace string, logger *slog.Logger) *PostgresLedgerStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresLedgerStore{
		db:        db,
		namespace: namespace,
		logger:    logger.With(slog.String("component", "postgres_ledger_store")),
	}
}

// Load implements store.LedgerStore.Load
// It returns every entry of the store's namespace.
func (s *PostgresLedgerStore) Load(ctx context.Context) (map[string]domain.LedgerEntry, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	entries, err := s.query(ctx, s.db)
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

// Save implements store.LedgerStore.Save
// The namespace's rows are replaced inside one transaction.
func (s *PostgresLedgerStore) Save(ctx context.Context, entries map[string]domain.LedgerEntry) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.ValidateEntries(entries); err != nil {
		log.Warn("refusing to save invalid ledger", slog.String("error", err.Error()))
		return store.NewStoreError(store.EntityLedgerEntry, "save", "invalid ledger", err)
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.replace(ctx, tx, entries)
	})
	if err != nil {
		if IsCheckConstraintViolation(err) || IsUniqueViolation(err) {
			log.Warn("ledger rejected by database constraint",
				slog.String("namespace", s.namespace),
				slog.String("error", err.Error()))
		} else {
			log.Error("failed to save ledger entries",
				slog.String("namespace", s.namespace),
				slog.String("error", err.Error()))
		}
		return store.NewStoreError(store.EntityLedgerEntry, "save", "write failed", MapError(err))
	}

	log.Debug("ledger entries saved",
		slog.String("namespace", s.namespace),
		slog.Int("count", len(entries)))
	return nil
}

// Close implements store.LedgerStore.Close
func (s *PostgresLedgerStore) Close() error {
	return s.db.Close()
}

func (s *PostgresLedgerStore) query(ctx context.Context, q store.DBTX) (map[string]domain.LedgerEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT card_id, correct, incorrect, visits
		FROM ledger_entries
		WHERE namespace = $1
		ORDER BY card_id
	`, s.namespace)
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

func (s *PostgresLedgerStore) replace(ctx context.Context, q store.DBTX, entries map[string]domain.LedgerEntry) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM ledger_entries WHERE namespace = $1`, s.namespace); err != nil {
		return err
	}
	for id, e := range entries {
		_, err := q.ExecContext(ctx, `
			INSERT INTO ledger_entries (namespace, card_id, correct, incorrect, visits, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
		`, s.namespace, id, e.Correct, e.Incorrect, e.Visits)
		if err != nil {
			return err
		}
	}
	return nil
}
