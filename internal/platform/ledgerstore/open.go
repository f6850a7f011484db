// Package ledgerstore selects and opens the ledger backend named by
// configuration.
package ledgerstore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/studygraph/internal/config"
	"github.com/phrazzld/studygraph/internal/platform/filestore"
	"github.com/phrazzld/studygraph/internal/platform/postgres"
	"github.com/phrazzld/studygraph/internal/platform/sqlite"
	"github.com/phrazzld/studygraph/internal/redact"
	"github.com/phrazzld/studygraph/internal/store"
)

// Open returns the store.LedgerStore for cfg.Driver.
func Open(ctx context.Context, cfg config.LedgerConfig, logger *slog.Logger) (store.LedgerStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With(slog.String("component", "ledgerstore"), slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverFile:
		log.Info("opening file ledger", slog.String("path", cfg.Path))
		return filestore.New(cfg.Path, logger)

	case config.DriverSQLite:
		log.Info("opening sqlite ledger", slog.String("path", cfg.Path), slog.String("namespace", cfg.Namespace))
		return sqlite.Open(ctx, cfg.Path, cfg.Namespace, logger)

	case config.DriverPostgres:
		log.Info("opening postgres ledger",
			slog.String("dsn", redact.DSN(cfg.DSN)),
			slog.String("namespace", cfg.Namespace))
		s, err := postgres.Open(ctx, cfg.DSN, cfg.Namespace, logger)
		if err != nil {
			return nil, fmt.Errorf("open postgres ledger: %s", redact.Error(err))
		}
		return s, nil

	case config.DriverMemory:
		log.Info("using in-memory ledger; entries will not survive restart")
		return store.NewMemoryLedgerStore(nil), nil

	default:
		return nil, fmt.Errorf("%w: %q", store.ErrUnknownDriver, cfg.Driver)
	}
}
