package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/studygraph/internal/compiler"
	"github.com/phrazzld/studygraph/internal/config"
	"github.com/phrazzld/studygraph/internal/layout"
	"github.com/phrazzld/studygraph/internal/ledger"
	"github.com/phrazzld/studygraph/internal/metrics"
	"github.com/phrazzld/studygraph/internal/platform/ledgerstore"
	"github.com/phrazzld/studygraph/internal/pomodoro"
	"github.com/phrazzld/studygraph/internal/session"
)

var _ session.Recorder = (*metrics.Collector)(nil)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	ledger  *ledger.Ledger
	session *session.Coordinator
	timer   *pomodoro.Timer
	metrics *metrics.Collector
}

// newApplication opens the configured ledger store, loads the ledger, and
// builds the session coordinator around it. A ledger that cannot be read is
// replaced by an empty one; only failing to open the store is fatal.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	store, err := ledgerstore.Open(ctx, cfg.Ledger, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	l := ledger.New(store, logger)
	if err := l.Load(ctx); err != nil {
		var loadErr *ledger.LoadError
		if !errors.As(err, &loadErr) {
			_ = store.Close()
			return nil, fmt.Errorf("failed to load ledger: %w", err)
		}
		// already logged by the ledger; studying continues on an empty one
	}

	direction, err := layout.ParseDirection(cfg.Layout.Direction)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("invalid layout direction: %w", err)
	}

	collector := metrics.NewCollector(metrics.DefaultNamespace)
	engine := layout.NewEngineWithParams(layout.NewParams(
		cfg.Layout.NodeWidth,
		cfg.Layout.NodeHeight,
		cfg.Layout.NodeSpacing,
		cfg.Layout.RankSpacing,
		cfg.Layout.Sweeps,
	))

	app := &application{
		config: cfg,
		logger: logger,
		ledger: l,
		session: session.NewCoordinator(l,
			session.WithCompiler(compiler.New()),
			session.WithLayoutEngine(engine),
			session.WithDirection(direction),
			session.WithRecorder(collector),
			session.WithLogger(logger),
		),
		timer:   pomodoro.New(time.Duration(cfg.Study.PomodoroMinutes) * time.Minute),
		metrics: collector,
	}

	logger.Info("Application initialized successfully",
		slog.Int("ledger_entries", l.Len()))
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup flushes the ledger and closes its store.
func (app *application) cleanup(ctx context.Context) {
	if app.ledger == nil {
		return
	}
	if err := app.ledger.Save(ctx); err != nil {
		app.logger.Error("Error flushing ledger", slog.String("error", err.Error()))
	}
	if err := app.ledger.Close(); err != nil {
		app.logger.Error("Error closing ledger store", slog.String("error", err.Error()))
	}
	app.logger.Info("Application shutdown completed")
}
