// Package server wires the collaborator service together: it opens the
// configured store, runs migrations, picks the directory source, and runs
// the HTTP server until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/collabsync/internal/logging"
	"github.com/dmitrijs2005/collabsync/internal/server/config"
	"github.com/dmitrijs2005/collabsync/internal/server/directory"
	"github.com/dmitrijs2005/collabsync/internal/server/httpserver"
	"github.com/dmitrijs2005/collabsync/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/collabsync/internal/server/services"
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	pool    *pgxpool.Pool
	service *services.CollaboratorService
}

// NewApp opens the store, applies migrations and builds the service.
// Close must be called when NewApp succeeds.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: cfg, logger: logger}

	m, err := app.openStore(ctx)
	if err != nil {
		return nil, err
	}

	dir, err := newDirectory(cfg)
	if err != nil {
		app.Close()
		return nil, err
	}

	app.service = services.NewCollaboratorService(app.db, m, dir, logger.With("module", "collaborators"))
	return app, nil
}

func (app *App) openStore(ctx context.Context) (repomanager.RepositoryManager, error) {
	if app.config.Storage == config.StorageMemory {
		app.logger.Warn(ctx, "using in-memory storage, data is lost on exit")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, pool, err := openPostgres(ctx, app.config)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.db, app.pool = db, pool

	m, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx, db); err != nil {
		app.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	app.logger.Info(ctx, "database ready")

	return m, nil
}

func newDirectory(cfg *config.Config) (services.Directory, error) {
	if cfg.DirectoryFile != "" {
		src, err := directory.LoadStaticSource(cfg.DirectoryFile)
		if err != nil {
			return nil, fmt.Errorf("directory file: %w", err)
		}
		return src, nil
	}
	return directory.NewClient(directory.Config{
		URL:     cfg.DirectoryURL,
		Timeout: cfg.DirectoryTimeout,
	}), nil
}

// Close releases the database handles. It is safe to call more than once.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
		app.db = nil
	}
	if app.pool != nil {
		app.pool.Close()
		app.pool = nil
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "shutdown signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves HTTP until ctx is canceled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	s := httpserver.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.service, app.config.ShutdownTimeout)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return runErr
}

// Seed runs a single import and returns its result.
func (app *App) Seed(ctx context.Context) (services.ImportResult, error) {
	return app.service.ImportAll(ctx)
}
