// Package server initializes and runs the taskdesk API server. It opens the
// configured credential store, applies migrations, wires the auth service
// and serves HTTP until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/taskdesk/internal/logging"
	"github.com/dmitrijs2005/taskdesk/internal/server/auth"
	"github.com/dmitrijs2005/taskdesk/internal/server/config"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/taskdesk/internal/server/repositories/users"
	"github.com/dmitrijs2005/taskdesk/internal/server/rest"
	"github.com/dmitrijs2005/taskdesk/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	tokens      *auth.TokenManager
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	repo, db, err := openStore(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	tokens, err := auth.NewTokenManager(c.SecretKey, c.TokenValidityDuration)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	us, err := services.NewUserService(repo, tokens, c.BcryptCost)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	return &App{config: c, logger: logger, db: db, tokens: tokens, userService: us}, nil
}

// openStore returns the users repository for the configured driver. The
// *sql.DB is nil for the in-memory driver.
func openStore(ctx context.Context, c *config.Config) (users.Repository, *sql.DB, error) {
	if c.StorageDriver == "memory" {
		return users.NewInMemoryRepository(), nil, nil
	}

	rm, err := repomanager.ForDriver(c.StorageDriver)
	if err != nil {
		return nil, nil, err
	}

	db, err := sql.Open(rm.DriverName(), c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if c.StorageDriver == "sqlite" {
		// a single connection keeps :memory: databases shared and
		// serializes writers
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, nil, err
	}

	return rm.Users(db), db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) newHTTPServer() (*rest.HTTPServer, error) {
	opts := rest.Options{
		Address:         app.config.EndpointAddrHTTP,
		CORSOrigin:      app.config.CORSOrigin,
		AuthRateLimit:   app.config.AuthRateLimit,
		AuthRateBurst:   app.config.AuthRateBurst,
		ShutdownTimeout: app.config.ShutdownTimeout,
	}

	var health rest.HealthChecker
	if app.db != nil {
		health = app.db
	}

	return rest.NewHTTPServer(opts, app.logger, app.userService, app.tokens, health)
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	defer cancelFunc()

	s, err := app.newHTTPServer()
	if err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the store.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "driver", app.config.StorageDriver, "address", app.config.EndpointAddrHTTP)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "failed to close database", "error", err)
		}
	}

	app.logger.Info(context.Background(), "App stopped")
	return runErr
}
