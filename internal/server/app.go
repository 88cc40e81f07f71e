// Package server initializes and runs the ZenTest sync server. It opens
// the SQLite database, applies migrations, wires services and HTTP
// handlers, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/zentesthq/zentest/internal/logging"
	"github.com/zentesthq/zentest/internal/server/broker"
	"github.com/zentesthq/zentest/internal/server/config"
	"github.com/zentesthq/zentest/internal/server/handlers"
	"github.com/zentesthq/zentest/internal/server/migrations"
	"github.com/zentesthq/zentest/internal/server/repositories/apicases"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
	"github.com/zentesthq/zentest/internal/server/repositories/memberships"
	"github.com/zentesthq/zentest/internal/server/repositories/modules"
	"github.com/zentesthq/zentest/internal/server/repositories/projects"
	"github.com/zentesthq/zentest/internal/server/repositories/users"
	"github.com/zentesthq/zentest/internal/server/services"

	_ "modernc.org/sqlite"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	handlers *handlers.Handlers
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("sqlite", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	secret := []byte(c.SecretKey)
	userSvc := services.NewUserService(users.NewSQLiteRepository(db), secret, c.AccessTokenValidityDuration)
	docSvc := services.NewDocumentService(
		projects.NewSQLiteRepository(db),
		modules.NewSQLiteRepository(db),
		cases.NewSQLiteRepository(db),
		apicases.NewSQLiteRepository(db),
		memberships.NewSQLiteRepository(db),
		broker.New(),
	)

	h := handlers.New(userSvc, docSvc, secret, logger)

	return &App{config: c, logger: logger, db: db, handlers: h}, nil
}

func runMigrations(db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.Up(db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.handlers.NewRouter(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	app.logger.Info(ctx, "listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
