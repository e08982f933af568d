package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/siscomando/api/internal/api/auth"
	httpapi "github.com/siscomando/api/internal/api/http"
	"github.com/siscomando/api/internal/api/hooks"
	"github.com/siscomando/api/internal/api/service"
	"github.com/siscomando/api/internal/api/store"
	"github.com/siscomando/api/internal/api/store/drivers/sqlite"
	"github.com/siscomando/api/pkg/cryptox"
	"github.com/siscomando/api/pkg/slogx"
	"github.com/siscomando/api/pkg/tokenx"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the API service together: storage, token signing,
// services, router and HTTP server.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	tokens *tokenx.Service

	userService    *service.UserService
	issueService   *service.IssueService
	commentService *service.CommentService
	starService    *service.StarService

	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies
// initialized. A missing secret key is a hard error: issued tokens would
// be unverifiable after a restart with a different ephemeral secret.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "siscomando-api",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	tokens, err := tokenx.New(cfg.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("SC_SECRET_KEY: %w", err)
	}
	app.tokens = tokens

	cryptox.SetPepperPath(cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.logger.Info("api service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}
	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down api service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("api service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{
		Store:  app.db,
		Create: hooks.UserCreate{Tokens: app.tokens},
	}
	app.issueService = &service.IssueService{Store: app.db}
	app.commentService = &service.CommentService{
		Store:   app.db,
		Enrich:  hooks.CommentEnricher{Issues: app.db.Issues()},
		Filters: hooks.CommentFilters{Users: app.db.Users()},
	}
	app.starService = &service.StarService{
		Store:  app.db,
		Fanout: hooks.StarFanout{Comments: app.db.Comments()},
	}
}

func (app *Application) initHTTP() {
	authenticator := auth.New(app.db.Users(), app.tokens)

	router := httpapi.NewRouter(authenticator, app.db, BuildVersion, app.logger)
	router.UserService = app.userService
	router.IssueService = app.issueService
	router.CommentService = app.commentService
	router.StarService = app.starService
	router.ApplyRoutes()
	app.router = router

	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
