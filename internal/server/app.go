// Package server initializes and runs the vault application: it wires the
// PostgreSQL repositories, the S3 blob store, the logo resolver and the HTTP
// API together, runs migrations and handles graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logging"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/logo"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/accounts"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/blobstore"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/config"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/files"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/httpapi"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/repomanager"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/tokens"
	"github.com/jayakumar9/Atlas-Account-Vault-09.04.25-V0/internal/server/users"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repos          *repomanager.PostgresRepositoryManager
	userService    *users.Service
	accountService *accounts.Service
	fileService    *files.Service
	resolver       *logo.Resolver
	tokenStore     tokens.Store
	rateLimiter    *httpapi.RateLimiter
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	l := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(l)

	repos, err := repomanager.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := repos.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	blobs, err := blobstore.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob store init error: %w", err)
	}

	tokenStore := tokens.NewMemoryStore()

	userService := users.NewService(repos.Users, repos.Sessions, cfg)
	accountService := accounts.NewService(repos.DB, repos.Accounts, blobs, logger)
	fileService := files.NewService(accountService, repos.Accounts, blobs, tokenStore, logger, cfg)
	resolver := logo.NewResolver(logger, cfg.ProxyFetchTimeout)

	return &App{
		config:         cfg,
		logger:         logger,
		repos:          repos,
		userService:    userService,
		accountService: accountService,
		fileService:    fileService,
		resolver:       resolver,
		tokenStore:     tokenStore,
		rateLimiter:    httpapi.NewDefaultRateLimiter(),
	}, nil
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

	router := httpapi.NewRouter(httpapi.Deps{
		Config:      app.config,
		Logger:      app.logger,
		DB:          app.repos.DB,
		Users:       app.userService,
		Accounts:    app.accountService,
		Files:       app.fileService,
		Resolver:    app.resolver,
		RateLimiter: app.rateLimiter,
	})

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "error shutting down http server", "error", err)
		}
	}()

	app.logger.Info(ctx, "http server listening", "addr", app.config.EndpointAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runSessionCleanup deletes expired session rows on the same cadence as the
// temp token sweeper.
func (app *App) runSessionCleanup(ctx context.Context) {
	ticker := time.NewTicker(app.config.TempTokenSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := app.repos.Sessions.DeleteExpired(ctx)
			if err != nil {
				app.logger.Warn(ctx, "error deleting expired sessions", "error", err)
				continue
			}
			if removed > 0 {
				app.logger.Debug(ctx, "expired sessions removed", "count", removed)
			}
		}
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
		tokens.RunSweeper(ctx, app.tokenStore, app.config.TempTokenSweepInterval, app.logger)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.runSessionCleanup(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.rateLimiter.Cleanup(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "error closing database", "error", err)
	}
}
