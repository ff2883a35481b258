package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/httplog/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vadimbarashkov/og-shortener/internal/adapter/repository/cachestore"
	"github.com/vadimbarashkov/og-shortener/internal/adapter/repository/kvstore"
	"github.com/vadimbarashkov/og-shortener/internal/adapter/repository/sqlstore"
	"github.com/vadimbarashkov/og-shortener/internal/config"
	"github.com/vadimbarashkov/og-shortener/internal/resolver"
	"github.com/vadimbarashkov/og-shortener/internal/usecase"
	"github.com/vadimbarashkov/og-shortener/pkg/sqldb"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/og-shortener/internal/adapter/delivery/http"
)

type recordStore interface {
	Get(ctx context.Context, slug string) (string, error)
	Set(ctx context.Context, slug, value string) error
}

func NewLogger(env string) *httplog.Logger {
	return httplog.NewLogger("og-shortener", httplog.Options{
		JSON:     env == config.EnvProd,
		LogLevel: slog.LevelInfo,
		Concise:  env == config.EnvDev,
		Writer:   os.Stdout,
	})
}

func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := NewLogger(cfg.Env)

	store, closer, err := openStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("%s: failed to open record store: %w", op, err)
	}
	defer closer.Close()

	logger.Info("record store opened", slog.String("driver", cfg.Store.Driver))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	handler, err := newHandler(logger, store, cfg, reg)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        handler,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting server",
			slog.String("addr", server.Addr),
			slog.String("env", cfg.Env),
			slog.String("resolve_mode", cfg.Resolve.Mode),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}

// newHandler assembles the link use case and the resolver on top of store.
func newHandler(
	logger *httplog.Logger,
	store recordStore,
	cfg *config.Config,
	reg *prometheus.Registry,
) (http.Handler, error) {
	const op = "app.newHandler"

	if cfg.Store.CacheSize > 0 {
		cached, err := cachestore.New(store, cfg.Store.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		store = cached
	}

	decider, err := resolver.New(resolver.Config{
		Mode:          cfg.Resolve.Mode,
		BaseURL:       cfg.BaseURL,
		BotAgents:     cfg.Resolve.BotAgents,
		RedirectDelay: cfg.Resolve.RedirectDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	linkUseCase := usecase.NewLinkUseCase(store)

	return delivery.NewRouter(logger, linkUseCase, decider, delivery.RouterConfig{
		BaseURL:        cfg.BaseURL,
		AllowedOrigins: cfg.HTTPServer.AllowedOrigins,
		Registry:       reg,
	}), nil
}

func openStore(ctx context.Context, cfg config.Store) (recordStore, io.Closer, error) {
	const op = "app.openStore"

	switch cfg.Driver {
	case config.StoreDriverPostgres:
		db, err := sqldb.Open(
			ctx,
			sqldb.DriverPostgres,
			cfg.Postgres.DSN(),
			sqldb.WithConnMaxIdleTime(cfg.Postgres.ConnMaxIdleTime),
			sqldb.WithConnMaxLifetime(cfg.Postgres.ConnMaxLifetime),
			sqldb.WithMaxIdleConns(cfg.Postgres.MaxIdleConns),
			sqldb.WithMaxOpenConns(cfg.Postgres.MaxOpenConns),
			sqldb.WithConnectAttempts(cfg.ConnectAttempts, cfg.ConnectDelay),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		if err := sqldb.RunMigrations(cfg.Postgres.MigrationsPath, cfg.Postgres.DSN()); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: failed to run migrations: %w", op, err)
		}

		return sqlstore.NewRecordRepository(db), db, nil

	case config.StoreDriverSQLite:
		db, err := sqldb.Open(
			ctx,
			sqldb.SQLiteDriver(cfg.SQLite.URL),
			cfg.SQLite.URL,
			sqldb.WithMaxOpenConns(1),
			sqldb.WithConnectAttempts(cfg.ConnectAttempts, cfg.ConnectDelay),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
		}

		repo := sqlstore.NewRecordRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return repo, db, nil

	case config.StoreDriverPebble:
		repo, err := kvstore.Open(cfg.Pebble.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}

		return repo, repo, nil

	default:
		return nil, nil, fmt.Errorf("%s: unknown store driver %q", op, cfg.Driver)
	}
}
