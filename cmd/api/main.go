package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaughan-dsouza/authapi/internal/auth"
	"github.com/vaughan-dsouza/authapi/internal/config"
	"github.com/vaughan-dsouza/authapi/internal/db"
	"github.com/vaughan-dsouza/authapi/internal/handlers"
	"github.com/vaughan-dsouza/authapi/internal/logging"
	"github.com/vaughan-dsouza/authapi/internal/metrics"
	"github.com/vaughan-dsouza/authapi/internal/services"
	"github.com/vaughan-dsouza/authapi/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "authapi: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := db.Pool{
		MaxOpen:     cfg.DBMaxOpen,
		MaxIdle:     cfg.DBMaxIdle,
		MaxLifetime: cfg.DBMaxLifetime,
	}
	if db.PoolIgnored(cfg.DBDriver, pool) {
		logger.Warn(ctx, "pool settings ignored, sqlite uses a single connection",
			"db_max_open", pool.MaxOpen, "db_max_idle", pool.MaxIdle, "db_max_lifetime", pool.MaxLifetime)
	}

	dbConn, err := db.Connect(ctx, cfg.DBDriver, cfg.DatabaseURL, pool)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer dbConn.Close()

	if err := db.Migrate(ctx, dbConn.DB, cfg.DBDriver); err != nil {
		return fmt.Errorf("db migrate: %w", err)
	}

	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}
	validator, err := auth.NewValidator(cfg.JWTSecret)
	if err != nil {
		return err
	}

	m := metrics.New()
	svc := services.NewUserService(store.NewUserStore(dbConn), hasher, issuer, logger,
		services.WithEvents(m),
	)

	router := handlers.NewRouter(handlers.RouterDeps{
		Handler:       handlers.NewHandler(svc, logger),
		Validator:     validator,
		Logger:        logger,
		Now:           time.Now,
		Metrics:       m.Handler(),
		TokenRejected: m.TokenRejected,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", srv.Addr, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info(context.Background(), "shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info(context.Background(), "server exited")
	return nil
}
