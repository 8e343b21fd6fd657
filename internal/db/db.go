package db

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/vaughan-dsouza/authapi/internal/config"
	"github.com/vaughan-dsouza/authapi/internal/db/migrations"
	_ "modernc.org/sqlite"
)

// Pool holds connection pool limits. Zero values leave database/sql defaults.
// Only Postgres uses them; SQLite always runs on a single connection.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// PoolIgnored reports whether Connect will disregard pool for driver.
func PoolIgnored(driver string, pool Pool) bool {
	return driver == config.DriverSQLite && pool != Pool{}
}

// Connect opens the store for driver ("postgres" or "sqlite") and checks it
// answers a query before returning.
func Connect(ctx context.Context, driver, dsn string, pool Pool) (*sqlx.DB, error) {
	var db *sqlx.DB

	switch driver {
	case config.DriverPostgres:
		// Parse DSN → pgx config struct
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("db: failed to parse DSN: %w", err)
		}

		// Fail fast on startup if PG is unreachable
		cfg.ConnectTimeout = 5 * time.Second

		db = sqlx.NewDb(stdlib.OpenDB(*cfg), "pgx")
		applyPool(db, pool)

	case config.DriverSQLite:
		sqlDB, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("db: failed to open sqlite: %w", err)
		}
		db = sqlx.NewDb(sqlDB, "sqlite")

		// SQLite takes one writer at a time; a single connection keeps
		// writes serialized and lets :memory: databases work.
		db.SetMaxOpenConns(1)

	default:
		return nil, fmt.Errorf("db: unsupported driver %q", driver)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: failed to connect: %w", err)
	}

	var tmp int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&tmp); err != nil {
		db.Close()
		return nil, fmt.Errorf("db: health check failed: %w", err)
	}

	return db, nil
}

func applyPool(db *sqlx.DB, pool Pool) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrate applies the embedded migrations for driver. goose keeps its
// settings in package state, so calls must not run concurrently.
func Migrate(ctx context.Context, db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case config.DriverPostgres:
		dialect, dir = "postgres", "postgres"
	case config.DriverSQLite:
		dialect, dir = "sqlite3", "sqlite"
	default:
		return fmt.Errorf("db: unsupported driver %q", driver)
	}

	sub, err := fs.Sub(migrations.Migrations, dir)
	if err != nil {
		return fmt.Errorf("db: migrations: %w", err)
	}

	goose.SetBaseFS(sub)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("db: migrations: %w", err)
	}

	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("db: migrations: %w", err)
	}
	return nil
}
