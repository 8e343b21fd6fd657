// Package config loads the API's runtime settings from the environment.
// A .env file in the working directory is applied first if one exists.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds runtime settings for the API server.
//
// Fields:
//   - Port: HTTP listen port.
//   - DBDriver / DatabaseURL: store backend and its DSN.
//   - DBMaxOpen / DBMaxIdle / DBMaxLifetime: connection pool limits. Postgres
//     only; the sqlite driver is pinned to one connection.
//   - JWTSecret: HMAC secret for signing tokens (HS256). Required.
//   - TokenTTL: lifetime of issued tokens.
//   - BcryptCost: work factor for password hashing.
//   - LogLevel / LogFormat: slog level and handler.
type Config struct {
	Port          string
	DBDriver      string
	DatabaseURL   string
	DBMaxOpen     int
	DBMaxIdle     int
	DBMaxLifetime time.Duration
	JWTSecret     string
	TokenTTL      time.Duration
	BcryptCost    int
	LogLevel      string
	LogFormat     string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5050")
	v.SetDefault("db_driver", DriverPostgres)
	v.SetDefault("db_max_open", "25")
	v.SetDefault("db_max_idle", "25")
	v.SetDefault("db_max_lifetime", "300")
	v.SetDefault("jwt_expire_minutes", "60")
	v.SetDefault("bcrypt_cost", strconv.Itoa(bcrypt.DefaultCost))
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("postgres_user", "appuser")
	v.SetDefault("postgres_password", "apppass")
	v.SetDefault("postgres_host", "postgres")
	v.SetDefault("postgres_port", "5432")
	v.SetDefault("postgres_db", "appdb")
}

// Load reads .env (if present) and the process environment, applies
// defaults and validates the result. A missing JWT_SECRET is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load()
}

func load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:      strings.TrimSpace(v.GetString("port")),
		DBDriver:  strings.ToLower(strings.TrimSpace(v.GetString("db_driver"))),
		JWTSecret: v.GetString("jwt_secret"),
		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
	}

	var err error
	if cfg.DBMaxOpen, err = intSetting(v, "db_max_open"); err != nil {
		return nil, err
	}
	if cfg.DBMaxIdle, err = intSetting(v, "db_max_idle"); err != nil {
		return nil, err
	}
	lifetime, err := intSetting(v, "db_max_lifetime")
	if err != nil {
		return nil, err
	}
	cfg.DBMaxLifetime = time.Duration(lifetime) * time.Second

	minutes, err := intSetting(v, "jwt_expire_minutes")
	if err != nil {
		return nil, err
	}
	if minutes <= 0 {
		return nil, fmt.Errorf("config: JWT_EXPIRE_MINUTES must be positive, got %d", minutes)
	}
	cfg.TokenTTL = time.Duration(minutes) * time.Minute

	if cfg.BcryptCost, err = intSetting(v, "bcrypt_cost"); err != nil {
		return nil, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("config: BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("config: JWT_SECRET is required")
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		cfg.DatabaseURL = v.GetString("database_url")
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = postgresURL(v)
		}
	case DriverSQLite:
		cfg.DatabaseURL = v.GetString("database_url")
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = "auth.db"
		}
	default:
		return nil, fmt.Errorf("config: unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

func intSetting(v *viper.Viper, key string) (int, error) {
	raw := strings.TrimSpace(v.GetString(key))
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config: %s must be an integer, got %q", strings.ToUpper(key), raw)
	}
	return n, nil
}

func postgresURL(v *viper.Viper) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(v.GetString("postgres_user"), v.GetString("postgres_password")),
		Host:     v.GetString("postgres_host") + ":" + v.GetString("postgres_port"),
		Path:     "/" + v.GetString("postgres_db"),
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
