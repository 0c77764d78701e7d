// Package config loads process configuration from the environment.
// A .env file in the working directory is read first if present.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"batchledger/internal/core/apperror"
)

// Config is the full process configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Reports  ReportsConfig
	Audit    AuditConfig
}

type AppConfig struct {
	Env      string
	Port     string
	LogLevel string
	Gzip     bool
}

// Development reports whether APP_ENV selects development logging.
func (a AppConfig) Development() bool {
	return a.Env == "development"
}

type DatabaseConfig struct {
	URL              string
	MaxConns         int
	MinConns         int
	StatementTimeout time.Duration
}

type ReportsConfig struct {
	LowStockThreshold int
	TopProductsLimit  int
	LookupConcurrency int
}

type AuditConfig struct {
	Interval time.Duration
}

// Load reads .env (when present) and the environment. Malformed numbers
// and durations fall back to their defaults; call Validate afterwards.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	return &Config{
		App: AppConfig{
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnv("APP_PORT", "8080"),
			LogLevel: getEnv("LOG_LEVEL", "info"),
			Gzip:     getEnvBool("HTTP_GZIP", true),
		},
		Database: DatabaseConfig{
			URL:              os.Getenv("DATABASE_URL"),
			MaxConns:         getEnvInt("DB_MAX_CONNS", 25),
			MinConns:         getEnvInt("DB_MIN_CONNS", 5),
			StatementTimeout: getEnvDuration("DB_STATEMENT_TIMEOUT", 30*time.Second),
		},
		Reports: ReportsConfig{
			LowStockThreshold: getEnvInt("REPORT_LOW_STOCK_THRESHOLD", 100),
			TopProductsLimit:  getEnvInt("REPORT_TOP_PRODUCTS_LIMIT", 10),
			LookupConcurrency: getEnvInt("REPORT_LOOKUP_CONCURRENCY", 8),
		},
		Audit: AuditConfig{
			Interval: getEnvDuration("AUDIT_INTERVAL", time.Hour),
		},
	}, nil
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return apperror.NewValidation("DATABASE_URL is required").WithDetail("field", "DATABASE_URL")
	}

	positive := []struct {
		key   string
		value int
	}{
		{"DB_MAX_CONNS", c.Database.MaxConns},
		{"REPORT_TOP_PRODUCTS_LIMIT", c.Reports.TopProductsLimit},
		{"REPORT_LOOKUP_CONCURRENCY", c.Reports.LookupConcurrency},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return apperror.NewValidation(p.key + " must be positive").WithDetail("field", p.key)
		}
	}

	if c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return apperror.NewValidation("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS").WithDetail("field", "DB_MIN_CONNS")
	}
	if c.Reports.LowStockThreshold < 0 {
		return apperror.NewValidation("REPORT_LOW_STOCK_THRESHOLD must not be negative").
			WithDetail("field", "REPORT_LOW_STOCK_THRESHOLD")
	}
	if c.Database.StatementTimeout <= 0 {
		return apperror.NewValidation("DB_STATEMENT_TIMEOUT must be positive").WithDetail("field", "DB_STATEMENT_TIMEOUT")
	}
	if c.Audit.Interval <= 0 {
		return apperror.NewValidation("AUDIT_INTERVAL must be positive").WithDetail("field", "AUDIT_INTERVAL")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
