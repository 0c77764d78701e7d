// Package app wires configuration, storage and the reports facade for the
// binaries under cmd/.
package app

import (
	"context"
	"fmt"

	"batchledger/internal/config"
	"batchledger/internal/domain/reports"
	"batchledger/internal/infrastructure/storage/postgres"
	"batchledger/internal/infrastructure/storage/postgres/catalog_repo"
	"batchledger/internal/infrastructure/storage/postgres/document_repo"
	"batchledger/pkg/logger"
)

// Deps are the long-lived components shared by the server and the auditor.
type Deps struct {
	Pool    *postgres.Pool
	Reports *reports.Service
}

// Close releases the connection pool.
func (d *Deps) Close() {
	d.Pool.Close()
}

// NewLogger builds the process logger from configuration.
func NewLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: cfg.App.Development(),
	})
}

// Wire connects to Postgres and builds the reports facade.
func Wire(ctx context.Context, cfg *config.Config) (*Deps, error) {
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	txm := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)
	svc := reports.NewService(
		reports.Sources{
			Sales:    document_repo.NewSaleRepo(txm),
			Batches:  catalog_repo.NewBatchRepo(txm),
			Products: catalog_repo.NewProductRepo(txm),
		},
		txm,
		reports.Config{
			LowStockThreshold: cfg.Reports.LowStockThreshold,
			TopProductsLimit:  cfg.Reports.TopProductsLimit,
			LookupConcurrency: cfg.Reports.LookupConcurrency,
		},
	)

	logger.Info(ctx, "database connection established",
		"max_conns", poolCfg.MaxConns,
		"statement_timeout", cfg.Database.StatementTimeout,
	)
	return &Deps{Pool: pool, Reports: svc}, nil
}
