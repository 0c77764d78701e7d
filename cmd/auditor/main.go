// Package main runs the ledger auditor: a periodic integrity scan that
// logs every allocation inconsistency it finds.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"batchledger/internal/app"
	"batchledger/internal/config"
	"batchledger/internal/domain/ledger"
	"batchledger/internal/domain/reports"
	"batchledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := app.NewLogger(cfg)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), log))
	defer cancel()

	log.Infow("starting batchledger auditor", "interval", cfg.Audit.Interval)

	deps, err := app.Wire(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to initialize", "error", err)
	}
	defer deps.Close()

	auditor := NewAuditor(deps.Reports, cfg.Audit.Interval, log)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		auditor.Run(ctx)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down auditor...")
	cancel()

	wg.Wait()
	log.Info("auditor stopped")
}

// IntegritySource produces integrity reports. *reports.Service implements it.
type IntegritySource interface {
	GetIntegrity(ctx context.Context) (*reports.IntegrityReport, error)
}

// Auditor scans the ledger on a fixed interval.
type Auditor struct {
	source   IntegritySource
	interval time.Duration
	log      *logger.Logger
}

func NewAuditor(source IntegritySource, interval time.Duration, log *logger.Logger) *Auditor {
	return &Auditor{
		source:   source,
		interval: interval,
		log:      log.WithComponent("auditor"),
	}
}

// Run scans once immediately and then on every tick until ctx is done.
func (a *Auditor) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.Scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.Scan(ctx)
		}
	}
}

// Scan runs one integrity pass and logs its outcome. Failures are logged
// and retried on the next tick.
func (a *Auditor) Scan(ctx context.Context) *reports.IntegrityReport {
	start := time.Now()

	report, err := a.source.GetIntegrity(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.log.Errorw("integrity scan failed", "error", err)
		}
		return nil
	}

	fields := []any{
		"batches", report.Summary.Batches,
		"sales", report.Summary.Sales,
		"issues", report.Summary.TotalIssues,
		"allocation_mismatch", report.Summary.ByKind[ledger.IssueAllocationMismatch],
		"oversold_batch", report.Summary.ByKind[ledger.IssueOversoldBatch],
		"unknown_batch", report.Summary.ByKind[ledger.IssueUnknownBatch],
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if report.Summary.TotalIssues > 0 {
		a.log.Warnw("integrity scan found issues", fields...)
	} else {
		a.log.Infow("integrity scan clean", fields...)
	}
	return report
}
