package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"batchledger/internal/domain/ledger"
	"batchledger/internal/domain/reports"
	"batchledger/pkg/logger"
)

type fakeSource struct {
	calls  atomic.Int32
	err    error
	report *reports.IntegrityReport
}

func (f *fakeSource) GetIntegrity(context.Context) (*reports.IntegrityReport, error) {
	f.calls.Add(1)
	return f.report, f.err
}

func observed() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return logger.NewFromZap(zap.New(core)), logs
}

func TestAuditor_ScanWarnsOnIssues(t *testing.T) {
	log, logs := observed()
	src := &fakeSource{report: &reports.IntegrityReport{
		Summary: reports.IntegritySummary{
			TotalIssues: 2,
			ByKind: map[ledger.IssueKind]int{
				ledger.IssueAllocationMismatch: 1,
				ledger.IssueOversoldBatch:      1,
				ledger.IssueUnknownBatch:       0,
			},
			Batches: 4,
			Sales:   9,
		},
	}}

	report := NewAuditor(src, time.Hour, log).Scan(context.Background())
	require.NotNil(t, report)

	entries := logs.FilterMessage("integrity scan found issues").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.EqualValues(t, 2, fields["issues"])
	assert.EqualValues(t, 1, fields["oversold_batch"])
	assert.Equal(t, "auditor", fields["component"])
}

func TestAuditor_ScanCleanLogsInfo(t *testing.T) {
	log, logs := observed()
	src := &fakeSource{report: &reports.IntegrityReport{Summary: reports.IntegritySummary{ByKind: ledger.Summary(nil)}}}

	NewAuditor(src, time.Hour, log).Scan(context.Background())

	assert.Equal(t, 1, logs.FilterMessage("integrity scan clean").Len())
}

func TestAuditor_ScanLogsFailure(t *testing.T) {
	log, logs := observed()
	src := &fakeSource{err: errors.New("db down")}

	assert.Nil(t, NewAuditor(src, time.Hour, log).Scan(context.Background()))
	assert.Equal(t, 1, logs.FilterMessage("integrity scan failed").Len())
}

func TestAuditor_RunScansImmediatelyAndStops(t *testing.T) {
	log, _ := observed()
	src := &fakeSource{report: &reports.IntegrityReport{Summary: reports.IntegritySummary{ByKind: ledger.Summary(nil)}}}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewAuditor(src, time.Millisecond, log).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return src.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("auditor did not stop")
	}
}
