// Package jobs holds cron-driven background tasks.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/application/port"
)

// StatsSource produces bridge statistics.
type StatsSource interface {
	GetBridgeStats(ctx context.Context) (port.BridgeStats, error)
}

// StatsSnapshot periodically logs a summary of the bridge statistics.
type StatsSnapshot struct {
	cron    *cron.Cron
	source  StatsSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewStatsSnapshot schedules the snapshot on spec (standard five-field cron or
// descriptors such as "@every 1m"). Call Start to begin.
func NewStatsSnapshot(spec string, source StatsSource, logger *zap.Logger) (*StatsSnapshot, error) {
	j := &StatsSnapshot{
		cron:    cron.New(),
		source:  source,
		timeout: 10 * time.Second,
		logger:  logger.Named("StatsSnapshotJob"),
	}
	if _, err := j.cron.AddFunc(spec, func() { j.Run(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid stats snapshot schedule %q: %w", spec, err)
	}
	return j, nil
}

func (j *StatsSnapshot) Start() {
	j.cron.Start()
	j.logger.Info("Stats snapshot job started", zap.Int("entries", len(j.cron.Entries())))
}

// Stop halts scheduling and waits for a running snapshot to finish or ctx to end.
func (j *StatsSnapshot) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
		j.logger.Info("Stats snapshot job stopped")
	case <-ctx.Done():
		j.logger.Warn("Stats snapshot job stop timed out", zap.Error(ctx.Err()))
	}
}

// Run takes one snapshot.
func (j *StatsSnapshot) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	stats, err := j.source.GetBridgeStats(ctx)
	if err != nil {
		j.logger.Error("Failed to compute bridge stats snapshot", zap.Error(err))
		return
	}
	j.logger.Info("Bridge stats snapshot",
		zap.Int("totalTransfers", stats.TotalTransfers),
		zap.Int("successfulTransfers", stats.SuccessfulTransfers),
		zap.Int("failedTransfers", stats.FailedTransfers),
		zap.Int("cancelledTransfers", stats.CancelledTransfers),
		zap.Int("pendingTransfers", stats.PendingTransfers),
		zap.Int("processingTransfers", stats.ProcessingTransfers),
		zap.String("totalAmount", stats.TotalAmount.String()),
		zap.String("uncollectedFees", stats.UncollectedFees.String()),
		zap.Uint64("uniqueSenders", stats.UniqueSenders),
		zap.Bool("paused", stats.Paused),
	)
}
