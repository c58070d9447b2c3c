package application

import (
	"context"
	"fmt"

	"github.com/axiomhq/hyperloglog"
	"github.com/shopspring/decimal"

	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/domain/entity"
)

// GetBridgeStats walks the ledger once. Nothing is cached.
func (s *bridgeService) GetBridgeStats(ctx context.Context) (port.BridgeStats, error) {
	records, err := s.transfers.All(ctx)
	if err != nil {
		return port.BridgeStats{}, fmt.Errorf("failed to read ledger for stats: %w", err)
	}
	chains, err := s.chains.List(ctx)
	if err != nil {
		return port.BridgeStats{}, fmt.Errorf("failed to list chains for stats: %w", err)
	}

	s.policyMu.RLock()
	current := s.policy
	uncollected := s.accruedFees
	collected := s.feesCollected
	s.policyMu.RUnlock()

	stats := port.BridgeStats{
		TotalAmount:       decimal.Zero,
		TotalFees:         decimal.Zero,
		UncollectedFees:   uncollected,
		FeesCollected:     collected,
		FeeRate:           current.FeeRate,
		SupportedChains:   len(chains),
		PerChainBreakdown: make(map[string]port.ChainStats, len(chains)),
		Paused:            current.Paused,
	}
	for _, c := range chains {
		stats.PerChainBreakdown[c.Key] = port.ChainStats{TotalAmount: decimal.Zero}
	}
	senders := hyperloglog.New14()

	for _, t := range records {
		stats.TotalTransfers++
		stats.TotalAmount = stats.TotalAmount.Add(t.Amount)
		stats.TotalFees = stats.TotalFees.Add(t.BridgeFee)
		senders.Insert([]byte(t.UserID))

		cs, ok := stats.PerChainBreakdown[t.TargetChain]
		if !ok {
			cs.TotalAmount = decimal.Zero
		}
		cs.TotalTransfers++
		cs.TotalAmount = cs.TotalAmount.Add(t.Amount)

		switch t.Status {
		case entity.StatusCompleted:
			stats.SuccessfulTransfers++
			cs.Successful++
		case entity.StatusFailed:
			stats.FailedTransfers++
			cs.Failed++
		case entity.StatusCancelled:
			stats.CancelledTransfers++
		case entity.StatusPending:
			stats.PendingTransfers++
		case entity.StatusProcessing:
			stats.ProcessingTransfers++
		}
		stats.PerChainBreakdown[t.TargetChain] = cs
	}
	stats.UniqueSenders = senders.Estimate()

	return stats, nil
}
