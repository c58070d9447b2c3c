package application

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/application/port"
	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/domain/policy"
)

func (s *bridgeService) requireAdmin(caller string) error {
	if !s.authorizer.IsAdmin(caller) {
		s.logger.Warn("Rejected admin operation", zap.String("caller", caller))
		return fmt.Errorf("%w: caller %q", domain.ErrNotAdmin, caller)
	}
	return nil
}

func (s *bridgeService) PauseBridge(_ context.Context, caller string) error {
	return s.setPaused(caller, true)
}

func (s *bridgeService) UnpauseBridge(_ context.Context, caller string) error {
	return s.setPaused(caller, false)
}

func (s *bridgeService) setPaused(caller string, paused bool) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	s.policyMu.Lock()
	s.policy.Paused = paused
	s.policyMu.Unlock()

	s.logger.Info("Bridge pause state changed", zap.Bool("paused", paused), zap.String("caller", caller))
	return nil
}

// UpdateBridgeFee sets the fee rate for future transfers. Existing fees are unchanged.
func (s *bridgeService) UpdateBridgeFee(_ context.Context, caller string, rate decimal.Decimal) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := policy.ValidateFeeRate(rate); err != nil {
		return err
	}

	s.policyMu.Lock()
	old := s.policy.FeeRate
	s.policy.FeeRate = rate
	s.policyMu.Unlock()

	s.logger.Info("Bridge fee rate updated",
		zap.String("old", old.String()), zap.String("new", rate.String()), zap.String("caller", caller))
	return nil
}

func (s *bridgeService) UpdateTransferLimits(_ context.Context, caller string, min, max decimal.Decimal) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := policy.ValidateLimits(min, max); err != nil {
		return err
	}

	s.policyMu.Lock()
	s.policy.MinAmount = min
	s.policy.MaxAmount = max
	s.policyMu.Unlock()

	s.logger.Info("Transfer limits updated",
		zap.String("min", min.String()), zap.String("max", max.String()), zap.String("caller", caller))
	return nil
}

// AddSupportedChain registers a new target chain.
func (s *bridgeService) AddSupportedChain(ctx context.Context, caller string, chain entity.ChainConfig) error {
	if err := s.requireAdmin(caller); err != nil {
		return err
	}
	if err := s.chains.Add(ctx, chain); err != nil {
		return err
	}
	s.logger.Info("Supported chain added",
		zap.String("key", chain.Key), zap.Int64("chainId", chain.ChainID), zap.String("caller", caller))
	return nil
}

// CollectBridgeFees zeroes the accrued fee total and returns what was collected.
// Accrual in InitiateTransfer holds the same lock, so no fee is lost or counted twice.
func (s *bridgeService) CollectBridgeFees(_ context.Context, caller string) (port.FeeCollection, error) {
	if err := s.requireAdmin(caller); err != nil {
		return port.FeeCollection{}, err
	}

	s.policyMu.Lock()
	collected := s.accruedFees
	s.accruedFees = decimal.Zero
	s.feesCollected = s.feesCollected.Add(collected)
	total := s.feesCollected
	s.policyMu.Unlock()

	s.logger.Info("Bridge fees collected",
		zap.String("collected", collected.String()),
		zap.String("feesCollected", total.String()),
		zap.String("caller", caller),
	)
	return port.FeeCollection{Collected: collected, FeesCollected: total}, nil
}
