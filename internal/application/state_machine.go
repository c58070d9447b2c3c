package application

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/sha3"

	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
)

// errStale marks a timer callback that found the transfer no longer in the
// state it was scheduled for. The callback becomes a no-op.
var errStale = errors.New("stale transition")

const defaultFailureReason = "marked failed by administrator"

// arm replaces the transfer's timer with a new one. Nothing is armed after Shutdown.
func (s *bridgeService) arm(transferID string, d time.Duration, f func()) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if s.stopped {
		return
	}
	if old, ok := s.timers[transferID]; ok {
		old.Stop()
	}
	s.timers[transferID] = s.scheduler.AfterFunc(d, f)
}

// disarm stops and forgets the transfer's timer, if any.
func (s *bridgeService) disarm(transferID string) {
	s.timersMu.Lock()
	defer s.timersMu.Unlock()

	if t, ok := s.timers[transferID]; ok {
		t.Stop()
		delete(s.timers, transferID)
	}
}

// promote moves a pending transfer to processing and arms the first confirmation tick.
func (s *bridgeService) promote(transferID string) {
	ctx := context.Background()
	updated, err := s.transfers.Update(ctx, transferID, func(cur entity.Transfer) (entity.Transfer, error) {
		if !entity.CanTransition(cur.Status, entity.StatusProcessing) {
			return cur, fmt.Errorf("%w: promote from %s", errStale, cur.Status)
		}
		cur.Status = entity.StatusProcessing
		cur.UpdatedAt = s.scheduler.Now()
		return cur, nil
	})
	if err != nil {
		s.logger.Debug("Promotion skipped", zap.String("transferId", transferID), zap.Error(err))
		s.disarm(transferID)
		return
	}

	s.logger.Info("Transfer processing",
		zap.String("transferId", transferID),
		zap.String("targetChain", updated.TargetChain),
		zap.Int("requiredConfirmations", updated.RequiredConfirmations),
	)
	s.arm(transferID, s.confirmationInterval, func() { s.tick(transferID) })
}

// tick performs one confirmation step. The last step completes the transfer.
func (s *bridgeService) tick(transferID string) {
	ctx := context.Background()

	cur, err := s.transfers.Get(ctx, transferID)
	if err != nil || cur.Status != entity.StatusProcessing {
		s.logger.Debug("Confirmation tick skipped", zap.String("transferId", transferID), zap.Error(err))
		s.disarm(transferID)
		return
	}

	next := cur.Confirmations + 1
	if err := s.confirmer.Confirm(ctx, cur, next); err != nil {
		s.fail(ctx, transferID, err.Error())
		return
	}

	updated, err := s.transfers.Update(ctx, transferID, func(c entity.Transfer) (entity.Transfer, error) {
		if c.Status != entity.StatusProcessing || c.Confirmations != cur.Confirmations {
			return c, fmt.Errorf("%w: tick %d on %s at %d", errStale, next, c.Status, c.Confirmations)
		}
		now := s.scheduler.Now()
		c.Confirmations = next
		c.UpdatedAt = now
		if c.Confirmations >= c.RequiredConfirmations {
			c.Status = entity.StatusCompleted
			c.TransactionHash = transactionHash(c, now)
		}
		return c, nil
	})
	if err != nil {
		s.logger.Debug("Confirmation tick skipped", zap.String("transferId", transferID), zap.Error(err))
		s.disarm(transferID)
		return
	}

	s.logger.Debug("Confirmation recorded",
		zap.String("transferId", transferID),
		zap.Int("confirmations", updated.Confirmations),
		zap.Int("required", updated.RequiredConfirmations),
	)
	s.emit(entity.EventConfirmation, updated)

	if updated.Status == entity.StatusCompleted {
		s.disarm(transferID)
		s.logger.Info("Transfer completed",
			zap.String("transferId", transferID),
			zap.String("transactionHash", updated.TransactionHash),
		)
		s.emit(entity.EventCompleted, updated)
		return
	}
	s.arm(transferID, s.confirmationInterval, func() { s.tick(transferID) })
}

// fail moves a processing transfer to failed from inside the state machine.
func (s *bridgeService) fail(ctx context.Context, transferID, reason string) {
	updated, err := s.markFailed(ctx, transferID, reason)
	s.disarm(transferID)
	if err != nil {
		s.logger.Debug("Failure transition skipped", zap.String("transferId", transferID), zap.Error(err))
		return
	}
	s.logger.Info("Transfer failed", zap.String("transferId", transferID), zap.String("error", reason))
	s.emit(entity.EventFailed, updated)
}

func (s *bridgeService) markFailed(ctx context.Context, transferID, reason string) (entity.Transfer, error) {
	return s.transfers.Update(ctx, transferID, func(cur entity.Transfer) (entity.Transfer, error) {
		if !entity.CanTransition(cur.Status, entity.StatusFailed) {
			return cur, fmt.Errorf("%w: cannot fail transfer in status %s", domain.ErrInvalidState, cur.Status)
		}
		cur.Status = entity.StatusFailed
		cur.Error = reason
		cur.UpdatedAt = s.scheduler.Now()
		return cur, nil
	})
}

// ForceFailTransfer lets an admin fail a processing transfer, disarming its timer.
func (s *bridgeService) ForceFailTransfer(
	ctx context.Context,
	caller, transferID, reason string,
) (entity.Transfer, error) {
	if err := s.requireAdmin(caller); err != nil {
		return entity.Transfer{}, err
	}
	if transferID == "" {
		return entity.Transfer{}, fmt.Errorf("%w: transferId is required", domain.ErrMissingField)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultFailureReason
	}

	updated, err := s.markFailed(ctx, transferID, reason)
	if err != nil {
		return entity.Transfer{}, err
	}
	s.disarm(transferID)

	s.logger.Info("Transfer failed by admin",
		zap.String("transferId", transferID),
		zap.String("caller", caller),
		zap.String("error", reason),
	)
	s.emit(entity.EventFailed, updated)
	return updated, nil
}

// transactionHash derives a Keccak-256 hash from the transfer and completion time.
func transactionHash(t entity.Transfer, at time.Time) string {
	h := sha3.NewLegacyKeccak256()
	fmt.Fprintf(h, "%s|%s|%s|%s|%s|%s|%d",
		t.TransferID, t.UserID, t.NFTID, t.TargetChain, t.RecipientAddress, t.Amount.String(), at.UnixNano())
	return "0x" + hex.EncodeToString(h.Sum(nil))
}
