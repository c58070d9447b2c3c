package confirm

import (
	"context"
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.ConfirmationSource = (*Simulator)(nil)

// Simulator stands in for a target-chain watcher. Each confirmation fails with
// probability faultRate to model network faults.
type Simulator struct {
	faultRate float64
	roll      func() float64
	logger    *zap.Logger
}

// NewSimulator creates a simulator. faultRate is clamped to [0, 1].
func NewSimulator(faultRate float64, logger *zap.Logger) *Simulator {
	if faultRate < 0 {
		faultRate = 0
	}
	if faultRate > 1 {
		faultRate = 1
	}
	return &Simulator{
		faultRate: faultRate,
		roll:      rand.Float64,
		logger:    logger.Named("ConfirmationSimulator"),
	}
}

// Confirm returns nil unless the context is done or the fault roll hits.
func (s *Simulator) Confirm(ctx context.Context, t entity.Transfer, n int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: confirmation %d for %s aborted: %v", domain.ErrConfirmationFault, n, t.TransferID, err)
	}
	if s.faultRate > 0 && s.roll() < s.faultRate {
		s.logger.Debug("Simulated confirmation fault",
			zap.String("transferId", t.TransferID),
			zap.String("targetChain", t.TargetChain),
			zap.Int("confirmation", n),
		)
		return fmt.Errorf("%w: simulated network fault on %s at confirmation %d",
			domain.ErrConfirmationFault, t.TargetChain, n,
		)
	}
	return nil
}
