package events

import (
	"context"

	"go.uber.org/zap"

	"blockpoints-bridge/internal/domain/entity"
	domainService "blockpoints-bridge/internal/domain/service"
)

// Compile-time check
var _ domainService.EventPublisher = (*ZapPublisher)(nil)

// ZapPublisher writes each event as a structured log line.
type ZapPublisher struct {
	logger *zap.Logger
}

func NewZapPublisher(logger *zap.Logger) *ZapPublisher {
	return &ZapPublisher{logger: logger.Named("TransferEvents")}
}

func (p *ZapPublisher) Publish(_ context.Context, e entity.TransferEvent) error {
	fields := []zap.Field{
		zap.Uint64("sequence", e.Sequence),
		zap.String("type", string(e.Type)),
		zap.String("transferId", e.TransferID),
		zap.String("userId", e.UserID),
		zap.String("targetChain", e.TargetChain),
		zap.String("status", string(e.Status)),
		zap.Int("confirmations", e.Confirmations),
		zap.Time("occurredAt", e.OccurredAt),
	}
	if e.TransactionHash != "" {
		fields = append(fields, zap.String("transactionHash", e.TransactionHash))
	}
	if e.Error != "" {
		fields = append(fields, zap.String("error", e.Error))
	}
	p.logger.Info("Transfer event", fields...)
	return nil
}
