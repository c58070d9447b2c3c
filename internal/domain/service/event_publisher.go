package service

import (
	"context"

	"blockpoints-bridge/internal/domain/entity"
)

// EventPublisher receives lifecycle events. The bridge writes to it and never
// reads back; publish errors do not affect transfer state.
type EventPublisher interface {
	Publish(ctx context.Context, event entity.TransferEvent) error
}
