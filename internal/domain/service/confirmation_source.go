package service

import (
	"context"

	"blockpoints-bridge/internal/domain/entity"
)

// ConfirmationSource produces confirmation n (1-based) for a processing transfer.
// An error marks the transfer failed.
type ConfirmationSource interface {
	Confirm(ctx context.Context, t entity.Transfer, n int) error
}
