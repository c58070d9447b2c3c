package repository

import (
	"context"

	"blockpoints-bridge/internal/domain/entity"
)

// UpdateFunc receives the current record and returns its replacement.
// Returning an error aborts the update and leaves the record unchanged.
type UpdateFunc func(current entity.Transfer) (entity.Transfer, error)

// TransferRepository is the authoritative ledger of transfer records.
type TransferRepository interface {
	// Insert stores a new record and registers it in the user and chain indices.
	Insert(ctx context.Context, t entity.Transfer) error

	// Get returns a copy of the record, or domain.ErrTransferNotFound.
	Get(ctx context.Context, transferID string) (entity.Transfer, error)

	// Update applies fn to the record and stores the result as a single replace.
	Update(ctx context.Context, transferID string, fn UpdateFunc) (entity.Transfer, error)

	// ListByUser returns the user's records in creation order.
	ListByUser(ctx context.Context, userID string) ([]entity.Transfer, error)

	// ListByChain returns the chain's records in creation order.
	ListByChain(ctx context.Context, chainKey string) ([]entity.Transfer, error)

	// All returns every record in creation order.
	All(ctx context.Context) ([]entity.Transfer, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)
}

// IdempotencyRepository remembers the transfer created for a client-supplied key.
type IdempotencyRepository interface {
	GetTransferID(ctx context.Context, key string) (string, bool, error)
	SetTransferID(ctx context.Context, key, transferID string) error
}
