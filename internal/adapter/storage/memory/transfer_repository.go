package memory

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	domainRepo "blockpoints-bridge/internal/domain/repository"
)

// Compile-time check
var _ domainRepo.TransferRepository = (*TransferRepository)(nil)

// TransferRepository keeps the ledger in process memory. The primary map and
// both secondary indices are guarded by one lock so an insert is visible in
// all three at once.
type TransferRepository struct {
	mu        sync.RWMutex
	transfers map[string]entity.Transfer
	order     []string
	byUser    map[string][]string
	byChain   map[string][]string
	logger    *zap.Logger
}

// NewTransferRepository creates an empty in-memory ledger.
func NewTransferRepository(logger *zap.Logger) *TransferRepository {
	return &TransferRepository{
		transfers: make(map[string]entity.Transfer),
		byUser:    make(map[string][]string),
		byChain:   make(map[string][]string),
		logger:    logger.Named("MemoryTransferStorage"),
	}
}

// Insert stores t and appends its id to the user and chain indices.
func (r *TransferRepository) Insert(_ context.Context, t entity.Transfer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.transfers[t.TransferID]; exists {
		return fmt.Errorf("%w: transfer %s already stored", domain.ErrInvalidState, t.TransferID)
	}
	r.transfers[t.TransferID] = t
	r.order = append(r.order, t.TransferID)
	r.byUser[t.UserID] = append(r.byUser[t.UserID], t.TransferID)
	r.byChain[t.TargetChain] = append(r.byChain[t.TargetChain], t.TransferID)

	r.logger.Debug("Transfer stored",
		zap.String("transferId", t.TransferID),
		zap.String("userId", t.UserID),
		zap.String("targetChain", t.TargetChain),
	)
	return nil
}

// Get returns a copy of the stored record.
func (r *TransferRepository) Get(_ context.Context, transferID string) (entity.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.transfers[transferID]
	if !ok {
		return entity.Transfer{}, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, transferID)
	}
	return t, nil
}

// Update runs fn under the write lock and replaces the record with its result.
func (r *TransferRepository) Update(
	_ context.Context,
	transferID string,
	fn domainRepo.UpdateFunc,
) (entity.Transfer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.transfers[transferID]
	if !ok {
		return entity.Transfer{}, fmt.Errorf("%w: %s", domain.ErrTransferNotFound, transferID)
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if next.TransferID != current.TransferID || next.UserID != current.UserID || next.TargetChain != current.TargetChain {
		return current, fmt.Errorf("%w: indexed fields of %s are immutable", domain.ErrInvalidState, transferID)
	}
	r.transfers[transferID] = next
	return next, nil
}

// ListByUser returns the user's transfers in creation order.
func (r *TransferRepository) ListByUser(_ context.Context, userID string) ([]entity.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byUser[userID]), nil
}

// ListByChain returns the chain's transfers in creation order.
func (r *TransferRepository) ListByChain(_ context.Context, chainKey string) ([]entity.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.byChain[chainKey]), nil
}

// All returns every transfer in creation order.
func (r *TransferRepository) All(_ context.Context) ([]entity.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.order), nil
}

// Count returns the ledger size.
func (r *TransferRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.transfers), nil
}

// collect resolves ids to record copies. Caller holds the read lock.
func (r *TransferRepository) collect(ids []string) []entity.Transfer {
	out := make([]entity.Transfer, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.transfers[id]; ok {
			out = append(out, t)
		}
	}
	return out
}
