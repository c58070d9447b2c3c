package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"blockpoints-bridge/internal/config"
	domainRepo "blockpoints-bridge/internal/domain/repository"
)

// Compile-time check
var _ domainRepo.IdempotencyRepository = (*IdempotencyRepository)(nil)

const idempotencyKeyPrefix = "idem_initiate_"

// IdempotencyRepository maps client idempotency keys to transfer ids using go-cache.
type IdempotencyRepository struct {
	cache  *cache.Cache
	logger *zap.Logger
	ttl    time.Duration
}

// NewIdempotencyRepository creates a go-cache backed key store.
func NewIdempotencyRepository(cfg config.IdempotencyConfig, logger *zap.Logger) *IdempotencyRepository {
	ttl := cfg.GetTTL()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(ttl, cleanupInterval)
	logger.Info(
		"Initialized go-cache for idempotency keys",
		zap.Duration("ttl", ttl),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	return &IdempotencyRepository{
		cache:  c,
		logger: logger.Named("MemoryIdempotencyStorage"),
		ttl:    ttl,
	}
}

// GetTransferID returns the transfer id stored for key, if any.
func (r *IdempotencyRepository) GetTransferID(_ context.Context, key string) (string, bool, error) {
	cacheKey := idempotencyKeyPrefix + key
	if x, found := r.cache.Get(cacheKey); found {
		if id, ok := x.(string); ok {
			r.logger.Debug("Idempotency key hit", zap.String("key", key))
			return id, true, nil
		}
		r.logger.Warn(
			"Idempotency cache data type mismatch for key",
			zap.String("key", key), zap.Any("type", fmt.Sprintf("%T", x)),
		)
	}
	return "", false, nil
}

// SetTransferID stores transferID under key for the configured TTL.
func (r *IdempotencyRepository) SetTransferID(_ context.Context, key, transferID string) error {
	if key == "" {
		return fmt.Errorf("idempotency key cannot be empty")
	}
	r.cache.Set(idempotencyKeyPrefix+key, transferID, r.ttl)
	r.logger.Debug("Idempotency key stored", zap.String("key", key), zap.String("transferId", transferID))
	return nil
}
