package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"blockpoints-bridge/internal/domain"
	"blockpoints-bridge/internal/domain/entity"
	domainRepo "blockpoints-bridge/internal/domain/repository"
)

// Compile-time check
var _ domainRepo.ChainRegistry = (*ChainRegistry)(nil)

// ChainRegistry is an additive in-memory chain catalog.
type ChainRegistry struct {
	mu     sync.RWMutex
	chains map[string]entity.ChainConfig
	logger *zap.Logger
}

// NewChainRegistry builds a registry seeded with the given chains.
// Invalid or duplicate seeds are rejected.
func NewChainRegistry(seed []entity.ChainConfig, logger *zap.Logger) (*ChainRegistry, error) {
	r := &ChainRegistry{
		chains: make(map[string]entity.ChainConfig, len(seed)),
		logger: logger.Named("MemoryChainRegistry"),
	}
	for _, c := range seed {
		if err := r.Add(context.Background(), c); err != nil {
			return nil, fmt.Errorf("seeding chain registry: %w", err)
		}
	}
	r.logger.Info("Chain registry initialized", zap.Int("chainCount", len(r.chains)))
	return r, nil
}

// Get returns the chain registered under key.
func (r *ChainRegistry) Get(_ context.Context, key string) (entity.ChainConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.chains[key]
	if !ok {
		return entity.ChainConfig{}, fmt.Errorf("%w: %s", domain.ErrChainNotFound, key)
	}
	return c, nil
}

// List returns all chains sorted by key.
func (r *ChainRegistry) List(_ context.Context) ([]entity.ChainConfig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.ChainConfig, 0, len(r.chains))
	for _, c := range r.chains {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Add registers chain after validating it.
func (r *ChainRegistry) Add(_ context.Context, chain entity.ChainConfig) error {
	key, err := entity.NewChainKey(chain.Key)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}
	chain.Key = key
	if err := chain.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidConfig, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.chains[key]; exists {
		return fmt.Errorf("%w: %s", domain.ErrChainExists, key)
	}
	r.chains[key] = chain
	r.logger.Debug("Chain registered", zap.String("key", key), zap.Int64("chainId", chain.ChainID))
	return nil
}
