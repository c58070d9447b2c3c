package repository

import (
	"context"

	"blockpoints-bridge/internal/domain/entity"
)

// ChainRegistry defines access to the catalog of supported target chains.
type ChainRegistry interface {
	// Get returns the chain registered under key, or domain.ErrChainNotFound.
	Get(ctx context.Context, key string) (entity.ChainConfig, error)

	// List returns every registered chain ordered by key.
	List(ctx context.Context) ([]entity.ChainConfig, error)

	// Add registers a new chain. Registration is additive only; an existing key
	// yields domain.ErrChainExists.
	Add(ctx context.Context, chain entity.ChainConfig) error
}

// ChainSource loads the initial chain catalog from an external location.
type ChainSource interface {
	LoadChains(ctx context.Context) ([]entity.ChainConfig, error)
}
