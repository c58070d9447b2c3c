package chainfile

import (
	"go.uber.org/zap"

	dto "blockpoints-bridge/internal/adapter/storage/chainfile/dto"
	"blockpoints-bridge/internal/domain/entity"
)

// toDomainChains converts raw catalog entries to chain configs, skipping
// entries that fail validation.
func toDomainChains(rawChains []dto.ChainRaw, logger *zap.Logger) []entity.ChainConfig {
	if rawChains == nil {
		return nil
	}
	domainChains := make([]entity.ChainConfig, 0, len(rawChains))
	for _, raw := range rawChains {
		key, err := entity.NewChainKey(raw.ID)
		if err != nil {
			logger.Warn("Skipping chain with invalid id during mapping",
				zap.String("rawId", raw.ID), zap.Int64("chainId", raw.ChainID), zap.Error(err))
			continue
		}

		chain := entity.ChainConfig{
			Key:           key,
			Name:          raw.Name,
			ChainID:       raw.ChainID,
			GasLimit:      raw.GasLimit,
			Confirmations: raw.Confirmations,
			BridgeAddress: raw.BridgeAddress,
		}
		if err := chain.Validate(); err != nil {
			logger.Warn("Skipping invalid chain during mapping", zap.String("key", key), zap.Error(err))
			continue
		}
		domainChains = append(domainChains, chain)
	}
	return domainChains
}
