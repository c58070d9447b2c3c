package entity

import (
	"fmt"
	"strings"
)

// ChainConfig describes a target chain the bridge can send transfers to.
// Registry-owned and never mutated after registration.
type ChainConfig struct {
	Key           string `json:"id"`
	Name          string `json:"name"`
	ChainID       int64  `json:"chainId"`
	GasLimit      uint64 `json:"gasLimit"`
	Confirmations int    `json:"confirmations"`
	BridgeAddress string `json:"bridgeAddress,omitempty"`
}

// Validate checks the fields a chain needs before it can be registered.
func (c ChainConfig) Validate() error {
	if _, err := NewChainKey(c.Key); err != nil {
		return err
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("chain %q: name is required", c.Key)
	}
	if c.ChainID == 0 {
		return fmt.Errorf("chain %q: numeric chain id is required", c.Key)
	}
	if c.Confirmations <= 0 {
		return fmt.Errorf("chain %q: confirmations must be positive, got %d", c.Key, c.Confirmations)
	}
	if c.BridgeAddress != "" {
		if _, err := NewBridgeAddress(c.BridgeAddress); err != nil {
			return fmt.Errorf("chain %q: %w", c.Key, err)
		}
	}
	return nil
}

// DefaultChains returns the built-in catalog used when no chain source is configured.
func DefaultChains() []ChainConfig {
	return []ChainConfig{
		{
			Key:           "ethereum",
			Name:          "Ethereum",
			ChainID:       1,
			GasLimit:      300000,
			Confirmations: 12,
			BridgeAddress: "0x1234567890123456789012345678901234567890",
		},
		{
			Key:           "polygon",
			Name:          "Polygon",
			ChainID:       137,
			GasLimit:      500000,
			Confirmations: 256,
			BridgeAddress: "0x0987654321098765432109876543210987654321",
		},
		{
			Key:           "binance",
			Name:          "Binance Smart Chain",
			ChainID:       56,
			GasLimit:      400000,
			Confirmations: 15,
			BridgeAddress: "0xabcdef1234567890abcdef1234567890abcdef12",
		},
		{
			Key:           "arbitrum",
			Name:          "Arbitrum One",
			ChainID:       42161,
			GasLimit:      350000,
			Confirmations: 10,
			BridgeAddress: "0x3456789012345678901234567890123456789012",
		},
	}
}
