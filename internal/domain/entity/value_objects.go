package entity

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// NewChainKey normalizes a registry key: trimmed, lower-case, [a-z0-9_-] only.
func NewChainKey(raw string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return "", fmt.Errorf("chain key cannot be empty")
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return "", fmt.Errorf("chain key '%s' contains unsupported character %q", raw, r)
		}
	}
	return key, nil
}

// NewBridgeAddress validates a 20-byte hex contract address with 0x prefix.
func NewBridgeAddress(raw string) (string, error) {
	addr := strings.TrimSpace(raw)
	if !strings.HasPrefix(addr, "0x") && !strings.HasPrefix(addr, "0X") {
		return "", fmt.Errorf("bridge address '%s' must start with 0x", raw)
	}
	body := addr[2:]
	if len(body) != 40 {
		return "", fmt.Errorf("bridge address '%s' must have 40 hex characters, got %d", raw, len(body))
	}
	if _, err := hex.DecodeString(body); err != nil {
		return "", fmt.Errorf("bridge address '%s' is not valid hex: %w", raw, err)
	}
	return addr, nil
}
