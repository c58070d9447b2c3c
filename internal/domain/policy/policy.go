// Package policy holds the pure fee and limit rules of the bridge.
package policy

import (
	"fmt"

	"github.com/shopspring/decimal"

	"blockpoints-bridge/internal/domain"
)

// MaxFeeRate is the highest fee fraction an admin may configure.
var MaxFeeRate = decimal.RequireFromString("0.10")

// Policy is a snapshot of the mutable bridge policy used for evaluation.
type Policy struct {
	FeeRate   decimal.Decimal `json:"feeRate"`
	MinAmount decimal.Decimal `json:"minAmount"`
	MaxAmount decimal.Decimal `json:"maxAmount"`
	Paused    bool            `json:"paused"`
}

// Validate checks a proposed transfer against p. Checks run in a fixed order:
// paused, unsupported chain, below minimum, above maximum.
func Validate(p Policy, chainKnown bool, amount decimal.Decimal) error {
	if p.Paused {
		return domain.ErrBridgePaused
	}
	if !chainKnown {
		return domain.ErrUnsupportedChain
	}
	if amount.LessThan(p.MinAmount) {
		return fmt.Errorf("%w: amount %s must be at least %s", domain.ErrAmountTooLow, amount, p.MinAmount)
	}
	if amount.GreaterThan(p.MaxAmount) {
		return fmt.Errorf("%w: amount %s cannot exceed %s", domain.ErrAmountTooHigh, amount, p.MaxAmount)
	}
	return nil
}

// ComputeFee returns ceil(amount * feeRate).
func ComputeFee(p Policy, amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(p.FeeRate).Ceil()
}

// ValidateFeeRate accepts rates in [0, MaxFeeRate].
func ValidateFeeRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(MaxFeeRate) {
		return fmt.Errorf("%w: fee rate %s must be between 0 and %s", domain.ErrInvalidPolicy, rate, MaxFeeRate)
	}
	return nil
}

// ValidateLimits requires min > 0 and max > min.
func ValidateLimits(min, max decimal.Decimal) error {
	if !min.IsPositive() {
		return fmt.Errorf("%w: minimum amount %s must be positive", domain.ErrInvalidPolicy, min)
	}
	if !max.GreaterThan(min) {
		return fmt.Errorf("%w: maximum amount %s must be greater than minimum %s", domain.ErrInvalidPolicy, max, min)
	}
	return nil
}
