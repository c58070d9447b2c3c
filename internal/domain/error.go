package domain

import (
	"fmt"

	"blockpoints-bridge/internal/pkg/apperrors"
)

// Each domain error wraps exactly one apperrors category so callers can branch
// on either the specific variant or the broad class.
var (
	// ErrMissingField means a required request field was empty.
	ErrMissingField = fmt.Errorf("%w: required field missing", apperrors.ErrInvalidInput)

	// ErrUnsupportedChain means the target chain is not in the registry.
	ErrUnsupportedChain = fmt.Errorf("%w: unsupported target chain", apperrors.ErrInvalidInput)

	// ErrAmountTooLow means the transfer amount is below the policy minimum.
	ErrAmountTooLow = fmt.Errorf("%w: amount below minimum", apperrors.ErrInvalidInput)

	// ErrAmountTooHigh means the transfer amount exceeds the policy maximum.
	ErrAmountTooHigh = fmt.Errorf("%w: amount above maximum", apperrors.ErrInvalidInput)

	// ErrInvalidConfig means a chain configuration is incomplete or malformed.
	ErrInvalidConfig = fmt.Errorf("%w: chain configuration is incomplete", apperrors.ErrInvalidInput)

	// ErrInvalidPolicy means a fee rate or limit update is out of range.
	ErrInvalidPolicy = fmt.Errorf("%w: policy value out of range", apperrors.ErrInvalidInput)

	// ErrNotAdmin means the caller is not in the admin set.
	ErrNotAdmin = fmt.Errorf("%w: admin access required", apperrors.ErrUnauthorized)

	// ErrNotOwner means the caller does not own the transfer.
	ErrNotOwner = fmt.Errorf("%w: only the transfer owner may do this", apperrors.ErrForbidden)

	// ErrTransferNotFound means no transfer exists with the given id.
	ErrTransferNotFound = fmt.Errorf("%w: transfer not found", apperrors.ErrNotFound)

	// ErrChainNotFound means no chain exists with the given key.
	ErrChainNotFound = fmt.Errorf("%w: chain not found", apperrors.ErrNotFound)

	// ErrInvalidState means the operation is not legal in the transfer's current status.
	ErrInvalidState = fmt.Errorf("%w: operation not allowed in current state", apperrors.ErrConflict)

	// ErrChainExists means a chain with the same key is already registered.
	ErrChainExists = fmt.Errorf("%w: chain already registered", apperrors.ErrConflict)

	// ErrBridgePaused means mutations are rejected while the bridge is paused.
	ErrBridgePaused = fmt.Errorf("%w: bridge is paused", apperrors.ErrUnavailable)

	// ErrConfirmationFault means the simulated confirmation step failed.
	ErrConfirmationFault = fmt.Errorf("%w: confirmation fault", apperrors.ErrInternal)
)
