package port

import (
	"context"

	"github.com/shopspring/decimal"

	"blockpoints-bridge/internal/domain/entity"
	"blockpoints-bridge/internal/domain/policy"
)

// InitiateTransferRequest carries the caller's transfer parameters.
type InitiateTransferRequest struct {
	UserID           string          `json:"userId"`
	NFTID            string          `json:"nftId"`
	TargetChain      string          `json:"targetChain"`
	Amount           decimal.Decimal `json:"amount"`
	RecipientAddress string          `json:"recipientAddress,omitempty"`

	// IdempotencyKey, when set, makes repeated initiations return the first transfer.
	IdempotencyKey string `json:"-"`
}

// InitiateTransferResult is returned as soon as the transfer is recorded.
type InitiateTransferResult struct {
	TransferID       string                `json:"transferId"`
	Status           entity.TransferStatus `json:"status"`
	BridgeFee        decimal.Decimal       `json:"bridgeFee"`
	EstimatedMinutes int64                 `json:"estimatedMinutes"`
	Replayed         bool                  `json:"replayed,omitempty"`
}

type CancelTransferResult struct {
	TransferID string                `json:"transferId"`
	Status     entity.TransferStatus `json:"status"`
}

// TransferList is a filtered listing with totals over exactly the listed records.
type TransferList struct {
	Transfers   []entity.Transfer `json:"transfers"`
	TotalCount  int               `json:"totalCount"`
	TotalAmount decimal.Decimal   `json:"totalAmount"`
}

// ChainStats is the per-chain part of BridgeStats.
type ChainStats struct {
	TotalTransfers int             `json:"totalTransfers"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	Successful     int             `json:"successful"`
	Failed         int             `json:"failed"`
}

// BridgeStats aggregates the ledger and policy at the moment of the call.
type BridgeStats struct {
	TotalTransfers      int                   `json:"totalTransfers"`
	SuccessfulTransfers int                   `json:"successfulTransfers"`
	FailedTransfers     int                   `json:"failedTransfers"`
	CancelledTransfers  int                   `json:"cancelledTransfers"`
	PendingTransfers    int                   `json:"pendingTransfers"`
	ProcessingTransfers int                   `json:"processingTransfers"`
	TotalAmount         decimal.Decimal       `json:"totalAmount"`
	TotalFees           decimal.Decimal       `json:"totalFees"`
	UncollectedFees     decimal.Decimal       `json:"uncollectedFees"`
	FeesCollected       decimal.Decimal       `json:"feesCollected"`
	FeeRate             decimal.Decimal       `json:"feeRate"`
	UniqueSenders       uint64                `json:"uniqueSenders"`
	SupportedChains     int                   `json:"supportedChains"`
	PerChainBreakdown   map[string]ChainStats `json:"perChainBreakdown"`
	Paused              bool                  `json:"paused"`
}

// FeeCollection reports the outcome of CollectBridgeFees.
type FeeCollection struct {
	Collected     decimal.Decimal `json:"collected"`
	FeesCollected decimal.Decimal `json:"feesCollected"`
}

// BridgeService is the control surface of the transfer bridge.
type BridgeService interface {
	// InitiateTransfer validates and records a new transfer and schedules its
	// promotion to processing. It never blocks on confirmation.
	InitiateTransfer(ctx context.Context, req InitiateTransferRequest) (InitiateTransferResult, error)

	// CancelTransfer cancels a pending transfer on behalf of its owner.
	CancelTransfer(ctx context.Context, transferID, userID string) (CancelTransferResult, error)

	GetTransferDetails(ctx context.Context, transferID string) (entity.Transfer, error)
	GetUserTransfers(ctx context.Context, userID string, filter entity.TransferFilter) (TransferList, error)
	GetChainTransfers(ctx context.Context, chainKey string, filter entity.TransferFilter) (TransferList, error)

	// GetBridgeStats recomputes statistics from the ledger in a single pass.
	GetBridgeStats(ctx context.Context) (BridgeStats, error)

	ListChains(ctx context.Context) ([]entity.ChainConfig, error)
	GetPolicy(ctx context.Context) (policy.Policy, error)

	// Admin operations. Each fails with domain.ErrNotAdmin for other callers.
	PauseBridge(ctx context.Context, caller string) error
	UnpauseBridge(ctx context.Context, caller string) error
	UpdateBridgeFee(ctx context.Context, caller string, rate decimal.Decimal) error
	UpdateTransferLimits(ctx context.Context, caller string, min, max decimal.Decimal) error
	AddSupportedChain(ctx context.Context, caller string, chain entity.ChainConfig) error
	CollectBridgeFees(ctx context.Context, caller string) (FeeCollection, error)
	ForceFailTransfer(ctx context.Context, caller, transferID, reason string) (entity.Transfer, error)

	// Shutdown disarms every pending timer. No transfer advances afterwards.
	Shutdown()
}
