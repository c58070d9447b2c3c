package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferStatus is the lifecycle state of a transfer.
type TransferStatus string

const (
	StatusPending    TransferStatus = "pending"
	StatusProcessing TransferStatus = "processing"
	StatusCompleted  TransferStatus = "completed"
	StatusFailed     TransferStatus = "failed"
	StatusCancelled  TransferStatus = "cancelled"
)

// legalTransitions lists every edge of the lifecycle graph.
var legalTransitions = map[TransferStatus][]TransferStatus{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed},
}

// Valid reports whether s is one of the known statuses.
func (s TransferStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s TransferStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// CanTransition reports whether from -> to is a legal lifecycle edge.
func CanTransition(from, to TransferStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transfer tracks one asset reference moving to an external chain.
// RequiredConfirmations is copied from the chain at creation so later registry
// changes never affect an existing record.
type Transfer struct {
	TransferID            string          `json:"transferId"`
	UserID                string          `json:"userId"`
	NFTID                 string          `json:"nftId"`
	TargetChain           string          `json:"targetChain"`
	Amount                decimal.Decimal `json:"amount"`
	RecipientAddress      string          `json:"recipientAddress"`
	BridgeFee             decimal.Decimal `json:"bridgeFee"`
	Status                TransferStatus  `json:"status"`
	Confirmations         int             `json:"confirmations"`
	RequiredConfirmations int             `json:"requiredConfirmations"`
	TransactionHash       string          `json:"transactionHash,omitempty"`
	Error                 string          `json:"error,omitempty"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// TransferFilter narrows a transfer listing. Zero values match everything;
// date bounds are inclusive.
type TransferFilter struct {
	Status      TransferStatus `json:"status,omitempty"`
	TargetChain string         `json:"targetChain,omitempty"`
	StartDate   *time.Time     `json:"startDate,omitempty"`
	EndDate     *time.Time     `json:"endDate,omitempty"`
}

// Matches reports whether t passes every set criterion of f.
func (f TransferFilter) Matches(t Transfer) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.TargetChain != "" && t.TargetChain != f.TargetChain {
		return false
	}
	if f.StartDate != nil && t.CreatedAt.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.CreatedAt.After(*f.EndDate) {
		return false
	}
	return true
}
