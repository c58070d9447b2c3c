package entity

import "time"

// EventType names a lifecycle event emitted by the bridge.
type EventType string

const (
	EventCreated      EventType = "created"
	EventConfirmation EventType = "confirmation"
	EventCompleted    EventType = "completed"
	EventFailed       EventType = "failed"
	EventCancelled    EventType = "cancelled"
)

// TransferEvent is one entry of the append-only lifecycle log.
type TransferEvent struct {
	Sequence        uint64         `json:"sequence"`
	Type            EventType      `json:"type"`
	TransferID      string         `json:"transferId"`
	UserID          string         `json:"userId"`
	TargetChain     string         `json:"targetChain"`
	Status          TransferStatus `json:"status"`
	Confirmations   int            `json:"confirmations"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	Error           string         `json:"error,omitempty"`
	OccurredAt      time.Time      `json:"occurredAt"`
}

// NewTransferEvent snapshots t into an event of the given type.
func NewTransferEvent(eventType EventType, t Transfer, at time.Time) TransferEvent {
	return TransferEvent{
		Type:            eventType,
		TransferID:      t.TransferID,
		UserID:          t.UserID,
		TargetChain:     t.TargetChain,
		Status:          t.Status,
		Confirmations:   t.Confirmations,
		TransactionHash: t.TransactionHash,
		Error:           t.Error,
		OccurredAt:      at,
	}
}
