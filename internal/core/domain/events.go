package domain

import "time"

// LedgerEventType names a committed ledger change.
type LedgerEventType string

const (
	EventTransactionCreated LedgerEventType = "transaction.created"
	EventTransactionDeleted LedgerEventType = "transaction.deleted"
	EventTransferCompleted  LedgerEventType = "transfer.completed"
)

// LedgerEvent is published after an atomic unit commits.
type LedgerEvent struct {
	EventID      string           `json:"eventID"`
	Type         LedgerEventType  `json:"type"`
	UserID       string           `json:"userID"`
	Transactions []Transaction    `json:"transactions"`
	Balances     map[string]int64 `json:"balances"`
	OccurredAt   time.Time        `json:"occurredAt"`
}
