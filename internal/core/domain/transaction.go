package domain

import "time"

// TransactionType decides the sign a transaction contributes to its account balance.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// SignedDelta returns +amount for income and -amount for expense.
func SignedDelta(t TransactionType, amount int64) int64 {
	if t == Income {
		return amount
	}
	return -amount
}

// Transaction is a single immutable movement on one account.
// Amount is always positive; the sign is implied by TransactionType.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`        // Primary Key (UUID)
	UserID          string          `json:"userID"`               // Owner
	AccountID       string          `json:"accountID"`            // FK -> accounts
	CategoryID      *string         `json:"categoryID,omitempty"` // Optional FK -> categories
	TransferID      *string         `json:"transferID,omitempty"` // Shared by both legs of a transfer
	Amount          int64           `json:"amount"`               // Minor units, > 0
	TransactionType TransactionType `json:"transactionType"`      // income or expense
	Description     string          `json:"description"`
	OccurredAt      time.Time       `json:"occurredAt"` // May be backdated by the recurring engine
	CreatedAt       time.Time       `json:"createdAt"`
}

// SignedAmount is the effect this transaction has on its account balance.
func (t Transaction) SignedAmount() int64 {
	return SignedDelta(t.TransactionType, t.Amount)
}

// IsTransferLeg reports whether the transaction is one side of a transfer.
func (t Transaction) IsTransferLeg() bool {
	return t.TransferID != nil && *t.TransferID != ""
}
