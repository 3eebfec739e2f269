package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleCursorAdvance moves a recurring rule's NextRunDate from Expected to Next,
// and only if it still equals Expected.
type RuleCursorAdvance struct {
	RuleID    string
	Expected  time.Time
	Next      time.Time
	UpdatedAt time.Time
}

// LedgerBatch is the unit of work the storage layer applies all-or-nothing.
// Balance changes are never carried in the batch: the store derives them from the
// signed amounts of inserted rows and the negated signed amounts of deleted rows.
type LedgerBatch struct {
	Inserts     []Transaction
	DeleteIDs   []string
	RuleAdvance *RuleCursorAdvance
}

// InsertBalanceChanges sums the signed amounts of the inserted transactions per account.
func (b LedgerBatch) InsertBalanceChanges() map[string]int64 {
	changes := make(map[string]int64, len(b.Inserts))
	for _, txn := range b.Inserts {
		changes[txn.AccountID] += txn.SignedAmount()
	}
	return changes
}

// IsEmpty reports whether applying the batch would change nothing.
func (b LedgerBatch) IsEmpty() bool {
	return len(b.Inserts) == 0 && len(b.DeleteIDs) == 0 && b.RuleAdvance == nil
}

// LedgerResult is what the store reports back after committing a batch.
type LedgerResult struct {
	Deleted  []Transaction
	Balances map[string]int64 // account ID -> balance after commit
}

// NewTransaction is the input of a single balance-affecting transaction.
// Ownership of AccountID and CategoryID has been verified by the caller.
type NewTransaction struct {
	UserID          string
	AccountID       string
	CategoryID      *string
	Amount          int64 // Minor units, > 0
	TransactionType TransactionType
	Description     string
	OccurredAt      *time.Time // nil means now
}

// TransactionResult is the created transaction and its account's balance after commit.
type TransactionResult struct {
	Transaction    Transaction
	AccountBalance int64
}

// TransferRequest moves Amount (in the source account's currency) between two accounts.
type TransferRequest struct {
	UserID        string
	FromAccountID string
	ToAccountID   string
	Amount        int64 // Minor units of the source currency, > 0
	Description   string
}

// TransferResult describes a committed transfer. Rate is CreditedAmount / Amount.
type TransferResult struct {
	TransferID     string
	Debit          Transaction
	Credit         Transaction
	CreditedAmount int64
	Rate           decimal.Decimal
	Balances       map[string]int64
}
