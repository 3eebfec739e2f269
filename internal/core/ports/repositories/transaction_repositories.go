package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// TransactionListFilter narrows a transaction listing.
type TransactionListFilter struct {
	UserID    string
	AccountID string // optional
	Limit     int
	NextToken *string
}

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction regardless of owner.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions, newest first, and a token for the next page.
	ListTransactions(ctx context.Context, filter TransactionListFilter) ([]domain.Transaction, *string, error)
}

// LedgerWriter is the single atomic primitive every balance mutation goes through.
type LedgerWriter interface {
	// ApplyBatch applies the batch as one all-or-nothing unit:
	//   - the rule cursor compare-and-swap, if any (ErrConflict when the cursor moved),
	//   - deletion of every listed transaction (ErrNotFound when one is missing),
	//   - insertion of every new transaction,
	//   - a relative balance increment per touched account derived from the signed amounts.
	// On any error nothing is written.
	ApplyBatch(ctx context.Context, batch domain.LedgerBatch) (*domain.LedgerResult, error)
}

// TransactionRepositoryFacade combines transaction reads with the ledger write path.
type TransactionRepositoryFacade interface {
	TransactionReader
	LedgerWriter
}
