package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// LedgerWriterSvc holds the three balance-affecting operations.
// Each one is a single all-or-nothing unit; callers have already verified ownership.
type LedgerWriterSvc interface {
	CreateTransaction(ctx context.Context, req domain.NewTransaction) (*domain.TransactionResult, error)
	DeleteTransaction(ctx context.Context, transactionID string) error
	CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error)
}

// LedgerReaderSvc lists recorded transactions.
type LedgerReaderSvc interface {
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*domain.TransactionPage, error)
}

// LedgerSvcFacade combines ledger reads and writes.
type LedgerSvcFacade interface {
	LedgerWriterSvc
	LedgerReaderSvc
}
