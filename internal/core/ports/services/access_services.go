package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// AccessSvc proves ownership before the ledger core is invoked.
// Missing and unowned accounts, transactions and rules are indistinguishable (ErrNotFound);
// a category that exists but belongs to someone else is ErrForbidden.
type AccessSvc interface {
	AuthorizeAccount(ctx context.Context, userID, accountID string) (*domain.Account, error)
	AuthorizeCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error)
	AuthorizeTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error)
	AuthorizeRule(ctx context.Context, userID, ruleID string) (*domain.RecurringRule, error)
}
