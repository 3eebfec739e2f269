package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

// AccessService verifies that the caller owns what it is about to touch.
type AccessService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	categoryRepo    portsrepo.CategoryReader
	transactionRepo portsrepo.TransactionReader
	ruleRepo        portsrepo.RecurringRuleReader
}

// NewAccessService creates a new AccessService.
func NewAccessService(
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	transactionRepo portsrepo.TransactionReader,
	ruleRepo portsrepo.RecurringRuleReader,
) *AccessService {
	return &AccessService{
		accountRepo:     accountRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		ruleRepo:        ruleRepo,
	}
}

var _ portssvc.AccessSvc = (*AccessService)(nil)

func (s *AccessService) AuthorizeAccount(ctx context.Context, userID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, s.lookupError(ctx, err, "account", accountID)
	}
	if account.UserID != userID {
		s.LogDebug(ctx, "Account not owned by caller", slog.String("account_id", accountID))
		return nil, apperrors.NewNotFoundError("account not found")
	}
	return account, nil
}

// AuthorizeCategory differs from the others: a foreign category is Forbidden, not NotFound.
func (s *AccessService) AuthorizeCategory(ctx context.Context, userID, categoryID string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		return nil, s.lookupError(ctx, err, "category", categoryID)
	}
	if category.UserID != userID {
		s.LogDebug(ctx, "Category owned by another user", slog.String("category_id", categoryID))
		return nil, apperrors.NewForbiddenError("category belongs to another user")
	}
	return category, nil
}

func (s *AccessService) AuthorizeTransaction(ctx context.Context, userID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, s.lookupError(ctx, err, "transaction", transactionID)
	}
	if txn.UserID != userID {
		return nil, apperrors.NewNotFoundError("transaction not found")
	}
	return txn, nil
}

func (s *AccessService) AuthorizeRule(ctx context.Context, userID, ruleID string) (*domain.RecurringRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, s.lookupError(ctx, err, "recurring rule", ruleID)
	}
	if rule.UserID != userID {
		return nil, apperrors.NewNotFoundError("recurring rule not found")
	}
	return rule, nil
}

func (s *AccessService) lookupError(ctx context.Context, err error, kind, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError(kind + " not found")
	}
	s.LogError(ctx, err, "Failed to look up "+kind, slog.String("id", id))
	return err
}
