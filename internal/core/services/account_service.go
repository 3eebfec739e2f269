package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountService manages accounts. Balances are never written here.
type AccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	access      portssvc.AccessSvc
	converter   portssvc.CurrencyConverterSvc
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*AccountService)

// WithAccountAccess adds the ownership checker.
func WithAccountAccess(access portssvc.AccessSvc) AccountServiceOption {
	return func(s *AccountService) {
		s.access = access
	}
}

// WithAccountConverter adds the converter used by GetAccountSummary.
func WithAccountConverter(converter portssvc.CurrencyConverterSvc) AccountServiceOption {
	return func(s *AccountService) {
		s.converter = converter
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) *AccountService {
	svc := &AccountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*AccountService)(nil)

func (s *AccountService) CreateAccount(ctx context.Context, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("account name is required")
	}
	if !req.AccountType.IsValid() {
		return nil, apperrors.NewValidationError("unknown account type " + string(req.AccountType))
	}
	currencyCode := strings.ToUpper(req.CurrencyCode)
	if !money.IsKnownCurrency(currencyCode) {
		return nil, apperrors.NewValidationError("unknown currency code " + req.CurrencyCode)
	}

	now := s.Now()
	account := domain.Account{
		AccountID:    uuid.NewString(),
		UserID:       userID,
		Name:         name,
		AccountType:  req.AccountType,
		CurrencyCode: currencyCode,
		Balance:      0,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("currency_code", currencyCode))
	return &account, nil
}

func (s *AccountService) GetAccountByID(ctx context.Context, userID string, accountID string) (*domain.Account, error) {
	if s.access != nil {
		return s.access.AuthorizeAccount(ctx, userID, accountID)
	}
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError("account not found")
	}
	return account, nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByUser(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, err
	}
	return accounts, nil
}

// DeleteAccount removes an account whose balance is exactly zero. The zero check happens
// inside the store's delete so a concurrent transaction cannot slip in between.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string, accountID string) error {
	if _, err := s.GetAccountByID(ctx, userID, accountID); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteZeroBalanceAccount(ctx, accountID); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return apperrors.NewValidationError("account balance must be zero before deletion")
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		}
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}

// GetAccountSummary converts each balance on its own through the converter and totals them.
// A missing rate for any account fails the whole summary.
func (s *AccountService) GetAccountSummary(ctx context.Context, userID string, displayCurrency string) (*domain.AccountSummary, error) {
	displayCurrency = strings.ToUpper(displayCurrency)
	if !money.IsKnownCurrency(displayCurrency) {
		return nil, apperrors.NewValidationError("unknown display currency " + displayCurrency)
	}
	if s.converter == nil {
		return nil, fmt.Errorf("account summary needs a currency converter")
	}

	accounts, err := s.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := &domain.AccountSummary{
		DisplayCurrency: displayCurrency,
		Accounts:        make([]domain.AccountBalanceView, 0, len(accounts)),
		Total:           decimal.Zero,
	}
	for _, account := range accounts {
		converted, err := s.converter.ConvertCurrency(ctx, money.FromMinorUnits(account.Balance), account.CurrencyCode, displayCurrency)
		if err != nil {
			return nil, err
		}
		converted = converted.Round(2)
		summary.Accounts = append(summary.Accounts, domain.AccountBalanceView{Account: account, ConvertedBalance: converted})
		summary.Total = summary.Total.Add(converted)
	}
	return summary, nil
}
