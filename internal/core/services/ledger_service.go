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

const defaultListLimit = 20

// LedgerService provides the balance-affecting operations. Every write goes through
// one LedgerWriter.ApplyBatch call, so either all of its rows and balance changes land or none do.
// Ownership is the caller's job and is not re-checked here.
type LedgerService struct {
	BaseService
	accountRepo     portsrepo.AccountReader
	transactionRepo portsrepo.TransactionRepositoryFacade
	rates           portssvc.CurrencyRateSvcFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	accountRepo portsrepo.AccountReader,
	transactionRepo portsrepo.TransactionRepositoryFacade,
	rates portssvc.CurrencyRateSvcFacade,
) *LedgerService {
	return &LedgerService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		rates:           rates,
	}
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

// CreateTransaction inserts the row and increments the account balance by its signed amount.
// Balances may go negative.
func (s *LedgerService) CreateTransaction(ctx context.Context, req domain.NewTransaction) (*domain.TransactionResult, error) {
	if req.AccountID == "" {
		return nil, apperrors.NewValidationError("account is required")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	if !req.TransactionType.IsValid() {
		return nil, apperrors.NewValidationError("type must be income or expense")
	}

	now := s.Now()
	occurredAt := now
	if req.OccurredAt != nil && !req.OccurredAt.IsZero() {
		occurredAt = req.OccurredAt.UTC()
	}

	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          req.UserID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Amount:          req.Amount,
		TransactionType: req.TransactionType,
		Description:     req.Description,
		OccurredAt:      occurredAt,
		CreatedAt:       now,
	}

	result, err := s.transactionRepo.ApplyBatch(ctx, domain.LedgerBatch{Inserts: []domain.Transaction{txn}})
	if err != nil {
		s.LogError(ctx, err, "Failed to create transaction",
			slog.String("account_id", req.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.Int64("signed_amount", txn.SignedAmount()))
	s.PublishEvent(ctx, domain.EventTransactionCreated, txn.UserID, []domain.Transaction{txn}, result.Balances)

	return &domain.TransactionResult{
		Transaction:    txn,
		AccountBalance: result.Balances[txn.AccountID],
	}, nil
}

// DeleteTransaction deletes the row and applies the inverse of its signed amount.
// Deleting one leg of a transfer leaves the other leg in place.
func (s *LedgerService) DeleteTransaction(ctx context.Context, transactionID string) error {
	if transactionID == "" {
		return apperrors.NewValidationError("transaction id is required")
	}

	result, err := s.transactionRepo.ApplyBatch(ctx, domain.LedgerBatch{DeleteIDs: []string{transactionID}})
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete transaction",
				slog.String("transaction_id", transactionID))
		}
		return err
	}

	for _, deleted := range result.Deleted {
		attrs := []any{
			slog.String("transaction_id", deleted.TransactionID),
			slog.String("account_id", deleted.AccountID),
			slog.Int64("reversed_amount", -deleted.SignedAmount()),
		}
		if deleted.IsTransferLeg() {
			attrs = append(attrs, slog.String("transfer_id", *deleted.TransferID))
		}
		s.LogInfo(ctx, "Transaction deleted", attrs...)
	}
	if len(result.Deleted) > 0 {
		s.PublishEvent(ctx, domain.EventTransactionDeleted, result.Deleted[0].UserID, result.Deleted, result.Balances)
	}
	return nil
}

// CreateTransfer debits the source and credits the destination in one unit.
// Cross-currency amounts are converted before anything is written, so a missing rate
// aborts with no partial debit.
func (s *LedgerService) CreateTransfer(ctx context.Context, req domain.TransferRequest) (*domain.TransferResult, error) {
	if req.FromAccountID == "" || req.ToAccountID == "" {
		return nil, apperrors.NewValidationError("both accounts are required")
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, apperrors.NewValidationError("cannot transfer to the same account")
	}
	if req.Amount <= 0 {
		return nil, apperrors.NewValidationError("transfer amount must be positive")
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{req.FromAccountID, req.ToAccountID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load transfer accounts")
		return nil, err
	}
	from, ok := accounts[req.FromAccountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("source account not found")
	}
	to, ok := accounts[req.ToAccountID]
	if !ok {
		return nil, apperrors.NewNotFoundError("destination account not found")
	}

	credited := req.Amount
	rate := decimal.NewFromInt(1)
	if !strings.EqualFold(from.CurrencyCode, to.CurrencyCode) {
		converted, err := s.rates.ConvertCurrency(ctx, money.FromMinorUnits(req.Amount), from.CurrencyCode, to.CurrencyCode)
		if err != nil {
			return nil, err
		}
		credited = money.ToMinorUnits(converted)
		if credited <= 0 {
			return nil, apperrors.NewValidationError(fmt.Sprintf("transfer amount converts to zero %s", to.CurrencyCode))
		}
		rate = decimal.NewFromInt(credited).Div(decimal.NewFromInt(req.Amount))
	}

	now := s.Now()
	transferID := uuid.NewString()
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("Transfer %s -> %s", from.Name, to.Name)
	}
	debit := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          req.UserID,
		AccountID:       from.AccountID,
		TransferID:      &transferID,
		Amount:          req.Amount,
		TransactionType: domain.Expense,
		Description:     description,
		OccurredAt:      now,
		CreatedAt:       now,
	}
	credit := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          req.UserID,
		AccountID:       to.AccountID,
		TransferID:      &transferID,
		Amount:          credited,
		TransactionType: domain.Income,
		Description:     description,
		OccurredAt:      now,
		CreatedAt:       now,
	}

	result, err := s.transactionRepo.ApplyBatch(ctx, domain.LedgerBatch{Inserts: []domain.Transaction{debit, credit}})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply transfer",
			slog.String("transfer_id", transferID))
		return nil, err
	}

	s.LogInfo(ctx, "Transfer completed",
		slog.String("transfer_id", transferID),
		slog.Int64("debited", req.Amount),
		slog.Int64("credited", credited),
		slog.String("rate", rate.String()))
	s.PublishEvent(ctx, domain.EventTransferCompleted, req.UserID, []domain.Transaction{debit, credit}, result.Balances)

	return &domain.TransferResult{
		TransferID:     transferID,
		Debit:          debit,
		Credit:         credit,
		CreditedAmount: credited,
		Rate:           rate,
		Balances:       result.Balances,
	}, nil
}

// ListTransactions returns a newest-first page. With a display currency, rates are read once
// and every row is converted with CalculateExchange.
func (s *LedgerService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*domain.TransactionPage, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	txns, nextToken, err := s.transactionRepo.ListTransactions(ctx, portsrepo.TransactionListFilter{
		UserID:    userID,
		AccountID: params.AccountID,
		Limit:     limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions")
		}
		return nil, err
	}

	accountIDs := make([]string, 0, len(txns))
	seen := make(map[string]struct{}, len(txns))
	for _, txn := range txns {
		if _, ok := seen[txn.AccountID]; !ok {
			seen[txn.AccountID] = struct{}{}
			accountIDs = append(accountIDs, txn.AccountID)
		}
	}
	accounts := map[string]domain.Account{}
	if len(accountIDs) > 0 {
		if accounts, err = s.accountRepo.FindAccountsByIDs(ctx, accountIDs); err != nil {
			return nil, err
		}
	}

	displayCurrency := strings.ToUpper(params.DisplayCurrency)
	var rates domain.RateTable
	if displayCurrency != "" && len(txns) > 0 {
		rates = s.rates.GetRates(ctx).Rates
	}

	page := &domain.TransactionPage{
		Transactions: make([]domain.TransactionView, 0, len(txns)),
		NextToken:    nextToken,
	}
	for _, txn := range txns {
		view := domain.TransactionView{Transaction: txn, CurrencyCode: accounts[txn.AccountID].CurrencyCode}
		if displayCurrency != "" {
			converted, err := s.rates.CalculateExchange(money.FromMinorUnits(txn.SignedAmount()), view.CurrencyCode, displayCurrency, rates)
			if err != nil {
				return nil, err
			}
			converted = converted.Round(2)
			view.DisplayAmount = &converted
			view.DisplayCurrency = displayCurrency
		}
		page.Transactions = append(page.Transactions, view)
	}
	return page, nil
}
