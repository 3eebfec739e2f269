package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name         string             `json:"name" binding:"required,max=100"`
	AccountType  domain.AccountType `json:"accountType" binding:"required,oneof=checking savings credit cash"`
	CurrencyCode string             `json:"currencyCode" binding:"required,currency"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string             `json:"accountID"`
	Name             string             `json:"name"`
	AccountType      domain.AccountType `json:"accountType"`
	CurrencyCode     string             `json:"currencyCode"`
	Balance          decimal.Decimal    `json:"balance"`
	BalanceMinor     int64              `json:"balanceMinor"`
	FormattedBalance string             `json:"formattedBalance"`
	CreatedAt        time.Time          `json:"createdAt"`
	CreatedBy        string             `json:"createdBy"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy    string             `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		CurrencyCode:     acc.CurrencyCode,
		Balance:          money.FromMinorUnits(acc.Balance),
		BalanceMinor:     acc.Balance,
		FormattedBalance: money.Format(acc.Balance, acc.CurrencyCode),
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
}

// ToListAccountsResponse converts a slice of accounts.
func ToListAccountsResponse(accounts []domain.Account) ListAccountsResponse {
	resp := ListAccountsResponse{Accounts: make([]AccountResponse, len(accounts))}
	for i := range accounts {
		resp.Accounts[i] = ToAccountResponse(&accounts[i])
	}
	return resp
}

// AccountSummaryItem is one account of the summary in the display currency.
type AccountSummaryItem struct {
	AccountResponse
	ConvertedBalance decimal.Decimal `json:"convertedBalance"`
}

// AccountSummaryResponse totals every account in one display currency.
type AccountSummaryResponse struct {
	DisplayCurrency string               `json:"displayCurrency"`
	Accounts        []AccountSummaryItem `json:"accounts"`
	Total           decimal.Decimal      `json:"total"`
}

// ToAccountSummaryResponse converts a domain.AccountSummary.
func ToAccountSummaryResponse(s *domain.AccountSummary) AccountSummaryResponse {
	resp := AccountSummaryResponse{
		DisplayCurrency: s.DisplayCurrency,
		Accounts:        make([]AccountSummaryItem, len(s.Accounts)),
		Total:           s.Total,
	}
	for i := range s.Accounts {
		resp.Accounts[i] = AccountSummaryItem{
			AccountResponse:  ToAccountResponse(&s.Accounts[i].Account),
			ConvertedBalance: s.Accounts[i].ConvertedBalance,
		}
	}
	return resp
}
