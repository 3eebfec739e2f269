package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to record income or an expense.
// Amount is a positive decimal string in the account's currency, e.g. "12.50".
type CreateTransactionRequest struct {
	AccountID   string     `json:"accountID" binding:"required"`
	CategoryID  *string    `json:"categoryID"`
	Amount      string     `json:"amount" binding:"required"`
	Type        string     `json:"type" binding:"required,oneof=income expense"`
	Description string     `json:"description" binding:"max=255"`
	OccurredAt  *time.Time `json:"occurredAt"`
}

// ListTransactionsParams are the query parameters of a transaction listing.
type ListTransactionsParams struct {
	AccountID       string  `form:"accountID"`
	Limit           int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken       *string `form:"nextToken"`
	DisplayCurrency string  `form:"displayCurrency" binding:"omitempty,currency"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID   string                 `json:"transactionID"`
	AccountID       string                 `json:"accountID"`
	CategoryID      *string                `json:"categoryID,omitempty"`
	TransferID      *string                `json:"transferID,omitempty"`
	Amount          decimal.Decimal        `json:"amount"`
	AmountMinor     int64                  `json:"amountMinor"`
	Type            domain.TransactionType `json:"type"`
	Description     string                 `json:"description"`
	OccurredAt      time.Time              `json:"occurredAt"`
	CreatedAt       time.Time              `json:"createdAt"`
	CurrencyCode    string                 `json:"currencyCode,omitempty"`
	DisplayAmount   *decimal.Decimal       `json:"displayAmount,omitempty"`
	DisplayCurrency string                 `json:"displayCurrency,omitempty"`
}

// CreateTransactionResponse is the created transaction plus its account's new balance.
type CreateTransactionResponse struct {
	Transaction    TransactionResponse `json:"transaction"`
	AccountBalance decimal.Decimal     `json:"accountBalance"`
}

// ListTransactionsResponse is a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		AccountID:     txn.AccountID,
		CategoryID:    txn.CategoryID,
		TransferID:    txn.TransferID,
		Amount:        money.FromMinorUnits(txn.Amount),
		AmountMinor:   txn.Amount,
		Type:          txn.TransactionType,
		Description:   txn.Description,
		OccurredAt:    txn.OccurredAt,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// ToCreateTransactionResponse converts a domain.TransactionResult.
func ToCreateTransactionResponse(res *domain.TransactionResult) CreateTransactionResponse {
	return CreateTransactionResponse{
		Transaction:    ToTransactionResponse(&res.Transaction),
		AccountBalance: money.FromMinorUnits(res.AccountBalance),
	}
}

// ToListTransactionsResponse converts a domain.TransactionPage.
func ToListTransactionsResponse(page *domain.TransactionPage) ListTransactionsResponse {
	resp := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(page.Transactions)),
		NextToken:    page.NextToken,
	}
	for i, view := range page.Transactions {
		r := ToTransactionResponse(&view.Transaction)
		r.CurrencyCode = view.CurrencyCode
		r.DisplayAmount = view.DisplayAmount
		r.DisplayCurrency = view.DisplayCurrency
		resp.Transactions[i] = r
	}
	return resp
}
