package dto

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/shopspring/decimal"
)

// CreateTransferRequest moves Amount (source account currency) to another account.
type CreateTransferRequest struct {
	FromAccountID string `json:"fromAccountID" binding:"required"`
	ToAccountID   string `json:"toAccountID" binding:"required"`
	Amount        string `json:"amount" binding:"required"`
	Description   string `json:"description" binding:"max=255"`
}

// TransferResponse defines the data returned for a committed transfer.
type TransferResponse struct {
	TransferID     string              `json:"transferID"`
	DebitedAmount  decimal.Decimal     `json:"debitedAmount"`
	CreditedAmount decimal.Decimal     `json:"creditedAmount"`
	Rate           decimal.Decimal     `json:"rate"`
	Debit          TransactionResponse `json:"debit"`
	Credit         TransactionResponse `json:"credit"`
}

// ToTransferResponse converts a domain.TransferResult.
func ToTransferResponse(res *domain.TransferResult) TransferResponse {
	return TransferResponse{
		TransferID:     res.TransferID,
		DebitedAmount:  money.FromMinorUnits(res.Debit.Amount),
		CreditedAmount: money.FromMinorUnits(res.CreditedAmount),
		Rate:           res.Rate,
		Debit:          ToTransactionResponse(&res.Debit),
		Credit:         ToTransactionResponse(&res.Credit),
	}
}
