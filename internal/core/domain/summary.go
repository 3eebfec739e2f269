package domain

import "github.com/shopspring/decimal"

// TransactionView is a transaction optionally converted into a display currency.
type TransactionView struct {
	Transaction
	CurrencyCode    string           // currency of the transaction's account
	DisplayAmount   *decimal.Decimal // signed, nil when no display currency was requested
	DisplayCurrency string
}

// TransactionPage is one page of a newest-first transaction listing.
type TransactionPage struct {
	Transactions []TransactionView
	NextToken    *string
}

// AccountBalanceView is an account with its balance converted into a display currency.
type AccountBalanceView struct {
	Account
	ConvertedBalance decimal.Decimal
}

// AccountSummary is every account of a user plus a total, all in DisplayCurrency.
type AccountSummary struct {
	DisplayCurrency string
	Accounts        []AccountBalanceView
	Total           decimal.Decimal
}
