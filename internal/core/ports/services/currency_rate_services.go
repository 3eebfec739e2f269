package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateReaderSvc exposes the layered rate cache.
type RateReaderSvc interface {
	// GetRates never fails: cache, then provider, then stale cache, then a static table.
	GetRates(ctx context.Context) domain.RateSnapshot

	// RefreshRates forces a provider call and surfaces its error.
	RefreshRates(ctx context.Context) (domain.RateSnapshot, error)
}

// CurrencyConverterSvc converts amounts between currencies.
// Both forms compute (amount / rate[from]) * rate[to] and fail with ErrRateUnavailable
// when either currency has no rate.
type CurrencyConverterSvc interface {
	ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error)
	CalculateExchange(amount decimal.Decimal, from, to string, rates domain.RateTable) (decimal.Decimal, error)
}

// CurrencyRateSvcFacade combines rate reads and conversion.
type CurrencyRateSvcFacade interface {
	RateReaderSvc
	CurrencyConverterSvc
}
