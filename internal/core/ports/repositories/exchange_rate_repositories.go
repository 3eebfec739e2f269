package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// ExchangeRateReader defines read operations for the rate cache
type ExchangeRateReader interface {
	// ListRates returns every cached row (one per currency).
	ListRates(ctx context.Context) ([]domain.ExchangeRate, error)
}

// ExchangeRateWriter defines write operations for the rate cache
type ExchangeRateWriter interface {
	// UpsertRates writes every row in one all-or-nothing batch.
	UpsertRates(ctx context.Context, rates []domain.ExchangeRate) error
}

// ExchangeRateRepositoryFacade combines all exchange rate-related repository interfaces
type ExchangeRateRepositoryFacade interface {
	ExchangeRateReader
	ExchangeRateWriter
}
