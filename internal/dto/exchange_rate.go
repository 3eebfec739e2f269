package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRatesResponse is the current rate table and where it came from.
type ExchangeRatesResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Source       domain.RateSource          `json:"source"`
	UpdatedAt    time.Time                  `json:"updatedAt"`
	Rates        map[string]decimal.Decimal `json:"rates"`
}

// ToExchangeRatesResponse converts a domain.RateSnapshot.
func ToExchangeRatesResponse(s domain.RateSnapshot) ExchangeRatesResponse {
	return ExchangeRatesResponse{
		BaseCurrency: s.BaseCurrency,
		Source:       s.Source,
		UpdatedAt:    s.UpdatedAt,
		Rates:        s.Rates,
	}
}

// DashboardResponse is the account summary plus what the recurring pass materialized on load.
type DashboardResponse struct {
	Summary      AccountSummaryResponse `json:"summary"`
	Materialized int                    `json:"materialized"`
}
