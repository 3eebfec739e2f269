package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is a row of the exchange_rates cache, one per currency.
type ExchangeRate struct {
	CurrencyCode string          `db:"currency_code"`
	Rate         decimal.Decimal `db:"rate"`
	UpdatedAt    time.Time       `db:"updated_at"`
}
