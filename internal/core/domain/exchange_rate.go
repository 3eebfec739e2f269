package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is one cached row: units of CurrencyCode per one unit of the base currency.
type ExchangeRate struct {
	CurrencyCode string          `json:"currencyCode"`
	Rate         decimal.Decimal `json:"rate"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RateTable maps currency code to its rate against the base currency.
type RateTable map[string]decimal.Decimal

// RateSource tells where a snapshot of rates came from.
type RateSource string

const (
	RateSourceCache      RateSource = "cache"       // fresh cache hit
	RateSourceProvider   RateSource = "provider"    // just refreshed
	RateSourceStaleCache RateSource = "stale_cache" // provider failed, old rows served
	RateSourceStatic     RateSource = "static"      // nothing cached, provider failed
)

// RateSnapshot is the result of a rate lookup.
type RateSnapshot struct {
	BaseCurrency string     `json:"baseCurrency"`
	Rates        RateTable  `json:"rates"`
	Source       RateSource `json:"source"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
