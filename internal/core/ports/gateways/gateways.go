package gateways

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// RateProvider fetches the latest exchange rates from an external source.
// The returned table is keyed by currency code and expressed against base.
type RateProvider interface {
	FetchRates(ctx context.Context) (base string, rates domain.RateTable, err error)
}

// EventPublisher emits ledger events after their atomic unit has committed.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.LedgerEvent) error
	Close() error
}
