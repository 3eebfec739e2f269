// Package events publishes committed ledger changes to a message broker.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
)

// NoopPublisher drops every event. Used when EVENTS_BACKEND=none.
type NoopPublisher struct{}

var _ gateways.EventPublisher = NoopPublisher{}

func (NoopPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error { return nil }
func (NoopPublisher) Close() error                                                { return nil }

// encodeEvent returns the message key (the owning user, so one user's events stay ordered)
// and the JSON body.
func encodeEvent(event domain.LedgerEvent) ([]byte, []byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal ledger event: %w", err)
	}
	return []byte(event.UserID), body, nil
}
