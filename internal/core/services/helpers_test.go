package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockRateProvider is a mock type for the RateProvider port
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) FetchRates(ctx context.Context) (string, domain.RateTable, error) {
	args := m.Called(ctx)
	var table domain.RateTable
	if t := args.Get(1); t != nil {
		table = t.(domain.RateTable)
	}
	return args.String(0), table, args.Error(2)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.LedgerEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, event domain.LedgerEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []domain.LedgerEventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]domain.LedgerEventType, len(p.events))
	for i, e := range p.events {
		types[i] = e.Type
	}
	return types
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func rates(pairs map[string]string) domain.RateTable {
	table := make(domain.RateTable, len(pairs))
	for code, rate := range pairs {
		table[code] = decimal.RequireFromString(rate)
	}
	return table
}

func seedAccount(store *memory.Store, id, userID, currency string, balance int64) {
	ctx := context.Background()
	if err := store.SaveAccount(ctx, domain.Account{
		AccountID: id, UserID: userID, Name: id, AccountType: domain.Checking, CurrencyCode: currency,
	}); err != nil {
		panic(err)
	}
	if balance == 0 {
		return
	}
	txnType := domain.Income
	amount := balance
	if balance < 0 {
		txnType, amount = domain.Expense, -balance
	}
	if _, err := store.ApplyBatch(ctx, domain.LedgerBatch{Inserts: []domain.Transaction{{
		TransactionID: "seed-" + id, UserID: userID, AccountID: id, Amount: amount, TransactionType: txnType,
		Description: "opening balance", OccurredAt: time.Unix(0, 0).UTC(), CreatedAt: time.Unix(0, 0).UTC(),
	}}}); err != nil {
		panic(err)
	}
}

func balanceOf(store *memory.Store, accountID string) int64 {
	acc, err := store.FindAccountByID(context.Background(), accountID)
	if err != nil {
		panic(err)
	}
	return acc.Balance
}
