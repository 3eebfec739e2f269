package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransaction_SignedAmount(t *testing.T) {
	tests := []struct {
		name string
		txn  domain.Transaction
		want int64
	}{
		{
			name: "income adds to the balance",
			txn:  domain.Transaction{Amount: 2500, TransactionType: domain.Income},
			want: 2500,
		},
		{
			name: "expense subtracts from the balance",
			txn:  domain.Transaction{Amount: 2500, TransactionType: domain.Expense},
			want: -2500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.txn.SignedAmount())
		})
	}
}

func TestLedgerBatch_InsertBalanceChanges(t *testing.T) {
	batch := domain.LedgerBatch{
		Inserts: []domain.Transaction{
			{AccountID: "a", Amount: 1000, TransactionType: domain.Expense},
			{AccountID: "b", Amount: 850, TransactionType: domain.Income},
			{AccountID: "a", Amount: 200, TransactionType: domain.Income},
		},
	}

	changes := batch.InsertBalanceChanges()
	assert.Equal(t, map[string]int64{"a": -800, "b": 850}, changes)
	assert.False(t, batch.IsEmpty())
	assert.True(t, domain.LedgerBatch{}.IsEmpty())
}

func TestInterval_Advance(t *testing.T) {
	tests := []struct {
		name     string
		interval domain.Interval
		from     time.Time
		want     time.Time
	}{
		{
			name:     "weekly adds seven days",
			interval: domain.Weekly,
			from:     time.Date(2024, 12, 28, 9, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 1, 4, 9, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly keeps day of month",
			interval: domain.Monthly,
			from:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly clamps to end of shorter month",
			interval: domain.Monthly,
			from:     time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "monthly rolls over the year",
			interval: domain.Monthly,
			from:     time.Date(2024, 12, 10, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "yearly from leap day",
			interval: domain.Yearly,
			from:     time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.interval.Advance(tt.from)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}

	_, err := domain.Interval("daily").Advance(time.Now())
	assert.Error(t, err)
}

func TestRecurringRule_IsDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	rule := domain.RecurringRule{IsActive: true, NextRunDate: now}
	assert.True(t, rule.IsDue(now), "cursor equal to now is due")

	rule.NextRunDate = now.Add(time.Second)
	assert.False(t, rule.IsDue(now))

	rule.NextRunDate = now.AddDate(0, -1, 0)
	rule.IsActive = false
	assert.False(t, rule.IsDue(now), "inactive rules are never due")
}
