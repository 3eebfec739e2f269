package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
)

// RecurringRuleReader defines read operations for recurring rules
type RecurringRuleReader interface {
	// FindRuleByID retrieves a rule regardless of owner.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error)

	// FindDueRules returns the user's active rules with next_run_date <= now, oldest cursor first.
	FindDueRules(ctx context.Context, userID string, now time.Time) ([]domain.RecurringRule, error)

	// ListRulesByUser returns all rules of a user.
	ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error)

	// ListUsersWithDueRules returns the distinct owners of at least one due rule.
	ListUsersWithDueRules(ctx context.Context, now time.Time) ([]string, error)
}

// RecurringRuleWriter defines write operations for recurring rules.
// Cursor movement is not here: it only happens inside LedgerWriter.ApplyBatch.
type RecurringRuleWriter interface {
	SaveRule(ctx context.Context, rule domain.RecurringRule) error
	DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error
}

// RecurringRuleRepositoryFacade combines rule reads and writes.
type RecurringRuleRepositoryFacade interface {
	RecurringRuleReader
	RecurringRuleWriter
}
