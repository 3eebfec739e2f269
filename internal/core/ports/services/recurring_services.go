package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// RecurringProcessorSvc materializes due recurring rules.
type RecurringProcessorSvc interface {
	// ProcessDueRules runs at most MaxCatchUpCycles cycles per due rule of userID
	// and returns the transactions it created, oldest cycle first per rule.
	ProcessDueRules(ctx context.Context, userID string, now time.Time) ([]domain.Transaction, error)

	// ListUsersWithDueRules returns every user owning at least one due rule.
	ListUsersWithDueRules(ctx context.Context, now time.Time) ([]string, error)
}

// RecurringRuleSvc manages rule definitions.
type RecurringRuleSvc interface {
	CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error)
	ListRules(ctx context.Context, userID string) ([]domain.RecurringRule, error)
	DeactivateRule(ctx context.Context, userID string, ruleID string) error
}

// RecurringSvcFacade combines rule management and processing.
type RecurringSvcFacade interface {
	RecurringProcessorSvc
	RecurringRuleSvc
}
