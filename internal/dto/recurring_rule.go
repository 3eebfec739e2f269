package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/shopspring/decimal"
)

// CreateRecurringRuleRequest defines the data needed to schedule a recurring transaction.
// StartDate becomes the rule's first next_run_date.
type CreateRecurringRuleRequest struct {
	AccountID   string    `json:"accountID" binding:"required"`
	CategoryID  *string   `json:"categoryID"`
	Amount      string    `json:"amount" binding:"required"`
	Type        string    `json:"type" binding:"required,oneof=income expense"`
	Interval    string    `json:"interval" binding:"required,interval"`
	StartDate   time.Time `json:"startDate" binding:"required"`
	Description string    `json:"description" binding:"max=255"`
}

// RecurringRuleResponse defines the data returned for a recurring rule.
type RecurringRuleResponse struct {
	RuleID      string                 `json:"ruleID"`
	AccountID   string                 `json:"accountID"`
	CategoryID  *string                `json:"categoryID,omitempty"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        domain.TransactionType `json:"type"`
	Interval    domain.Interval        `json:"interval"`
	NextRunDate time.Time              `json:"nextRunDate"`
	IsActive    bool                   `json:"isActive"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// ListRecurringRulesResponse wraps a list of rules.
type ListRecurringRulesResponse struct {
	Rules []RecurringRuleResponse `json:"rules"`
}

// ProcessRecurringResponse lists what a processing pass materialized.
type ProcessRecurringResponse struct {
	Materialized []TransactionResponse `json:"materialized"`
}

// ToRecurringRuleResponse converts a domain.RecurringRule.
func ToRecurringRuleResponse(r *domain.RecurringRule) RecurringRuleResponse {
	return RecurringRuleResponse{
		RuleID:      r.RuleID,
		AccountID:   r.AccountID,
		CategoryID:  r.CategoryID,
		Amount:      money.FromMinorUnits(r.Amount),
		Type:        r.TransactionType,
		Interval:    r.Interval,
		NextRunDate: r.NextRunDate,
		IsActive:    r.IsActive,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// ToListRecurringRulesResponse converts a slice of rules.
func ToListRecurringRulesResponse(rules []domain.RecurringRule) ListRecurringRulesResponse {
	resp := ListRecurringRulesResponse{Rules: make([]RecurringRuleResponse, len(rules))}
	for i := range rules {
		resp.Rules[i] = ToRecurringRuleResponse(&rules[i])
	}
	return resp
}
