package mapping

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/models"
)

// ToModelRecurringRule converts a domain RecurringRule to a model RecurringRule
func ToModelRecurringRule(d domain.RecurringRule) models.RecurringRule {
	return models.RecurringRule{
		RuleID:          d.RuleID,
		UserID:          d.UserID,
		AccountID:       d.AccountID,
		CategoryID:      ToNullString(d.CategoryID),
		Amount:          d.Amount,
		TransactionType: string(d.TransactionType),
		Description:     d.Description,
		Interval:        string(d.Interval),
		NextRunDate:     d.NextRunDate,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainRecurringRule converts a model RecurringRule to a domain RecurringRule
func ToDomainRecurringRule(m models.RecurringRule) domain.RecurringRule {
	return domain.RecurringRule{
		RuleID:          m.RuleID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		CategoryID:      FromNullString(m.CategoryID),
		Amount:          m.Amount,
		TransactionType: domain.TransactionType(m.TransactionType),
		Description:     m.Description,
		Interval:        domain.Interval(m.Interval),
		NextRunDate:     m.NextRunDate,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
