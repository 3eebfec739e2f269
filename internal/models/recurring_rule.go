package models

import (
	"database/sql"
	"time"
)

// RecurringRule is a row of the recurring_rules table.
type RecurringRule struct {
	RuleID          string         `db:"rule_id"`
	UserID          string         `db:"user_id"`
	AccountID       string         `db:"account_id"`
	CategoryID      sql.NullString `db:"category_id"` // Nullable
	Amount          int64          `db:"amount"`
	TransactionType string         `db:"transaction_type"`
	Description     string         `db:"description"`
	Interval        string         `db:"interval"`
	NextRunDate     time.Time      `db:"next_run_date"`
	IsActive        bool           `db:"is_active"`
	AuditFields
}
