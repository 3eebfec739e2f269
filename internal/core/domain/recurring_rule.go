package domain

import (
	"fmt"
	"time"
)

// Interval is how often a recurring rule fires.
type Interval string

const (
	Weekly  Interval = "weekly"
	Monthly Interval = "monthly"
	Yearly  Interval = "yearly"
)

// IsValid reports whether i is a supported interval.
func (i Interval) IsValid() bool {
	switch i {
	case Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Advance returns the occurrence after t.
// Monthly and yearly steps keep the day of month, clamped to the last day of shorter months
// (Jan 31 -> Feb 28, Feb 29 -> Feb 28 of the next year).
func (i Interval) Advance(t time.Time) (time.Time, error) {
	switch i {
	case Weekly:
		return t.AddDate(0, 0, 7), nil
	case Monthly:
		return addMonthsClamped(t, 1), nil
	case Yearly:
		return addMonthsClamped(t, 12), nil
	default:
		return time.Time{}, fmt.Errorf("unknown interval %q", string(i))
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(months), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// RecurringRule materializes a transaction every Interval, starting at NextRunDate.
// NextRunDate is a forward-only cursor, not a history.
type RecurringRule struct {
	RuleID          string          `json:"ruleID"`
	UserID          string          `json:"userID"`
	AccountID       string          `json:"accountID"`
	CategoryID      *string         `json:"categoryID,omitempty"`
	Amount          int64           `json:"amount"` // Minor units, > 0
	TransactionType TransactionType `json:"transactionType"`
	Description     string          `json:"description"`
	Interval        Interval        `json:"interval"`
	NextRunDate     time.Time       `json:"nextRunDate"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// IsDue reports whether the rule has at least one cycle at or before now.
func (r RecurringRule) IsDue(now time.Time) bool {
	return r.IsActive && !r.NextRunDate.After(now)
}
