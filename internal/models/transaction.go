package models

import (
	"database/sql"
	"time"
)

// Transaction is a row of the transactions table.
type Transaction struct {
	TransactionID   string         `db:"transaction_id"`
	UserID          string         `db:"user_id"`
	AccountID       string         `db:"account_id"`
	CategoryID      sql.NullString `db:"category_id"` // Nullable
	TransferID      sql.NullString `db:"transfer_id"` // Nullable
	Amount          int64          `db:"amount"`
	TransactionType string         `db:"transaction_type"`
	Description     string         `db:"description"`
	OccurredAt      time.Time      `db:"occurred_at"`
	CreatedAt       time.Time      `db:"created_at"`
}
