package models

// Account is a row of the accounts table. Balance is minor units.
type Account struct {
	AccountID    string `db:"account_id"`
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	AccountType  string `db:"account_type"`
	CurrencyCode string `db:"currency_code"`
	Balance      int64  `db:"balance"`
	AuditFields
}

// Category is a row of the categories table.
type Category struct {
	CategoryID string `db:"category_id"`
	UserID     string `db:"user_id"`
	Name       string `db:"name"`
	AuditFields
}
