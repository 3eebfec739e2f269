package domain

// AccountType is the user-facing kind of an account.
type AccountType string

const (
	Checking AccountType = "checking"
	Savings  AccountType = "savings"
	Credit   AccountType = "credit"
	Cash     AccountType = "cash"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Credit, Cash:
		return true
	}
	return false
}

// Account represents a financial account owned by a single user.
// Balance is kept in minor units and is only ever changed by the ledger.
type Account struct {
	AccountID    string      `json:"accountID"`    // Primary Key (UUID)
	UserID       string      `json:"userID"`       // Owner
	Name         string      `json:"name"`         // User-defined name
	AccountType  AccountType `json:"accountType"`  // checking, savings, credit, cash
	CurrencyCode string      `json:"currencyCode"` // ISO 4217
	Balance      int64       `json:"balance"`      // Signed, minor units
	AuditFields
}
