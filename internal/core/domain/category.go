package domain

// Category groups transactions for reporting. Only ownership matters to the ledger.
type Category struct {
	CategoryID string `json:"categoryID"`
	UserID     string `json:"userID"`
	Name       string `json:"name"`
	AuditFields
}
