package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
)

// Store is an in-memory implementation of every repository port.
// One mutex guards all state, so ApplyBatch is all-or-nothing: it validates the whole
// batch before changing anything.
type Store struct {
	mu           sync.Mutex
	accounts     map[string]domain.Account
	categories   map[string]domain.Category
	transactions map[string]domain.Transaction
	rules        map[string]domain.RecurringRule
	rates        map[string]domain.ExchangeRate
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]domain.Account),
		categories:   make(map[string]domain.Category),
		transactions: make(map[string]domain.Transaction),
		rules:        make(map[string]domain.RecurringRule),
		rates:        make(map[string]domain.ExchangeRate),
	}
}

// NewRepositoryProvider exposes one Store through every port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       store,
		CategoryRepo:      store,
		TransactionRepo:   store,
		RecurringRuleRepo: store,
		ExchangeRateRepo:  store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade       = (*Store)(nil)
	_ portsrepo.CategoryRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade   = (*Store)(nil)
	_ portsrepo.RecurringRuleRepositoryFacade = (*Store)(nil)
	_ portsrepo.ExchangeRateRepositoryFacade  = (*Store)(nil)
)

// --- accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &account, nil
}

func (s *Store) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := make(map[string]domain.Account, len(accountIDs))
	for _, id := range accountIDs {
		if account, ok := s.accounts[id]; ok {
			found[id] = account
		}
	}
	return found, nil
}

func (s *Store) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	accounts := make([]domain.Account, 0)
	for _, account := range s.accounts {
		if account.UserID == userID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].Name != accounts[j].Name {
			return accounts[i].Name < accounts[j].Name
		}
		return accounts[i].AccountID < accounts[j].AccountID
	})
	return accounts, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[account.AccountID]; exists {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.AccountID] = account
	return nil
}

// DeleteZeroBalanceAccount removes the account with its transactions and rules.
func (s *Store) DeleteZeroBalanceAccount(ctx context.Context, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	account, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if account.Balance != 0 {
		return apperrors.ErrValidation
	}
	for id, txn := range s.transactions {
		if txn.AccountID == accountID {
			delete(s.transactions, id)
		}
	}
	for id, rule := range s.rules {
		if rule.AccountID == accountID {
			delete(s.rules, id)
		}
	}
	delete(s.accounts, accountID)
	return nil
}

// --- categories ---

func (s *Store) FindCategoryByID(ctx context.Context, categoryID string) (*domain.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	category, ok := s.categories[categoryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &category, nil
}

func (s *Store) SaveCategory(ctx context.Context, category domain.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.categories[category.CategoryID]; exists {
		return apperrors.ErrDuplicate
	}
	s.categories[category.CategoryID] = category
	return nil
}

// --- transactions ---

func (s *Store) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.Transaction, *string, error) {
	var cursor *pagination.Cursor
	if filter.NextToken != nil && *filter.NextToken != "" {
		c, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		cursor = &c
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	matched := make([]domain.Transaction, 0)
	for _, txn := range s.transactions {
		if txn.UserID != filter.UserID {
			continue
		}
		if filter.AccountID != "" && txn.AccountID != filter.AccountID {
			continue
		}
		if cursor != nil && !cursor.Before(txn.OccurredAt, txn.CreatedAt, txn.TransactionID) {
			continue
		}
		matched = append(matched, txn)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.TransactionID > b.TransactionID
	})

	var nextToken *string
	if len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{OccurredAt: last.OccurredAt, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}
	return matched, nextToken, nil
}

// ApplyBatch validates the rule cursor, deletions and inserts, then applies all of them.
func (s *Store) ApplyBatch(ctx context.Context, batch domain.LedgerBatch) (*domain.LedgerResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var advancedRule *domain.RecurringRule
	if adv := batch.RuleAdvance; adv != nil {
		rule, ok := s.rules[adv.RuleID]
		if !ok || !rule.IsActive || !rule.NextRunDate.Equal(adv.Expected) {
			return nil, apperrors.NewConflictError("recurring rule cursor moved", nil)
		}
		rule.NextRunDate = adv.Next
		rule.LastUpdatedAt = adv.UpdatedAt
		advancedRule = &rule
	}

	deltas := make(map[string]int64)
	deleted := make([]domain.Transaction, 0, len(batch.DeleteIDs))
	seen := make(map[string]struct{}, len(batch.DeleteIDs))
	for _, id := range batch.DeleteIDs {
		txn, ok := s.transactions[id]
		if _, dup := seen[id]; !ok || dup {
			return nil, apperrors.NewNotFoundError("transaction not found")
		}
		seen[id] = struct{}{}
		deleted = append(deleted, txn)
		deltas[txn.AccountID] -= txn.SignedAmount()
	}

	inserted := make(map[string]struct{}, len(batch.Inserts))
	for _, txn := range batch.Inserts {
		if _, exists := s.transactions[txn.TransactionID]; exists {
			return nil, apperrors.ErrDuplicate
		}
		if _, exists := inserted[txn.TransactionID]; exists {
			return nil, apperrors.ErrDuplicate
		}
		inserted[txn.TransactionID] = struct{}{}
		if _, ok := s.accounts[txn.AccountID]; !ok {
			return nil, apperrors.NewNotFoundError("account not found")
		}
		if txn.CategoryID != nil {
			if _, ok := s.categories[*txn.CategoryID]; !ok {
				return nil, apperrors.NewNotFoundError("category not found")
			}
		}
	}
	for accountID, delta := range batch.InsertBalanceChanges() {
		deltas[accountID] += delta
	}

	// Everything validated: apply
	if advancedRule != nil {
		s.rules[advancedRule.RuleID] = *advancedRule
	}
	for _, txn := range deleted {
		delete(s.transactions, txn.TransactionID)
	}
	for _, txn := range batch.Inserts {
		s.transactions[txn.TransactionID] = txn
	}
	balances := make(map[string]int64, len(deltas))
	for accountID, delta := range deltas {
		account := s.accounts[accountID]
		account.Balance += delta
		s.accounts[accountID] = account
		balances[accountID] = account.Balance
	}

	return &domain.LedgerResult{Deleted: deleted, Balances: balances}, nil
}

// --- recurring rules ---

func (s *Store) FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[ruleID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &rule, nil
}

func (s *Store) FindDueRules(ctx context.Context, userID string, now time.Time) ([]domain.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	due := make([]domain.RecurringRule, 0)
	for _, rule := range s.rules {
		if rule.UserID == userID && rule.IsDue(now) {
			due = append(due, rule)
		}
	}
	sortRules(due)
	return due, nil
}

func (s *Store) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rules := make([]domain.RecurringRule, 0)
	for _, rule := range s.rules {
		if rule.UserID == userID {
			rules = append(rules, rule)
		}
	}
	sortRules(rules)
	return rules, nil
}

func (s *Store) ListUsersWithDueRules(ctx context.Context, now time.Time) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make(map[string]struct{})
	for _, rule := range s.rules {
		if rule.IsDue(now) {
			users[rule.UserID] = struct{}{}
		}
	}
	ids := make([]string, 0, len(users))
	for id := range users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *Store) SaveRule(ctx context.Context, rule domain.RecurringRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rules[rule.RuleID]; exists {
		return apperrors.ErrDuplicate
	}
	if _, ok := s.accounts[rule.AccountID]; !ok {
		return apperrors.ErrNotFound
	}
	s.rules[rule.RuleID] = rule
	return nil
}

func (s *Store) DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rule, ok := s.rules[ruleID]
	if !ok {
		return apperrors.ErrNotFound
	}
	rule.IsActive = false
	rule.LastUpdatedAt = now
	rule.LastUpdatedBy = userID
	s.rules[ruleID] = rule
	return nil
}

func sortRules(rules []domain.RecurringRule) {
	sort.Slice(rules, func(i, j int) bool {
		if !rules[i].NextRunDate.Equal(rules[j].NextRunDate) {
			return rules[i].NextRunDate.Before(rules[j].NextRunDate)
		}
		return rules[i].RuleID < rules[j].RuleID
	})
}

// --- exchange rates ---

func (s *Store) ListRates(ctx context.Context) ([]domain.ExchangeRate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := make([]domain.ExchangeRate, 0, len(s.rates))
	for _, rate := range s.rates {
		rates = append(rates, rate)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].CurrencyCode < rates[j].CurrencyCode })
	return rates, nil
}

func (s *Store) UpsertRates(ctx context.Context, rates []domain.ExchangeRate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rate := range rates {
		s.rates[rate.CurrencyCode] = rate
	}
	return nil
}
