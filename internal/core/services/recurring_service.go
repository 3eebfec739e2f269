package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/google/uuid"
)

// MaxCatchUpCycles bounds how many occurrences of one rule a single pass materializes.
// A rule further behind resumes from its advanced cursor on the next pass.
const MaxCatchUpCycles = 12

// RecurringService owns recurring rules and the catch-up engine.
type RecurringService struct {
	BaseService
	ruleRepo portsrepo.RecurringRuleRepositoryFacade
	ledger   portsrepo.LedgerWriter
	access   portssvc.AccessSvc
}

// NewRecurringService creates a new RecurringService.
func NewRecurringService(ruleRepo portsrepo.RecurringRuleRepositoryFacade, ledger portsrepo.LedgerWriter, access portssvc.AccessSvc) *RecurringService {
	return &RecurringService{
		ruleRepo: ruleRepo,
		ledger:   ledger,
		access:   access,
	}
}

var _ portssvc.RecurringSvcFacade = (*RecurringService)(nil)

// ProcessDueRules materializes every missed cycle of the user's due rules, up to
// MaxCatchUpCycles per rule. Each cycle is one unit: the backdated transaction, its
// balance change, and the move of next_run_date from exactly the cursor read to the next
// occurrence. If that move finds the cursor already changed, a concurrent pass owns the
// rule and this pass skips it, so a cycle is never materialized twice.
func (s *RecurringService) ProcessDueRules(ctx context.Context, userID string, now time.Time) ([]domain.Transaction, error) {
	rules, err := s.ruleRepo.FindDueRules(ctx, userID, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to find due recurring rules")
		return nil, err
	}

	materialized := make([]domain.Transaction, 0)
	for _, rule := range rules {
		created, err := s.catchUp(ctx, rule, now)
		materialized = append(materialized, created...)
		if err != nil {
			return materialized, err
		}
	}

	if len(materialized) > 0 {
		s.LogInfo(ctx, "Recurring rules processed",
			slog.Int("rules", len(rules)),
			slog.Int("materialized", len(materialized)))
	}
	return materialized, nil
}

func (s *RecurringService) catchUp(ctx context.Context, rule domain.RecurringRule, now time.Time) ([]domain.Transaction, error) {
	var created []domain.Transaction
	cursor := rule.NextRunDate

	for cycles := 0; !cursor.After(now) && cycles < MaxCatchUpCycles; cycles++ {
		next, err := rule.Interval.Advance(cursor)
		if err != nil {
			return created, fmt.Errorf("rule %s: %w", rule.RuleID, err)
		}

		txn := domain.Transaction{
			TransactionID:   uuid.NewString(),
			UserID:          rule.UserID,
			AccountID:       rule.AccountID,
			CategoryID:      rule.CategoryID,
			Amount:          rule.Amount,
			TransactionType: rule.TransactionType,
			Description:     rule.Description,
			OccurredAt:      cursor,
			CreatedAt:       s.Now(),
		}
		result, err := s.ledger.ApplyBatch(ctx, domain.LedgerBatch{
			Inserts: []domain.Transaction{txn},
			RuleAdvance: &domain.RuleCursorAdvance{
				RuleID:    rule.RuleID,
				Expected:  cursor,
				Next:      next,
				UpdatedAt: s.Now(),
			},
		})
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, err, "Recurring rule advanced concurrently, skipping",
				slog.String("rule_id", rule.RuleID),
				slog.Time("cursor", cursor))
			return created, nil
		}
		if err != nil {
			s.LogError(ctx, err, "Failed to materialize recurring cycle",
				slog.String("rule_id", rule.RuleID),
				slog.Time("cursor", cursor))
			return created, err
		}

		created = append(created, txn)
		s.PublishEvent(ctx, domain.EventTransactionCreated, txn.UserID, []domain.Transaction{txn}, result.Balances)
		cursor = next
	}

	if !cursor.After(now) {
		s.LogInfo(ctx, "Recurring rule still behind after capped pass",
			slog.String("rule_id", rule.RuleID),
			slog.Time("next_run_date", cursor))
	}
	return created, nil
}

// ListUsersWithDueRules is used by scheduled processing to find work.
func (s *RecurringService) ListUsersWithDueRules(ctx context.Context, now time.Time) ([]string, error) {
	return s.ruleRepo.ListUsersWithDueRules(ctx, now)
}

// CreateRule verifies ownership of the account and category, then stores the rule with
// next_run_date set to the start date.
func (s *RecurringService) CreateRule(ctx context.Context, userID string, req dto.CreateRecurringRuleRequest) (*domain.RecurringRule, error) {
	amount, err := money.ParseMinorUnits(req.Amount)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid amount: " + req.Amount)
	}
	if amount <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive")
	}
	txnType := domain.TransactionType(req.Type)
	if !txnType.IsValid() {
		return nil, apperrors.NewValidationError("type must be income or expense")
	}
	interval := domain.Interval(req.Interval)
	if !interval.IsValid() {
		return nil, apperrors.NewValidationError("interval must be weekly, monthly or yearly")
	}
	if req.StartDate.IsZero() {
		return nil, apperrors.NewValidationError("start date is required")
	}

	if _, err := s.access.AuthorizeAccount(ctx, userID, req.AccountID); err != nil {
		return nil, err
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := s.access.AuthorizeCategory(ctx, userID, *req.CategoryID); err != nil {
			return nil, err
		}
	} else {
		req.CategoryID = nil
	}

	now := s.Now()
	rule := domain.RecurringRule{
		RuleID:          uuid.NewString(),
		UserID:          userID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Amount:          amount,
		TransactionType: txnType,
		Description:     req.Description,
		Interval:        interval,
		NextRunDate:     req.StartDate.UTC(),
		IsActive:        true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.ruleRepo.SaveRule(ctx, rule); err != nil {
		s.LogError(ctx, err, "Failed to save recurring rule")
		return nil, err
	}

	s.LogInfo(ctx, "Recurring rule created",
		slog.String("rule_id", rule.RuleID),
		slog.String("interval", string(interval)),
		slog.Time("next_run_date", rule.NextRunDate))
	return &rule, nil
}

func (s *RecurringService) ListRules(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	return s.ruleRepo.ListRulesByUser(ctx, userID)
}

// DeactivateRule stops a rule; inactive rules are never due.
func (s *RecurringService) DeactivateRule(ctx context.Context, userID string, ruleID string) error {
	if _, err := s.access.AuthorizeRule(ctx, userID, ruleID); err != nil {
		return err
	}
	if err := s.ruleRepo.DeactivateRule(ctx, ruleID, userID, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to deactivate recurring rule", slog.String("rule_id", ruleID))
		return err
	}
	s.LogInfo(ctx, "Recurring rule deactivated", slog.String("rule_id", ruleID))
	return nil
}
