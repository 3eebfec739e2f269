package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ruleColumns = `rule_id, user_id, account_id, category_id, amount, transaction_type, description,
	interval, next_run_date, is_active, created_at, created_by, last_updated_at, last_updated_by`

type PgxRecurringRuleRepository struct {
	BaseRepository
}

func newPgxRecurringRuleRepository(pool *pgxpool.Pool) *PgxRecurringRuleRepository {
	return &PgxRecurringRuleRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurringRuleRepositoryFacade = (*PgxRecurringRuleRepository)(nil)

func scanRule(row pgx.Row) (domain.RecurringRule, error) {
	var m models.RecurringRule
	err := row.Scan(&m.RuleID, &m.UserID, &m.AccountID, &m.CategoryID, &m.Amount, &m.TransactionType, &m.Description,
		&m.Interval, &m.NextRunDate, &m.IsActive, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy)
	if err != nil {
		return domain.RecurringRule{}, err
	}
	return mapping.ToDomainRecurringRule(m), nil
}

func (r *PgxRecurringRuleRepository) queryRules(ctx context.Context, query string, args ...any) ([]domain.RecurringRule, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query recurring rules", err)
	}
	defer rows.Close()

	rules := []domain.RecurringRule{}
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan recurring rule row", err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating recurring rule rows", err)
	}
	return rules, nil
}

func (r *PgxRecurringRuleRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.RecurringRule, error) {
	rule, err := scanRule(r.Pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM recurring_rules WHERE rule_id = $1;`, ruleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find recurring rule by ID "+ruleID, err)
	}
	return &rule, nil
}

func (r *PgxRecurringRuleRepository) FindDueRules(ctx context.Context, userID string, now time.Time) ([]domain.RecurringRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules
		WHERE user_id = $1 AND is_active AND next_run_date <= $2
		ORDER BY next_run_date, rule_id;`
	return r.queryRules(ctx, query, userID, now)
}

func (r *PgxRecurringRuleRepository) ListRulesByUser(ctx context.Context, userID string) ([]domain.RecurringRule, error) {
	query := `SELECT ` + ruleColumns + ` FROM recurring_rules WHERE user_id = $1 ORDER BY next_run_date, rule_id;`
	return r.queryRules(ctx, query, userID)
}

func (r *PgxRecurringRuleRepository) ListUsersWithDueRules(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT DISTINCT user_id FROM recurring_rules
		WHERE is_active AND next_run_date <= $1
		ORDER BY user_id;
	`, now)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list users with due rules", err)
	}
	defer rows.Close()

	userIDs := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan user ID", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating user rows", err)
	}
	return userIDs, nil
}

func (r *PgxRecurringRuleRepository) SaveRule(ctx context.Context, rule domain.RecurringRule) error {
	m := mapping.ToModelRecurringRule(rule)
	query := `
		INSERT INTO recurring_rules (rule_id, user_id, account_id, category_id, amount, transaction_type, description,
			interval, next_run_date, is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query, m.RuleID, m.UserID, m.AccountID, m.CategoryID, m.Amount, m.TransactionType,
		m.Description, m.Interval, m.NextRunDate, m.IsActive, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return mapPgError(err, "failed to insert recurring rule "+m.RuleID)
	}
	return nil
}

func (r *PgxRecurringRuleRepository) DeactivateRule(ctx context.Context, ruleID string, userID string, now time.Time) error {
	ct, err := r.Pool.Exec(ctx, `
		UPDATE recurring_rules
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE rule_id = $1;
	`, ruleID, now, userID)
	if err != nil {
		return mapPgError(err, "failed to deactivate recurring rule "+ruleID)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
