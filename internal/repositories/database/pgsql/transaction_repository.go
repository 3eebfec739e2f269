package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, user_id, account_id, category_id, transfer_id, amount,
	transaction_type, description, occurred_at, created_at`

const defaultTransactionPageSize = 20

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transactions and the ledger write path.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(&m.TransactionID, &m.UserID, &m.AccountID, &m.CategoryID, &m.TransferID, &m.Amount,
		&m.TransactionType, &m.Description, &m.OccurredAt, &m.CreatedAt)
	if err != nil {
		return domain.Transaction{}, err
	}
	return mapping.ToDomainTransaction(m), nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction by ID "+transactionID, err)
	}
	return &txn, nil
}

// ListTransactions returns the newest transactions first. Rows are ordered by
// (occurred_at, created_at, transaction_id) descending; the token is the last row's tuple.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionListFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}

	args := []any{filter.UserID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1`
	if filter.AccountID != "" {
		args = append(args, filter.AccountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		args = append(args, cursor.OccurredAt, cursor.CreatedAt, cursor.ID)
		n := len(args)
		query += fmt.Sprintf(" AND (occurred_at, created_at, transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n)
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, created_at DESC, transaction_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit+1)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{OccurredAt: last.OccurredAt, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
	}
	return txns, nextToken, nil
}

// ApplyBatch runs the whole batch inside one database transaction.
func (r *PgxTransactionRepository) ApplyBatch(ctx context.Context, batch domain.LedgerBatch) (*domain.LedgerResult, error) {
	result := &domain.LedgerResult{Balances: map[string]int64{}}
	if batch.IsEmpty() {
		return result, nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if adv := batch.RuleAdvance; adv != nil {
		ct, err := tx.Exec(ctx, `
			UPDATE recurring_rules
			SET next_run_date = $3, last_updated_at = $4
			WHERE rule_id = $1 AND next_run_date = $2 AND is_active;
		`, adv.RuleID, adv.Expected, adv.Next, adv.UpdatedAt)
		if err != nil {
			return nil, mapPgError(err, "failed to advance recurring rule "+adv.RuleID)
		}
		if ct.RowsAffected() == 0 {
			return nil, apperrors.NewConflictError("recurring rule cursor moved", nil)
		}
	}

	deltas := batch.InsertBalanceChanges()

	for _, id := range batch.DeleteIDs {
		deleted, err := scanTransaction(tx.QueryRow(ctx,
			`DELETE FROM transactions WHERE transaction_id = $1 RETURNING `+transactionColumns+`;`, id))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFoundError("transaction not found")
			}
			return nil, mapPgError(err, "failed to delete transaction "+id)
		}
		deltas[deleted.AccountID] -= deleted.SignedAmount()
		result.Deleted = append(result.Deleted, deleted)
	}

	if len(batch.Inserts) > 0 {
		insertQuery := `
			INSERT INTO transactions (transaction_id, user_id, account_id, category_id, transfer_id, amount,
				transaction_type, description, occurred_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
		`
		b := &pgx.Batch{}
		for _, txn := range batch.Inserts {
			m := mapping.ToModelTransaction(txn)
			b.Queue(insertQuery, m.TransactionID, m.UserID, m.AccountID, m.CategoryID, m.TransferID, m.Amount,
				m.TransactionType, m.Description, m.OccurredAt, m.CreatedAt)
		}
		if err := execBatch(ctx, tx, b, len(batch.Inserts)); err != nil {
			return nil, mapPgError(err, "failed to insert transactions")
		}
	}

	// Accounts are always touched in ID order so concurrent batches cannot deadlock each other.
	accountIDs := make([]string, 0, len(deltas))
	for id := range deltas {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	now := time.Now().UTC()
	for _, id := range accountIDs {
		var balance int64
		err := tx.QueryRow(ctx, `
			UPDATE accounts
			SET balance = balance + $2, last_updated_at = $3
			WHERE account_id = $1
			RETURNING balance;
		`, id, deltas[id], now).Scan(&balance)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFoundError("account not found")
			}
			return nil, mapPgError(err, "failed to update balance for account "+id)
		}
		result.Balances[id] = balance
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return result, nil
}

func execBatch(ctx context.Context, tx pgx.Tx, b *pgx.Batch, n int) error {
	br := tx.SendBatch(ctx, b)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	return br.Close()
}
