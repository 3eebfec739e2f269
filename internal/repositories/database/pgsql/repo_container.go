package pgsql

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider creates and returns a RepositoryProvider backed by PostgreSQL.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:       newPgxAccountRepository(dbPool),
		CategoryRepo:      newPgxCategoryRepository(dbPool),
		TransactionRepo:   newPgxTransactionRepository(dbPool),
		RecurringRuleRepo: newPgxRecurringRuleRepository(dbPool),
		ExchangeRateRepo:  newPgxExchangeRateRepository(dbPool),
	}
}
