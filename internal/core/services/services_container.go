package services

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
)

// ContainerDeps are the outbound collaborators of the service container.
type ContainerDeps struct {
	RateProvider gateways.RateProvider
	Publisher    gateways.EventPublisher
	BaseCurrency string
	RateCacheTTL time.Duration
	Clock        func() time.Time
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, deps ContainerDeps) *portssvc.ServiceContainer {
	base := BaseService{Publisher: deps.Publisher, Clock: deps.Clock}

	rates := NewCurrencyRateService(repos.ExchangeRateRepo, deps.RateProvider,
		WithBaseCurrency(deps.BaseCurrency),
		WithRateCacheTTL(deps.RateCacheTTL),
	)
	rates.BaseService = base

	access := NewAccessService(repos.AccountRepo, repos.CategoryRepo, repos.TransactionRepo, repos.RecurringRuleRepo)
	access.BaseService = base

	accounts := NewAccountService(repos.AccountRepo,
		WithAccountAccess(access),
		WithAccountConverter(rates),
	)
	accounts.BaseService = base

	categories := NewCategoryService(repos.CategoryRepo)
	categories.BaseService = base

	ledger := NewLedgerService(repos.AccountRepo, repos.TransactionRepo, rates)
	ledger.BaseService = base

	recurring := NewRecurringService(repos.RecurringRuleRepo, repos.TransactionRepo, access)
	recurring.BaseService = base

	return &portssvc.ServiceContainer{
		Access:       access,
		Account:      accounts,
		Category:     categories,
		Ledger:       ledger,
		Recurring:    recurring,
		CurrencyRate: rates,
	}
}
