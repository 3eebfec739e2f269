package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/ports/gateways"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// DefaultRateCacheTTL is how long the cached table is served without asking the provider.
const DefaultRateCacheTTL = time.Hour

// DefaultStaticRates is the last-resort table, served only when the cache is empty and the
// provider is unreachable. It is never persisted.
func DefaultStaticRates() domain.RateTable {
	return domain.RateTable{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.92"),
		"GBP": decimal.RequireFromString("0.79"),
		"JPY": decimal.RequireFromString("150"),
		"INR": decimal.RequireFromString("83"),
		"CAD": decimal.RequireFromString("1.36"),
		"AUD": decimal.RequireFromString("1.52"),
	}
}

var errProviderFailed = errors.New("rate provider failed")

// CurrencyRateService is the layered rate cache: fresh cache, provider, stale cache, static table.
type CurrencyRateService struct {
	BaseService
	rateRepo     portsrepo.ExchangeRateRepositoryFacade
	provider     gateways.RateProvider
	baseCurrency string
	ttl          time.Duration
	staticRates  domain.RateTable
	refreshGroup singleflight.Group
}

// CurrencyRateOption is a functional option for configuring the rate service
type CurrencyRateOption func(*CurrencyRateService)

// WithRateCacheTTL overrides DefaultRateCacheTTL.
func WithRateCacheTTL(ttl time.Duration) CurrencyRateOption {
	return func(s *CurrencyRateService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithBaseCurrency sets the currency every rate is expressed against.
func WithBaseCurrency(code string) CurrencyRateOption {
	return func(s *CurrencyRateService) {
		if code != "" {
			s.baseCurrency = strings.ToUpper(code)
		}
	}
}

// WithStaticRates overrides DefaultStaticRates.
func WithStaticRates(rates domain.RateTable) CurrencyRateOption {
	return func(s *CurrencyRateService) {
		s.staticRates = rates
	}
}

// WithRateClock injects the time source used for freshness checks.
func WithRateClock(clock func() time.Time) CurrencyRateOption {
	return func(s *CurrencyRateService) {
		s.Clock = clock
	}
}

// NewCurrencyRateService creates the rate cache service.
func NewCurrencyRateService(repo portsrepo.ExchangeRateRepositoryFacade, provider gateways.RateProvider, options ...CurrencyRateOption) *CurrencyRateService {
	svc := &CurrencyRateService{
		rateRepo:     repo,
		provider:     provider,
		baseCurrency: "USD",
		ttl:          DefaultRateCacheTTL,
		staticRates:  DefaultStaticRates(),
	}
	for _, option := range options {
		option(svc)
	}
	svc.staticRates = rebaseTable(svc.staticRates, svc.baseCurrency)
	return svc
}

// rebaseTable re-expresses a table against base when base is present but not 1.
func rebaseTable(rates domain.RateTable, base string) domain.RateTable {
	baseRate, ok := rates[base]
	if !ok || !baseRate.IsPositive() || baseRate.Equal(decimal.NewFromInt(1)) {
		return rates
	}
	rebased := make(domain.RateTable, len(rates))
	for code, rate := range rates {
		rebased[code] = rate.Div(baseRate)
	}
	rebased[base] = decimal.NewFromInt(1)
	return rebased
}

var _ portssvc.CurrencyRateSvcFacade = (*CurrencyRateService)(nil)

// GetRates returns the current rate table. It never fails: provider and storage errors are
// logged and answered from the next tier of the fallback chain.
func (s *CurrencyRateService) GetRates(ctx context.Context) domain.RateSnapshot {
	rows, err := s.rateRepo.ListRates(ctx)
	if err != nil {
		s.LogWarn(ctx, err, "Failed to read rate cache, treating it as empty")
		rows = nil
	}

	cached, sentinel := s.tableFromRows(rows)
	if sentinel != nil && s.Now().Sub(sentinel.UpdatedAt) < s.ttl {
		return domain.RateSnapshot{
			BaseCurrency: s.baseCurrency,
			Rates:        cached,
			Source:       domain.RateSourceCache,
			UpdatedAt:    sentinel.UpdatedAt,
		}
	}

	fresh, err := s.refresh(ctx, false)
	if err == nil {
		return fresh
	}
	s.LogWarn(ctx, err, "Exchange rate refresh failed, falling back",
		slog.Int("cached_rows", len(cached)))

	if len(cached) > 0 {
		// The base rate is 1 by definition even when its row is missing
		cached[s.baseCurrency] = decimal.NewFromInt(1)
		snapshot := domain.RateSnapshot{
			BaseCurrency: s.baseCurrency,
			Rates:        cached,
			Source:       domain.RateSourceStaleCache,
		}
		for _, row := range rows {
			if row.UpdatedAt.After(snapshot.UpdatedAt) {
				snapshot.UpdatedAt = row.UpdatedAt
			}
		}
		return snapshot
	}

	static := make(domain.RateTable, len(s.staticRates))
	for code, rate := range s.staticRates {
		static[code] = rate
	}
	return domain.RateSnapshot{
		BaseCurrency: s.baseCurrency,
		Rates:        static,
		Source:       domain.RateSourceStatic,
	}
}

// RefreshRates asks the provider regardless of cache freshness. Unlike GetRates it
// surfaces both provider and storage errors.
func (s *CurrencyRateService) RefreshRates(ctx context.Context) (domain.RateSnapshot, error) {
	return s.refresh(ctx, true)
}

// refresh fetches, validates and persists a new table. Concurrent callers share one provider call.
func (s *CurrencyRateService) refresh(ctx context.Context, strict bool) (domain.RateSnapshot, error) {
	key := "lenient"
	if strict {
		key = "strict"
	}
	v, err, shared := s.refreshGroup.Do(key, func() (interface{}, error) {
		return s.fetchAndStore(ctx, strict)
	})
	if shared {
		s.LogDebug(ctx, "Shared an in-flight exchange rate refresh")
	}
	if err != nil {
		return domain.RateSnapshot{}, err
	}
	return v.(domain.RateSnapshot), nil
}

func (s *CurrencyRateService) fetchAndStore(ctx context.Context, strict bool) (domain.RateSnapshot, error) {
	if s.provider == nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: no provider configured", errProviderFailed)
	}

	base, rates, err := s.provider.FetchRates(ctx)
	if err != nil {
		return domain.RateSnapshot{}, fmt.Errorf("%w: %w", errProviderFailed, err)
	}
	if !strings.EqualFold(base, s.baseCurrency) {
		return domain.RateSnapshot{}, fmt.Errorf("%w: provider base %q does not match %q", errProviderFailed, base, s.baseCurrency)
	}

	now := s.Now()
	table := make(domain.RateTable, len(rates)+1)
	rows := make([]domain.ExchangeRate, 0, len(rates)+1)
	for code, rate := range rates {
		code = strings.ToUpper(code)
		if code == s.baseCurrency {
			continue
		}
		if !rate.IsPositive() {
			s.LogWarn(ctx, apperrors.ErrValidation, "Dropping non-positive rate from provider",
				slog.String("currency_code", code), slog.String("rate", rate.String()))
			continue
		}
		table[code] = rate
		rows = append(rows, domain.ExchangeRate{CurrencyCode: code, Rate: rate, UpdatedAt: now})
	}
	if len(table) == 0 {
		return domain.RateSnapshot{}, fmt.Errorf("%w: provider returned no usable rates", errProviderFailed)
	}

	// The base row is the freshness sentinel for the whole table
	one := decimal.NewFromInt(1)
	table[s.baseCurrency] = one
	rows = append(rows, domain.ExchangeRate{CurrencyCode: s.baseCurrency, Rate: one, UpdatedAt: now})

	if err := s.rateRepo.UpsertRates(ctx, rows); err != nil {
		if strict {
			return domain.RateSnapshot{}, fmt.Errorf("failed to store exchange rates: %w", err)
		}
		s.LogError(ctx, err, "Failed to store exchange rates, serving them uncached",
			slog.Int("rates", len(rows)))
	} else {
		s.LogInfo(ctx, "Exchange rates refreshed", slog.Int("rates", len(rows)))
	}

	return domain.RateSnapshot{
		BaseCurrency: s.baseCurrency,
		Rates:        table,
		Source:       domain.RateSourceProvider,
		UpdatedAt:    now,
	}, nil
}

// tableFromRows builds a table from cache rows and returns the base-currency row, if any.
func (s *CurrencyRateService) tableFromRows(rows []domain.ExchangeRate) (domain.RateTable, *domain.ExchangeRate) {
	table := make(domain.RateTable, len(rows))
	var sentinel *domain.ExchangeRate
	for i := range rows {
		table[rows[i].CurrencyCode] = rows[i].Rate
		if rows[i].CurrencyCode == s.baseCurrency {
			sentinel = &rows[i]
		}
	}
	return table, sentinel
}

// ConvertCurrency converts one amount, reading rates through GetRates.
// Same-currency conversion returns the input without touching the cache.
func (s *CurrencyRateService) ConvertCurrency(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}
	snapshot := s.GetRates(ctx)
	converted, err := CalculateExchange(amount, from, to, snapshot.Rates)
	if err != nil {
		s.LogWarn(ctx, err, "Currency conversion failed",
			slog.String("from", from), slog.String("to", to),
			slog.String("rate_source", string(snapshot.Source)))
		return decimal.Zero, err
	}
	return converted, nil
}

// CalculateExchange is the pure form of ConvertCurrency for callers holding a table.
func (s *CurrencyRateService) CalculateExchange(amount decimal.Decimal, from, to string, rates domain.RateTable) (decimal.Decimal, error) {
	return CalculateExchange(amount, from, to, rates)
}

// CalculateExchange computes (amount / rates[from]) * rates[to]. A missing or non-positive
// rate for either currency is ErrRateUnavailable; no 1:1 substitute is ever used.
func CalculateExchange(amount decimal.Decimal, from, to string, rates domain.RateTable) (decimal.Decimal, error) {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount, nil
	}
	fromRate, ok := rates[from]
	if !ok || !fromRate.IsPositive() {
		return decimal.Zero, apperrors.NewRateUnavailableError(from)
	}
	toRate, ok := rates[to]
	if !ok || !toRate.IsPositive() {
		return decimal.Zero, apperrors.NewRateUnavailableError(to)
	}
	return amount.Div(fromRate).Mul(toRate), nil
}
