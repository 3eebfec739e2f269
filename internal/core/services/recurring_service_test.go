package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RecurringServiceTestSuite struct {
	suite.Suite
	ctx     context.Context
	now     time.Time
	store   *memory.Store
	service *services.RecurringService
}

func (s *RecurringServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 6, 22, 9, 0, 0, 0, time.UTC)
	s.store = memory.NewStore()
	access := services.NewAccessService(s.store, s.store, s.store, s.store)
	s.service = services.NewRecurringService(s.store, s.store, access)
	s.service.Clock = fixedClock(s.now)
	seedAccount(s.store, "acc-a", "user-1", "USD", 0)
}

func (s *RecurringServiceTestSuite) addRule(id string, interval domain.Interval, next time.Time, amount int64, txnType domain.TransactionType) {
	s.Require().NoError(s.store.SaveRule(s.ctx, domain.RecurringRule{
		RuleID: id, UserID: "user-1", AccountID: "acc-a", Amount: amount, TransactionType: txnType,
		Description: "rule " + id, Interval: interval, NextRunDate: next, IsActive: true,
	}))
}

func (s *RecurringServiceTestSuite) rule(id string) *domain.RecurringRule {
	r, err := s.store.FindRuleByID(s.ctx, id)
	s.Require().NoError(err)
	return r
}

func (s *RecurringServiceTestSuite) TestWeeklyCatchUp() {
	// Scheduled at noon three weeks ago, processed this morning
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.addRule("weekly", domain.Weekly, start, 1500, domain.Expense)

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)

	s.Require().Len(created, 3)
	for i, want := range []time.Time{start, start.AddDate(0, 0, 7), start.AddDate(0, 0, 14)} {
		s.True(want.Equal(created[i].OccurredAt), "cycle %d dated %s", i, created[i].OccurredAt)
		s.Equal(int64(1500), created[i].Amount)
	}
	s.True(time.Date(2025, 6, 22, 12, 0, 0, 0, time.UTC).Equal(s.rule("weekly").NextRunDate))
	s.Equal(int64(-4500), balanceOf(s.store, "acc-a"))
}

func (s *RecurringServiceTestSuite) TestCursorEqualToNowIsDue() {
	s.addRule("edge", domain.Weekly, s.now.AddDate(0, 0, -7), 100, domain.Income)

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.Len(created, 2, "the cycle landing exactly on now is materialized too")
	s.True(s.now.AddDate(0, 0, 7).Equal(s.rule("edge").NextRunDate))
}

func (s *RecurringServiceTestSuite) TestBoundedCatchUp() {
	initial := time.Date(2017, 2, 15, 0, 0, 0, 0, time.UTC) // 100 monthly cycles behind
	s.addRule("dormant", domain.Monthly, initial, 1000, domain.Income)

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)

	s.Len(created, services.MaxCatchUpCycles)
	s.True(initial.AddDate(0, 12, 0).Equal(s.rule("dormant").NextRunDate))
	s.Equal(int64(12000), balanceOf(s.store, "acc-a"))

	// The next pass resumes from the advanced cursor
	created, err = s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.Len(created, services.MaxCatchUpCycles)
	s.True(initial.AddDate(0, 12, 0).Equal(created[0].OccurredAt))
	s.True(initial.AddDate(0, 24, 0).Equal(s.rule("dormant").NextRunDate))
}

func (s *RecurringServiceTestSuite) TestIdempotentWithoutElapsedTime() {
	s.addRule("weekly", domain.Weekly, s.now.AddDate(0, 0, -20), 700, domain.Expense)
	s.addRule("monthly", domain.Monthly, s.now.AddDate(0, -2, 0), 300, domain.Income)

	first, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.NotEmpty(first)
	balance := balanceOf(s.store, "acc-a")

	second, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.Empty(second)
	s.Equal(balance, balanceOf(s.store, "acc-a"))
}

func (s *RecurringServiceTestSuite) TestMonthEndClamping() {
	s.addRule("rent", domain.Monthly, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), 100000, domain.Expense)

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(created, 2)
	s.True(time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC).Equal(created[1].OccurredAt))
}

func (s *RecurringServiceTestSuite) TestMonthEndClampingCarriesForward() {
	// Only the cursor is stored, so once clamped to the 28th the rule stays on the 28th
	start := time.Date(2023, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRule("rent", domain.Monthly, start, 100000, domain.Expense)

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.Require().Len(created, services.MaxCatchUpCycles)

	s.True(start.Equal(created[0].OccurredAt))
	s.True(time.Date(2023, 2, 28, 0, 0, 0, 0, time.UTC).Equal(created[1].OccurredAt))
	s.True(time.Date(2023, 3, 28, 0, 0, 0, 0, time.UTC).Equal(created[2].OccurredAt))
	s.True(time.Date(2023, 12, 28, 0, 0, 0, 0, time.UTC).Equal(created[11].OccurredAt))

	next := s.rule("rent").NextRunDate
	s.True(time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC).Equal(next), "cursor is %s", next)
	s.False(start.AddDate(1, 0, 0).Equal(next))
}

func (s *RecurringServiceTestSuite) TestInactiveAndFutureRulesAreIgnored() {
	s.addRule("future", domain.Weekly, s.now.Add(time.Minute), 100, domain.Income)
	s.addRule("stopped", domain.Weekly, s.now.AddDate(0, 0, -14), 100, domain.Income)
	s.Require().NoError(s.service.DeactivateRule(s.ctx, "user-1", "stopped"))

	created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
	s.Require().NoError(err)
	s.Empty(created)
}

func (s *RecurringServiceTestSuite) TestConcurrentPassesMaterializeEachCycleOnce() {
	s.addRule("weekly", domain.Weekly, s.now.AddDate(0, 0, -70), 100, domain.Expense)

	var wg sync.WaitGroup
	counts := make([]int, 4)
	for i := range counts {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := s.service.ProcessDueRules(s.ctx, "user-1", s.now)
			if err == nil {
				counts[i] = len(created)
			}
		}(i)
	}
	wg.Wait()

	total := 0
	for _, c := range counts {
		total += c
	}
	s.Equal(11, total, "ten missed weeks plus today's cycle, each exactly once")
	s.Equal(int64(-1100), balanceOf(s.store, "acc-a"))
}

func (s *RecurringServiceTestSuite) TestCreateRule() {
	rule, err := s.service.CreateRule(s.ctx, "user-1", dto.CreateRecurringRuleRequest{
		AccountID: "acc-a", Amount: "49.99", Type: "expense", Interval: "monthly",
		StartDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Description: "Gym",
	})
	s.Require().NoError(err)
	s.Equal(int64(4999), rule.Amount)
	s.True(rule.IsActive)
	s.True(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC).Equal(rule.NextRunDate))

	rules, err := s.service.ListRules(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(rules, 1)
}

func (s *RecurringServiceTestSuite) TestCreateRule_Rejections() {
	seedAccount(s.store, "acc-other", "user-2", "USD", 0)
	s.Require().NoError(s.store.SaveCategory(s.ctx, domain.Category{CategoryID: "cat-other", UserID: "user-2", Name: "Theirs"}))
	valid := dto.CreateRecurringRuleRequest{AccountID: "acc-a", Amount: "10", Type: "income", Interval: "weekly", StartDate: s.now}

	bad := valid
	bad.Amount = "abc"
	_, err := s.service.CreateRule(s.ctx, "user-1", bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Amount = "0"
	_, err = s.service.CreateRule(s.ctx, "user-1", bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.Interval = "daily"
	_, err = s.service.CreateRule(s.ctx, "user-1", bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	bad = valid
	bad.AccountID = "acc-other"
	_, err = s.service.CreateRule(s.ctx, "user-1", bad)
	s.ErrorIs(err, apperrors.ErrNotFound)

	bad = valid
	category := "cat-other"
	bad.CategoryID = &category
	_, err = s.service.CreateRule(s.ctx, "user-1", bad)
	s.ErrorIs(err, apperrors.ErrForbidden)
}

func TestRecurringServiceTestSuite(t *testing.T) {
	suite.Run(t, new(RecurringServiceTestSuite))
}

// racingLedger moves the rule cursor right before the first batch lands, as a concurrent pass would.
type racingLedger struct {
	*memory.Store
	once sync.Once
	race func()
}

func (r *racingLedger) ApplyBatch(ctx context.Context, batch domain.LedgerBatch) (*domain.LedgerResult, error) {
	r.once.Do(r.race)
	return r.Store.ApplyBatch(ctx, batch)
}

func TestProcessDueRules_LostCursorRaceSkipsRule(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 22, 9, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	seedAccount(store, "acc-a", "user-1", "USD", 0)
	require.NoError(t, store.SaveRule(ctx, domain.RecurringRule{
		RuleID: "r1", UserID: "user-1", AccountID: "acc-a", Amount: 100, TransactionType: domain.Expense,
		Interval: domain.Weekly, NextRunDate: now.AddDate(0, 0, -14), IsActive: true,
	}))

	ledger := &racingLedger{Store: store, race: func() {
		// Another pass materializes the first cycle
		_, err := store.ApplyBatch(ctx, domain.LedgerBatch{
			Inserts:     []domain.Transaction{{TransactionID: "other", UserID: "user-1", AccountID: "acc-a", Amount: 100, TransactionType: domain.Expense, OccurredAt: now.AddDate(0, 0, -14)}},
			RuleAdvance: &domain.RuleCursorAdvance{RuleID: "r1", Expected: now.AddDate(0, 0, -14), Next: now.AddDate(0, 0, -7)},
		})
		require.NoError(t, err)
	}}
	svc := services.NewRecurringService(store, ledger, services.NewAccessService(store, store, store, store))

	created, err := svc.ProcessDueRules(ctx, "user-1", now)
	require.NoError(t, err)
	assert.Empty(t, created, "the pass that lost the race writes nothing for that rule")
	assert.Equal(t, int64(-100), balanceOf(store, "acc-a"))

	// A later pass picks up from the winner's cursor
	created, err = svc.ProcessDueRules(ctx, "user-1", now)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, int64(-300), balanceOf(store, "acc-a"))
}
