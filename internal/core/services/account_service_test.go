package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) DeleteZeroBalanceAccount(ctx context.Context, accountID string) error {
	args := m.Called(ctx, accountID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  *services.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	userID := uuid.NewString()
	req := dto.CreateAccountRequest{
		Name:         "  Test Savings ",
		AccountType:  domain.Savings,
		CurrencyCode: "eur",
	}

	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	created, err := suite.service.CreateAccount(ctx, userID, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(created)
	suite.NotEmpty(created.AccountID)
	suite.Equal("Test Savings", created.Name)
	suite.Equal("EUR", created.CurrencyCode)
	suite.Equal(int64(0), created.Balance)
	suite.Equal(userID, created.UserID)
	suite.Equal(userID, created.CreatedBy)
	suite.WithinDuration(time.Now(), created.CreatedAt, time.Second)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ValidationErrors() {
	ctx := context.Background()
	for _, req := range []dto.CreateAccountRequest{
		{Name: " ", AccountType: domain.Cash, CurrencyCode: "USD"},
		{Name: "Wallet", AccountType: "brokerage", CurrencyCode: "USD"},
		{Name: "Wallet", AccountType: domain.Cash, CurrencyCode: "XXQ"},
	} {
		_, err := suite.service.CreateAccount(ctx, "user-1", req)
		suite.ErrorIs(err, apperrors.ErrValidation)
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	ctx := context.Background()
	dbErr := fmt.Errorf("database connection lost")
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(dbErr).Once()

	created, err := suite.service.CreateAccount(ctx, "user-1", dto.CreateAccountRequest{Name: "X", AccountType: domain.Cash, CurrencyCode: "USD"})

	suite.Nil(created)
	suite.ErrorIs(err, dbErr)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotOwned() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(&domain.Account{AccountID: "acc-1", UserID: "someone-else"}, nil).Once()

	_, err := suite.service.GetAccountByID(ctx, "user-1", "acc-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestDeleteAccount() {
	ctx := context.Background()
	owned := &domain.Account{AccountID: "acc-1", UserID: "user-1"}

	suite.mockRepo.On("FindAccountByID", ctx, "acc-1").Return(owned, nil)
	suite.mockRepo.On("DeleteZeroBalanceAccount", ctx, "acc-1").Return(apperrors.ErrValidation).Once()
	err := suite.service.DeleteAccount(ctx, "user-1", "acc-1")
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.On("DeleteZeroBalanceAccount", ctx, "acc-1").Return(nil).Once()
	suite.NoError(suite.service.DeleteAccount(ctx, "user-1", "acc-1"))
	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func TestGetAccountSummary(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	require.NoError(t, store.UpsertRates(ctx, []domain.ExchangeRate{
		{CurrencyCode: "USD", Rate: decimal.NewFromInt(1), UpdatedAt: now},
		{CurrencyCode: "EUR", Rate: decimal.RequireFromString("0.8"), UpdatedAt: now},
	}))
	seedAccount(store, "usd", "user-1", "USD", 10000)
	seedAccount(store, "eur", "user-1", "EUR", -4000)
	seedAccount(store, "chf", "user-2", "CHF", 100)

	rates := services.NewCurrencyRateService(store, nil, services.WithRateClock(fixedClock(now)))
	svc := services.NewAccountService(store, services.WithAccountConverter(rates))

	summary, err := svc.GetAccountSummary(ctx, "user-1", "usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", summary.DisplayCurrency)
	require.Len(t, summary.Accounts, 2)
	// 100 USD + (-40 EUR / 0.8) = 50 USD
	assert.True(t, decimal.NewFromInt(50).Equal(summary.Total), summary.Total.String())

	_, err = svc.GetAccountSummary(ctx, "user-2", "USD")
	assert.ErrorIs(t, err, apperrors.ErrRateUnavailable)
}
