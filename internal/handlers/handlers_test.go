package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/handlers"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	store     *memory.Store
	jwtSecret string
}

// generateTestToken creates a signed JWT whose subject is userID.
func (suite *HandlersTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "tracker-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.jwtSecret = "test-secret-key-that-is-long-enough"
	suite.Require().NoError(handlers.RegisterValidators())

	suite.store = memory.NewStore()
	container := services.NewServiceContainer(memory.NewRepositoryProvider(suite.store), services.ContainerDeps{
		BaseCurrency: "USD",
		RateCacheTTL: time.Hour,
	})

	cfg := &config.Config{
		JWTSecret:    suite.jwtSecret,
		IsProduction: true,
		BaseCurrency: "USD",
	}
	suite.router = gin.New()
	handlers.RegisterRoutes(suite.router, cfg, container)
}

func (suite *HandlersTestSuite) do(method, path, userID string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *HandlersTestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (suite *HandlersTestSuite) createAccount(userID, currency string) dto.AccountResponse {
	w := suite.do(http.MethodPost, "/api/v1/accounts", userID, gin.H{
		"name": "Main " + currency, "accountType": "checking", "currencyCode": currency,
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	return resp
}

func (suite *HandlersTestSuite) income(userID, accountID, amount string) dto.CreateTransactionResponse {
	w := suite.do(http.MethodPost, "/api/v1/transactions", userID, gin.H{
		"accountID": accountID, "amount": amount, "type": "income",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.CreateTransactionResponse
	suite.decode(w, &resp)
	return resp
}

func (suite *HandlersTestSuite) balanceOf(userID, accountID string) decimal.Decimal {
	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, userID, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.AccountResponse
	suite.decode(w, &resp)
	return resp.Balance
}

func (suite *HandlersTestSuite) TestUnauthenticated() {
	w := suite.do(http.MethodGet, "/api/v1/accounts", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlersTestSuite) TestAccountLifecycle() {
	account := suite.createAccount("user-1", "usd")
	suite.Equal("USD", account.CurrencyCode)
	suite.True(account.Balance.IsZero())

	created := suite.income("user-1", account.AccountID, "100.50")
	suite.True(decimal.RequireFromString("100.5").Equal(created.AccountBalance))

	w := suite.do(http.MethodDelete, "/api/v1/accounts/"+account.AccountID, "user-1", nil)
	suite.Equal(http.StatusBadRequest, w.Code, "non-zero balance blocks deletion")

	w = suite.do(http.MethodDelete, "/api/v1/transactions/"+created.Transaction.TransactionID, "user-1", nil)
	suite.Equal(http.StatusNoContent, w.Code)
	suite.True(suite.balanceOf("user-1", account.AccountID).IsZero())

	w = suite.do(http.MethodDelete, "/api/v1/accounts/"+account.AccountID, "user-1", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts", "user-1", nil)
	var list dto.ListAccountsResponse
	suite.decode(w, &list)
	suite.Empty(list.Accounts)
}

func (suite *HandlersTestSuite) TestCreateAccount_UnknownCurrency() {
	w := suite.do(http.MethodPost, "/api/v1/accounts", "user-1", gin.H{
		"name": "Odd", "accountType": "checking", "currencyCode": "XYZ",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestCreateTransaction_Rejections() {
	account := suite.createAccount("user-1", "USD")

	w := suite.do(http.MethodPost, "/api/v1/transactions", "user-2", gin.H{
		"accountID": account.AccountID, "amount": "5", "type": "expense",
	})
	suite.Equal(http.StatusNotFound, w.Code, "another user's account looks missing")

	w = suite.do(http.MethodPost, "/api/v1/transactions", "user-1", gin.H{
		"accountID": account.AccountID, "amount": "abc", "type": "expense",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/transactions", "user-1", gin.H{
		"accountID": account.AccountID, "amount": "-5", "type": "expense",
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/categories", "user-2", gin.H{"name": "Groceries"})
	suite.Require().Equal(http.StatusCreated, w.Code)
	var category dto.CategoryResponse
	suite.decode(w, &category)

	w = suite.do(http.MethodPost, "/api/v1/transactions", "user-1", gin.H{
		"accountID": account.AccountID, "amount": "5", "type": "expense", "categoryID": category.CategoryID,
	})
	suite.Equal(http.StatusForbidden, w.Code)

	suite.True(suite.balanceOf("user-1", account.AccountID).IsZero())
}

func (suite *HandlersTestSuite) TestTransfer_CrossCurrency() {
	usd := suite.createAccount("user-1", "USD")
	eur := suite.createAccount("user-1", "EUR")
	suite.income("user-1", usd.AccountID, "500")

	w := suite.do(http.MethodPost, "/api/v1/transfers", "user-1", gin.H{
		"fromAccountID": usd.AccountID, "toAccountID": eur.AccountID, "amount": "100",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp dto.TransferResponse
	suite.decode(w, &resp)
	// No provider and an empty cache: the static table has EUR at 0.92.
	suite.True(decimal.RequireFromString("92").Equal(resp.CreditedAmount))
	suite.True(decimal.RequireFromString("0.92").Equal(resp.Rate))
	suite.Equal(domain.Expense, resp.Debit.Type)
	suite.Equal(domain.Income, resp.Credit.Type)

	suite.True(decimal.RequireFromString("400").Equal(suite.balanceOf("user-1", usd.AccountID)))
	suite.True(decimal.RequireFromString("92").Equal(suite.balanceOf("user-1", eur.AccountID)))
}

func (suite *HandlersTestSuite) TestTransfer_RateUnavailable() {
	usd := suite.createAccount("user-1", "USD")
	chf := suite.createAccount("user-1", "CHF")
	suite.income("user-1", usd.AccountID, "50")

	w := suite.do(http.MethodPost, "/api/v1/transfers", "user-1", gin.H{
		"fromAccountID": usd.AccountID, "toAccountID": chf.AccountID, "amount": "10",
	})
	suite.Equal(http.StatusServiceUnavailable, w.Code)

	suite.True(decimal.RequireFromString("50").Equal(suite.balanceOf("user-1", usd.AccountID)))
	suite.True(suite.balanceOf("user-1", chf.AccountID).IsZero())
}

func (suite *HandlersTestSuite) TestListTransactions_Pagination() {
	account := suite.createAccount("user-1", "USD")
	for _, amount := range []string{"1", "2", "3"} {
		suite.income("user-1", account.AccountID, amount)
	}

	seen := map[string]bool{}
	path := "/api/v1/transactions?limit=2"
	for page := 0; page < 3 && path != ""; page++ {
		w := suite.do(http.MethodGet, path, "user-1", nil)
		suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
		var resp dto.ListTransactionsResponse
		suite.decode(w, &resp)
		for _, txn := range resp.Transactions {
			suite.False(seen[txn.TransactionID], "no row appears twice")
			seen[txn.TransactionID] = true
		}
		path = ""
		if resp.NextToken != nil {
			path = "/api/v1/transactions?limit=2&nextToken=" + url.QueryEscape(*resp.NextToken)
		}
	}
	suite.Len(seen, 3)

	w := suite.do(http.MethodGet, "/api/v1/transactions?nextToken=garbage", "user-1", nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestListTransactions_DisplayCurrency() {
	account := suite.createAccount("user-1", "USD")
	suite.income("user-1", account.AccountID, "10")

	w := suite.do(http.MethodGet, "/api/v1/transactions?displayCurrency=EUR", "user-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.ListTransactionsResponse
	suite.decode(w, &resp)
	suite.Require().Len(resp.Transactions, 1)
	suite.Require().NotNil(resp.Transactions[0].DisplayAmount)
	suite.True(decimal.RequireFromString("9.2").Equal(*resp.Transactions[0].DisplayAmount))
	suite.Equal("EUR", resp.Transactions[0].DisplayCurrency)
}

func (suite *HandlersTestSuite) TestRecurringRules_ProcessAndDeactivate() {
	account := suite.createAccount("user-1", "USD")
	start := time.Now().UTC().AddDate(0, 0, -15)

	w := suite.do(http.MethodPost, "/api/v1/recurring-rules", "user-1", gin.H{
		"accountID": account.AccountID, "amount": "12.5", "type": "expense",
		"interval": "weekly", "startDate": start, "description": "Gym",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var rule dto.RecurringRuleResponse
	suite.decode(w, &rule)

	w = suite.do(http.MethodPost, "/api/v1/recurring-rules/process", "user-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var processed dto.ProcessRecurringResponse
	suite.decode(w, &processed)
	suite.Len(processed.Materialized, 3)
	suite.True(decimal.RequireFromString("-37.5").Equal(suite.balanceOf("user-1", account.AccountID)))

	w = suite.do(http.MethodPost, "/api/v1/recurring-rules/process", "user-1", nil)
	suite.decode(w, &processed)
	suite.Empty(processed.Materialized, "a second pass finds nothing due")

	w = suite.do(http.MethodDelete, "/api/v1/recurring-rules/"+rule.RuleID, "user-2", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodDelete, "/api/v1/recurring-rules/"+rule.RuleID, "user-1", nil)
	suite.Equal(http.StatusNoContent, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/recurring-rules", "user-1", nil)
	var rules dto.ListRecurringRulesResponse
	suite.decode(w, &rules)
	suite.Require().Len(rules.Rules, 1)
	suite.False(rules.Rules[0].IsActive)
}

func (suite *HandlersTestSuite) TestCreateRule_UnknownInterval() {
	account := suite.createAccount("user-1", "USD")
	w := suite.do(http.MethodPost, "/api/v1/recurring-rules", "user-1", gin.H{
		"accountID": account.AccountID, "amount": "1", "type": "expense",
		"interval": "daily", "startDate": time.Now().UTC(),
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlersTestSuite) TestDashboard() {
	usd := suite.createAccount("user-1", "USD")
	eur := suite.createAccount("user-1", "EUR")
	suite.income("user-1", usd.AccountID, "10")
	suite.income("user-1", eur.AccountID, "9.20")

	w := suite.do(http.MethodPost, "/api/v1/recurring-rules", "user-1", gin.H{
		"accountID": usd.AccountID, "amount": "1", "type": "income",
		"interval": "monthly", "startDate": time.Now().UTC().Add(-time.Hour),
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/dashboard", "user-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp dto.DashboardResponse
	suite.decode(w, &resp)
	suite.Equal(1, resp.Materialized)
	suite.Equal("USD", resp.Summary.DisplayCurrency)
	suite.True(decimal.RequireFromString("21").Equal(resp.Summary.Total), resp.Summary.Total.String())
}

func (suite *HandlersTestSuite) TestExchangeRates() {
	w := suite.do(http.MethodGet, "/api/v1/exchange-rates", "user-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var resp dto.ExchangeRatesResponse
	suite.decode(w, &resp)
	suite.Equal(domain.RateSourceStatic, resp.Source)
	suite.Equal("USD", resp.BaseCurrency)
	suite.True(decimal.NewFromInt(1).Equal(resp.Rates["USD"]))
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}
