package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/SscSPs/finance_tracker/internal/utils/money"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves transactions and transfers. Ownership is proven through the
// access service before the ledger is called.
type ledgerHandler struct {
	access portssvc.AccessSvc
	ledger portssvc.LedgerSvcFacade
}

func newLedgerHandler(access portssvc.AccessSvc, ledger portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{access: access, ledger: ledger}
}

// registerLedgerRoutes registers transaction and transfer routes.
func registerLedgerRoutes(rg *gin.RouterGroup, access portssvc.AccessSvc, ledger portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(access, ledger)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.createTransaction)
		transactions.GET("", h.listTransactions)
		transactions.DELETE("/:id", h.deleteTransaction)
	}
	rg.POST("/transfers", h.createTransfer)
}

// createTransaction godoc
// @Summary Record income or an expense
// @Description Inserts the transaction and adjusts its account balance in one atomic unit
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction details"
// @Success 201 {object} dto.CreateTransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 403 {object} map[string]string "Category belongs to another user"
// @Failure 404 {object} map[string]string "Account or category not found"
// @Failure 409 {object} map[string]string "Storage conflict, retry"
// @Security BearerAuth
// @Router /transactions [post]
func (h *ledgerHandler) createTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if _, err := h.access.AuthorizeAccount(ctx, userID, req.AccountID); err != nil {
		respondWithError(c, logger, err, "Failed to authorize account")
		return
	}
	if req.CategoryID != nil && *req.CategoryID != "" {
		if _, err := h.access.AuthorizeCategory(ctx, userID, *req.CategoryID); err != nil {
			respondWithError(c, logger, err, "Failed to authorize category")
			return
		}
	} else {
		req.CategoryID = nil
	}

	amount, err := money.ParseMinorUnits(req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Invalid amount")
		return
	}

	result, err := h.ledger.CreateTransaction(ctx, domain.NewTransaction{
		UserID:          userID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Amount:          amount,
		TransactionType: domain.TransactionType(req.Type),
		Description:     req.Description,
		OccurredAt:      req.OccurredAt,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transaction")
		return
	}

	c.JSON(http.StatusCreated, dto.ToCreateTransactionResponse(result))
}

// listTransactions godoc
// @Summary List transactions, newest first
// @Tags transactions
// @Produce  json
// @Param   accountID query string false "Only this account"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Token from the previous page"
// @Param   displayCurrency query string false "Convert every amount into this currency"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Exchange rate unavailable"
// @Security BearerAuth
// @Router /transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	if params.AccountID != "" {
		if _, err := h.access.AuthorizeAccount(c.Request.Context(), userID, params.AccountID); err != nil {
			respondWithError(c, logger, err, "Failed to authorize account")
			return
		}
	}

	page, err := h.ledger.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list transactions")
		return
	}

	c.JSON(http.StatusOK, dto.ToListTransactionsResponse(page))
}

// deleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes the transaction and reverses its balance effect in one atomic unit
// @Tags transactions
// @Param   id path string true "Transaction ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 409 {object} map[string]string "Storage conflict, retry"
// @Security BearerAuth
// @Router /transactions/{id} [delete]
func (h *ledgerHandler) deleteTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("transaction_id", transactionID))
	if _, err := h.access.AuthorizeTransaction(c.Request.Context(), userID, transactionID); err != nil {
		respondWithError(c, logger, err, "Failed to authorize transaction")
		return
	}

	if err := h.ledger.DeleteTransaction(c.Request.Context(), transactionID); err != nil {
		respondWithError(c, logger, err, "Failed to delete transaction")
		return
	}

	logger.Info("Transaction deleted successfully")
	c.Status(http.StatusNoContent)
}

// createTransfer godoc
// @Summary Move money between two accounts
// @Description Debits the source and credits the destination (converted into its currency) in one atomic unit
// @Tags transfers
// @Accept  json
// @Produce  json
// @Param   transfer body dto.CreateTransferRequest true "Transfer details"
// @Success 201 {object} dto.TransferResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Storage conflict, retry"
// @Failure 503 {object} map[string]string "Exchange rate unavailable"
// @Security BearerAuth
// @Router /transfers [post]
func (h *ledgerHandler) createTransfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateTransfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	for _, accountID := range []string{req.FromAccountID, req.ToAccountID} {
		if _, err := h.access.AuthorizeAccount(ctx, userID, accountID); err != nil {
			respondWithError(c, logger, err, "Failed to authorize account")
			return
		}
	}

	amount, err := money.ParseMinorUnits(req.Amount)
	if err != nil {
		respondWithError(c, logger, err, "Invalid amount")
		return
	}

	result, err := h.ledger.CreateTransfer(ctx, domain.TransferRequest{
		UserID:        userID,
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		Description:   req.Description,
	})
	if err != nil {
		respondWithError(c, logger, err, "Failed to create transfer")
		return
	}

	logger.Info("Transfer completed", slog.String("transfer_id", result.TransferID))
	c.JSON(http.StatusCreated, dto.ToTransferResponse(result))
}
