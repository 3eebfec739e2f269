package handlers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

// dashboardHandler runs the request-triggered recurring pass before rendering balances.
type dashboardHandler struct {
	accountService   portssvc.AccountSvcFacade
	recurringService portssvc.RecurringSvcFacade
	defaultCurrency  string
	now              func() time.Time
}

func registerDashboardRoutes(rg *gin.RouterGroup, accounts portssvc.AccountSvcFacade, recurring portssvc.RecurringSvcFacade, defaultCurrency string) {
	h := &dashboardHandler{
		accountService:   accounts,
		recurringService: recurring,
		defaultCurrency:  defaultCurrency,
		now:              time.Now,
	}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Dashboard
// @Description Materializes due recurring transactions, then returns the account summary
// @Tags dashboard
// @Produce  json
// @Param   displayCurrency query string false "ISO 4217 display currency (defaults to the base currency)"
// @Success 200 {object} dto.DashboardResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 503 {object} map[string]string "Exchange rate unavailable"
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	created, err := h.recurringService.ProcessDueRules(ctx, userID, h.now().UTC())
	if err != nil {
		// The dashboard still renders; the next load picks up where this pass stopped.
		logger.Warn("Recurring pass failed on dashboard load", slog.String("error", err.Error()))
	}

	displayCurrency := strings.ToUpper(c.DefaultQuery("displayCurrency", h.defaultCurrency))
	summary, err := h.accountService.GetAccountSummary(ctx, userID, displayCurrency)
	if err != nil {
		respondWithError(c, logger, err, "Failed to build dashboard")
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		Summary:      dto.ToAccountSummaryResponse(summary),
		Materialized: len(created),
	})
}
