package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/middleware"
	"github.com/gin-gonic/gin"
)

type recurringHandler struct {
	recurringService portssvc.RecurringSvcFacade
	now              func() time.Time
}

func registerRecurringRoutes(rg *gin.RouterGroup, recurringService portssvc.RecurringSvcFacade) {
	h := &recurringHandler{recurringService: recurringService, now: time.Now}

	rules := rg.Group("/recurring-rules")
	{
		rules.POST("", h.createRule)
		rules.GET("", h.listRules)
		rules.DELETE("/:id", h.deactivateRule)
		rules.POST("/process", h.processDueRules)
	}
}

// createRule godoc
// @Summary Schedule a recurring transaction
// @Tags recurring
// @Accept  json
// @Produce  json
// @Param   rule body dto.CreateRecurringRuleRequest true "Rule details"
// @Success 201 {object} dto.RecurringRuleResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account or category not found"
// @Security BearerAuth
// @Router /recurring-rules [post]
func (h *recurringHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRecurringRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRecurringRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rule, err := h.recurringService.CreateRule(c.Request.Context(), userID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create recurring rule")
		return
	}

	c.JSON(http.StatusCreated, dto.ToRecurringRuleResponse(rule))
}

// listRules godoc
// @Summary List recurring rules
// @Tags recurring
// @Produce  json
// @Success 200 {object} dto.ListRecurringRulesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /recurring-rules [get]
func (h *recurringHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	rules, err := h.recurringService.ListRules(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to list recurring rules")
		return
	}
	c.JSON(http.StatusOK, dto.ToListRecurringRulesResponse(rules))
}

// deactivateRule godoc
// @Summary Deactivate a recurring rule
// @Tags recurring
// @Param   id path string true "Rule ID"
// @Success 204 "No Content"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Rule not found"
// @Security BearerAuth
// @Router /recurring-rules/{id} [delete]
func (h *recurringHandler) deactivateRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	ruleID := c.Param("id")

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	if err := h.recurringService.DeactivateRule(c.Request.Context(), userID, ruleID); err != nil {
		respondWithError(c, logger.With(slog.String("rule_id", ruleID)), err, "Failed to deactivate recurring rule")
		return
	}
	c.Status(http.StatusNoContent)
}

// processDueRules godoc
// @Summary Materialize due recurring transactions
// @Description Catches up every due rule of the user, at most 12 cycles per rule per call
// @Tags recurring
// @Produce  json
// @Success 200 {object} dto.ProcessRecurringResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /recurring-rules/process [post]
func (h *recurringHandler) processDueRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := requireUserID(c, logger)
	if !ok {
		return
	}

	created, err := h.recurringService.ProcessDueRules(c.Request.Context(), userID, h.now().UTC())
	if err != nil {
		// Cycles committed before the failure stay committed.
		logger.Warn("Recurring pass stopped early", slog.Int("materialized", len(created)))
		respondWithError(c, logger, err, "Failed to process recurring rules")
		return
	}

	c.JSON(http.StatusOK, dto.ProcessRecurringResponse{Materialized: dto.ToTransactionResponses(created)})
}
