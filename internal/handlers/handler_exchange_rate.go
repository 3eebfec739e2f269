package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/gin-gonic/gin"
)

type exchangeRateHandler struct {
	rateService portssvc.CurrencyRateSvcFacade
}

func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.CurrencyRateSvcFacade) {
	h := &exchangeRateHandler{rateService: rateService}
	rg.GET("/exchange-rates", h.getRates)
}

// getRates godoc
// @Summary Current exchange rates
// @Description Returns the rate table against the base currency and its source (cache, provider, stale_cache or static)
// @Tags exchange-rates
// @Produce  json
// @Success 200 {object} dto.ExchangeRatesResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) getRates(c *gin.Context) {
	snapshot := h.rateService.GetRates(c.Request.Context())
	c.JSON(http.StatusOK, dto.ToExchangeRatesResponse(snapshot))
}
