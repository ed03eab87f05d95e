package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
)

type PortfolioHandler struct {
	service service.PortfolioMetricsService
	log     *logger.Logger
}

func NewPortfolioHandler(service service.PortfolioMetricsService, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{service: service, log: log}
}

// @Summary Monthly portfolio metrics
// @Description Get per-month status counts, risk rates, portfolio size and yields over an optional month range
// @Tags Portfolio
// @Produce json
// @Param start_month query string false "Inclusive range start (YYYY-MM)"
// @Param end_month query string false "Inclusive range end (YYYY-MM)"
// @Success 200 {object} dto.PortfolioMetricsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /portfolio/monthly [get]
func (h *PortfolioHandler) GetMonthlyMetrics(c *gin.Context) {
	req := &dto.PortfolioMetricsRequest{}

	var err error
	if req.StartMonth, err = monthParam(c, "start_month"); err != nil {
		c.Error(err)
		return
	}
	if req.EndMonth, err = monthParam(c, "end_month"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.ComputeMonthly(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to compute monthly portfolio metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Portfolio wide risk rates
// @Description Get status counts and delinquency, default and charge-off rates over the whole snapshot
// @Tags Portfolio
// @Produce json
// @Success 200 {object} dto.PortfolioRatesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /portfolio/rates [get]
func (h *PortfolioHandler) GetPortfolioRates(c *gin.Context) {
	resp, err := h.service.PortfolioWideRates(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute portfolio rates", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Portfolio insights
// @Description Get balance and revenue totals, distributions and the growth trend for the book
// @Tags Portfolio
// @Produce json
// @Success 200 {object} dto.PortfolioInsightsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /portfolio/insights [get]
func (h *PortfolioHandler) GetPortfolioInsights(c *gin.Context) {
	resp, err := h.service.PortfolioInsights(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute portfolio insights", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Loan tape summary
// @Description Get record counts, distinct businesses and accounts, status counts and the period range
// @Tags Portfolio
// @Produce json
// @Success 200 {object} dto.TapeSummaryResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /portfolio/summary [get]
func (h *PortfolioHandler) GetTapeSummary(c *gin.Context) {
	resp, err := h.service.TapeSummary(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute tape summary", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
