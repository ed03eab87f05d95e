package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

type CohortHandler struct {
	service service.CohortEconomicsService
	log     *logger.Logger
}

func NewCohortHandler(service service.CohortEconomicsService, log *logger.Logger) *CohortHandler {
	return &CohortHandler{service: service, log: log}
}

// @Summary Customer cohort metrics
// @Description Get per acquisition-month customer, order and revenue aggregates
// @Tags Cohorts
// @Produce json
// @Success 200 {object} dto.CohortMetricsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /cohorts [get]
func (h *CohortHandler) GetCohortMetrics(c *gin.Context) {
	resp, err := h.service.CohortMetrics(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute cohort metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Customer lifetime value
// @Description Get lifetime value by cohort plus the global and median LTV
// @Tags Cohorts
// @Produce json
// @Success 200 {object} dto.LTVResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /cohorts/ltv [get]
func (h *CohortHandler) GetLifetimeValue(c *gin.Context) {
	resp, err := h.service.LifetimeValue(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute lifetime value", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Average order value
// @Description Get average order value by cohort plus the global and median AOV
// @Tags Cohorts
// @Produce json
// @Success 200 {object} dto.AOVResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /cohorts/aov [get]
func (h *CohortHandler) GetAverageOrderValue(c *gin.Context) {
	resp, err := h.service.AverageOrderValue(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute average order value", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Customer acquisition cost
// @Description Get acquisition cost by cohort under the flat or monthly attribution policy
// @Tags Cohorts
// @Produce json
// @Param attribution query string false "Attribution policy: flat or monthly (default flat)"
// @Success 200 {object} dto.CACResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /cohorts/cac [get]
func (h *CohortHandler) GetCustomerAcquisitionCost(c *gin.Context) {
	req := &dto.CACRequest{
		Attribution: types.CACAttribution(c.Query("attribution")),
	}

	resp, err := h.service.CustomerAcquisitionCost(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to compute customer acquisition cost", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Customer insights
// @Description Get customer behavior, the monthly revenue trend and the revenue breakdown
// @Tags Cohorts
// @Produce json
// @Success 200 {object} dto.CustomerInsightsResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /cohorts/insights [get]
func (h *CohortHandler) GetCustomerInsights(c *gin.Context) {
	resp, err := h.service.CustomerInsights(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute customer insights", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Orders summary
// @Description Get order and bank statement snapshot totals
// @Tags Orders
// @Produce json
// @Success 200 {object} dto.OrdersSummaryResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /orders/summary [get]
func (h *CohortHandler) GetOrdersSummary(c *gin.Context) {
	resp, err := h.service.OrdersSummary(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute orders summary", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
