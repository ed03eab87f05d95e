package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
)

type YieldHandler struct {
	service service.YieldMetricsService
	log     *logger.Logger
}

func NewYieldHandler(service service.YieldMetricsService, log *logger.Logger) *YieldHandler {
	return &YieldHandler{service: service, log: log}
}

// @Summary Portfolio yield metrics
// @Description Get the gross, net, line and card yield metrics with their diagnostics
// @Tags Yield
// @Produce json
// @Param filter_active query bool false "Drop charged-off records before masking (default true)"
// @Success 200 {object} dto.AllYieldMetricsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /yield [get]
func (h *YieldHandler) GetAllYieldMetrics(c *gin.Context) {
	req := &dto.YieldMetricsRequest{}

	var err error
	if req.FilterActive, err = boolParam(c, "filter_active"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.AllYieldMetrics(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to compute yield metrics", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
