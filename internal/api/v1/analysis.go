package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
)

type AnalysisHandler struct {
	service service.AnalysisService
	log     *logger.Logger
}

func NewAnalysisHandler(service service.AnalysisService, log *logger.Logger) *AnalysisHandler {
	return &AnalysisHandler{service: service, log: log}
}

// @Summary Run the full analysis
// @Description Run every metrics engine over the loaded snapshots and return the combined report payload
// @Tags Analysis
// @Produce json
// @Param start_month query string false "Inclusive range start for monthly metrics (YYYY-MM)"
// @Param end_month query string false "Inclusive range end for monthly metrics (YYYY-MM)"
// @Param filter_active query bool false "Drop charged-off records before yield masking (default true)"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /analysis [get]
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	req := &dto.AnalysisRequest{}

	var err error
	if req.StartMonth, err = monthParam(c, "start_month"); err != nil {
		c.Error(err)
		return
	}
	if req.EndMonth, err = monthParam(c, "end_month"); err != nil {
		c.Error(err)
		return
	}
	if req.FilterActive, err = boolParam(c, "filter_active"); err != nil {
		c.Error(err)
		return
	}

	resp, err := h.service.RunAnalysis(c.Request.Context(), req)
	if err != nil {
		h.log.Error("Failed to run analysis", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
