package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
)

type AuditHandler struct {
	service service.LoanTapeAuditService
	log     *logger.Logger
}

func NewAuditHandler(service service.LoanTapeAuditService, log *logger.Logger) *AuditHandler {
	return &AuditHandler{service: service, log: log}
}

// @Summary Loan tape data quality audit
// @Description Get counts and account lists for anomalous loan tape records
// @Tags Audit
// @Produce json
// @Success 200 {object} dto.LoanTapeAuditResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audit [get]
func (h *AuditHandler) GetLoanTapeAudit(c *gin.Context) {
	resp, err := h.service.AuditLoanTape(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to audit loan tape", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
