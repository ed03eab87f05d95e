package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
)

type VintageHandler struct {
	service service.BusinessVintageService
	log     *logger.Logger
}

func NewVintageHandler(service service.BusinessVintageService, log *logger.Logger) *VintageHandler {
	return &VintageHandler{service: service, log: log}
}

// @Summary Business vintages
// @Description Get per business and activation-month account groups with balances, ages, APR estimates and resolved status
// @Tags Vintages
// @Produce json
// @Success 200 {object} dto.BusinessVintagesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /vintages [get]
func (h *VintageHandler) GetBusinessVintages(c *gin.Context) {
	resp, err := h.service.ComputeBusinessVintages(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to compute business vintages", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
