package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// monthParam parses an optional YYYY-MM query parameter, nil when absent.
func monthParam(c *gin.Context, name string) (*types.MonthKey, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	month, err := types.ParseMonthKey(raw)
	if err != nil {
		return nil, err
	}
	return &month, nil
}

// boolParam parses an optional boolean query parameter, nil when absent.
func boolParam(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("%s must be a boolean, got %s", name, raw).
			Mark(ierr.ErrValidation)
	}
	return &v, nil
}
