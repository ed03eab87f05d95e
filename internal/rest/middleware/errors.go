package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// ErrorHandler renders errors attached to the gin context as the standard
// error envelope. Handlers call c.Error and return; nothing else writes
// error bodies.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
	}
}
