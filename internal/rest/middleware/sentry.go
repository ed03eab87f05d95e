package middleware

import (
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// SentryMiddleware returns a middleware that captures errors and performance data
func SentryMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.Sentry.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return sentrygin.New(sentrygin.Options{
		Repanic:         true,
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// SentryRequestContextMiddleware tags the Sentry scope with the request ID
// so captured events correlate with request logs. Add this after
// RequestIDMiddleware.
func SentryRequestContextMiddleware(c *gin.Context) {
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		c.Next()
		return
	}
	if requestID := types.GetRequestID(c.Request.Context()); requestID != "" {
		hub.Scope().SetTag("request_id", requestID)
	}
	c.Next()
}
