package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	v1 "github.com/thiebault-husson/credit-portfolio-analysis/internal/api/v1"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/rest/middleware"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// Handlers bundles every route handler the router mounts.
type Handlers struct {
	fx.In

	Portfolio *v1.PortfolioHandler
	Yield     *v1.YieldHandler
	Vintage   *v1.VintageHandler
	Cohort    *v1.CohortHandler
	Audit     *v1.AuditHandler
	Analysis  *v1.AnalysisHandler
}

// NewRouter assembles the gin engine with the standard middleware chain and
// the read-only metrics routes.
func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Recovery wraps sentry so a repanic after capture still turns into a
	// 500 response. The error handler sits innermost to render c.Error
	// payloads before logging reads the final status.
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryRequestContextMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	group := router.Group("/v1")

	portfolio := group.Group("/portfolio")
	portfolio.GET("/monthly", handlers.Portfolio.GetMonthlyMetrics)
	portfolio.GET("/rates", handlers.Portfolio.GetPortfolioRates)
	portfolio.GET("/insights", handlers.Portfolio.GetPortfolioInsights)
	portfolio.GET("/summary", handlers.Portfolio.GetTapeSummary)

	group.GET("/yield", handlers.Yield.GetAllYieldMetrics)
	group.GET("/vintages", handlers.Vintage.GetBusinessVintages)

	cohorts := group.Group("/cohorts")
	cohorts.GET("", handlers.Cohort.GetCohortMetrics)
	cohorts.GET("/ltv", handlers.Cohort.GetLifetimeValue)
	cohorts.GET("/aov", handlers.Cohort.GetAverageOrderValue)
	cohorts.GET("/cac", handlers.Cohort.GetCustomerAcquisitionCost)
	cohorts.GET("/insights", handlers.Cohort.GetCustomerInsights)

	group.GET("/orders/summary", handlers.Cohort.GetOrdersSummary)
	group.GET("/audit", handlers.Audit.GetLoanTapeAudit)
	group.GET("/analysis", handlers.Analysis.RunAnalysis)

	return router
}
