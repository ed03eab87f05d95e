package dto

import (
	"time"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// AnalysisRequest configures a full analysis run.
type AnalysisRequest struct {
	StartMonth   *types.MonthKey `json:"start_month,omitempty"`
	EndMonth     *types.MonthKey `json:"end_month,omitempty"`
	FilterActive *bool           `json:"filter_active,omitempty"`
}

// Validate validates the analysis request
func (r *AnalysisRequest) Validate() error {
	portfolioReq := PortfolioMetricsRequest{StartMonth: r.StartMonth, EndMonth: r.EndMonth}
	return portfolioReq.Validate()
}

// PortfolioRequest narrows the analysis request for the portfolio engine.
func (r *AnalysisRequest) PortfolioRequest() *PortfolioMetricsRequest {
	return &PortfolioMetricsRequest{StartMonth: r.StartMonth, EndMonth: r.EndMonth}
}

// YieldRequest narrows the analysis request for the yield engine.
func (r *AnalysisRequest) YieldRequest() *YieldMetricsRequest {
	return &YieldMetricsRequest{FilterActive: r.FilterActive}
}

// AnalysisResponse is the combined output of every engine over one snapshot.
// Acquisition cost is reported under both attribution policies.
type AnalysisResponse struct {
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Portfolio         *PortfolioMetricsResponse  `json:"portfolio"`
	PortfolioRates    *PortfolioRatesResponse    `json:"portfolio_rates"`
	PortfolioInsights *PortfolioInsightsResponse `json:"portfolio_insights"`
	TapeSummary       *TapeSummaryResponse       `json:"tape_summary"`

	Yield *AllYieldMetricsResponse `json:"yield"`

	BusinessVintages *BusinessVintagesResponse `json:"business_vintages"`

	Cohorts          *CohortMetricsResponse    `json:"cohorts"`
	LTV              *LTVResponse              `json:"ltv"`
	AOV              *AOVResponse              `json:"aov"`
	CACFlat          *CACResponse              `json:"cac_flat"`
	CACMonthly       *CACResponse              `json:"cac_monthly"`
	CustomerInsights *CustomerInsightsResponse `json:"customer_insights"`
	OrdersSummary    *OrdersSummaryResponse    `json:"orders_summary"`

	Audit *LoanTapeAuditResponse `json:"audit"`
}
