package dto

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// PortfolioMetricsRequest bounds the monthly metric series to an optional
// inclusive month range.
type PortfolioMetricsRequest struct {
	StartMonth *types.MonthKey `json:"start_month,omitempty"`
	EndMonth   *types.MonthKey `json:"end_month,omitempty"`
}

// Validate validates the portfolio metrics request
func (r *PortfolioMetricsRequest) Validate() error {
	if r.StartMonth != nil && r.EndMonth != nil && r.StartMonth.After(*r.EndMonth) {
		return ierr.NewError("start_month is after end_month").
			WithHintf("Month range %s..%s is inverted", r.StartMonth, r.EndMonth).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// MonthlyPortfolioMetrics is one month of portfolio health metrics.
type MonthlyPortfolioMetrics struct {
	Month      types.MonthKey `json:"month"`
	MonthLabel string         `json:"month_label"`

	TotalAccounts   int `json:"total_accounts"`
	CurrentCount    int `json:"current_count"`
	DelinquentCount int `json:"delinquent_count"`
	DefaultCount    int `json:"default_count"`
	ChargedOffCount int `json:"charged_off_count"`
	ClosedCount     int `json:"closed_count"`

	DelinquencyRate decimal.Decimal `json:"delinquency_rate"`
	DefaultRate     decimal.Decimal `json:"default_rate"`
	ChargeOffRate   decimal.Decimal `json:"charge_off_rate"`

	PortfolioSize  decimal.Decimal `json:"portfolio_size"`
	MonthlyRevenue decimal.Decimal `json:"monthly_revenue"`
	GrossYield     decimal.Decimal `json:"gross_portfolio_yield"`
	NetYield       decimal.Decimal `json:"net_portfolio_yield"`
}

// PortfolioMetricsResponse is the monthly metric series, oldest month first.
type PortfolioMetricsResponse struct {
	Months []MonthlyPortfolioMetrics `json:"months"`
	Total  int                       `json:"total"`
}

// PortfolioRatesResponse carries status counts and risk rates over the whole
// snapshot, ignoring any month range.
type PortfolioRatesResponse struct {
	TotalAccounts   int `json:"total_accounts"`
	CurrentCount    int `json:"current_count"`
	DelinquentCount int `json:"delinquent_count"`
	DefaultCount    int `json:"default_count"`
	ChargedOffCount int `json:"charged_off_count"`
	ClosedCount     int `json:"closed_count"`

	DelinquencyRate decimal.Decimal `json:"delinquency_rate"`
	DefaultRate     decimal.Decimal `json:"default_rate"`
	ChargeOffRate   decimal.Decimal `json:"charge_off_rate"`
}

// PortfolioInsightsResponse summarizes the book for reporting.
type PortfolioInsightsResponse struct {
	TotalPortfolioBalance decimal.Decimal `json:"total_portfolio_balance"`
	TotalEndingLimit      decimal.Decimal `json:"total_ending_limit"`
	// Utilization is total balance over total stated limit, zero when the
	// tape carries no stated limits.
	Utilization        decimal.Decimal `json:"utilization"`
	DistinctBusinesses int             `json:"distinct_businesses"`
	DistinctAccounts   int             `json:"distinct_accounts"`
	MeanRecordBalance  decimal.Decimal `json:"mean_record_balance"`

	AccountTypeDistribution map[types.AccountType]int   `json:"account_type_distribution"`
	StatusDistribution      map[types.AccountStatus]int `json:"status_distribution"`

	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	LineFeeRevenue     decimal.Decimal `json:"line_fee_revenue"`
	InterchangeRevenue decimal.Decimal `json:"interchange_revenue"`
	RevenuePerRecord   decimal.Decimal `json:"revenue_per_record"`

	Rates *PortfolioRatesResponse `json:"rates"`

	// GrowthTrend compares the first and last monthly portfolio balances:
	// "increasing" or "stable".
	GrowthTrend string `json:"growth_trend"`
}

// TapeSummaryResponse describes the loaded loan tape snapshot.
type TapeSummaryResponse struct {
	RecordCount        int `json:"record_count"`
	DistinctBusinesses int `json:"distinct_businesses"`
	DistinctAccounts   int `json:"distinct_accounts"`

	StatusCounts map[types.AccountStatus]int `json:"status_counts"`

	FirstPeriodEnd *time.Time `json:"first_period_end,omitempty"`
	LastPeriodEnd  *time.Time `json:"last_period_end,omitempty"`

	MeanStatedAPR   decimal.Decimal `json:"mean_stated_apr"`
	MeanPaymentRate decimal.Decimal `json:"mean_payment_rate"`
}
