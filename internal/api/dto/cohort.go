package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// CohortMetricsRow is one acquisition cohort: every customer whose first
// order fell in the month.
type CohortMetricsRow struct {
	Month      types.MonthKey `json:"month"`
	MonthLabel string         `json:"month_label"`

	CustomerCount int             `json:"customer_count"`
	OrderCount    int             `json:"order_count"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`

	AvgOrdersPerCustomer  decimal.Decimal `json:"avg_orders_per_customer"`
	AvgRevenuePerCustomer decimal.Decimal `json:"avg_revenue_per_customer"`
}

// CohortMetricsResponse lists cohorts oldest first. Cohort totals reconcile
// with the snapshot totals for every cohorted customer.
type CohortMetricsResponse struct {
	Cohorts []CohortMetricsRow `json:"cohorts"`
	Total   int                `json:"total"`

	TotalCustomers int             `json:"total_customers"`
	TotalOrders    int             `json:"total_orders"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// CohortLTVRow is a cohort's average lifetime value per customer.
type CohortLTVRow struct {
	Month         types.MonthKey  `json:"month"`
	CustomerCount int             `json:"customer_count"`
	LTV           decimal.Decimal `json:"ltv"`
}

// LTVResponse carries lifetime value by cohort plus the global summary.
type LTVResponse struct {
	ByCohort []CohortLTVRow `json:"by_cohort"`

	// GlobalLTV is total net revenue over distinct customers. MedianLTV is
	// the median of per-customer revenue sums.
	GlobalLTV       decimal.Decimal `json:"global_ltv"`
	MedianLTV       decimal.Decimal `json:"median_ltv"`
	TotalCustomers  int             `json:"total_customers"`
	TotalNetRevenue decimal.Decimal `json:"total_net_revenue"`
}

// CohortAOVRow is a cohort's average order value.
type CohortAOVRow struct {
	Month      types.MonthKey  `json:"month"`
	OrderCount int             `json:"order_count"`
	AOV        decimal.Decimal `json:"aov"`
}

// AOVResponse carries average order value by cohort plus the global summary.
type AOVResponse struct {
	ByCohort []CohortAOVRow `json:"by_cohort"`

	// GlobalAOV is total net revenue over total orders. MedianAOV is the
	// median per-order net revenue.
	GlobalAOV       decimal.Decimal `json:"global_aov"`
	MedianAOV       decimal.Decimal `json:"median_aov"`
	TotalOrders     int             `json:"total_orders"`
	TotalNetRevenue decimal.Decimal `json:"total_net_revenue"`
}

// CACRequest selects the marketing spend attribution policy.
type CACRequest struct {
	Attribution types.CACAttribution `json:"attribution"`
}

// Validate validates the CAC request, defaulting the attribution policy.
func (r *CACRequest) Validate() error {
	if r.Attribution == "" {
		r.Attribution = types.CACAttributionFlat
	}
	return r.Attribution.Validate()
}

// CohortCACRow is a cohort's customer acquisition cost under the selected
// attribution policy.
type CohortCACRow struct {
	Month         types.MonthKey  `json:"month"`
	CustomerCount int             `json:"customer_count"`
	// MarketingSpend is the spend attributed to this cohort; under flat
	// attribution it is the cohort's proportional carry of total spend.
	MarketingSpend decimal.Decimal `json:"marketing_spend"`
	CAC            decimal.Decimal `json:"cac"`
}

// CACResponse carries acquisition cost by cohort plus the global summary.
type CACResponse struct {
	Attribution types.CACAttribution `json:"attribution"`

	ByCohort []CohortCACRow `json:"by_cohort"`

	GlobalCAC           decimal.Decimal `json:"global_cac"`
	TotalMarketingSpend decimal.Decimal `json:"total_marketing_spend"`
	TotalCustomers      int             `json:"total_customers"`

	// LTVCACRatio is global LTV over global CAC, zero when CAC is zero.
	LTVCACRatio decimal.Decimal `json:"ltv_cac_ratio"`
}

// CustomerBehavior summarizes ordering behavior across all cohorted
// customers.
type CustomerBehavior struct {
	TotalCustomers       int             `json:"total_customers"`
	AvgOrdersPerCustomer decimal.Decimal `json:"avg_orders_per_customer"`
	AvgLifetimeDays      decimal.Decimal `json:"avg_lifetime_days"`
	RepeatCustomers      int             `json:"repeat_customers"`
	// RepeatRate is the fraction of customers with more than one order.
	RepeatRate decimal.Decimal `json:"repeat_rate"`
}

// MonthlyRevenuePoint is one month of order volume and net revenue.
type MonthlyRevenuePoint struct {
	Month      types.MonthKey  `json:"month"`
	OrderCount int             `json:"order_count"`
	NetRevenue decimal.Decimal `json:"net_revenue"`
}

// RevenueTrend is the monthly revenue series with its direction.
type RevenueTrend struct {
	Monthly []MonthlyRevenuePoint `json:"monthly"`

	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	AvgMonthlyRevenue decimal.Decimal `json:"avg_monthly_revenue"`

	// Trend compares the last month against the first: "increasing" or
	// "stable".
	Trend     string          `json:"trend"`
	PeakMonth *types.MonthKey `json:"peak_month,omitempty"`
}

// RevenueBreakdown decomposes snapshot revenue into its components.
type RevenueBreakdown struct {
	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	Refunds      decimal.Decimal `json:"refunds"`
	Discounts    decimal.Decimal `json:"discounts"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`

	RefundRatePercent   decimal.Decimal `json:"refund_rate_percent"`
	DiscountRatePercent decimal.Decimal `json:"discount_rate_percent"`
}

// CustomerInsightsResponse bundles behavior, trend and revenue breakdown.
type CustomerInsightsResponse struct {
	Behavior     *CustomerBehavior `json:"behavior"`
	RevenueTrend *RevenueTrend     `json:"revenue_trend"`
	Breakdown    *RevenueBreakdown `json:"breakdown"`
}

// OrdersSummaryResponse describes the loaded orders and bank statement
// snapshots.
type OrdersSummaryResponse struct {
	TotalOrders       int        `json:"total_orders"`
	DistinctCustomers int        `json:"distinct_customers"`
	FirstOrderAt      *time.Time `json:"first_order_at,omitempty"`
	LastOrderAt       *time.Time `json:"last_order_at,omitempty"`

	GrossRevenue decimal.Decimal `json:"gross_revenue"`
	Refunds      decimal.Decimal `json:"refunds"`
	Discounts    decimal.Decimal `json:"discounts"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`

	AvgOrderNetRevenue decimal.Decimal `json:"avg_order_net_revenue"`

	BankTransactionCount int      `json:"bank_transaction_count"`
	BankCategories       []string `json:"bank_categories"`
}
