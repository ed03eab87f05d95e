package dto

import (
	"github.com/shopspring/decimal"
)

// YieldMetricsRequest configures the portfolio-wide yield computations.
type YieldMetricsRequest struct {
	// FilterActive drops ChargedOff records before any mask is applied.
	// Defaults to true: written-off accounts distort active-book yields.
	FilterActive *bool `json:"filter_active,omitempty"`
}

// ActiveOnly resolves the filter with its default.
func (r *YieldMetricsRequest) ActiveOnly() bool {
	if r == nil || r.FilterActive == nil {
		return true
	}
	return *r.FilterActive
}

// Validate validates the yield metrics request
func (r *YieldMetricsRequest) Validate() error {
	return nil
}

// YieldBasis carries the period diagnostics every yield metric shares: how
// the annualization factor was derived and how many records fed each side of
// the ratio.
type YieldBasis struct {
	AvgPeriodDays       decimal.Decimal `json:"avg_period_days"`
	AnnualizationFactor decimal.Decimal `json:"annualization_factor"`

	AccountsIncludedRevenue int `json:"accounts_included_revenue"`
	AccountsIncludedBalance int `json:"accounts_included_balance"`
}

// GrossYieldMetrics is annualized portfolio revenue over portfolio balance.
type GrossYieldMetrics struct {
	GrossPortfolioYield decimal.Decimal `json:"gross_portfolio_yield"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalBalance decimal.Decimal `json:"total_balance"`

	CurrentRevenue    decimal.Decimal `json:"current_revenue"`
	DelinquentRevenue decimal.Decimal `json:"delinquent_revenue"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	DelinquentBalance decimal.Decimal `json:"delinquent_balance"`
	DefaultBalance    decimal.Decimal `json:"default_balance"`

	YieldBasis
}

// NetYieldMetrics deducts card rewards funding costs from gross revenue.
type NetYieldMetrics struct {
	NetPortfolioYield decimal.Decimal `json:"net_portfolio_yield"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCosts   decimal.Decimal `json:"total_costs"`
	NetRevenue   decimal.Decimal `json:"net_revenue"`
	TotalBalance decimal.Decimal `json:"total_balance"`

	// CostRatioPercent is rewards cost as a percentage of gross revenue.
	CostRatioPercent decimal.Decimal `json:"cost_ratio_percent"`

	YieldBasis
}

// NetYieldAfterCapitalMetrics further deducts the annual cost of capital.
type NetYieldAfterCapitalMetrics struct {
	NetPortfolioYieldAfterCostOfCapital decimal.Decimal `json:"net_portfolio_yield_after_cost_of_capital"`

	NetPortfolioYield decimal.Decimal `json:"net_portfolio_yield"`
	CostOfCapitalRate decimal.Decimal `json:"cost_of_capital_rate"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalCosts   decimal.Decimal `json:"total_costs"`
	TotalBalance decimal.Decimal `json:"total_balance"`

	YieldBasis
}

// LineYieldMetrics is the line-of-credit slice of the book: line fees over
// line balances.
type LineYieldMetrics struct {
	LineGrossPortfolioYield decimal.Decimal `json:"line_gross_portfolio_yield"`

	LineRevenue decimal.Decimal `json:"line_revenue"`
	LineBalance decimal.Decimal `json:"line_balance"`

	// AccountsWithLineRevenue counts revenue-mask records with positive
	// line fees; AccountsWithLineBalance counts balance-mask records with
	// positive line balances.
	AccountsWithLineRevenue int `json:"accounts_with_line_revenue"`
	AccountsWithLineBalance int `json:"accounts_with_line_balance"`

	YieldBasis
}

// CardYieldMetrics is the card slice of the book: net interchange over card
// balances.
type CardYieldMetrics struct {
	CardGrossPortfolioYield decimal.Decimal `json:"card_gross_portfolio_yield"`

	CardRevenue decimal.Decimal `json:"card_revenue"`
	CardBalance decimal.Decimal `json:"card_balance"`

	AccountsWithCardRevenue int `json:"accounts_with_card_revenue"`
	AccountsWithCardBalance int `json:"accounts_with_card_balance"`

	YieldBasis
}

// CardNetYieldMetrics deducts card rewards from interchange revenue.
type CardNetYieldMetrics struct {
	CardNetPortfolioYield decimal.Decimal `json:"card_net_portfolio_yield"`

	CardRevenue    decimal.Decimal `json:"card_revenue"`
	CardCosts      decimal.Decimal `json:"card_costs"`
	CardNetRevenue decimal.Decimal `json:"card_net_revenue"`
	CardBalance    decimal.Decimal `json:"card_balance"`

	CostRatioPercent decimal.Decimal `json:"cost_ratio_percent"`

	YieldBasis
}

// AllYieldMetricsResponse bundles every portfolio-wide yield metric computed
// over one snapshot pass.
type AllYieldMetricsResponse struct {
	FilterActive bool `json:"filter_active"`

	Gross                 *GrossYieldMetrics           `json:"gross"`
	Net                   *NetYieldMetrics             `json:"net"`
	NetAfterCostOfCapital *NetYieldAfterCapitalMetrics `json:"net_after_cost_of_capital"`
	LineGross             *LineYieldMetrics            `json:"line_gross"`
	CardGross             *CardYieldMetrics            `json:"card_gross"`
	CardNet               *CardNetYieldMetrics         `json:"card_net"`
}
