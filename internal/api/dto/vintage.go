package dto

import (
	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// BusinessVintageRow is one (business, activation month) group of accounts.
type BusinessVintageRow struct {
	BusinessID string `json:"business_id"`
	// BusinessDisplayID is the shortened identifier used in reports.
	BusinessDisplayID string `json:"business_display_id"`

	VintageMonth types.MonthKey `json:"vintage_month"`
	VintageLabel string         `json:"vintage_label"`

	// TotalCreditLimit sums stated limits, substituting a balance-derived
	// estimate for rows without one.
	TotalCreditLimit decimal.Decimal `json:"total_credit_limit"`
	TotalBalance     decimal.Decimal `json:"total_balance"`

	AvgAccountAgeMonths decimal.Decimal `json:"avg_account_age_months"`
	AvgEstimatedAPR     decimal.Decimal `json:"avg_estimated_apr"`

	TotalRevenue decimal.Decimal `json:"total_revenue"`

	Status       types.AccountStatus `json:"status"`
	AccountCount int                 `json:"account_count"`
	AccountTypes []string            `json:"account_types"`
}

// BusinessVintagesResponse lists vintage rows in display order: business
// ascending, then status priority, then newest vintage first.
type BusinessVintagesResponse struct {
	Vintages []BusinessVintageRow `json:"vintages"`
	Total    int                  `json:"total"`
}
