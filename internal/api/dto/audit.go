package dto

// LoanTapeAuditResponse is the read-only data quality pass over the loan
// tape snapshot. Findings never block metric computation; they travel with
// the report so consumers can judge the inputs.
type LoanTapeAuditResponse struct {
	TotalRecords int `json:"total_records"`

	NegativeBalanceCount    int      `json:"negative_balance_count"`
	NegativeBalanceAccounts []string `json:"negative_balance_accounts,omitempty"`

	ZeroBalanceRevenueCount    int      `json:"zero_balance_revenue_count"`
	ZeroBalanceRevenueAccounts []string `json:"zero_balance_revenue_accounts,omitempty"`

	MissingPeriodDatesCount int `json:"missing_period_dates_count"`
	MissingActivationCount  int `json:"missing_activation_count"`
	UnknownAccountTypeCount int `json:"unknown_account_type_count"`

	CleanRecords int `json:"clean_records"`
}
