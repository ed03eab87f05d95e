package loantape

import (
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// daysPerMonth is the average month length used for account age and APR
// annualization.
var daysPerMonth = decimal.NewFromFloat(30.44)

var daysPerYear = decimal.NewFromInt(365)

// AccountPeriodRecord represents one loan tape row: a single account's
// servicing snapshot for one reporting period. A zero time value on any of
// the date fields means the source row had no usable date.
type AccountPeriodRecord struct {
	BusinessID   string              `json:"business_guid"`
	AccountID    string              `json:"account_guid"`
	AccountType  types.AccountType   `json:"account_type"`
	EndingStatus types.AccountStatus `json:"ending_account_status"`

	SnapshotBeginningAt time.Time `json:"snapshot_beginning_at"`
	SnapshotEndingAt    time.Time `json:"snapshot_ending_at"`
	AccountActivatedAt  time.Time `json:"account_activated_at"`

	DailyAvgBalance     decimal.Decimal `json:"daily_average_principal_balance"`
	LineDailyAvgBalance decimal.Decimal `json:"line_daily_average_principal_balance"`
	CardDailyAvgBalance decimal.Decimal `json:"card_daily_average_principal_balance"`
	EndingLimit         decimal.Decimal `json:"account_ending_limit"`

	LineFeesAccrued           decimal.Decimal `json:"line_fees_accrued"`
	CardNetInterchangeAccrued decimal.Decimal `json:"card_net_interchange_accrued"`
	CardRewardsAccrued        decimal.Decimal `json:"card_rewards_accrued"`

	// LineEndingAPR is the stated APR as a fraction, e.g. 0.0509 for "5.09%".
	LineEndingAPR decimal.Decimal `json:"line_ending_apr"`
	// AccountPaymentRate is the observed payment rate as a fraction.
	AccountPaymentRate decimal.Decimal `json:"account_payment_rate"`
}

// Validate validates the record
func (r *AccountPeriodRecord) Validate() error {
	if r.BusinessID == "" {
		return ierr.NewError("business_guid is required").Mark(ierr.ErrValidation)
	}
	if r.AccountID == "" {
		return ierr.NewError("account_guid is required").Mark(ierr.ErrValidation)
	}
	if err := r.EndingStatus.Validate(); err != nil {
		return err
	}
	return nil
}

// Revenue returns the accrued revenue for the period: line fees plus net
// card interchange.
func (r *AccountPeriodRecord) Revenue() decimal.Decimal {
	return r.LineFeesAccrued.Add(r.CardNetInterchangeAccrued)
}

// PeriodDays returns the reporting period length in days, floored at one
// day. ok is false when either period boundary is missing.
func (r *AccountPeriodRecord) PeriodDays() (int64, bool) {
	if r.SnapshotBeginningAt.IsZero() || r.SnapshotEndingAt.IsZero() {
		return 0, false
	}
	days := int64(r.SnapshotEndingAt.Sub(r.SnapshotBeginningAt).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days, true
}

// SnapshotMonth returns the calendar month of the period end. ok is false
// when the period end is missing.
func (r *AccountPeriodRecord) SnapshotMonth() (types.MonthKey, bool) {
	if r.SnapshotEndingAt.IsZero() {
		return types.MonthKey{}, false
	}
	return types.MonthKeyFromTime(r.SnapshotEndingAt), true
}

// VintageMonth returns the calendar month the account was activated in. ok
// is false when the activation date is missing.
func (r *AccountPeriodRecord) VintageMonth() (types.MonthKey, bool) {
	if r.AccountActivatedAt.IsZero() {
		return types.MonthKey{}, false
	}
	return types.MonthKeyFromTime(r.AccountActivatedAt), true
}

// AgeMonths returns the account age at period end in average months. ok is
// false when either date is missing.
func (r *AccountPeriodRecord) AgeMonths() (decimal.Decimal, bool) {
	if r.AccountActivatedAt.IsZero() || r.SnapshotEndingAt.IsZero() {
		return decimal.Zero, false
	}
	days := int64(r.SnapshotEndingAt.Sub(r.AccountActivatedAt).Hours() / 24)
	return decimal.NewFromInt(days).Div(daysPerMonth), true
}

// EstimatedAPR annualizes the period's line fees against the average balance
// and returns it as a percentage. ok is false when the balance is zero, so
// callers can skip the record instead of dividing by zero.
func (r *AccountPeriodRecord) EstimatedAPR() (decimal.Decimal, bool) {
	if r.DailyAvgBalance.IsZero() {
		return decimal.Zero, false
	}
	return r.LineFeesAccrued.Div(r.DailyAvgBalance).
		Mul(daysPerYear).Div(daysPerMonth).
		Mul(decimal.NewFromInt(100)), true
}
