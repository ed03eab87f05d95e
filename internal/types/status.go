package types

import (
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// AccountStatus represents the servicing status of an account period record
type AccountStatus string

const (
	// AccountStatusCurrent indicates the account is open and paying on schedule
	AccountStatusCurrent AccountStatus = "Current"
	// AccountStatusDelinquent indicates the account has missed payments but is still accruing
	AccountStatusDelinquent AccountStatus = "Delinquent"
	// AccountStatusDefault indicates the account is in default but not yet written off
	AccountStatusDefault AccountStatus = "Default"
	// AccountStatusChargedOff indicates the balance has been written off
	AccountStatusChargedOff AccountStatus = "ChargedOff"
	// AccountStatusClosed indicates the account was closed in good standing
	AccountStatusClosed AccountStatus = "Closed"
)

// statusPriorityOrder is the display resolution order for a business holding
// accounts in several statuses. Earlier entries win.
var statusPriorityOrder = []AccountStatus{
	AccountStatusClosed,
	AccountStatusCurrent,
	AccountStatusDelinquent,
	AccountStatusDefault,
	AccountStatusChargedOff,
}

// IsValid checks if the status is one of the defined constants
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusCurrent, AccountStatusDelinquent, AccountStatusDefault,
		AccountStatusChargedOff, AccountStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s AccountStatus) String() string {
	return string(s)
}

func (s AccountStatus) Validate() error {
	if !s.IsValid() {
		return ierr.NewError("invalid account status").
			WithHintf("Account status must be one of Current, Delinquent, Default, ChargedOff, Closed, got %s", s).
			WithReportableDetails(map[string]interface{}{"status": s.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PriorityRank returns the 1-based position of the status in the display
// resolution order. Unknown statuses rank after every known one.
func (s AccountStatus) PriorityRank() int {
	for i, status := range statusPriorityOrder {
		if s == status {
			return i + 1
		}
	}
	return len(statusPriorityOrder) + 1
}

// ResolvePriorityStatus picks the single representative status for a set of
// account statuses by walking the display resolution order and returning the
// first one present. An empty set, or a set containing only unknown values,
// resolves to Current.
func ResolvePriorityStatus(statuses []AccountStatus) AccountStatus {
	present := make(map[AccountStatus]bool, len(statuses))
	for _, s := range statuses {
		present[s] = true
	}
	for _, s := range statusPriorityOrder {
		if present[s] {
			return s
		}
	}
	return AccountStatusCurrent
}

// AllAccountStatuses returns every defined status in priority order. The
// returned slice is a copy.
func AllAccountStatuses() []AccountStatus {
	out := make([]AccountStatus, len(statusPriorityOrder))
	copy(out, statusPriorityOrder)
	return out
}

// PortfolioStatuses returns the statuses counted toward portfolio size:
// accounts still on the book, including defaults not yet written off.
func PortfolioStatuses() []AccountStatus {
	return []AccountStatus{AccountStatusCurrent, AccountStatusDelinquent, AccountStatusDefault}
}

// RevenueStatuses returns the statuses whose accrued revenue is recognized:
// accounts still expected to pay.
func RevenueStatuses() []AccountStatus {
	return []AccountStatus{AccountStatusCurrent, AccountStatusDelinquent}
}
