package types

import (
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// CACAttribution selects how marketing spend is attributed to cohorts when
// computing customer acquisition cost.
type CACAttribution string

const (
	// CACAttributionFlat spreads total marketing spend over all acquired
	// customers; every cohort carries the same per-customer cost.
	CACAttributionFlat CACAttribution = "flat"
	// CACAttributionMonthly attributes each month's marketing spend to the
	// cohort acquired in that month.
	CACAttributionMonthly CACAttribution = "monthly"
)

// IsValid checks if the attribution policy is one of the defined constants
func (a CACAttribution) IsValid() bool {
	switch a {
	case CACAttributionFlat, CACAttributionMonthly:
		return true
	}
	return false
}

// String returns the string representation of the attribution policy
func (a CACAttribution) String() string {
	return string(a)
}

func (a CACAttribution) Validate() error {
	if !a.IsValid() {
		return ierr.NewError("invalid cac attribution").
			WithHintf("CAC attribution must be one of flat, monthly, got %s", a).
			Mark(ierr.ErrValidation)
	}
	return nil
}
