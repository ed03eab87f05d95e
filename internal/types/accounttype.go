package types

import (
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// AccountType represents the credit product behind an account period record
type AccountType string

const (
	// AccountTypeLineRevolving is a revolving line of credit product
	AccountTypeLineRevolving AccountType = "LineRevolving"
	// AccountTypeCardCharge is a charge card product settled in full each cycle
	AccountTypeCardCharge AccountType = "CardCharge"
	// AccountTypeCardRevolving is a revolving card product
	AccountTypeCardRevolving AccountType = "CardRevolving"
)

// IsValid checks if the account type is one of the defined constants
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeLineRevolving, AccountTypeCardCharge, AccountTypeCardRevolving:
		return true
	}
	return false
}

// String returns the string representation of the account type
func (t AccountType) String() string {
	return string(t)
}

func (t AccountType) Validate() error {
	if !t.IsValid() {
		return ierr.NewError("invalid account type").
			WithHintf("Account type must be one of LineRevolving, CardCharge, CardRevolving, got %s", t).
			WithReportableDetails(map[string]interface{}{"account_type": t.String()}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
