package order

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// Order represents one commerce order with its revenue already decomposed
// into gross, refund and discount components. A zero CreatedAt means the
// source row had no usable timestamp; such orders still contribute revenue
// but never join a cohort.
type Order struct {
	ID         string    `json:"order_id"`
	CustomerID string    `json:"customer_id"`
	CreatedAt  time.Time `json:"created_at"`

	Gross    decimal.Decimal `json:"gross"`
	Refund   decimal.Decimal `json:"refund"`
	Discount decimal.Decimal `json:"discount"`
}

// Validate validates the order
func (o *Order) Validate() error {
	if o.ID == "" {
		return ierr.NewError("order_id is required").Mark(ierr.ErrValidation)
	}
	if o.CustomerID == "" {
		return ierr.NewError("customer_id is required").Mark(ierr.ErrValidation)
	}
	return nil
}

// NetRevenue returns gross minus refunds minus discounts. Orders refunded
// beyond their gross legitimately go negative; the value is never clamped.
func (o *Order) NetRevenue() decimal.Decimal {
	return o.Gross.Sub(o.Refund).Sub(o.Discount)
}

// CohortMonth returns the calendar month of the order. ok is false when the
// order timestamp is missing.
func (o *Order) CohortMonth() (types.MonthKey, bool) {
	if o.CreatedAt.IsZero() {
		return types.MonthKey{}, false
	}
	return types.MonthKeyFromTime(o.CreatedAt), true
}

// BankTransaction represents one bank statement line used for marketing
// spend attribution. Amount keeps its sign from the statement; spend is
// negative there.
type BankTransaction struct {
	ID       string          `json:"transaction_id"`
	Date     time.Time       `json:"date"`
	Category *string         `json:"category,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
}

// IsMarketingSpend reports whether the transaction counts toward customer
// acquisition cost. Lines without a category never match.
func (t *BankTransaction) IsMarketingSpend() bool {
	return t.Category != nil && strings.Contains(*t.Category, "Marketing")
}

// Month returns the calendar month of the transaction. ok is false when the
// date is missing.
func (t *BankTransaction) Month() (types.MonthKey, bool) {
	if t.Date.IsZero() {
		return types.MonthKey{}, false
	}
	return types.MonthKeyFromTime(t.Date), true
}
