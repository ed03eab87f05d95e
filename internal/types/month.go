package types

import (
	"fmt"
	"time"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
)

// MonthKey identifies a calendar month. It is the grouping key for monthly
// portfolio metrics, business vintages and customer cohorts. The zero value
// means "no month" (missing date upstream) and is never a valid group key.
type MonthKey struct {
	Year  int
	Month time.Month
}

// MonthKeyFromTime returns the month containing t.
func MonthKeyFromTime(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// ParseMonthKey parses the "YYYY-MM" form.
func ParseMonthKey(s string) (MonthKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, ierr.WithError(err).
			WithHintf("Month must be in YYYY-MM format, got %s", s).
			Mark(ierr.ErrValidation)
	}
	return MonthKeyFromTime(t), nil
}

func (k MonthKey) IsZero() bool {
	return k.Year == 0 && k.Month == 0
}

// String returns the canonical "YYYY-MM" form.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Label returns the display form, e.g. "Mar 2024".
func (k MonthKey) Label() string {
	return k.StartTime().Format("Jan 2006")
}

// StartTime returns the first instant of the month in UTC.
func (k MonthKey) StartTime() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following calendar month.
func (k MonthKey) Next() MonthKey {
	return MonthKeyFromTime(k.StartTime().AddDate(0, 1, 0))
}

// Contains reports whether t falls inside the month.
func (k MonthKey) Contains(t time.Time) bool {
	return t.Year() == k.Year && t.Month() == k.Month
}

// Compare orders months chronologically: -1 if k precedes other, 0 if equal,
// 1 if k follows other.
func (k MonthKey) Compare(other MonthKey) int {
	switch {
	case k.Year != other.Year:
		if k.Year < other.Year {
			return -1
		}
		return 1
	case k.Month != other.Month:
		if k.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

func (k MonthKey) Before(other MonthKey) bool {
	return k.Compare(other) < 0
}

func (k MonthKey) After(other MonthKey) bool {
	return k.Compare(other) > 0
}

// MarshalText encodes the month as "YYYY-MM" so MonthKey works as a JSON map
// key as well as a value.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *MonthKey) UnmarshalText(data []byte) error {
	parsed, err := ParseMonthKey(string(data))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
