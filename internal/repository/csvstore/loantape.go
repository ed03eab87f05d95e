package csvstore

import (
	"context"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// loanTapeRow mirrors the loan tape CSV header. Every value column comes in
// as a raw string and is normalized during load.
type loanTapeRow struct {
	BusinessGUID        string `csv:"businessGuid"`
	AccountGUID         string `csv:"accountGuid"`
	AccountType         string `csv:"accountType"`
	SnapshotBeginningAt string `csv:"snapshotBeginningAt"`
	SnapshotEndingAt    string `csv:"snapshotEndingAt"`
	AccountActivatedAt  string `csv:"accountActivatedAt"`
	EndingAccountStatus string `csv:"accountEndingStatus"`
	DailyAvgBalance     string `csv:"accountDailyAveragePrincipalBalance"`
	LineDailyAvgBalance string `csv:"lineDailyAveragePrincipalBalance"`
	CardDailyAvgBalance string `csv:"cardDailyAveragePrincipalBalance"`
	EndingLimit         string `csv:"accountEndingLimit"`
	LineFeesAccrued     string `csv:"lineFeesAccrued"`
	CardNetInterchange  string `csv:"cardNetInterchangeAccrued"`
	CardRewardsAccrued  string `csv:"cardRewardsAccrued"`
	LineEndingAPR       string `csv:"lineEndingApr"`
	AccountPaymentRate  string `csv:"accountPaymentRate"`
}

// LoanTapeStore loads the loan tape feed once and serves it as an immutable
// in-memory snapshot.
type LoanTapeStore struct {
	records []*loantape.AccountPeriodRecord
	logger  *logger.Logger
}

// NewLoanTapeStore reads and normalizes the loan tape CSV. A row carrying an
// unrecognized account status fails the whole load; downstream engines
// assume status validity.
func NewLoanTapeStore(path string, log *logger.Logger) (*LoanTapeStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open loan tape file").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrSystem)
	}
	defer f.Close()

	var rows []*loanTapeRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse loan tape CSV").
			WithReportableDetails(map[string]interface{}{"path": path}).
			Mark(ierr.ErrValidation)
	}

	records := make([]*loantape.AccountPeriodRecord, 0, len(rows))
	for i, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Loan tape row %d rejected", i+1).
				WithReportableDetails(map[string]interface{}{
					"row":          i + 1,
					"business_id":  row.BusinessGUID,
					"account_id":   row.AccountGUID,
					"status":       row.EndingAccountStatus,
					"account_type": row.AccountType,
				}).
				Mark(ierr.ErrValidation)
		}
		// Unknown account types ride along untyped so the raw product mix
		// still shows up in aggregations.
		if !record.AccountType.IsValid() {
			log.Warnw("unrecognized account type on loan tape row",
				"row", i+1,
				"account_type", row.AccountType)
		}
		records = append(records, record)
	}

	log.Infow("loaded loan tape snapshot",
		"path", path,
		"records", len(records))

	return &LoanTapeStore{records: records, logger: log}, nil
}

func (row *loanTapeRow) toRecord() (*loantape.AccountPeriodRecord, error) {
	record := &loantape.AccountPeriodRecord{
		BusinessID:   row.BusinessGUID,
		AccountID:    row.AccountGUID,
		AccountType:  types.AccountType(row.AccountType),
		EndingStatus: types.AccountStatus(row.EndingAccountStatus),

		DailyAvgBalance:     ParseCurrency(row.DailyAvgBalance),
		LineDailyAvgBalance: ParseCurrency(row.LineDailyAvgBalance),
		CardDailyAvgBalance: ParseCurrency(row.CardDailyAvgBalance),
		EndingLimit:         ParseCurrency(row.EndingLimit),

		LineFeesAccrued:           ParseCurrency(row.LineFeesAccrued),
		CardNetInterchangeAccrued: ParseCurrency(row.CardNetInterchange),
		CardRewardsAccrued:        ParseCurrency(row.CardRewardsAccrued),

		LineEndingAPR:      ParsePercent(row.LineEndingAPR),
		AccountPaymentRate: ParsePercent(row.AccountPaymentRate),
	}

	// Missing or unparseable dates stay as zero times; the engines exclude
	// those records from date-based grouping instead of failing.
	if t, ok := ParseDate(row.SnapshotBeginningAt); ok {
		record.SnapshotBeginningAt = t
	}
	if t, ok := ParseDate(row.SnapshotEndingAt); ok {
		record.SnapshotEndingAt = t
	}
	if t, ok := ParseDate(row.AccountActivatedAt); ok {
		record.AccountActivatedAt = t
	}

	return record, record.Validate()
}

// List returns every account period record in the snapshot
func (s *LoanTapeStore) List(ctx context.Context) ([]*loantape.AccountPeriodRecord, error) {
	out := make([]*loantape.AccountPeriodRecord, len(s.records))
	copy(out, s.records)
	return out, nil
}

// Count returns the number of records in the snapshot
func (s *LoanTapeStore) Count(ctx context.Context) (int, error) {
	return len(s.records), nil
}
