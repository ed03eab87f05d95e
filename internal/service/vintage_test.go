package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/testutil"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

type BusinessVintageServiceSuite struct {
	testutil.BaseServiceTestSuite
	service BusinessVintageService
}

func TestBusinessVintageService(t *testing.T) {
	suite.Run(t, new(BusinessVintageServiceSuite))
}

func (s *BusinessVintageServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewBusinessVintageService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		LoanTapeRepo: s.GetStores().LoanTapeRepo,
		OrderRepo:    s.GetStores().OrderRepo,
		BankTxRepo:   s.GetStores().BankTxRepo,
	})
}

func (s *BusinessVintageServiceSuite) addVintageRecord(business, account string, accountType types.AccountType, status types.AccountStatus, activatedAt, endingAt time.Time, balance, fees, interchange string) {
	record := &loantape.AccountPeriodRecord{
		BusinessID:                business,
		AccountID:                 account,
		AccountType:               accountType,
		EndingStatus:              status,
		AccountActivatedAt:        activatedAt,
		SnapshotEndingAt:          endingAt,
		DailyAvgBalance:           decimal.RequireFromString(balance),
		LineFeesAccrued:           decimal.RequireFromString(fees),
		CardNetInterchangeAccrued: decimal.RequireFromString(interchange),
	}
	if !endingAt.IsZero() {
		record.SnapshotBeginningAt = endingAt.AddDate(0, -1, 0)
	}
	s.NoError(s.GetStores().LoanTapeRepo.Add(s.GetContext(), record))
}

// seedVintages loads two businesses. biz-aaaa has a two account January
// vintage plus a March vintage, all still performing. biz-bbbb has an older
// Current vintage and a newer Default one, so priority ordering has to beat
// vintage recency.
func (s *BusinessVintageServiceSuite) seedVintages() {
	periodEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)

	s.addVintageRecord("biz-aaaa-1111", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), periodEnd, "1000", "25", "5")
	s.addVintageRecord("biz-aaaa-1111", "acct-2", types.AccountTypeCardRevolving, types.AccountStatusDelinquent,
		time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), periodEnd, "500", "10", "0")
	s.addVintageRecord("biz-aaaa-1111", "acct-3", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), periodEnd, "200", "2", "1")

	s.addVintageRecord("biz-bbbb-2222", "acct-4", types.AccountTypeLineRevolving, types.AccountStatusDefault,
		time.Date(2024, 5, 5, 0, 0, 0, 0, time.UTC), periodEnd, "300", "99", "0")
	s.addVintageRecord("biz-bbbb-2222", "acct-5", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), periodEnd, "100", "1", "0")
}

func (s *BusinessVintageServiceSuite) TestComputeBusinessVintagesOrdering() {
	s.seedVintages()

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(4, resp.Total)

	// biz-aaaa first, its two Current rows newest vintage first. For
	// biz-bbbb the Current February row outranks the newer Default May row.
	s.Equal("biz-aaaa-1111", resp.Vintages[0].BusinessID)
	s.Equal(types.MonthKey{Year: 2024, Month: time.March}, resp.Vintages[0].VintageMonth)
	s.Equal("biz-aaaa-1111", resp.Vintages[1].BusinessID)
	s.Equal(types.MonthKey{Year: 2024, Month: time.January}, resp.Vintages[1].VintageMonth)

	s.Equal("biz-bbbb-2222", resp.Vintages[2].BusinessID)
	s.Equal(types.MonthKey{Year: 2024, Month: time.February}, resp.Vintages[2].VintageMonth)
	s.Equal(types.AccountStatusCurrent, resp.Vintages[2].Status)
	s.Equal("biz-bbbb-2222", resp.Vintages[3].BusinessID)
	s.Equal(types.MonthKey{Year: 2024, Month: time.May}, resp.Vintages[3].VintageMonth)
	s.Equal(types.AccountStatusDefault, resp.Vintages[3].Status)
}

func (s *BusinessVintageServiceSuite) TestVintageRowAggregates() {
	s.seedVintages()

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)

	jan := resp.Vintages[1]
	s.Equal("biz-aaaa…", jan.BusinessDisplayID)
	s.Equal("Jan 2024", jan.VintageLabel)
	s.Equal(2, jan.AccountCount)
	s.True(jan.TotalBalance.Equal(decimal.RequireFromString("1500")), "balance %s", jan.TotalBalance)
	s.True(jan.TotalCreditLimit.Equal(decimal.RequireFromString("1800")), "limit %s", jan.TotalCreditLimit)
	s.True(jan.TotalRevenue.Equal(decimal.RequireFromString("40")), "revenue %s", jan.TotalRevenue)

	// Ages at June 30 are 167 and 162 days, 5.4 average months rounded to
	// one place. APRs annualize to 29.977 and 23.982 percent, 26.98 average.
	s.True(jan.AvgAccountAgeMonths.Equal(decimal.RequireFromString("5.4")), "age %s", jan.AvgAccountAgeMonths)
	s.True(jan.AvgEstimatedAPR.Equal(decimal.RequireFromString("26.98")), "apr %s", jan.AvgEstimatedAPR)

	// Mixed Current and Delinquent resolves to Current.
	s.Equal(types.AccountStatusCurrent, jan.Status)
	s.Equal([]string{"CardRevolving", "LineRevolving"}, jan.AccountTypes)

	mar := resp.Vintages[0]
	s.Equal(1, mar.AccountCount)
	s.True(mar.TotalBalance.Equal(decimal.RequireFromString("200")))
	s.True(mar.TotalCreditLimit.Equal(decimal.RequireFromString("240")))
	s.True(mar.AvgAccountAgeMonths.Equal(decimal.RequireFromString("3.7")), "age %s", mar.AvgAccountAgeMonths)
	s.True(mar.AvgEstimatedAPR.Equal(decimal.RequireFromString("11.99")), "apr %s", mar.AvgEstimatedAPR)
}

func (s *BusinessVintageServiceSuite) TestVintageStatedLimitPreferred() {
	periodEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	activated := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s.addVintageRecord("biz-1", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		activated, periodEnd, "200", "0", "0")
	limited := &loantape.AccountPeriodRecord{
		BusinessID:         "biz-1",
		AccountID:          "acct-2",
		AccountType:        types.AccountTypeLineRevolving,
		EndingStatus:       types.AccountStatusCurrent,
		AccountActivatedAt: activated,
		SnapshotEndingAt:   periodEnd,
		DailyAvgBalance:    decimal.RequireFromString("100"),
		EndingLimit:        decimal.RequireFromString("5000"),
	}
	s.NoError(s.GetStores().LoanTapeRepo.Add(s.GetContext(), limited))

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)

	// The stated limit wins for acct-2; acct-1 falls back to the 1.2 proxy.
	row := resp.Vintages[0]
	s.True(row.TotalCreditLimit.Equal(decimal.RequireFromString("5240")), "limit %s", row.TotalCreditLimit)
}

func (s *BusinessVintageServiceSuite) TestVintagesExcludeMissingActivation() {
	periodEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	s.addVintageRecord("biz-aaaa-1111", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), periodEnd, "1000", "25", "5")
	s.addVintageRecord("biz-aaaa-1111", "acct-2", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Time{}, periodEnd, "500", "10", "0")

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(1, resp.Vintages[0].AccountCount)
	s.True(resp.Vintages[0].TotalBalance.Equal(decimal.RequireFromString("1000")))
}

func (s *BusinessVintageServiceSuite) TestVintageAPRSkipsZeroBalanceAccounts() {
	periodEnd := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	activated := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	s.addVintageRecord("biz-aaaa-1111", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		activated, periodEnd, "100", "1", "0")
	s.addVintageRecord("biz-aaaa-1111", "acct-2", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		activated, periodEnd, "0", "5", "0")

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)

	row := resp.Vintages[0]
	s.True(row.TotalBalance.Equal(decimal.RequireFromString("100")))
	s.True(row.TotalRevenue.Equal(decimal.RequireFromString("6")))
	// Only the funded account contributes an APR.
	s.True(row.AvgEstimatedAPR.Equal(decimal.RequireFromString("11.99")), "apr %s", row.AvgEstimatedAPR)
}

func (s *BusinessVintageServiceSuite) TestVintageAgeSkipsMissingPeriodEnd() {
	s.addVintageRecord("biz-aaaa-1111", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), "100", "1", "0")
	s.addVintageRecord("biz-aaaa-1111", "acct-2", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), time.Time{}, "100", "1", "0")

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)

	row := resp.Vintages[0]
	s.Equal(2, row.AccountCount)
	// 81 days of age from the dated record alone.
	s.True(row.AvgAccountAgeMonths.Equal(decimal.RequireFromString("2.7")), "age %s", row.AvgAccountAgeMonths)
	// The APR mean still covers both accounts.
	s.True(row.AvgEstimatedAPR.Equal(decimal.RequireFromString("11.99")), "apr %s", row.AvgEstimatedAPR)
}

func (s *BusinessVintageServiceSuite) TestVintageStatusResolution() {
	periodEnd := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	activated := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	s.Run("delinquent beats default", func() {
		s.ClearStores()
		s.addVintageRecord("biz-1", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusDelinquent,
			activated, periodEnd, "100", "0", "0")
		s.addVintageRecord("biz-1", "acct-2", types.AccountTypeLineRevolving, types.AccountStatusDefault,
			activated, periodEnd, "100", "0", "0")

		resp, err := s.service.ComputeBusinessVintages(s.GetContext())
		s.NoError(err)
		s.Equal(types.AccountStatusDelinquent, resp.Vintages[0].Status)
	})

	s.Run("charged off stands alone", func() {
		s.ClearStores()
		s.addVintageRecord("biz-1", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusChargedOff,
			activated, periodEnd, "100", "0", "0")

		resp, err := s.service.ComputeBusinessVintages(s.GetContext())
		s.NoError(err)
		s.Equal(types.AccountStatusChargedOff, resp.Vintages[0].Status)
	})
}

func (s *BusinessVintageServiceSuite) TestShortBusinessDisplayID() {
	s.addVintageRecord("abc", "acct-1", types.AccountTypeLineRevolving, types.AccountStatusCurrent,
		time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), "100", "0", "0")

	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal("abc…", resp.Vintages[0].BusinessDisplayID)
}

func (s *BusinessVintageServiceSuite) TestEmptyTape() {
	resp, err := s.service.ComputeBusinessVintages(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Total)
	s.Empty(resp.Vintages)
}
