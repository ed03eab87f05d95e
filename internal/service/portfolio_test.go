package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/testutil"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

type PortfolioMetricsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service PortfolioMetricsService
}

func TestPortfolioMetricsService(t *testing.T) {
	suite.Run(t, new(PortfolioMetricsServiceSuite))
}

func (s *PortfolioMetricsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewPortfolioMetricsService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		LoanTapeRepo: s.GetStores().LoanTapeRepo,
		OrderRepo:    s.GetStores().OrderRepo,
		BankTxRepo:   s.GetStores().BankTxRepo,
	})
}

// tapeRecord builds a one-month period record ending at periodEnd.
func tapeRecord(business, account string, status types.AccountStatus, periodEnd time.Time, balance, fees, interchange string) *loantape.AccountPeriodRecord {
	r := &loantape.AccountPeriodRecord{
		BusinessID:                business,
		AccountID:                 account,
		AccountType:               types.AccountTypeLineRevolving,
		EndingStatus:              status,
		DailyAvgBalance:           decimal.RequireFromString(balance),
		LineFeesAccrued:           decimal.RequireFromString(fees),
		CardNetInterchangeAccrued: decimal.RequireFromString(interchange),
	}
	if !periodEnd.IsZero() {
		r.SnapshotBeginningAt = periodEnd.AddDate(0, -1, 0)
		r.SnapshotEndingAt = periodEnd
	}
	return r
}

func (s *PortfolioMetricsServiceSuite) addRecords(records ...*loantape.AccountPeriodRecord) {
	for _, r := range records {
		s.NoError(s.GetStores().LoanTapeRepo.Add(s.GetContext(), r))
	}
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlyStatusMasks() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "1000", "10", "5"),
		tapeRecord("biz-1", "acct-2", types.AccountStatusDelinquent, jan, "500", "20", "0"),
		tapeRecord("biz-1", "acct-3", types.AccountStatusDefault, jan, "200", "99", "0"),
		tapeRecord("biz-1", "acct-4", types.AccountStatusChargedOff, jan, "300", "7", "0"),
		tapeRecord("biz-1", "acct-5", types.AccountStatusClosed, jan, "400", "3", "0"),
	)

	resp, err := s.service.ComputeMonthly(s.GetContext(), nil)
	s.NoError(err)
	s.NotNil(resp)
	s.Equal(1, resp.Total)

	m := resp.Months[0]
	s.Equal(types.MonthKey{Year: 2024, Month: time.January}, m.Month)
	s.Equal(5, m.TotalAccounts)
	s.Equal(1, m.CurrentCount)
	s.Equal(1, m.DelinquentCount)
	s.Equal(1, m.DefaultCount)
	s.Equal(1, m.ChargedOffCount)
	s.Equal(1, m.ClosedCount)

	fifth := decimal.RequireFromString("0.2")
	s.True(m.DelinquencyRate.Equal(fifth), "delinquency rate %s", m.DelinquencyRate)
	s.True(m.DefaultRate.Equal(fifth))
	s.True(m.ChargeOffRate.Equal(fifth))

	// Balance counts Current+Delinquent+Default, revenue only
	// Current+Delinquent.
	s.True(m.PortfolioSize.Equal(decimal.RequireFromString("1700")), "portfolio size %s", m.PortfolioSize)
	s.True(m.MonthlyRevenue.Equal(decimal.RequireFromString("35")), "monthly revenue %s", m.MonthlyRevenue)

	expectedGross := decimal.RequireFromString("35").
		Div(decimal.RequireFromString("1700")).
		Mul(decimal.NewFromInt(12))
	s.True(m.GrossYield.Equal(expectedGross), "gross yield %s", m.GrossYield)
	s.True(m.NetYield.Equal(expectedGross.Sub(decimal.RequireFromString("0.10"))), "net yield %s", m.NetYield)
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlySeriesOrdering() {
	feb := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, feb, "1000", "10", "0"),
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "900", "9", "0"),
	)

	resp, err := s.service.ComputeMonthly(s.GetContext(), &dto.PortfolioMetricsRequest{})
	s.NoError(err)
	s.Equal(2, resp.Total)
	s.Equal(types.MonthKey{Year: 2024, Month: time.January}, resp.Months[0].Month)
	s.Equal(types.MonthKey{Year: 2024, Month: time.February}, resp.Months[1].Month)
	s.Equal("Jan 2024", resp.Months[0].MonthLabel)
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlyZeroBalanceMonth() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusClosed, jan, "400", "3", "0"),
		tapeRecord("biz-1", "acct-2", types.AccountStatusClosed, jan, "600", "1", "0"),
	)

	resp, err := s.service.ComputeMonthly(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, resp.Total)

	m := resp.Months[0]
	s.True(m.PortfolioSize.IsZero())
	s.True(m.MonthlyRevenue.IsZero())
	s.True(m.GrossYield.IsZero(), "zero denominator must produce zero yield, got %s", m.GrossYield)
	s.True(m.NetYield.Equal(decimal.RequireFromString("-0.10")))
	s.True(m.DelinquencyRate.IsZero())
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlyRangeFilter() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "100", "1", "0"),
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, feb, "200", "2", "0"),
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, mar, "300", "3", "0"),
	)

	febKey := types.MonthKey{Year: 2024, Month: time.February}

	s.Run("bounded both sides", func() {
		resp, err := s.service.ComputeMonthly(s.GetContext(), &dto.PortfolioMetricsRequest{
			StartMonth: lo.ToPtr(febKey),
			EndMonth:   lo.ToPtr(febKey),
		})
		s.NoError(err)
		s.Equal(1, resp.Total)
		s.Equal(febKey, resp.Months[0].Month)
	})

	s.Run("start only", func() {
		resp, err := s.service.ComputeMonthly(s.GetContext(), &dto.PortfolioMetricsRequest{
			StartMonth: lo.ToPtr(febKey),
		})
		s.NoError(err)
		s.Equal(2, resp.Total)
		s.Equal(febKey, resp.Months[0].Month)
	})

	s.Run("end only", func() {
		resp, err := s.service.ComputeMonthly(s.GetContext(), &dto.PortfolioMetricsRequest{
			EndMonth: lo.ToPtr(febKey),
		})
		s.NoError(err)
		s.Equal(2, resp.Total)
		s.Equal(febKey, resp.Months[1].Month)
	})
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlyInvertedRangeRejected() {
	resp, err := s.service.ComputeMonthly(s.GetContext(), &dto.PortfolioMetricsRequest{
		StartMonth: lo.ToPtr(types.MonthKey{Year: 2024, Month: time.March}),
		EndMonth:   lo.ToPtr(types.MonthKey{Year: 2024, Month: time.January}),
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *PortfolioMetricsServiceSuite) TestComputeMonthlySkipsUndatedRecords() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "100", "1", "0"),
		tapeRecord("biz-1", "acct-2", types.AccountStatusDelinquent, time.Time{}, "200", "2", "0"),
	)

	resp, err := s.service.ComputeMonthly(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.Equal(1, resp.Months[0].TotalAccounts)

	// The undated record still shows up in the whole-snapshot rates.
	rates, err := s.service.PortfolioWideRates(s.GetContext())
	s.NoError(err)
	s.Equal(2, rates.TotalAccounts)
	s.Equal(1, rates.DelinquentCount)
}

func (s *PortfolioMetricsServiceSuite) TestPortfolioWideRates() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "100", "0", "0"),
		tapeRecord("biz-1", "acct-1", types.AccountStatusDelinquent, feb, "100", "0", "0"),
		tapeRecord("biz-1", "acct-2", types.AccountStatusChargedOff, feb, "100", "0", "0"),
		tapeRecord("biz-2", "acct-3", types.AccountStatusCurrent, feb, "100", "0", "0"),
	)

	resp, err := s.service.PortfolioWideRates(s.GetContext())
	s.NoError(err)
	s.Equal(4, resp.TotalAccounts)
	s.Equal(2, resp.CurrentCount)
	s.Equal(1, resp.DelinquentCount)
	s.Equal(1, resp.ChargedOffCount)
	s.True(resp.DelinquencyRate.Equal(decimal.RequireFromString("0.25")))
	s.True(resp.ChargeOffRate.Equal(decimal.RequireFromString("0.25")))
	s.True(resp.DefaultRate.IsZero())
}

func (s *PortfolioMetricsServiceSuite) TestPortfolioWideRatesEmptySnapshot() {
	resp, err := s.service.PortfolioWideRates(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.TotalAccounts)
	s.True(resp.DelinquencyRate.IsZero())
	s.True(resp.DefaultRate.IsZero())
	s.True(resp.ChargeOffRate.IsZero())
}

func (s *PortfolioMetricsServiceSuite) TestPortfolioInsights() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	cardRecord := tapeRecord("biz-2", "acct-2", types.AccountStatusCurrent, feb, "3000", "0", "40")
	cardRecord.AccountType = types.AccountTypeCardCharge
	cardRecord.EndingLimit = decimal.RequireFromString("5000")

	lineRecord := tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "1000", "10", "0")
	lineRecord.EndingLimit = decimal.RequireFromString("4000")

	s.addRecords(
		lineRecord,
		cardRecord,
		tapeRecord("biz-1", "acct-3", types.AccountStatusDelinquent, feb, "500", "5", "0"),
	)

	resp, err := s.service.PortfolioInsights(s.GetContext())
	s.NoError(err)

	s.Equal(2, resp.DistinctBusinesses)
	s.Equal(3, resp.DistinctAccounts)
	s.Equal(2, resp.AccountTypeDistribution[types.AccountTypeLineRevolving])
	s.Equal(1, resp.AccountTypeDistribution[types.AccountTypeCardCharge])
	s.Equal(2, resp.StatusDistribution[types.AccountStatusCurrent])

	s.True(resp.TotalPortfolioBalance.Equal(decimal.RequireFromString("4500")))
	s.True(resp.TotalEndingLimit.Equal(decimal.RequireFromString("9000")))
	s.True(resp.Utilization.Equal(decimal.RequireFromString("0.5")), "utilization %s", resp.Utilization)
	s.True(resp.LineFeeRevenue.Equal(decimal.RequireFromString("15")))
	s.True(resp.InterchangeRevenue.Equal(decimal.RequireFromString("40")))
	s.True(resp.TotalRevenue.Equal(decimal.RequireFromString("55")))
	s.True(resp.MeanRecordBalance.Equal(decimal.RequireFromString("1500")))

	s.NotNil(resp.Rates)
	s.Equal(3, resp.Rates.TotalAccounts)

	// Feb balance (3500) beats Jan (1000).
	s.Equal("increasing", resp.GrowthTrend)
}

func (s *PortfolioMetricsServiceSuite) TestPortfolioInsightsStableTrend() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	s.addRecords(
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "1000", "10", "0"),
	)

	resp, err := s.service.PortfolioInsights(s.GetContext())
	s.NoError(err)
	s.Equal("stable", resp.GrowthTrend)
}

func (s *PortfolioMetricsServiceSuite) TestTapeSummary() {
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)

	withAPR := tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, jan, "1000", "10", "0")
	withAPR.LineEndingAPR = decimal.RequireFromString("0.30")
	withAPR.AccountPaymentRate = decimal.RequireFromString("0.20")
	alsoAPR := tapeRecord("biz-2", "acct-2", types.AccountStatusClosed, feb, "500", "0", "0")
	alsoAPR.LineEndingAPR = decimal.RequireFromString("0.10")
	alsoAPR.AccountPaymentRate = decimal.RequireFromString("0.30")

	s.addRecords(
		withAPR,
		alsoAPR,
		tapeRecord("biz-1", "acct-1", types.AccountStatusCurrent, feb, "900", "9", "0"),
	)

	resp, err := s.service.TapeSummary(s.GetContext())
	s.NoError(err)
	s.Equal(3, resp.RecordCount)
	s.Equal(2, resp.DistinctBusinesses)
	s.Equal(2, resp.DistinctAccounts)
	s.Equal(2, resp.StatusCounts[types.AccountStatusCurrent])
	s.Equal(1, resp.StatusCounts[types.AccountStatusClosed])

	s.NotNil(resp.FirstPeriodEnd)
	s.NotNil(resp.LastPeriodEnd)
	s.True(resp.FirstPeriodEnd.Equal(jan))
	s.True(resp.LastPeriodEnd.Equal(feb))

	// Means cover only the records carrying each column.
	s.True(resp.MeanStatedAPR.Equal(decimal.RequireFromString("0.2")), "mean stated APR %s", resp.MeanStatedAPR)
	s.True(resp.MeanPaymentRate.Equal(decimal.RequireFromString("0.25")), "mean payment rate %s", resp.MeanPaymentRate)
}
