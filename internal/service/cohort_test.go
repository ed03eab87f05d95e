package service

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/testutil"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

type CohortEconomicsServiceSuite struct {
	testutil.BaseServiceTestSuite
	service CohortEconomicsService
}

func TestCohortEconomicsService(t *testing.T) {
	suite.Run(t, new(CohortEconomicsServiceSuite))
}

func (s *CohortEconomicsServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewCohortEconomicsService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		LoanTapeRepo: s.GetStores().LoanTapeRepo,
		OrderRepo:    s.GetStores().OrderRepo,
		BankTxRepo:   s.GetStores().BankTxRepo,
	})
}

func (s *CohortEconomicsServiceSuite) addOrder(id, customer string, createdAt time.Time, gross, refund, discount string) {
	s.NoError(s.GetStores().OrderRepo.Add(s.GetContext(), &order.Order{
		ID:         id,
		CustomerID: customer,
		CreatedAt:  createdAt,
		Gross:      decimal.RequireFromString(gross),
		Refund:     decimal.RequireFromString(refund),
		Discount:   decimal.RequireFromString(discount),
	}))
}

func (s *CohortEconomicsServiceSuite) addBankTx(id string, date time.Time, category *string, amount string) {
	s.NoError(s.GetStores().BankTxRepo.Add(s.GetContext(), &order.BankTransaction{
		ID:       id,
		Date:     date,
		Category: category,
		Amount:   decimal.RequireFromString(amount),
	}))
}

// seedOrders loads the shared scenario: customer a with two orders starting
// in January, customer b with one order in February. Nets are 85, 165 and
// 150 for a 400 total.
func (s *CohortEconomicsServiceSuite) seedOrders() {
	s.addOrder("ord-1", "cust-a", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "100", "10", "5")
	s.addOrder("ord-2", "cust-a", time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), "200", "20", "15")
	s.addOrder("ord-3", "cust-b", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC), "150", "0", "0")
}

func (s *CohortEconomicsServiceSuite) seedBankTransactions() {
	s.addBankTx("tx-1", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), lo.ToPtr("Marketing - Online"), "-300")
	s.addBankTx("tx-2", time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), lo.ToPtr("Marketing"), "-100")
	s.addBankTx("tx-3", time.Date(2024, 2, 12, 0, 0, 0, 0, time.UTC), lo.ToPtr("Payroll"), "-999")
	s.addBankTx("tx-4", time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), nil, "-50")
}

func (s *CohortEconomicsServiceSuite) TestCohortMetrics() {
	s.seedOrders()

	resp, err := s.service.CohortMetrics(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Total)

	jan := resp.Cohorts[0]
	s.Equal(types.MonthKey{Year: 2024, Month: time.January}, jan.Month)
	s.Equal(1, jan.CustomerCount)
	// The cohort owns all of the customer's orders, not just the first
	// month's.
	s.Equal(2, jan.OrderCount)
	s.True(jan.TotalRevenue.Equal(decimal.RequireFromString("250")), "jan revenue %s", jan.TotalRevenue)
	s.True(jan.AvgOrdersPerCustomer.Equal(decimal.NewFromInt(2)))
	s.True(jan.AvgRevenuePerCustomer.Equal(decimal.RequireFromString("250")))

	feb := resp.Cohorts[1]
	s.Equal(types.MonthKey{Year: 2024, Month: time.February}, feb.Month)
	s.Equal(1, feb.CustomerCount)
	s.Equal(1, feb.OrderCount)
	s.True(feb.TotalRevenue.Equal(decimal.RequireFromString("150")))

	// Cohort totals reconcile with the snapshot.
	s.Equal(2, resp.TotalCustomers)
	s.Equal(3, resp.TotalOrders)
	s.True(resp.TotalRevenue.Equal(decimal.RequireFromString("400")), "total revenue %s", resp.TotalRevenue)
}

func (s *CohortEconomicsServiceSuite) TestCohortMetricsUndatedOrdersStayOutOfCohorts() {
	s.seedOrders()
	s.addOrder("ord-4", "cust-c", time.Time{}, "100", "0", "0")

	resp, err := s.service.CohortMetrics(s.GetContext())
	s.NoError(err)
	s.Equal(2, resp.Total)
	s.Equal(2, resp.TotalCustomers)
	s.True(resp.TotalRevenue.Equal(decimal.RequireFromString("400")))
}

func (s *CohortEconomicsServiceSuite) TestNegativeNetRevenueCohort() {
	// Discount beyond gross stays negative, never clamped.
	s.addOrder("ord-1", "cust-a", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "100", "0", "120")

	resp, err := s.service.CohortMetrics(s.GetContext())
	s.NoError(err)
	s.Equal(1, resp.Total)
	s.True(resp.Cohorts[0].TotalRevenue.Equal(decimal.RequireFromString("-20")), "cohort revenue %s", resp.Cohorts[0].TotalRevenue)
}

func (s *CohortEconomicsServiceSuite) TestLifetimeValue() {
	s.seedOrders()

	resp, err := s.service.LifetimeValue(s.GetContext())
	s.NoError(err)

	s.Equal(2, len(resp.ByCohort))
	s.True(resp.ByCohort[0].LTV.Equal(decimal.RequireFromString("250")))
	s.True(resp.ByCohort[1].LTV.Equal(decimal.RequireFromString("150")))

	// Global divides company-wide totals, not cohort averages.
	s.True(resp.GlobalLTV.Equal(decimal.RequireFromString("200")), "global ltv %s", resp.GlobalLTV)
	// Median over per-customer sums 250 and 150.
	s.True(resp.MedianLTV.Equal(decimal.RequireFromString("200")), "median ltv %s", resp.MedianLTV)
	s.Equal(2, resp.TotalCustomers)
	s.True(resp.TotalNetRevenue.Equal(decimal.RequireFromString("400")))
}

func (s *CohortEconomicsServiceSuite) TestLifetimeValueCountsUndatedCustomersGlobally() {
	s.seedOrders()
	s.addOrder("ord-4", "cust-c", time.Time{}, "100", "0", "0")

	resp, err := s.service.LifetimeValue(s.GetContext())
	s.NoError(err)

	s.Equal(2, len(resp.ByCohort))
	s.Equal(3, resp.TotalCustomers)
	expected := decimal.RequireFromString("500").Div(decimal.NewFromInt(3))
	s.True(resp.GlobalLTV.Equal(expected), "global ltv %s", resp.GlobalLTV)
}

func (s *CohortEconomicsServiceSuite) TestAverageOrderValue() {
	s.seedOrders()

	resp, err := s.service.AverageOrderValue(s.GetContext())
	s.NoError(err)

	s.Equal(2, len(resp.ByCohort))
	s.True(resp.ByCohort[0].AOV.Equal(decimal.RequireFromString("125")), "jan aov %s", resp.ByCohort[0].AOV)
	s.True(resp.ByCohort[1].AOV.Equal(decimal.RequireFromString("150")))

	expectedGlobal := decimal.RequireFromString("400").Div(decimal.NewFromInt(3))
	s.True(resp.GlobalAOV.Equal(expectedGlobal))
	// Median over per-order nets 85, 150 and 165.
	s.True(resp.MedianAOV.Equal(decimal.RequireFromString("150")), "median aov %s", resp.MedianAOV)
	s.Equal(3, resp.TotalOrders)
}

func (s *CohortEconomicsServiceSuite) TestCustomerAcquisitionCostFlat() {
	s.seedOrders()
	s.seedBankTransactions()

	resp, err := s.service.CustomerAcquisitionCost(s.GetContext(), &dto.CACRequest{Attribution: types.CACAttributionFlat})
	s.NoError(err)

	s.Equal(types.CACAttributionFlat, resp.Attribution)
	// Only categorized Marketing lines count, by absolute value.
	s.True(resp.TotalMarketingSpend.Equal(decimal.RequireFromString("400")), "spend %s", resp.TotalMarketingSpend)
	s.True(resp.GlobalCAC.Equal(decimal.RequireFromString("200")))
	s.Equal(2, resp.TotalCustomers)

	s.Equal(2, len(resp.ByCohort))
	for _, row := range resp.ByCohort {
		s.True(row.CAC.Equal(decimal.RequireFromString("200")), "flat cac %s", row.CAC)
		s.True(row.MarketingSpend.Equal(decimal.RequireFromString("200")))
	}

	// Global LTV 200 over global CAC 200.
	s.True(resp.LTVCACRatio.Equal(decimal.NewFromInt(1)), "ltv/cac %s", resp.LTVCACRatio)
}

func (s *CohortEconomicsServiceSuite) TestCustomerAcquisitionCostMonthly() {
	s.seedOrders()
	s.seedBankTransactions()
	// March cohort with no matching spend month.
	s.addOrder("ord-5", "cust-d", time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), "50", "0", "0")

	resp, err := s.service.CustomerAcquisitionCost(s.GetContext(), &dto.CACRequest{Attribution: types.CACAttributionMonthly})
	s.NoError(err)

	s.Equal(types.CACAttributionMonthly, resp.Attribution)
	s.Equal(3, len(resp.ByCohort))

	jan, feb, mar := resp.ByCohort[0], resp.ByCohort[1], resp.ByCohort[2]
	s.True(jan.MarketingSpend.Equal(decimal.RequireFromString("300")))
	s.True(jan.CAC.Equal(decimal.RequireFromString("300")), "jan cac %s", jan.CAC)
	s.True(feb.MarketingSpend.Equal(decimal.RequireFromString("100")))
	s.True(feb.CAC.Equal(decimal.RequireFromString("100")))
	s.True(mar.MarketingSpend.IsZero())
	s.True(mar.CAC.IsZero(), "cohort without spend month must get zero, got %s", mar.CAC)
}

func (s *CohortEconomicsServiceSuite) TestCustomerAcquisitionCostNoSpend() {
	s.seedOrders()

	resp, err := s.service.CustomerAcquisitionCost(s.GetContext(), nil)
	s.NoError(err)
	s.Equal(types.CACAttributionFlat, resp.Attribution)
	s.True(resp.GlobalCAC.IsZero())
	s.True(resp.LTVCACRatio.IsZero(), "ratio with zero cac must be zero, never an error")
}

func (s *CohortEconomicsServiceSuite) TestCustomerAcquisitionCostInvalidAttribution() {
	resp, err := s.service.CustomerAcquisitionCost(s.GetContext(), &dto.CACRequest{Attribution: "quarterly"})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *CohortEconomicsServiceSuite) TestCustomerInsights() {
	s.seedOrders()

	resp, err := s.service.CustomerInsights(s.GetContext())
	s.NoError(err)

	behavior := resp.Behavior
	s.Equal(2, behavior.TotalCustomers)
	s.True(behavior.AvgOrdersPerCustomer.Equal(decimal.RequireFromString("1.5")))
	s.Equal(1, behavior.RepeatCustomers)
	s.True(behavior.RepeatRate.Equal(decimal.RequireFromString("0.5")))
	// Customer a spans 26 days, customer b zero.
	s.True(behavior.AvgLifetimeDays.Equal(decimal.RequireFromString("13")), "avg lifetime %s", behavior.AvgLifetimeDays)

	trend := resp.RevenueTrend
	s.Equal(2, len(trend.Monthly))
	s.Equal(1, trend.Monthly[0].OrderCount)
	s.True(trend.Monthly[0].NetRevenue.Equal(decimal.RequireFromString("85")))
	s.Equal(2, trend.Monthly[1].OrderCount)
	s.True(trend.Monthly[1].NetRevenue.Equal(decimal.RequireFromString("315")))
	s.True(trend.TotalRevenue.Equal(decimal.RequireFromString("400")))
	s.True(trend.AvgMonthlyRevenue.Equal(decimal.RequireFromString("200")))
	s.Equal("increasing", trend.Trend)
	s.NotNil(trend.PeakMonth)
	s.Equal(types.MonthKey{Year: 2024, Month: time.February}, *trend.PeakMonth)

	breakdown := resp.Breakdown
	s.True(breakdown.GrossRevenue.Equal(decimal.RequireFromString("450")))
	s.True(breakdown.Refunds.Equal(decimal.RequireFromString("30")))
	s.True(breakdown.Discounts.Equal(decimal.RequireFromString("20")))
	s.True(breakdown.NetRevenue.Equal(decimal.RequireFromString("400")))

	expectedRefundRate := decimal.RequireFromString("30").
		Div(decimal.RequireFromString("450")).
		Mul(decimal.NewFromInt(100))
	s.True(breakdown.RefundRatePercent.Equal(expectedRefundRate), "refund rate %s", breakdown.RefundRatePercent)
	expectedDiscountRate := decimal.RequireFromString("20").
		Div(decimal.RequireFromString("450")).
		Mul(decimal.NewFromInt(100))
	s.True(breakdown.DiscountRatePercent.Equal(expectedDiscountRate))
}

func (s *CohortEconomicsServiceSuite) TestCustomerInsightsSingleMonthStable() {
	s.addOrder("ord-1", "cust-a", time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), "100", "0", "0")

	resp, err := s.service.CustomerInsights(s.GetContext())
	s.NoError(err)
	s.Equal("stable", resp.RevenueTrend.Trend)
}

func (s *CohortEconomicsServiceSuite) TestCustomerInsightsEmptyBook() {
	resp, err := s.service.CustomerInsights(s.GetContext())
	s.NoError(err)
	s.Equal(0, resp.Behavior.TotalCustomers)
	s.True(resp.Behavior.AvgOrdersPerCustomer.IsZero())
	s.True(resp.Breakdown.RefundRatePercent.IsZero())
	s.Nil(resp.RevenueTrend.PeakMonth)
	s.Equal("stable", resp.RevenueTrend.Trend)
}

func (s *CohortEconomicsServiceSuite) TestOrdersSummary() {
	s.seedOrders()
	s.seedBankTransactions()

	resp, err := s.service.OrdersSummary(s.GetContext())
	s.NoError(err)

	s.Equal(3, resp.TotalOrders)
	s.Equal(2, resp.DistinctCustomers)
	s.NotNil(resp.FirstOrderAt)
	s.NotNil(resp.LastOrderAt)
	s.True(resp.FirstOrderAt.Equal(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)))
	s.True(resp.LastOrderAt.Equal(time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)))

	s.True(resp.GrossRevenue.Equal(decimal.RequireFromString("450")))
	s.True(resp.NetRevenue.Equal(decimal.RequireFromString("400")))

	expectedAvg := decimal.RequireFromString("400").Div(decimal.NewFromInt(3))
	s.True(resp.AvgOrderNetRevenue.Equal(expectedAvg))

	s.Equal(4, resp.BankTransactionCount)
	s.Equal([]string{"Marketing", "Marketing - Online", "Payroll"}, resp.BankCategories)
}
