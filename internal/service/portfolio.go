package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// portfolioMask selects the statuses whose balances make up portfolio size.
var portfolioMask = types.PortfolioStatuses()

// revenueMask selects the statuses whose accrued revenue is recognized.
var revenueMask = types.RevenueStatuses()

// PortfolioMetricsService computes monthly portfolio health metrics over the
// loan tape snapshot.
type PortfolioMetricsService interface {
	// ComputeMonthly returns the metric series grouped by reporting period
	// end month, oldest first, optionally bounded to a month range.
	ComputeMonthly(ctx context.Context, req *dto.PortfolioMetricsRequest) (*dto.PortfolioMetricsResponse, error)

	// PortfolioWideRates returns status counts and risk rates over the
	// entire snapshot, including records without period dates.
	PortfolioWideRates(ctx context.Context) (*dto.PortfolioRatesResponse, error)

	// PortfolioInsights summarizes the book: balances, product mix, revenue
	// split and growth trend.
	PortfolioInsights(ctx context.Context) (*dto.PortfolioInsightsResponse, error)

	// TapeSummary describes the loaded snapshot itself.
	TapeSummary(ctx context.Context) (*dto.TapeSummaryResponse, error)
}

type portfolioMetricsService struct {
	ServiceParams
}

// NewPortfolioMetricsService creates a new portfolio metrics service
func NewPortfolioMetricsService(params ServiceParams) PortfolioMetricsService {
	return &portfolioMetricsService{ServiceParams: params}
}

func (s *portfolioMetricsService) ComputeMonthly(ctx context.Context, req *dto.PortfolioMetricsRequest) (*dto.PortfolioMetricsResponse, error) {
	if req == nil {
		req = &dto.PortfolioMetricsRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	// Records without a period end have no month to land in; they are
	// visible to PortfolioWideRates but not to the monthly series.
	groups := make(map[types.MonthKey][]*loantape.AccountPeriodRecord)
	for _, r := range records {
		month, ok := r.SnapshotMonth()
		if !ok {
			continue
		}
		if req.StartMonth != nil && r.SnapshotEndingAt.Before(req.StartMonth.StartTime()) {
			continue
		}
		if req.EndMonth != nil && !r.SnapshotEndingAt.Before(req.EndMonth.Next().StartTime()) {
			continue
		}
		groups[month] = append(groups[month], r)
	}

	months := lo.Keys(groups)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })

	series := make([]dto.MonthlyPortfolioMetrics, 0, len(months))
	for _, month := range months {
		series = append(series, s.monthMetrics(month, groups[month]))
	}

	s.Logger.Infow("computed monthly portfolio metrics",
		"months", len(series),
		"records", len(records))

	return &dto.PortfolioMetricsResponse{Months: series, Total: len(series)}, nil
}

func (s *portfolioMetricsService) monthMetrics(month types.MonthKey, records []*loantape.AccountPeriodRecord) dto.MonthlyPortfolioMetrics {
	tally := tallyStatuses(records)

	portfolioSize := decimal.Zero
	revenue := decimal.Zero
	for _, r := range records {
		if lo.Contains(portfolioMask, r.EndingStatus) {
			portfolioSize = portfolioSize.Add(r.DailyAvgBalance)
		}
		if lo.Contains(revenueMask, r.EndingStatus) {
			revenue = revenue.Add(r.Revenue())
		}
	}

	m := dto.MonthlyPortfolioMetrics{
		Month:      month,
		MonthLabel: month.Label(),

		TotalAccounts:   tally.total(),
		CurrentCount:    tally.current,
		DelinquentCount: tally.delinquent,
		DefaultCount:    tally.defaulted,
		ChargedOffCount: tally.chargedOff,
		ClosedCount:     tally.closed,

		DelinquencyRate: tally.rate(tally.delinquent),
		DefaultRate:     tally.rate(tally.defaulted),
		ChargeOffRate:   tally.rate(tally.chargedOff),

		PortfolioSize:  portfolioSize,
		MonthlyRevenue: revenue,
		GrossYield:     decimal.Zero,
	}

	if portfolioSize.IsPositive() {
		m.GrossYield = revenue.Div(portfolioSize).Mul(monthsPerYear)
	}
	m.NetYield = m.GrossYield.Sub(s.costOfCapital())
	return m
}

func (s *portfolioMetricsService) PortfolioWideRates(ctx context.Context) (*dto.PortfolioRatesResponse, error) {
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return portfolioRates(records), nil
}

func portfolioRates(records []*loantape.AccountPeriodRecord) *dto.PortfolioRatesResponse {
	tally := tallyStatuses(records)
	return &dto.PortfolioRatesResponse{
		TotalAccounts:   tally.total(),
		CurrentCount:    tally.current,
		DelinquentCount: tally.delinquent,
		DefaultCount:    tally.defaulted,
		ChargedOffCount: tally.chargedOff,
		ClosedCount:     tally.closed,

		DelinquencyRate: tally.rate(tally.delinquent),
		DefaultRate:     tally.rate(tally.defaulted),
		ChargeOffRate:   tally.rate(tally.chargedOff),
	}
}

func (s *portfolioMetricsService) PortfolioInsights(ctx context.Context) (*dto.PortfolioInsightsResponse, error) {
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.PortfolioInsightsResponse{
		AccountTypeDistribution: make(map[types.AccountType]int),
		StatusDistribution:      make(map[types.AccountStatus]int),
		Rates:                   portfolioRates(records),
		GrowthTrend:             "stable",
	}

	businesses := make(map[string]struct{})
	accounts := make(map[string]struct{})
	monthlyBalances := make(map[types.MonthKey]decimal.Decimal)

	for _, r := range records {
		businesses[r.BusinessID] = struct{}{}
		accounts[r.AccountID] = struct{}{}

		resp.AccountTypeDistribution[r.AccountType]++
		resp.StatusDistribution[r.EndingStatus]++

		resp.TotalPortfolioBalance = resp.TotalPortfolioBalance.Add(r.DailyAvgBalance)
		resp.TotalEndingLimit = resp.TotalEndingLimit.Add(r.EndingLimit)
		resp.LineFeeRevenue = resp.LineFeeRevenue.Add(r.LineFeesAccrued)
		resp.InterchangeRevenue = resp.InterchangeRevenue.Add(r.CardNetInterchangeAccrued)

		if month, ok := r.SnapshotMonth(); ok && lo.Contains(portfolioMask, r.EndingStatus) {
			monthlyBalances[month] = monthlyBalances[month].Add(r.DailyAvgBalance)
		}
	}

	resp.DistinctBusinesses = len(businesses)
	resp.DistinctAccounts = len(accounts)
	resp.TotalRevenue = resp.LineFeeRevenue.Add(resp.InterchangeRevenue)
	if resp.TotalEndingLimit.IsPositive() {
		resp.Utilization = resp.TotalPortfolioBalance.Div(resp.TotalEndingLimit)
	}

	if len(records) > 0 {
		count := decimal.NewFromInt(int64(len(records)))
		resp.MeanRecordBalance = resp.TotalPortfolioBalance.Div(count)
		resp.RevenuePerRecord = resp.TotalRevenue.Div(count)
	}

	if months := sortedMonths(monthlyBalances); len(months) > 1 {
		first := monthlyBalances[months[0]]
		last := monthlyBalances[months[len(months)-1]]
		if last.GreaterThan(first) {
			resp.GrowthTrend = "increasing"
		}
	}

	return resp, nil
}

func (s *portfolioMetricsService) TapeSummary(ctx context.Context) (*dto.TapeSummaryResponse, error) {
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.TapeSummaryResponse{
		RecordCount:  len(records),
		StatusCounts: make(map[types.AccountStatus]int),
	}

	businesses := make(map[string]struct{})
	accounts := make(map[string]struct{})
	aprSum := decimal.Zero
	aprCount := 0
	paySum := decimal.Zero
	payCount := 0
	var first, last time.Time

	for _, r := range records {
		businesses[r.BusinessID] = struct{}{}
		accounts[r.AccountID] = struct{}{}
		resp.StatusCounts[r.EndingStatus]++

		if !r.SnapshotEndingAt.IsZero() {
			if first.IsZero() || r.SnapshotEndingAt.Before(first) {
				first = r.SnapshotEndingAt
			}
			if last.IsZero() || r.SnapshotEndingAt.After(last) {
				last = r.SnapshotEndingAt
			}
		}
		if r.LineEndingAPR.IsPositive() {
			aprSum = aprSum.Add(r.LineEndingAPR)
			aprCount++
		}
		if r.AccountPaymentRate.IsPositive() {
			paySum = paySum.Add(r.AccountPaymentRate)
			payCount++
		}
	}

	resp.DistinctBusinesses = len(businesses)
	resp.DistinctAccounts = len(accounts)
	if !first.IsZero() {
		resp.FirstPeriodEnd = lo.ToPtr(first)
		resp.LastPeriodEnd = lo.ToPtr(last)
	}
	if aprCount > 0 {
		resp.MeanStatedAPR = aprSum.Div(decimal.NewFromInt(int64(aprCount)))
	}
	if payCount > 0 {
		resp.MeanPaymentRate = paySum.Div(decimal.NewFromInt(int64(payCount)))
	}

	return resp, nil
}

// statusTally counts records per status.
type statusTally struct {
	current, delinquent, defaulted, chargedOff, closed int
}

func tallyStatuses(records []*loantape.AccountPeriodRecord) statusTally {
	var t statusTally
	for _, r := range records {
		switch r.EndingStatus {
		case types.AccountStatusCurrent:
			t.current++
		case types.AccountStatusDelinquent:
			t.delinquent++
		case types.AccountStatusDefault:
			t.defaulted++
		case types.AccountStatusChargedOff:
			t.chargedOff++
		case types.AccountStatusClosed:
			t.closed++
		}
	}
	return t
}

func (t statusTally) total() int {
	return t.current + t.delinquent + t.defaulted + t.chargedOff + t.closed
}

// rate returns count over total, zero for an empty tally.
func (t statusTally) rate(count int) decimal.Decimal {
	total := t.total()
	if total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(count)).Div(decimal.NewFromInt(int64(total)))
}

func sortedMonths[V any](byMonth map[types.MonthKey]V) []types.MonthKey {
	months := lo.Keys(byMonth)
	sort.Slice(months, func(i, j int) bool { return months[i].Before(months[j]) })
	return months
}
