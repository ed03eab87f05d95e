package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// YieldMetricsService computes the six portfolio-wide annualized yield
// ratios. All six share one inclusion policy: revenue comes from Current and
// Delinquent records, balances from Current, Delinquent and Default, and the
// annualization factor is 365 over the average period length of the
// revenue-side records.
type YieldMetricsService interface {
	GrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.GrossYieldMetrics, error)
	NetPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.NetYieldMetrics, error)
	NetPortfolioYieldAfterCostOfCapital(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.NetYieldAfterCapitalMetrics, error)
	LineGrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.LineYieldMetrics, error)
	CardGrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.CardYieldMetrics, error)
	CardNetPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.CardNetYieldMetrics, error)

	// AllYieldMetrics computes all six over a single snapshot pass.
	AllYieldMetrics(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.AllYieldMetricsResponse, error)
}

type yieldMetricsService struct {
	ServiceParams
}

// NewYieldMetricsService creates a new yield metrics service
func NewYieldMetricsService(params ServiceParams) YieldMetricsService {
	return &yieldMetricsService{ServiceParams: params}
}

func (s *yieldMetricsService) GrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.GrossYieldMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.gross(), nil
}

func (s *yieldMetricsService) NetPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.NetYieldMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.net(), nil
}

func (s *yieldMetricsService) NetPortfolioYieldAfterCostOfCapital(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.NetYieldAfterCapitalMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.netAfterCapital(s.costOfCapital()), nil
}

func (s *yieldMetricsService) LineGrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.LineYieldMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.lineGross(), nil
}

func (s *yieldMetricsService) CardGrossPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.CardYieldMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.cardGross(), nil
}

func (s *yieldMetricsService) CardNetPortfolioYield(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.CardNetYieldMetrics, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}
	return w.cardNet(), nil
}

func (s *yieldMetricsService) AllYieldMetrics(ctx context.Context, req *dto.YieldMetricsRequest) (*dto.AllYieldMetricsResponse, error) {
	w, err := s.window(ctx, req)
	if err != nil {
		return nil, err
	}

	resp := &dto.AllYieldMetricsResponse{
		FilterActive:          w.activeOnly,
		Gross:                 w.gross(),
		Net:                   w.net(),
		NetAfterCostOfCapital: w.netAfterCapital(s.costOfCapital()),
		LineGross:             w.lineGross(),
		CardGross:             w.cardGross(),
		CardNet:               w.cardNet(),
	}

	s.Logger.Infow("computed yield metrics",
		"filter_active", w.activeOnly,
		"revenue_records", w.basis.AccountsIncludedRevenue,
		"balance_records", w.basis.AccountsIncludedBalance,
		"gross_yield", resp.Gross.GrossPortfolioYield)

	return resp, nil
}

func (s *yieldMetricsService) window(ctx context.Context, req *dto.YieldMetricsRequest) (*yieldWindow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	records, err := s.LoanTapeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newYieldWindow(records, req.ActiveOnly()), nil
}

// yieldWindow is one masked view of the snapshot shared by all six metrics:
// the revenue-side and balance-side record subsets plus the annualization
// basis derived from the revenue side.
type yieldWindow struct {
	activeOnly  bool
	numerator   []*loantape.AccountPeriodRecord
	denominator []*loantape.AccountPeriodRecord
	basis       dto.YieldBasis
}

func newYieldWindow(records []*loantape.AccountPeriodRecord, activeOnly bool) *yieldWindow {
	w := &yieldWindow{activeOnly: activeOnly}

	var daysSum int64
	var daysCount int64
	for _, r := range records {
		if activeOnly && r.EndingStatus == types.AccountStatusChargedOff {
			continue
		}
		if lo.Contains(revenueMask, r.EndingStatus) {
			w.numerator = append(w.numerator, r)
			if days, ok := r.PeriodDays(); ok {
				daysSum += days
				daysCount++
			}
		}
		if lo.Contains(portfolioMask, r.EndingStatus) {
			w.denominator = append(w.denominator, r)
		}
	}

	// The average period runs over the revenue-side subset only; records
	// without both period dates do not count toward it.
	avgDays := fallbackPeriodDays
	if daysCount > 0 {
		avgDays = decimal.NewFromInt(daysSum).Div(decimal.NewFromInt(daysCount))
	}

	w.basis = dto.YieldBasis{
		AvgPeriodDays:           avgDays,
		AnnualizationFactor:     annualDays.Div(avgDays),
		AccountsIncludedRevenue: len(w.numerator),
		AccountsIncludedBalance: len(w.denominator),
	}
	return w
}

func (w *yieldWindow) gross() *dto.GrossYieldMetrics {
	m := &dto.GrossYieldMetrics{YieldBasis: w.basis}

	for _, r := range w.numerator {
		rev := r.Revenue()
		m.TotalRevenue = m.TotalRevenue.Add(rev)
		switch r.EndingStatus {
		case types.AccountStatusCurrent:
			m.CurrentRevenue = m.CurrentRevenue.Add(rev)
		case types.AccountStatusDelinquent:
			m.DelinquentRevenue = m.DelinquentRevenue.Add(rev)
		}
	}
	for _, r := range w.denominator {
		m.TotalBalance = m.TotalBalance.Add(r.DailyAvgBalance)
		switch r.EndingStatus {
		case types.AccountStatusCurrent:
			m.CurrentBalance = m.CurrentBalance.Add(r.DailyAvgBalance)
		case types.AccountStatusDelinquent:
			m.DelinquentBalance = m.DelinquentBalance.Add(r.DailyAvgBalance)
		case types.AccountStatusDefault:
			m.DefaultBalance = m.DefaultBalance.Add(r.DailyAvgBalance)
		}
	}

	if m.TotalBalance.IsPositive() {
		m.GrossPortfolioYield = m.TotalRevenue.Div(m.TotalBalance).Mul(w.basis.AnnualizationFactor)
	}
	return m
}

func (w *yieldWindow) net() *dto.NetYieldMetrics {
	m := &dto.NetYieldMetrics{YieldBasis: w.basis}

	for _, r := range w.numerator {
		m.TotalRevenue = m.TotalRevenue.Add(r.Revenue())
		m.TotalCosts = m.TotalCosts.Add(r.CardRewardsAccrued)
	}
	for _, r := range w.denominator {
		m.TotalBalance = m.TotalBalance.Add(r.DailyAvgBalance)
	}

	m.NetRevenue = m.TotalRevenue.Sub(m.TotalCosts)
	if m.TotalBalance.IsPositive() {
		m.NetPortfolioYield = m.NetRevenue.Div(m.TotalBalance).Mul(w.basis.AnnualizationFactor)
	}
	if m.TotalRevenue.IsPositive() {
		m.CostRatioPercent = m.TotalCosts.Div(m.TotalRevenue).Mul(hundred)
	}
	return m
}

func (w *yieldWindow) netAfterCapital(costOfCapital decimal.Decimal) *dto.NetYieldAfterCapitalMetrics {
	base := w.net()
	return &dto.NetYieldAfterCapitalMetrics{
		NetPortfolioYieldAfterCostOfCapital: base.NetPortfolioYield.Sub(costOfCapital),
		NetPortfolioYield:                   base.NetPortfolioYield,
		CostOfCapitalRate:                   costOfCapital,

		TotalRevenue: base.TotalRevenue,
		TotalCosts:   base.TotalCosts,
		TotalBalance: base.TotalBalance,

		YieldBasis: w.basis,
	}
}

func (w *yieldWindow) lineGross() *dto.LineYieldMetrics {
	m := &dto.LineYieldMetrics{YieldBasis: w.basis}

	for _, r := range w.numerator {
		m.LineRevenue = m.LineRevenue.Add(r.LineFeesAccrued)
		if r.LineFeesAccrued.IsPositive() {
			m.AccountsWithLineRevenue++
		}
	}
	for _, r := range w.denominator {
		m.LineBalance = m.LineBalance.Add(r.LineDailyAvgBalance)
		if r.LineDailyAvgBalance.IsPositive() {
			m.AccountsWithLineBalance++
		}
	}

	if m.LineBalance.IsPositive() {
		m.LineGrossPortfolioYield = m.LineRevenue.Div(m.LineBalance).Mul(w.basis.AnnualizationFactor)
	}
	return m
}

func (w *yieldWindow) cardGross() *dto.CardYieldMetrics {
	m := &dto.CardYieldMetrics{YieldBasis: w.basis}

	for _, r := range w.numerator {
		m.CardRevenue = m.CardRevenue.Add(r.CardNetInterchangeAccrued)
		if r.CardNetInterchangeAccrued.IsPositive() {
			m.AccountsWithCardRevenue++
		}
	}
	for _, r := range w.denominator {
		m.CardBalance = m.CardBalance.Add(r.CardDailyAvgBalance)
		if r.CardDailyAvgBalance.IsPositive() {
			m.AccountsWithCardBalance++
		}
	}

	if m.CardBalance.IsPositive() {
		m.CardGrossPortfolioYield = m.CardRevenue.Div(m.CardBalance).Mul(w.basis.AnnualizationFactor)
	}
	return m
}

func (w *yieldWindow) cardNet() *dto.CardNetYieldMetrics {
	m := &dto.CardNetYieldMetrics{YieldBasis: w.basis}

	for _, r := range w.numerator {
		m.CardRevenue = m.CardRevenue.Add(r.CardNetInterchangeAccrued)
		m.CardCosts = m.CardCosts.Add(r.CardRewardsAccrued)
	}
	for _, r := range w.denominator {
		m.CardBalance = m.CardBalance.Add(r.CardDailyAvgBalance)
	}

	m.CardNetRevenue = m.CardRevenue.Sub(m.CardCosts)
	if m.CardBalance.IsPositive() {
		m.CardNetPortfolioYield = m.CardNetRevenue.Div(m.CardBalance).Mul(w.basis.AnnualizationFactor)
	}
	if m.CardRevenue.IsPositive() {
		m.CostRatioPercent = m.CardCosts.Div(m.CardRevenue).Mul(hundred)
	}
	return m
}
