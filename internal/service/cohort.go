package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// CohortEconomicsService computes customer economics over the orders
// snapshot. A customer's cohort is the calendar month of their earliest
// dated order; customers with no dated orders contribute to global totals
// but never join a cohort.
type CohortEconomicsService interface {
	CohortMetrics(ctx context.Context) (*dto.CohortMetricsResponse, error)
	LifetimeValue(ctx context.Context) (*dto.LTVResponse, error)
	AverageOrderValue(ctx context.Context) (*dto.AOVResponse, error)
	CustomerAcquisitionCost(ctx context.Context, req *dto.CACRequest) (*dto.CACResponse, error)
	CustomerInsights(ctx context.Context) (*dto.CustomerInsightsResponse, error)
	OrdersSummary(ctx context.Context) (*dto.OrdersSummaryResponse, error)
}

type cohortEconomicsService struct {
	ServiceParams
}

// NewCohortEconomicsService creates a new cohort economics service
func NewCohortEconomicsService(params ServiceParams) CohortEconomicsService {
	return &cohortEconomicsService{ServiceParams: params}
}

func (s *cohortEconomicsService) CohortMetrics(ctx context.Context) (*dto.CohortMetricsResponse, error) {
	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CohortMetricsResponse{}
	for _, month := range sortedMonths(book.cohorts) {
		c := book.cohorts[month]
		row := dto.CohortMetricsRow{
			Month:         month,
			MonthLabel:    month.Label(),
			CustomerCount: c.customerCount,
			OrderCount:    c.orderCount,
			TotalRevenue:  c.netRevenue,
		}
		if c.customerCount > 0 {
			customers := decimal.NewFromInt(int64(c.customerCount))
			row.AvgOrdersPerCustomer = decimal.NewFromInt(int64(c.orderCount)).Div(customers)
			row.AvgRevenuePerCustomer = c.netRevenue.Div(customers)
		}
		resp.Cohorts = append(resp.Cohorts, row)

		resp.TotalCustomers += c.customerCount
		resp.TotalOrders += c.orderCount
		resp.TotalRevenue = resp.TotalRevenue.Add(c.netRevenue)
	}
	resp.Total = len(resp.Cohorts)

	s.Logger.Infow("computed cohort metrics",
		"cohorts", resp.Total,
		"customers", resp.TotalCustomers)

	return resp, nil
}

func (s *cohortEconomicsService) LifetimeValue(ctx context.Context) (*dto.LTVResponse, error) {
	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.LTVResponse{
		GlobalLTV:       book.globalLTV(),
		TotalCustomers:  len(book.customers),
		TotalNetRevenue: book.totalNet,
	}

	for _, month := range sortedMonths(book.cohorts) {
		c := book.cohorts[month]
		row := dto.CohortLTVRow{Month: month, CustomerCount: c.customerCount}
		if c.customerCount > 0 {
			row.LTV = c.netRevenue.Div(decimal.NewFromInt(int64(c.customerCount)))
		}
		resp.ByCohort = append(resp.ByCohort, row)
	}

	// The median runs over the customer-level distribution, not the cohort
	// averages.
	perCustomer := make([]decimal.Decimal, 0, len(book.customers))
	for _, agg := range book.customers {
		perCustomer = append(perCustomer, agg.netRevenue)
	}
	resp.MedianLTV = medianDecimal(perCustomer)

	return resp, nil
}

func (s *cohortEconomicsService) AverageOrderValue(ctx context.Context) (*dto.AOVResponse, error) {
	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.AOVResponse{
		TotalOrders:     len(book.orders),
		TotalNetRevenue: book.totalNet,
	}
	if len(book.orders) > 0 {
		resp.GlobalAOV = book.totalNet.Div(decimal.NewFromInt(int64(len(book.orders))))
	}

	for _, month := range sortedMonths(book.cohorts) {
		c := book.cohorts[month]
		row := dto.CohortAOVRow{Month: month, OrderCount: c.orderCount}
		if c.orderCount > 0 {
			row.AOV = c.netRevenue.Div(decimal.NewFromInt(int64(c.orderCount)))
		}
		resp.ByCohort = append(resp.ByCohort, row)
	}

	perOrder := make([]decimal.Decimal, 0, len(book.orders))
	for _, o := range book.orders {
		perOrder = append(perOrder, o.NetRevenue())
	}
	resp.MedianAOV = medianDecimal(perOrder)

	return resp, nil
}

func (s *cohortEconomicsService) CustomerAcquisitionCost(ctx context.Context, req *dto.CACRequest) (*dto.CACResponse, error) {
	if req == nil {
		req = &dto.CACRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.BankTxRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	totalSpend := decimal.Zero
	monthlySpend := make(map[types.MonthKey]decimal.Decimal)
	for _, t := range transactions {
		if !t.IsMarketingSpend() {
			continue
		}
		amount := t.Amount.Abs()
		totalSpend = totalSpend.Add(amount)
		// Undated spend still counts toward the flat total but cannot be
		// attributed to a month.
		if month, ok := t.Month(); ok {
			monthlySpend[month] = monthlySpend[month].Add(amount)
		}
	}

	resp := &dto.CACResponse{
		Attribution:         req.Attribution,
		TotalMarketingSpend: totalSpend,
		TotalCustomers:      len(book.customers),
	}
	if len(book.customers) > 0 {
		resp.GlobalCAC = totalSpend.Div(decimal.NewFromInt(int64(len(book.customers))))
	}

	cohortedCustomers := 0
	for _, c := range book.cohorts {
		cohortedCustomers += c.customerCount
	}

	for _, month := range sortedMonths(book.cohorts) {
		c := book.cohorts[month]
		row := dto.CohortCACRow{Month: month, CustomerCount: c.customerCount}

		switch req.Attribution {
		case types.CACAttributionMonthly:
			row.MarketingSpend = monthlySpend[month]
			if c.customerCount > 0 {
				row.CAC = row.MarketingSpend.Div(decimal.NewFromInt(int64(c.customerCount)))
			}
		default:
			row.CAC = resp.GlobalCAC
			if cohortedCustomers > 0 {
				share := decimal.NewFromInt(int64(c.customerCount)).
					Div(decimal.NewFromInt(int64(cohortedCustomers)))
				row.MarketingSpend = totalSpend.Mul(share)
			}
		}
		resp.ByCohort = append(resp.ByCohort, row)
	}

	if !resp.GlobalCAC.IsZero() {
		resp.LTVCACRatio = book.globalLTV().Div(resp.GlobalCAC)
	}

	s.Logger.Infow("computed customer acquisition cost",
		"attribution", req.Attribution,
		"marketing_spend", totalSpend,
		"customers", resp.TotalCustomers)

	return resp, nil
}

func (s *cohortEconomicsService) CustomerInsights(ctx context.Context) (*dto.CustomerInsightsResponse, error) {
	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.CustomerInsightsResponse{
		Behavior:     book.behavior(),
		RevenueTrend: book.revenueTrend(),
		Breakdown:    book.breakdown(),
	}, nil
}

func (s *cohortEconomicsService) OrdersSummary(ctx context.Context) (*dto.OrdersSummaryResponse, error) {
	book, err := s.book(ctx)
	if err != nil {
		return nil, err
	}
	transactions, err := s.BankTxRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.OrdersSummaryResponse{
		TotalOrders:       len(book.orders),
		DistinctCustomers: len(book.customers),

		GrossRevenue: book.totalGross,
		Refunds:      book.totalRefunds,
		Discounts:    book.totalDiscounts,
		NetRevenue:   book.totalNet,

		BankTransactionCount: len(transactions),
	}

	var first, last time.Time
	for _, o := range book.orders {
		if o.CreatedAt.IsZero() {
			continue
		}
		if first.IsZero() || o.CreatedAt.Before(first) {
			first = o.CreatedAt
		}
		if last.IsZero() || o.CreatedAt.After(last) {
			last = o.CreatedAt
		}
	}
	if !first.IsZero() {
		resp.FirstOrderAt = lo.ToPtr(first)
		resp.LastOrderAt = lo.ToPtr(last)
	}

	if len(book.orders) > 0 {
		resp.AvgOrderNetRevenue = book.totalNet.Div(decimal.NewFromInt(int64(len(book.orders))))
	}

	categories := make(map[string]struct{})
	for _, t := range transactions {
		if t.Category != nil {
			categories[*t.Category] = struct{}{}
		}
	}
	resp.BankCategories = lo.Keys(categories)
	sort.Strings(resp.BankCategories)

	return resp, nil
}

func (s *cohortEconomicsService) book(ctx context.Context) (*orderBook, error) {
	orders, err := s.OrderRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return newOrderBook(orders), nil
}

// customerAggregate is one customer's footprint across the whole snapshot.
type customerAggregate struct {
	orderCount int
	netRevenue decimal.Decimal

	// firstOrder and lastOrder span the customer's dated orders only; both
	// stay zero for a customer whose every order lacks a timestamp.
	firstOrder time.Time
	lastOrder  time.Time
}

// cohortAggregate rolls the cohort's customers up: all of their orders and
// revenue, not just the first-month ones.
type cohortAggregate struct {
	customerCount int
	orderCount    int
	netRevenue    decimal.Decimal
}

// orderBook is the per-call aggregation every cohort operation reads from.
type orderBook struct {
	orders    []*order.Order
	customers map[string]*customerAggregate
	cohorts   map[types.MonthKey]*cohortAggregate

	totalGross     decimal.Decimal
	totalRefunds   decimal.Decimal
	totalDiscounts decimal.Decimal
	totalNet       decimal.Decimal
}

func newOrderBook(orders []*order.Order) *orderBook {
	b := &orderBook{
		orders:    orders,
		customers: make(map[string]*customerAggregate),
		cohorts:   make(map[types.MonthKey]*cohortAggregate),
	}

	for _, o := range orders {
		agg := b.customers[o.CustomerID]
		if agg == nil {
			agg = &customerAggregate{}
			b.customers[o.CustomerID] = agg
		}
		agg.orderCount++
		net := o.NetRevenue()
		agg.netRevenue = agg.netRevenue.Add(net)

		if !o.CreatedAt.IsZero() {
			if agg.firstOrder.IsZero() || o.CreatedAt.Before(agg.firstOrder) {
				agg.firstOrder = o.CreatedAt
			}
			if agg.lastOrder.IsZero() || o.CreatedAt.After(agg.lastOrder) {
				agg.lastOrder = o.CreatedAt
			}
		}

		b.totalGross = b.totalGross.Add(o.Gross)
		b.totalRefunds = b.totalRefunds.Add(o.Refund)
		b.totalDiscounts = b.totalDiscounts.Add(o.Discount)
		b.totalNet = b.totalNet.Add(net)
	}

	for _, agg := range b.customers {
		if agg.firstOrder.IsZero() {
			continue
		}
		month := types.MonthKeyFromTime(agg.firstOrder)
		c := b.cohorts[month]
		if c == nil {
			c = &cohortAggregate{}
			b.cohorts[month] = c
		}
		c.customerCount++
		c.orderCount += agg.orderCount
		c.netRevenue = c.netRevenue.Add(agg.netRevenue)
	}

	return b
}

// globalLTV is total net revenue over distinct customers, zero for an empty
// book.
func (b *orderBook) globalLTV() decimal.Decimal {
	if len(b.customers) == 0 {
		return decimal.Zero
	}
	return b.totalNet.Div(decimal.NewFromInt(int64(len(b.customers))))
}

func (b *orderBook) behavior() *dto.CustomerBehavior {
	out := &dto.CustomerBehavior{TotalCustomers: len(b.customers)}

	var lifetimeSum int64
	var lifetimeCount int64
	for _, agg := range b.customers {
		if agg.orderCount > 1 {
			out.RepeatCustomers++
		}
		if !agg.firstOrder.IsZero() {
			lifetimeSum += int64(agg.lastOrder.Sub(agg.firstOrder).Hours() / 24)
			lifetimeCount++
		}
	}

	if len(b.customers) > 0 {
		customers := decimal.NewFromInt(int64(len(b.customers)))
		out.AvgOrdersPerCustomer = decimal.NewFromInt(int64(len(b.orders))).Div(customers)
		out.RepeatRate = decimal.NewFromInt(int64(out.RepeatCustomers)).Div(customers)
	}
	if lifetimeCount > 0 {
		out.AvgLifetimeDays = decimal.NewFromInt(lifetimeSum).Div(decimal.NewFromInt(lifetimeCount))
	}
	return out
}

func (b *orderBook) revenueTrend() *dto.RevenueTrend {
	monthly := make(map[types.MonthKey]*dto.MonthlyRevenuePoint)
	for _, o := range b.orders {
		month, ok := o.CohortMonth()
		if !ok {
			continue
		}
		p := monthly[month]
		if p == nil {
			p = &dto.MonthlyRevenuePoint{Month: month}
			monthly[month] = p
		}
		p.OrderCount++
		p.NetRevenue = p.NetRevenue.Add(o.NetRevenue())
	}

	trend := &dto.RevenueTrend{Trend: "stable"}
	months := sortedMonths(monthly)

	var peakRevenue decimal.Decimal
	for _, month := range months {
		p := monthly[month]
		trend.Monthly = append(trend.Monthly, *p)
		trend.TotalRevenue = trend.TotalRevenue.Add(p.NetRevenue)

		if trend.PeakMonth == nil || p.NetRevenue.GreaterThan(peakRevenue) {
			trend.PeakMonth = lo.ToPtr(month)
			peakRevenue = p.NetRevenue
		}
	}

	if len(months) > 0 {
		trend.AvgMonthlyRevenue = trend.TotalRevenue.Div(decimal.NewFromInt(int64(len(months))))
	}
	if len(months) > 1 {
		first := monthly[months[0]].NetRevenue
		last := monthly[months[len(months)-1]].NetRevenue
		if last.GreaterThan(first) {
			trend.Trend = "increasing"
		}
	}
	return trend
}

func (b *orderBook) breakdown() *dto.RevenueBreakdown {
	out := &dto.RevenueBreakdown{
		GrossRevenue: b.totalGross,
		Refunds:      b.totalRefunds,
		Discounts:    b.totalDiscounts,
		NetRevenue:   b.totalNet,
	}
	if b.totalGross.IsPositive() {
		out.RefundRatePercent = b.totalRefunds.Div(b.totalGross).Mul(hundred)
		out.DiscountRatePercent = b.totalDiscounts.Div(b.totalGross).Mul(hundred)
	}
	return out
}

// medianDecimal returns the median of values, zero for an empty slice. The
// input is not modified.
func medianDecimal(values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return sorted[mid-1].Add(sorted[mid]).Div(decimal.NewFromInt(2))
}
