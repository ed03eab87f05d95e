package service

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api/dto"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

// AnalysisService runs every metrics engine over the loaded snapshots and
// assembles the combined report payload. Any engine failure aborts the whole
// run; a report is never partial.
type AnalysisService interface {
	RunAnalysis(ctx context.Context, req *dto.AnalysisRequest) (*dto.AnalysisResponse, error)
}

type analysisService struct {
	ServiceParams

	portfolio PortfolioMetricsService
	yield     YieldMetricsService
	vintages  BusinessVintageService
	cohorts   CohortEconomicsService
	audit     LoanTapeAuditService
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(params ServiceParams) AnalysisService {
	return &analysisService{
		ServiceParams: params,
		portfolio:     NewPortfolioMetricsService(params),
		yield:         NewYieldMetricsService(params),
		vintages:      NewBusinessVintageService(params),
		cohorts:       NewCohortEconomicsService(params),
		audit:         NewLoanTapeAuditService(params),
	}
}

func (s *analysisService) RunAnalysis(ctx context.Context, req *dto.AnalysisRequest) (*dto.AnalysisResponse, error) {
	if req == nil {
		req = &dto.AnalysisRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &dto.AnalysisResponse{
		RunID:       types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ANALYSIS_RUN),
		GeneratedAt: time.Now().UTC(),
	}
	ctx = types.SetAnalysisRunID(ctx, resp.RunID)

	start := time.Now()
	s.Logger.WithContext(ctx).Infow("starting analysis run", "run_id", resp.RunID)

	// The engines read the same immutable snapshots and each goroutine
	// writes only its own response slots, so they fan out freely.
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		var err error
		resp.Portfolio, err = s.portfolio.ComputeMonthly(ctx, req.PortfolioRequest())
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.PortfolioRates, err = s.portfolio.PortfolioWideRates(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.PortfolioInsights, err = s.portfolio.PortfolioInsights(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.TapeSummary, err = s.portfolio.TapeSummary(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.Yield, err = s.yield.AllYieldMetrics(ctx, req.YieldRequest())
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.BusinessVintages, err = s.vintages.ComputeBusinessVintages(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.Cohorts, err = s.cohorts.CohortMetrics(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.LTV, err = s.cohorts.LifetimeValue(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.AOV, err = s.cohorts.AverageOrderValue(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.CACFlat, err = s.cohorts.CustomerAcquisitionCost(ctx, &dto.CACRequest{Attribution: types.CACAttributionFlat})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.CACMonthly, err = s.cohorts.CustomerAcquisitionCost(ctx, &dto.CACRequest{Attribution: types.CACAttributionMonthly})
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.CustomerInsights, err = s.cohorts.CustomerInsights(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.OrdersSummary, err = s.cohorts.OrdersSummary(ctx)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		resp.Audit, err = s.audit.AuditLoanTape(ctx)
		return err
	})

	if err := p.Wait(); err != nil {
		s.Logger.WithContext(ctx).Errorw("analysis run failed",
			"run_id", resp.RunID,
			"error", err)
		return nil, err
	}

	s.Logger.WithContext(ctx).Infow("analysis run complete",
		"run_id", resp.RunID,
		"duration_ms", time.Since(start).Milliseconds())

	return resp, nil
}
