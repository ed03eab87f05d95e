package main

import (
	"context"
	"net/http"
	"time"

	sentry "github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/api"
	v1 "github.com/thiebault-husson/credit-portfolio-analysis/internal/api/v1"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/cache"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/revenue"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/report"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/repository/csvstore"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/service"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
)

func main() {
	fx.New(
		fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Desugar()}
		}),
		fx.Provide(
			config.NewConfig,
			logger.NewLogger,
			cache.Initialize,
			revenue.NewDecomposer,
			newLoanTapeRepository,
			newOrderRepository,
			newBankTransactionRepository,
			newServiceParams,
			service.NewPortfolioMetricsService,
			service.NewYieldMetricsService,
			service.NewBusinessVintageService,
			service.NewCohortEconomicsService,
			service.NewLoanTapeAuditService,
			service.NewAnalysisService,
			report.NewWriter,
			v1.NewPortfolioHandler,
			v1.NewYieldHandler,
			v1.NewVintageHandler,
			v1.NewCohortHandler,
			v1.NewAuditHandler,
			v1.NewAnalysisHandler,
			api.NewRouter,
		),
		fx.Invoke(initSentry, run),
	).Run()
}

func newLoanTapeRepository(cfg *config.Configuration, log *logger.Logger) (loantape.Repository, error) {
	return csvstore.NewLoanTapeStore(cfg.Data.LoanTapePath, log)
}

func newOrderRepository(cfg *config.Configuration, decomposer *revenue.Decomposer, log *logger.Logger) (order.Repository, error) {
	return csvstore.NewOrdersStore(cfg.Data.OrdersPath, decomposer, log)
}

func newBankTransactionRepository(cfg *config.Configuration, log *logger.Logger) (order.BankTransactionRepository, error) {
	return csvstore.NewBankTransactionStore(cfg.Data.BankTransactionsPath, log)
}

func newServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	loanTapeRepo loantape.Repository,
	orderRepo order.Repository,
	bankTxRepo order.BankTransactionRepository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:       log,
		Config:       cfg,
		LoanTapeRepo: loanTapeRepo,
		OrderRepo:    orderRepo,
		BankTxRepo:   bankTxRepo,
	}
}

func initSentry(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger) {
	if !cfg.Sentry.Enabled {
		return
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.SampleRate,
	}); err != nil {
		log.Errorw("failed to initialize sentry", "error", err)
		return
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		},
	})
}

func run(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Configuration,
	log *logger.Logger,
	analysis service.AnalysisService,
	writer *report.Writer,
	router *gin.Engine,
) {
	switch cfg.Deployment.Mode {
	case types.RunModeAPI:
		startServer(lc, cfg, log, router)
	default:
		runBatch(lc, shutdowner, log, analysis, writer)
	}
}

// runBatch executes one full analysis, writes the report and shuts the
// process down with a nonzero exit code on failure.
func runBatch(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	log *logger.Logger,
	analysis service.AnalysisService,
	writer *report.Writer,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				resp, err := analysis.RunAnalysis(context.Background(), nil)
				if err != nil {
					log.Errorw("analysis run failed", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				path, err := writer.Write(resp)
				if err != nil {
					log.Errorw("failed to write analysis report", "error", err)
					_ = shutdowner.Shutdown(fx.ExitCode(1))
					return
				}

				log.Infow("analysis complete", "run_id", resp.RunID, "report", path)
				_ = shutdowner.Shutdown()
			}()
			return nil
		},
	})
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, log *logger.Logger, router *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting http server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalw("http server failed", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down http server")
			return srv.Shutdown(ctx)
		},
	})
}
