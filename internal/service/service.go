package service

import (
	"github.com/shopspring/decimal"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/loantape"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/domain/order"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
)

// ServiceParams holds the common dependencies injected into every service.
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	LoanTapeRepo loantape.Repository
	OrderRepo    order.Repository
	BankTxRepo   order.BankTransactionRepository
}

// defaultCostOfCapital is the annual funding cost used when no configuration
// is present.
var defaultCostOfCapital = decimal.NewFromFloat(0.10)

// monthsPerYear annualizes a monthly yield.
var monthsPerYear = decimal.NewFromInt(12)

var annualDays = decimal.NewFromInt(365)

// fallbackPeriodDays stands in for the average reporting period length when
// no record in the revenue mask has usable period dates.
var fallbackPeriodDays = decimal.NewFromInt(30)

var hundred = decimal.NewFromInt(100)

func (p ServiceParams) costOfCapital() decimal.Decimal {
	if p.Config == nil {
		return defaultCostOfCapital
	}
	return decimal.NewFromFloat(p.Config.Analysis.CostOfCapital)
}
