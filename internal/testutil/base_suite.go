package testutil

import (
	"context"

	"github.com/stretchr/testify/suite"

	"github.com/thiebault-husson/credit-portfolio-analysis/internal/config"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/logger"
)

// Stores bundles the in-memory repositories service suites run against.
type Stores struct {
	LoanTapeRepo *InMemoryLoanTapeStore
	OrderRepo    *InMemoryOrderStore
	BankTxRepo   *InMemoryBankTransactionStore
}

// BaseServiceTestSuite provides the shared context, config, logger and
// stores every service suite needs. Embedding suites call SetupTest and
// TearDownTest from their own hooks.
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	cfg    *config.Configuration
	logger *logger.Logger
	stores Stores
}

// SetupTest initializes fresh stores and context for each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.cfg = config.GetDefaultConfig()
	s.logger = logger.GetLogger()
	s.stores = Stores{
		LoanTapeRepo: NewInMemoryLoanTapeStore(),
		OrderRepo:    NewInMemoryOrderStore(),
		BankTxRepo:   NewInMemoryBankTransactionStore(),
	}
}

// TearDownTest cleans up after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.ClearStores()
}

// ClearStores wipes every in-memory store.
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.LoanTapeRepo.Clear()
	s.stores.OrderRepo.Clear()
	s.stores.BankTxRepo.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.cfg
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetStores returns the in-memory stores
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}
