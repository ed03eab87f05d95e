package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	ierr "github.com/thiebault-husson/credit-portfolio-analysis/internal/errors"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/types"
	"github.com/thiebault-husson/credit-portfolio-analysis/internal/validator"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Data       DataConfig       `mapstructure:"data"`
	Analysis   AnalysisConfig   `mapstructure:"analysis"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

// DataConfig points at the three CSV feeds the analysis loads.
type DataConfig struct {
	LoanTapePath         string `mapstructure:"loan_tape_path"`
	OrdersPath           string `mapstructure:"orders_path"`
	BankTransactionsPath string `mapstructure:"bank_transactions_path"`
}

type AnalysisConfig struct {
	// CostOfCapital is the annual funding cost deducted from gross yields.
	CostOfCapital float64 `mapstructure:"cost_of_capital" validate:"gte=0"`
	ReportDir     string  `mapstructure:"report_dir"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate"`
}

// NewConfig loads configuration from config.yaml (working directory or
// ./config), environment variables with the CPA_ prefix, and an optional
// .env file, in increasing order of precedence for the env sources.
func NewConfig() (*Configuration, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.SetEnvPrefix("CPA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, ierr.WithError(err).
				WithHint("Failed to read configuration file").
				Mark(ierr.ErrSystem)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrSystem)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", string(types.RunModeBatch))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", string(types.LogLevelInfo))
	v.SetDefault("data.loan_tape_path", "data/loan_tape.csv")
	v.SetDefault("data.orders_path", "data/orders.csv")
	v.SetDefault("data.bank_transactions_path", "data/bank_transactions.csv")
	v.SetDefault("analysis.cost_of_capital", 0.10)
	v.SetDefault("analysis.report_dir", "reports")
	v.SetDefault("sentry.sample_rate", 1.0)
}

func (c Configuration) Validate() error {
	if !c.Deployment.Mode.IsValid() {
		return ierr.NewError("invalid deployment mode").
			WithHintf("Deployment mode must be one of batch, api, got %s", c.Deployment.Mode).
			Mark(ierr.ErrValidation)
	}
	return validator.ValidateRequest(c)
}

// GetDefaultConfig returns the configuration used by tests and scripts when
// no config file is present.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.RunModeBatch},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Data: DataConfig{
			LoanTapePath:         "data/loan_tape.csv",
			OrdersPath:           "data/orders.csv",
			BankTransactionsPath: "data/bank_transactions.csv",
		},
		Analysis: AnalysisConfig{
			CostOfCapital: 0.10,
			ReportDir:     "reports",
		},
	}
}
