// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the workbook.
package config

import (
	"fmt"
	"io"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/assets"
	"github.com/iwvelando/finance-dashboard/pkg/cashcycle"
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/payroll"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
	"github.com/iwvelando/finance-dashboard/pkg/validation"
	"github.com/iwvelando/finance-dashboard/pkg/valuation"
	"github.com/spf13/viper"
)

// Configuration holds one workbook: the logging and output settings plus
// the financial data analysed in a run.
type Configuration struct {
	Logging        LoggingConfig                   `yaml:"logging,omitempty"`
	Output         OutputConfig                    `yaml:"output,omitempty"`
	Performance    statements.FinancialPerformance `yaml:"performance"`
	BalanceSheet   statements.BalanceSheetSnapshot `yaml:"balanceSheet"`
	CashConversion cashcycle.Data                  `yaml:"cashConversion"`
	Valuation      valuation.Inputs                `yaml:"valuation"`
	Forecast       ForecastConfig                  `yaml:"forecast"`
	History        []forecast.HistoricalPoint      `yaml:"history"`
	Actuals        *forecast.Actuals               `yaml:"actuals,omitempty"`
	Assets         []assets.Asset                  `yaml:"assets,omitempty"`
	Employees      []payroll.Employee              `yaml:"employees,omitempty"`
	SalaryHistory  []payroll.SalaryRecord          `yaml:"salaryHistory,omitempty"`
	AsOf           string                          `yaml:"asOf,omitempty"` // valuation date for assets, 2006-01-02
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format         string `yaml:"format,omitempty"`         // pretty, csv, json
	CurrencySymbol string `yaml:"currencySymbol,omitempty"` // defaults to $
}

// ForecastConfig holds the forecast parameters as written in the workbook.
type ForecastConfig struct {
	Periods            int          `yaml:"periods"`
	GrowthRate         float64      `yaml:"growthRate"`
	Seasonality        bool         `yaml:"seasonality"`
	ConfidenceInterval float64      `yaml:"confidenceInterval"`
	IncludeHistorical  bool         `yaml:"includeHistorical"`
	Method             string       `yaml:"method"`
	StartPeriod        string       `yaml:"startPeriod,omitempty"`
	Jitter             JitterConfig `yaml:"jitter"`
}

// JitterConfig controls the random noise applied to forecast steps. An
// amplitude of 0 disables it; a seed of 0 lets the caller pick one.
type JitterConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Seed      uint64  `yaml:"seed"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// workbook there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted workbook from r, as
// received by the HTTP API.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetDefault("forecast.periods", constants.DefaultForecastPeriods)
	v.SetDefault("forecast.growthRate", constants.DefaultGrowthRate)
	v.SetDefault("forecast.confidenceInterval", constants.DefaultConfidenceInterval)
	v.SetDefault("forecast.method", string(forecast.MethodLinear))
	v.SetDefault("forecast.jitter.amplitude", constants.DefaultJitterAmplitude)
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// AsOfTime returns the workbook's valuation date, or fallback when none is
// set.
func (c *Configuration) AsOfTime(fallback time.Time) (time.Time, error) {
	if c.AsOf == "" {
		return fallback, nil
	}
	return datetime.ParseDate(c.AsOf)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	validator := validation.WorkbookValidator{
		Performance: c.Performance,
		Balance:     c.BalanceSheet,
		Parameters: forecast.Parameters{
			Periods:            c.Forecast.Periods,
			GrowthRate:         c.Forecast.GrowthRate,
			ConfidenceInterval: c.Forecast.ConfidenceInterval,
		},
		History: c.History,
	}

	warnings := validator.ValidateAll()
	if len(c.History) == 0 && c.Forecast.StartPeriod == "" && c.Forecast.Periods > 0 {
		warnings = append(warnings, "Forecast has neither history nor a start period; forecast periods cannot be labelled")
	}
	if c.Forecast.Jitter.Amplitude < 0 || c.Forecast.Jitter.Amplitude >= 1 {
		warnings = append(warnings, fmt.Sprintf("Forecast jitter amplitude %.2f is outside [0, 1)", c.Forecast.Jitter.Amplitude))
	}
	return warnings
}
