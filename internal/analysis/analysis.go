// Package analysis runs every calculator over one workbook and collects the
// results into a Report.
package analysis

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-dashboard/internal/config"
	"github.com/iwvelando/finance-dashboard/pkg/assets"
	"github.com/iwvelando/finance-dashboard/pkg/cashcycle"
	"github.com/iwvelando/finance-dashboard/pkg/dupont"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/payroll"
	"github.com/iwvelando/finance-dashboard/pkg/ratios"
	"github.com/iwvelando/finance-dashboard/pkg/valuation"
	"go.uber.org/zap"
)

// Report holds all results of one analysis run.
type Report struct {
	RunID           string                 `json:"run_id"`
	GeneratedAt     time.Time              `json:"generated_at"`
	AsOf            time.Time              `json:"as_of"`
	Period          string                 `json:"period"`
	CurrencySymbol  string                 `json:"currency_symbol,omitempty"`
	Warnings        []string               `json:"warnings,omitempty"`
	Ratios          ratios.FinancialRatios `json:"ratios"`
	CashConversion  cashcycle.Data         `json:"cash_conversion"`
	DuPont          dupont.Analysis        `json:"dupont"`
	Valuation       valuation.Summary      `json:"valuation"`
	Forecast        []forecast.DataPoint   `json:"forecast"`
	ForecastSummary forecast.Summary       `json:"forecast_summary"`
	Assets          assets.Summary         `json:"assets"`
	Payroll         payroll.Summary        `json:"payroll"`
}

// Options tune a run. A nil Jitter disables forecast noise; a zero AsOf
// uses the workbook's asOf or the current time.
type Options struct {
	Jitter forecast.Jitter
	AsOf   time.Time
}

// Run computes the full report for conf.
func Run(logger *zap.Logger, conf config.Configuration, opts Options) (Report, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	report := Report{
		RunID:          uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		Period:         conf.BalanceSheet.Period,
		CurrencySymbol: conf.Output.CurrencySymbol,
		Warnings:       conf.ValidateConfiguration(),
	}
	log := logger.With(zap.String("run_id", report.RunID))

	fallback := opts.AsOf
	if fallback.IsZero() {
		fallback = report.GeneratedAt
	}
	asOf, err := conf.AsOfTime(fallback)
	if err != nil {
		return Report{}, fmt.Errorf("invalid asOf: %w", err)
	}
	report.AsOf = asOf

	report.Ratios = ratios.Compute(conf.Performance, conf.BalanceSheet)
	report.CashConversion = cashcycle.Compute(conf.CashConversion)
	report.DuPont = dupont.Compute(conf.Performance, conf.BalanceSheet)
	report.Valuation = valuation.Summarize(conf.Valuation, conf.BalanceSheet)
	log.Debug("computed statement metrics",
		zap.String("op", "analysis.Run"),
		zap.Float64("roe", report.DuPont.ROE),
		zap.Float64("wacc", report.Valuation.WACC),
		zap.Float64("ccc", report.CashConversion.CCC),
	)

	params, err := conf.Forecast.ToParameters()
	if err != nil {
		return Report{}, err
	}
	report.Forecast, err = forecast.Generate(conf.History, params, conf.Actuals, opts.Jitter)
	if err != nil {
		return Report{}, fmt.Errorf("failed to generate forecast: %w", err)
	}
	lastActuals := conf.LastActuals()
	report.ForecastSummary = forecast.Summarize(report.Forecast, lastActuals.Revenue, params.Periods)
	log.Debug("generated forecast",
		zap.String("op", "analysis.Run"),
		zap.String("method", string(params.Method)),
		zap.Int("points", len(report.Forecast)),
	)

	report.Assets, err = assets.Summarize(conf.Assets, asOf)
	if err != nil {
		return Report{}, fmt.Errorf("failed to value assets: %w", err)
	}
	employees, err := payroll.SalariesAt(conf.Employees, conf.SalaryHistory, asOf)
	if err != nil {
		return Report{}, fmt.Errorf("failed to resolve salaries: %w", err)
	}
	report.Payroll = payroll.Summarize(employees)

	log.Info("analysis complete",
		zap.String("op", "analysis.Run"),
		zap.String("period", report.Period),
		zap.Int("warnings", len(report.Warnings)),
	)

	return report, nil
}
