// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
)

// ValidateBalanceSheet warns when total assets do not reconcile with
// liabilities plus equity.
func ValidateBalanceSheet(balance statements.BalanceSheetSnapshot) string {
	if balance.Reconciles(constants.BalanceSheetTolerance) {
		return ""
	}
	return fmt.Sprintf("Balance sheet for %s does not reconcile: total assets %.2f vs liabilities plus equity %.2f (difference %.2f)",
		balance.Period, balance.TotalAssets, balance.TotalLiabilities+balance.TotalEquity, balance.Imbalance())
}

// ValidateGrowthRate warns when the growth rate is outside the range the
// dashboard offers.
func ValidateGrowthRate(rate float64) string {
	if rate < constants.MinGrowthRate || rate > constants.MaxGrowthRate {
		return fmt.Sprintf("Forecast growth rate %.2f%% is outside the supported range %.0f%% to %.0f%%",
			rate, constants.MinGrowthRate, constants.MaxGrowthRate)
	}
	return ""
}

// ValidateConfidenceInterval warns when the confidence level is not a percentage.
func ValidateConfidenceInterval(confidence float64) string {
	if confidence < 0 || confidence > constants.PercentageMultiplier {
		return fmt.Sprintf("Forecast confidence interval %.2f%% is outside 0%% to 100%%", confidence)
	}
	return ""
}

// ValidatePeriods warns when no forecast periods will be produced.
func ValidatePeriods(periods int) string {
	if periods < 1 {
		return fmt.Sprintf("Forecast periods is %d; no forecast points will be produced", periods)
	}
	return ""
}

// ValidatePeriodLabels warns when the income statement and balance sheet
// describe different months.
func ValidatePeriodLabels(performancePeriod, balancePeriod string) string {
	if performancePeriod != "" && balancePeriod != "" && performancePeriod != balancePeriod {
		return fmt.Sprintf("Income statement period %s does not match balance sheet period %s",
			performancePeriod, balancePeriod)
	}
	return ""
}

// ValidateHistory checks that history labels parse and run forward in time.
func ValidateHistory(history []forecast.HistoricalPoint) []string {
	var warnings []string

	for i, point := range history {
		if _, err := datetime.ParsePeriod(point.Period); err != nil {
			warnings = append(warnings, fmt.Sprintf("History entry %d has an invalid period: %v", i, err))
			continue
		}
		if i == 0 {
			continue
		}
		before, err := datetime.PeriodBeforePeriod(history[i-1].Period, point.Period)
		if err == nil && !before {
			warnings = append(warnings, fmt.Sprintf("History entry %s does not follow %s",
				point.Period, history[i-1].Period))
		}
	}

	return warnings
}

// WorkbookValidator collects the advisory checks for one workbook.
type WorkbookValidator struct {
	Performance statements.FinancialPerformance
	Balance     statements.BalanceSheetSnapshot
	Parameters  forecast.Parameters
	History     []forecast.HistoricalPoint
}

// ValidateAll validates the entire workbook and returns warnings
func (wv *WorkbookValidator) ValidateAll() []string {
	var warnings []string

	for _, warning := range []string{
		ValidateBalanceSheet(wv.Balance),
		ValidatePeriodLabels(wv.Performance.Period, wv.Balance.Period),
		ValidateGrowthRate(wv.Parameters.GrowthRate),
		ValidateConfidenceInterval(wv.Parameters.ConfidenceInterval),
		ValidatePeriods(wv.Parameters.Periods),
	} {
		if warning != "" {
			warnings = append(warnings, warning)
		}
	}

	warnings = append(warnings, ValidateHistory(wv.History)...)

	return warnings
}
