// Package output provides utilities for formatting and displaying analysis results.
package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/iwvelando/finance-dashboard/internal/analysis"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/format"
	"github.com/iwvelando/finance-dashboard/pkg/payroll"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, report analysis.Report) error {
	p := message.NewPrinter(language.English)
	money := format.Currency
	if symbol := report.CurrencySymbol; symbol != "" {
		money = func(v float64) string { return format.CurrencyWithSymbol(v, symbol) }
	}

	ew := &errWriter{w: w}
	ew.printf("--- Financial analysis for %s (run %s) ---\n", report.Period, report.RunID)
	for _, warning := range report.Warnings {
		ew.printf("Warning: %s\n", warning)
	}

	r := report.Ratios
	ew.printf("\nLiquidity\n")
	ew.printf("  Current ratio         | %s\n", format.Multiple(r.CurrentRatio))
	ew.printf("  Quick ratio           | %s\n", format.Multiple(r.QuickRatio))
	ew.printf("  Cash ratio            | %s\n", format.Multiple(r.CashRatio))
	ew.printf("  Operating cash flow   | %s\n", format.Multiple(r.OperatingCashFlowRatio))
	ew.printf("Leverage\n")
	ew.printf("  Debt to equity        | %s\n", format.Multiple(r.DebtToEquity))
	ew.printf("  Debt ratio            | %s\n", format.Multiple(r.DebtRatio))
	ew.printf("  Equity ratio          | %s\n", format.Multiple(r.EquityRatio))
	ew.printf("  Interest coverage     | %s\n", format.Multiple(r.InterestCoverage))
	ew.printf("Profitability\n")
	ew.printf("  Gross margin          | %s\n", format.Percent(r.GrossMargin))
	ew.printf("  Net margin            | %s\n", format.Percent(r.NetMargin))
	ew.printf("  EBITDA margin         | %s\n", format.Percent(r.EBITDAMargin))
	ew.printf("  ROA                   | %s\n", format.Percent(r.ROA))
	ew.printf("  ROE                   | %s\n", format.Percent(r.ROE))
	ew.printf("  ROI                   | %s\n", format.Percent(r.ROI))
	ew.printf("Efficiency\n")
	ew.printf("  Asset turnover        | %s\n", format.Multiple(r.AssetTurnover))
	ew.printf("  Equity multiplier     | %s\n", format.Multiple(r.EquityMultiplier))

	cc := report.CashConversion
	ew.printf("\nCash conversion cycle\n")
	ew.printf("  DIO | %s\n", format.Days(cc.DIO))
	ew.printf("  DSO | %s\n", format.Days(cc.DSO))
	ew.printf("  DPO | %s\n", format.Days(cc.DPO))
	ew.printf("  CCC | %s\n", format.Days(cc.CCC))

	d := report.DuPont
	ew.printf("\nDuPont\n")
	ew.printf("  ROE = %s x %s x %s = %s\n",
		format.Percent(d.NetProfitMargin), format.Multiple(d.AssetTurnover), format.Multiple(d.EquityMultiplier), format.Percent(d.ROE))

	v := report.Valuation
	ew.printf("\nValuation\n")
	ew.printf("  WACC                  | %s\n", format.Percent(v.WACC))
	ew.printf("  Equity / debt weight  | %s / %s\n", format.Percent(v.EquityWeight*100), format.Percent(v.DebtWeight*100))
	ew.printf("  After-tax cost of debt| %s\n", format.Percent(v.AfterTaxCostOfDebt))
	ew.printf("  Enterprise value      | %s\n", money(v.EnterpriseValue))
	ew.printf("  Net debt              | %s\n", money(v.NetDebt))
	ew.printf("  Net working capital   | %s\n", money(v.NetWorkingCapital))
	ew.printf("  CAPM cost of equity   | %s\n", format.Percent(v.CAPMCostOfEquity))

	ew.printf("\nForecast\n")
	ew.printf("Period   | Revenue          | Lower            | Upper            | Expense          | Profit\n")
	ew.printf("______   | _______          | _____            | _____            | _______          | ______\n")
	for _, point := range report.Forecast {
		marker := " "
		if point.IsHistorical() {
			marker = "*"
		}
		ew.write(p.Sprintf("%s%s | %.0f | %.0f | %.0f | %.0f | %.0f\n", point.Period, marker,
			point.ForecastRevenue, point.LowerBound, point.UpperBound, point.ForecastExpense, point.ForecastProfit))
	}
	s := report.ForecastSummary
	ew.printf("  Total forecast revenue | %s\n", money(s.TotalForecastRevenue))
	ew.printf("  Average per period     | %s\n", money(s.AverageRevenue))
	ew.printf("  Cumulative growth      | %s\n", format.Percent(s.CumulativeGrowth))

	if report.Assets.Count > 0 {
		a := report.Assets
		ew.printf("\nAssets as of %s\n", report.AsOf.Format("2006-01-02"))
		for _, asset := range a.Assets {
			ew.printf("  %s | %s | %s\n", asset.Name, money(asset.Cost), money(asset.CurrentValue))
		}
		ew.printf("  Total current value     | %s\n", money(a.TotalCurrentValue))
		ew.printf("  Accumulated depreciation| %s\n", money(a.AccumulatedDepreciation))
		ew.printf("  Most valuable           | %s\n", a.MostValuable)
	}

	if report.Payroll.Headcount > 0 {
		pr := report.Payroll
		ew.printf("\nPayroll\n")
		ew.printf("  Headcount       | %d\n", pr.Headcount)
		ew.printf("  Monthly total   | %s\n", money(pr.TotalMonthly))
		ew.printf("  Average salary  | %s\n", money(pr.AverageSalary))
		ew.printf("  Highest paid    | %s (%s)\n", pr.HighestPaid, money(pr.HighestSalary))
		for _, t := range sortedTypes(pr.ByType) {
			ew.printf("  %-15s | %s\n", t, money(pr.ByType[t]))
		}
	}

	return ew.err
}

// CsvFormat outputs the forecast table in comma-separated value format.
func CsvFormat(w io.Writer, report analysis.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"period", "actual_revenue", "forecast_revenue", "lower_bound", "upper_bound",
		"actual_expense", "forecast_expense", "actual_profit", "forecast_profit"}); err != nil {
		return err
	}
	for _, point := range report.Forecast {
		if err := cw.Write(csvRow(point)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvString returns CsvFormat output as a string.
func CsvString(report analysis.Report) string {
	var buf bytes.Buffer
	if err := CsvFormat(&buf, report); err != nil {
		return ""
	}
	return buf.String()
}

// JSONFormat outputs the full report as indented JSON.
func JSONFormat(w io.Writer, report analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func csvRow(point forecast.DataPoint) []string {
	return []string{
		point.Period,
		optional(point.ActualRevenue),
		number(point.ForecastRevenue),
		number(point.LowerBound),
		number(point.UpperBound),
		optional(point.ActualExpense),
		number(point.ForecastExpense),
		optional(point.ActualProfit),
		number(point.ForecastProfit),
	}
}

func number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return number(*v)
}

func sortedTypes(byType map[payroll.EmploymentType]float64) []payroll.EmploymentType {
	types := make([]payroll.EmploymentType, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// errWriter keeps the first write error so the report body reads linearly.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(layout string, args ...interface{}) {
	e.write(fmt.Sprintf(layout, args...))
}

func (e *errWriter) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}
