// Package forecast projects monthly revenue, expense and profit from a
// historical series under a linear, exponential or moving-average growth
// model, with optional seasonality and a widening confidence band.
//
// The seasonality table and the band are display heuristics rather than
// fitted statistical models.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// Method selects the growth model.
type Method string

const (
	MethodLinear        Method = "linear"
	MethodExponential   Method = "exponential"
	MethodMovingAverage Method = "moving-average"
)

var (
	// ErrUnknownMethod is returned for a forecast method outside the three supported models.
	ErrUnknownMethod = errors.New("unknown forecast method")

	// ErrNoAnchor is returned when neither history nor a start period
	// determines the month the forecast starts from.
	ErrNoAnchor = errors.New("forecast needs history or a start period")
)

// seasonalFactors are monthly multipliers indexed from the first
// historical month.
var seasonalFactors = [constants.MonthsPerYear]float64{1.0, 0.9, 1.1, 1.0, 0.95, 1.15, 1.2, 0.85, 0.9, 1.05, 1.1, 0.95}

// Parameters configures a forecast run.
type Parameters struct {
	Periods            int     `json:"periods" yaml:"periods"`
	GrowthRate         float64 `json:"growthRate" yaml:"growthRate"`
	Seasonality        bool    `json:"seasonality" yaml:"seasonality"`
	ConfidenceInterval float64 `json:"confidenceInterval" yaml:"confidenceInterval"`
	IncludeHistorical  bool    `json:"includeHistorical" yaml:"includeHistorical"`
	Method             Method  `json:"forecastMethod" yaml:"forecastMethod"`
	// StartPeriod is the label of the last known month, used for labelling
	// when there is no history.
	StartPeriod string `json:"startPeriod,omitempty" yaml:"startPeriod,omitempty"`
}

// HistoricalPoint is one month of actuals.
type HistoricalPoint struct {
	Period  string  `json:"period" yaml:"period"`
	Revenue float64 `json:"revenue" yaml:"revenue"`
	Expense float64 `json:"expense" yaml:"expense"`
	Profit  float64 `json:"profit" yaml:"profit"`
}

// Actuals are the most recent known revenue and expense figures. A zero
// field falls back to the last historical point.
type Actuals struct {
	Revenue float64 `json:"revenue" yaml:"revenue"`
	Expense float64 `json:"expense" yaml:"expense"`
}

// DataPoint is one element of the forecast output. The Actual fields are
// set only for historical points.
type DataPoint struct {
	Period          string   `json:"period"`
	ActualRevenue   *float64 `json:"actual_revenue,omitempty"`
	ForecastRevenue float64  `json:"forecast_revenue"`
	LowerBound      float64  `json:"lower_bound"`
	UpperBound      float64  `json:"upper_bound"`
	ActualExpense   *float64 `json:"actual_expense,omitempty"`
	ForecastExpense float64  `json:"forecast_expense"`
	ActualProfit    *float64 `json:"actual_profit,omitempty"`
	ForecastProfit  float64  `json:"forecast_profit"`
}

// IsHistorical reports whether the point carries actuals.
func (p DataPoint) IsHistorical() bool {
	return p.ActualRevenue != nil
}

// ParseMethod maps a method name to a Method. An empty name selects linear.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "", MethodLinear:
		return MethodLinear, nil
	case MethodExponential, MethodMovingAverage:
		return Method(name), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMethod, name)
	}
}

// Generate produces the forecast sequence. When IncludeHistorical is set
// the history is emitted first; then Periods forecast points follow (none
// when Periods is zero or negative). Each step draws one jitter factor
// which scales both revenue and expense. Emitted figures are rounded to
// whole units; the unrounded values seed the next step. A nil jitter
// disables noise.
func Generate(history []HistoricalPoint, params Parameters, actuals *Actuals, jitter Jitter) ([]DataPoint, error) {
	method, err := ParseMethod(string(params.Method))
	if err != nil {
		return nil, err
	}
	if jitter == nil {
		jitter = NoJitter{}
	}

	var anchor time.Time
	if params.Periods > 0 {
		anchor, err = anchorPeriod(history, params.StartPeriod)
		if err != nil {
			return nil, err
		}
	}

	capacity := 0
	if params.IncludeHistorical {
		capacity += len(history)
	}
	if params.Periods > 0 {
		capacity += params.Periods
	}
	points := make([]DataPoint, 0, capacity)

	if params.IncludeHistorical {
		for _, h := range history {
			points = append(points, historicalPoint(h))
		}
	}

	lastRevenue, lastExpense := seed(history, actuals)
	revenueGrowth := mathutil.FromPercent(params.GrowthRate)
	expenseGrowth := mathutil.FromPercent(params.GrowthRate - constants.ExpenseGrowthOffset)
	confidenceFactor := mathutil.FromPercent(constants.PercentageMultiplier-params.ConfidenceInterval) + constants.ConfidenceBandOffset

	for i := 1; i <= params.Periods; i++ {
		step := float64(i)
		seasonal := seasonalFactor(len(history), i, params.Seasonality)

		var revenue, expense float64
		switch method {
		case MethodExponential:
			revenue = lastRevenue * math.Pow(1+revenueGrowth, step) * seasonal
			expense = lastExpense * math.Pow(1+expenseGrowth, step) * seasonal
		case MethodMovingAverage:
			avgRevenue, avgExpense := trailingAverages(points, lastRevenue, lastExpense)
			revenue = avgRevenue * (1 + revenueGrowth) * seasonal
			expense = avgExpense * (1 + expenseGrowth) * seasonal
		default:
			revenue = lastRevenue * (1 + revenueGrowth*step) * seasonal
			expense = lastExpense * (1 + expenseGrowth*step) * seasonal
		}

		factor := jitter.Factor()
		revenue *= factor
		expense *= factor

		spread := confidenceFactor * step / constants.ConfidenceBandDivisor

		points = append(points, DataPoint{
			Period:          datetime.OffsetPeriod(anchor, i),
			ForecastRevenue: mathutil.RoundToUnit(revenue),
			LowerBound:      mathutil.RoundToUnit(revenue * (1 - spread)),
			UpperBound:      mathutil.RoundToUnit(revenue * (1 + spread)),
			ForecastExpense: mathutil.RoundToUnit(expense),
			ForecastProfit:  mathutil.RoundToUnit(revenue - expense),
		})

		lastRevenue = revenue
		lastExpense = expense
	}

	return points, nil
}

func historicalPoint(h HistoricalPoint) DataPoint {
	revenue, expense, profit := h.Revenue, h.Expense, h.Profit
	return DataPoint{
		Period:          h.Period,
		ActualRevenue:   &revenue,
		ForecastRevenue: mathutil.RoundToUnit(revenue),
		LowerBound:      mathutil.RoundToUnit(revenue * (1 - constants.HistoricalBand)),
		UpperBound:      mathutil.RoundToUnit(revenue * (1 + constants.HistoricalBand)),
		ActualExpense:   &expense,
		ForecastExpense: mathutil.RoundToUnit(expense),
		ActualProfit:    &profit,
		ForecastProfit:  mathutil.RoundToUnit(profit),
	}
}

func anchorPeriod(history []HistoricalPoint, startPeriod string) (time.Time, error) {
	if len(history) > 0 {
		last := history[len(history)-1].Period
		t, err := datetime.ParsePeriod(last)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to determine forecast start: %w", err)
		}
		return t, nil
	}
	if startPeriod == "" {
		return time.Time{}, ErrNoAnchor
	}
	t, err := datetime.ParsePeriod(startPeriod)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to determine forecast start: %w", err)
	}
	return t, nil
}

func seed(history []HistoricalPoint, actuals *Actuals) (revenue, expense float64) {
	if len(history) > 0 {
		last := history[len(history)-1]
		revenue, expense = last.Revenue, last.Expense
	}
	if actuals != nil {
		if actuals.Revenue != 0 {
			revenue = actuals.Revenue
		}
		if actuals.Expense != 0 {
			expense = actuals.Expense
		}
	}
	return revenue, expense
}

func seasonalFactor(historyLength, step int, enabled bool) float64 {
	if !enabled {
		return 1
	}
	return seasonalFactors[(historyLength+step-1)%constants.MonthsPerYear]
}

// trailingAverages averages the last few emitted points. With nothing
// emitted yet the seed values stand in for the window.
func trailingAverages(points []DataPoint, seedRevenue, seedExpense float64) (revenue, expense float64) {
	start := len(points) - constants.MovingAverageWindow
	if start < 0 {
		start = 0
	}
	window := points[start:]
	if len(window) == 0 {
		return seedRevenue, seedExpense
	}

	revenues := make([]float64, len(window))
	expenses := make([]float64, len(window))
	for i, p := range window {
		revenues[i] = p.ForecastRevenue
		expenses[i] = p.ForecastExpense
	}
	return mathutil.Mean(revenues), mathutil.Mean(expenses)
}
