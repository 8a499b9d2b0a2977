package forecast

import (
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// Summary aggregates the forecast-only points of a run.
type Summary struct {
	TotalForecastRevenue float64 `json:"total_forecast_revenue"`
	AverageRevenue       float64 `json:"average_revenue"`
	LastForecastRevenue  float64 `json:"last_forecast_revenue"`
	CumulativeGrowth     float64 `json:"cumulative_growth"`
}

// Summarize totals the forecast revenue of non-historical points, averages
// it over periods and reports growth of the final point relative to
// lastActualRevenue in percent.
func Summarize(points []DataPoint, lastActualRevenue float64, periods int) Summary {
	var summary Summary
	for _, p := range points {
		if !p.IsHistorical() {
			summary.TotalForecastRevenue += p.ForecastRevenue
		}
	}
	if len(points) > 0 {
		summary.LastForecastRevenue = points[len(points)-1].ForecastRevenue
	}
	if periods > 0 {
		summary.AverageRevenue = summary.TotalForecastRevenue / float64(periods)
	}
	summary.CumulativeGrowth = mathutil.SafeDivide(summary.LastForecastRevenue-lastActualRevenue, lastActualRevenue) * constants.PercentageMultiplier
	return summary
}
