package config

import (
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
)

// ToParameters converts the workbook forecast section into
// forecast.Parameters. An unknown method is an error.
func (f ForecastConfig) ToParameters() (forecast.Parameters, error) {
	method, err := forecast.ParseMethod(f.Method)
	if err != nil {
		return forecast.Parameters{}, err
	}

	return forecast.Parameters{
		Periods:            f.Periods,
		GrowthRate:         f.GrowthRate,
		Seasonality:        f.Seasonality,
		ConfidenceInterval: f.ConfidenceInterval,
		IncludeHistorical:  f.IncludeHistorical,
		Method:             method,
		StartPeriod:        f.StartPeriod,
	}, nil
}

// NewJitter builds the jitter source for a run. seed replaces the
// configured seed when non-zero.
func (j JitterConfig) NewJitter(seed uint64) forecast.Jitter {
	if j.Amplitude == 0 {
		return forecast.NoJitter{}
	}
	if seed == 0 {
		seed = j.Seed
	}
	return forecast.NewUniformJitter(j.Amplitude, seed)
}

// LastActuals returns the revenue and expense the forecast is seeded
// from: workbook actuals where set, otherwise the last history entry.
func (c *Configuration) LastActuals() forecast.Actuals {
	var result forecast.Actuals
	if n := len(c.History); n > 0 {
		result.Revenue = c.History[n-1].Revenue
		result.Expense = c.History[n-1].Expense
	}
	if c.Actuals != nil {
		if c.Actuals.Revenue != 0 {
			result.Revenue = c.Actuals.Revenue
		}
		if c.Actuals.Expense != 0 {
			result.Expense = c.Actuals.Expense
		}
	}
	return result
}
