// Package assets values fixed assets under straight-line depreciation.
package assets

import (
	"fmt"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// Asset is a fixed asset. DepreciationRate is the yearly percentage of
// cost written off; PurchaseDate is formatted as 2006-01-02.
type Asset struct {
	Name             string  `json:"name" yaml:"name"`
	Category         string  `json:"category" yaml:"category"`
	PurchaseDate     string  `json:"purchase_date" yaml:"purchaseDate"`
	Cost             float64 `json:"cost" yaml:"cost"`
	DepreciationRate float64 `json:"depreciation_rate" yaml:"depreciationRate"`
	LifetimeYears    int     `json:"lifetime_years" yaml:"lifetimeYears"`
	Description      string  `json:"description,omitempty" yaml:"description"`
}

// Valuation is an asset with its value on a given date.
type Valuation struct {
	Asset
	CurrentValue float64 `json:"current_value"`
	Depreciation float64 `json:"depreciation"`
}

// Summary aggregates a portfolio of valued assets.
type Summary struct {
	Count                   int         `json:"count"`
	TotalCost               float64     `json:"total_cost"`
	TotalCurrentValue       float64     `json:"total_current_value"`
	AccumulatedDepreciation float64     `json:"accumulated_depreciation"`
	AverageDepreciationRate float64     `json:"average_depreciation_rate"`
	MostValuable            string      `json:"most_valuable,omitempty"`
	Assets                  []Valuation `json:"assets"`
}

// CurrentValue returns cost less straight-line depreciation for the years
// elapsed since purchase, floored at zero. Elapsed time is clamped at zero
// so an asOf before the purchase date values the asset at cost.
func CurrentValue(asset Asset, asOf time.Time) (float64, error) {
	purchased, err := datetime.ParseDate(asset.PurchaseDate)
	if err != nil {
		return 0, fmt.Errorf("asset %q: %w", asset.Name, err)
	}

	years := mathutil.Max(0, datetime.YearsBetween(purchased, asOf))
	depreciation := asset.Cost * mathutil.FromPercent(asset.DepreciationRate) * years
	return mathutil.Max(0, asset.Cost-depreciation), nil
}

// Summarize values every asset as of the given date.
func Summarize(portfolio []Asset, asOf time.Time) (Summary, error) {
	summary := Summary{
		Count:  len(portfolio),
		Assets: make([]Valuation, 0, len(portfolio)),
	}

	var rateTotal, best float64
	for _, a := range portfolio {
		value, err := CurrentValue(a, asOf)
		if err != nil {
			return Summary{}, err
		}

		summary.Assets = append(summary.Assets, Valuation{Asset: a, CurrentValue: value, Depreciation: a.Cost - value})
		summary.TotalCost += a.Cost
		summary.TotalCurrentValue += value
		rateTotal += a.DepreciationRate

		if summary.MostValuable == "" || value > best {
			summary.MostValuable = a.Name
			best = value
		}
	}

	summary.AccumulatedDepreciation = summary.TotalCost - summary.TotalCurrentValue
	summary.AverageDepreciationRate = mathutil.SafeDivide(rateTotal, float64(len(portfolio)))
	return summary, nil
}
