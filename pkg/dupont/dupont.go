// Package dupont decomposes return on equity into margin, turnover and
// leverage factors.
package dupont

import (
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
)

// contributionShares is the number of factors the contribution fields split
// across. The split is an equal-weight display heuristic, not an attribution.
const contributionShares = 3

// Analysis is a three-factor DuPont decomposition. ROE and NetProfitMargin
// are percentages; AssetTurnover and EquityMultiplier are multiples.
type Analysis struct {
	ROE              float64 `json:"roe"`
	NetProfitMargin  float64 `json:"net_profit_margin"`
	AssetTurnover    float64 `json:"asset_turnover"`
	EquityMultiplier float64 `json:"equity_multiplier"`

	ProfitMarginContribution    float64 `json:"profit_margin_contribution"`
	AssetEfficiencyContribution float64 `json:"asset_efficiency_contribution"`
	LeverageContribution        float64 `json:"leverage_contribution"`
}

// Compute builds the decomposition. ROE is the product of the three
// factors rather than net income over equity, so it diverges from the
// direct ratio when the inputs do not reconcile.
func Compute(performance statements.FinancialPerformance, balance statements.BalanceSheetSnapshot) Analysis {
	margin := mathutil.SafeDivide(performance.NetIncome, performance.Revenue)
	turnover := mathutil.SafeDivide(performance.Revenue, balance.TotalAssets)
	multiplier := mathutil.SafeDivide(balance.TotalAssets, balance.TotalEquity)
	roe := margin * turnover * multiplier

	return Analysis{
		ROE:              roe * constants.PercentageMultiplier,
		NetProfitMargin:  margin * constants.PercentageMultiplier,
		AssetTurnover:    turnover,
		EquityMultiplier: multiplier,

		ProfitMarginContribution:    margin * constants.PercentageMultiplier / contributionShares,
		AssetEfficiencyContribution: turnover * constants.PercentageMultiplier / contributionShares,
		LeverageContribution:        multiplier * constants.PercentageMultiplier / contributionShares,
	}
}
