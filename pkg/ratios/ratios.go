// Package ratios computes liquidity, leverage, profitability and efficiency
// ratios from a same-period performance and balance sheet pair.
//
// Every ratio whose denominator is zero resolves to zero.
package ratios

import (
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
)

// FinancialRatios holds the derived ratios for one period. Profitability
// ratios are percentages; all others are plain multiples.
type FinancialRatios struct {
	// Liquidity
	CurrentRatio           float64 `json:"current_ratio"`
	QuickRatio             float64 `json:"quick_ratio"`
	CashRatio              float64 `json:"cash_ratio"`
	OperatingCashFlowRatio float64 `json:"operating_cash_flow_ratio"`

	// Leverage
	DebtToEquity     float64 `json:"debt_to_equity"`
	DebtRatio        float64 `json:"debt_ratio"`
	EquityRatio      float64 `json:"equity_ratio"`
	InterestCoverage float64 `json:"interest_coverage"`

	// Profitability
	GrossMargin  float64 `json:"gross_margin"`
	NetMargin    float64 `json:"net_margin"`
	EBITDAMargin float64 `json:"ebitda_margin"`
	ROA          float64 `json:"roa"`
	ROE          float64 `json:"roe"`
	ROI          float64 `json:"roi"`

	// Efficiency
	AssetTurnover    float64 `json:"asset_turnover"`
	EquityMultiplier float64 `json:"equity_multiplier"`

	// Valuation. Always zero: shares outstanding and share price are not
	// modelled anywhere in the workbook.
	BookValuePerShare  float64 `json:"book_value_per_share"`
	EarningsPerShare   float64 `json:"earnings_per_share"`
	PriceEarningsRatio float64 `json:"price_earnings_ratio"`
}

// Compute derives the ratio set. Asset and equity totals come from the
// balance sheet; the copies on the performance record are ignored.
func Compute(performance statements.FinancialPerformance, balance statements.BalanceSheetSnapshot) FinancialRatios {
	div := mathutil.SafeDivide
	pct := mathutil.CalculatePercentage

	return FinancialRatios{
		CurrentRatio:           div(balance.CurrentAssets, balance.CurrentLiabilities),
		QuickRatio:             div(balance.CurrentAssets-balance.Inventory, balance.CurrentLiabilities),
		CashRatio:              div(balance.CashEquivalents, balance.CurrentLiabilities),
		OperatingCashFlowRatio: div(performance.OperatingIncome, balance.CurrentLiabilities),

		DebtToEquity:     div(balance.TotalLiabilities, balance.TotalEquity),
		DebtRatio:        div(balance.TotalLiabilities, balance.TotalAssets),
		EquityRatio:      div(balance.TotalEquity, balance.TotalAssets),
		InterestCoverage: div(performance.OperatingIncome, performance.InterestExpense),

		GrossMargin:  pct(performance.GrossProfit, performance.Revenue),
		NetMargin:    pct(performance.NetIncome, performance.Revenue),
		EBITDAMargin: pct(performance.EBITDA, performance.Revenue),
		ROA:          pct(performance.NetIncome, balance.TotalAssets),
		ROE:          pct(performance.NetIncome, balance.TotalEquity),
		// TODO: ROI equals NetMargin until an invested-capital input exists.
		ROI: pct(performance.NetIncome, performance.Revenue),

		AssetTurnover:    div(performance.Revenue, balance.TotalAssets),
		EquityMultiplier: div(balance.TotalAssets, balance.TotalEquity),
	}
}
