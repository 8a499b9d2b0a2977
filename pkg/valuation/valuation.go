// Package valuation computes cost of capital and enterprise value metrics.
package valuation

import (
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
)

// Inputs are the market and capital-structure figures for a valuation.
// Rates are percentages (12 means 12%).
type Inputs struct {
	MarketCap         float64 `json:"market_cap" yaml:"marketCap"`
	TotalDebt         float64 `json:"total_debt" yaml:"totalDebt"`
	CashEquivalents   float64 `json:"cash_equivalents" yaml:"cashEquivalents"`
	TaxRate           float64 `json:"tax_rate" yaml:"taxRate"`
	CostOfEquity      float64 `json:"cost_of_equity" yaml:"costOfEquity"`
	CostOfDebt        float64 `json:"cost_of_debt" yaml:"costOfDebt"`
	Beta              float64 `json:"beta" yaml:"beta"`
	RiskFreeRate      float64 `json:"risk_free_rate" yaml:"riskFreeRate"`
	MarketRiskPremium float64 `json:"market_risk_premium" yaml:"marketRiskPremium"`
}

// Summary bundles every valuation metric for display.
type Summary struct {
	WACC               float64 `json:"wacc"`
	EquityWeight       float64 `json:"equity_weight"`
	DebtWeight         float64 `json:"debt_weight"`
	AfterTaxCostOfDebt float64 `json:"after_tax_cost_of_debt"`
	EnterpriseValue    float64 `json:"enterprise_value"`
	NetDebt            float64 `json:"net_debt"`
	NetWorkingCapital  float64 `json:"net_working_capital"`
	MarketToBook       float64 `json:"market_to_book"`
	CAPMCostOfEquity   float64 `json:"capm_cost_of_equity"`
	CostOfEquitySpread float64 `json:"cost_of_equity_spread"`
}

// Weights returns the equity and debt shares of market cap plus debt. Both
// are zero when that total is zero; otherwise they sum to one.
func Weights(inputs Inputs) (equity, debt float64) {
	total := inputs.MarketCap + inputs.TotalDebt
	return mathutil.SafeDivide(inputs.MarketCap, total), mathutil.SafeDivide(inputs.TotalDebt, total)
}

// AfterTaxCostOfDebt returns the cost of debt net of the tax shield, in percent.
func AfterTaxCostOfDebt(inputs Inputs) float64 {
	return inputs.CostOfDebt * (1 - mathutil.FromPercent(inputs.TaxRate))
}

// WACC returns the weighted average cost of capital in percent, or 0 when
// market cap plus debt is zero.
func WACC(inputs Inputs) float64 {
	if inputs.MarketCap+inputs.TotalDebt == 0 {
		return 0
	}
	equityWeight, debtWeight := Weights(inputs)
	costOfEquity := mathutil.FromPercent(inputs.CostOfEquity)
	costOfDebt := mathutil.FromPercent(AfterTaxCostOfDebt(inputs))

	return (equityWeight*costOfEquity + debtWeight*costOfDebt) * constants.PercentageMultiplier
}

// EnterpriseValue is market cap plus debt less cash.
func EnterpriseValue(inputs Inputs) float64 {
	return inputs.MarketCap + inputs.TotalDebt - inputs.CashEquivalents
}

// NetDebt is debt less cash.
func NetDebt(inputs Inputs) float64 {
	return inputs.TotalDebt - inputs.CashEquivalents
}

// NetWorkingCapital is current assets less current liabilities.
func NetWorkingCapital(balance statements.BalanceSheetSnapshot) float64 {
	return balance.CurrentAssets - balance.CurrentLiabilities
}

// CAPMCostOfEquity returns risk-free rate plus beta times the market risk
// premium, in percent. Used to sanity-check the supplied cost of equity.
func CAPMCostOfEquity(inputs Inputs) float64 {
	return inputs.RiskFreeRate + inputs.Beta*inputs.MarketRiskPremium
}

// MarketToBook is market cap over book equity. The balance sheet and the
// inputs must be in the same unit.
func MarketToBook(inputs Inputs, balance statements.BalanceSheetSnapshot) float64 {
	return mathutil.SafeDivide(inputs.MarketCap, balance.TotalEquity)
}

// Summarize computes every valuation metric at once. A zero TotalDebt is
// taken from the balance sheet's short- plus long-term debt.
func Summarize(inputs Inputs, balance statements.BalanceSheetSnapshot) Summary {
	if inputs.TotalDebt == 0 {
		inputs.TotalDebt = balance.TotalDebt()
	}
	equityWeight, debtWeight := Weights(inputs)
	capm := CAPMCostOfEquity(inputs)

	return Summary{
		WACC:               WACC(inputs),
		EquityWeight:       equityWeight,
		DebtWeight:         debtWeight,
		AfterTaxCostOfDebt: AfterTaxCostOfDebt(inputs),
		EnterpriseValue:    EnterpriseValue(inputs),
		NetDebt:            NetDebt(inputs),
		NetWorkingCapital:  NetWorkingCapital(balance),
		MarketToBook:       MarketToBook(inputs, balance),
		CAPMCostOfEquity:   capm,
		CostOfEquitySpread: inputs.CostOfEquity - capm,
	}
}
