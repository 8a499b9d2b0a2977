// Package statements defines the period snapshot records consumed by the
// ratio, DuPont and valuation calculators.
package statements

import (
	"math"

	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// FinancialPerformance is an income-statement snapshot for one period. All
// fields share one currency unit; nothing here is required to reconcile.
type FinancialPerformance struct {
	Period                   string  `json:"period" yaml:"period"`
	Revenue                  float64 `json:"revenue" yaml:"revenue"`
	GrossProfit              float64 `json:"gross_profit" yaml:"grossProfit"`
	OperatingIncome          float64 `json:"operating_income" yaml:"operatingIncome"`
	EBITDA                   float64 `json:"ebitda" yaml:"ebitda"`
	NetIncome                float64 `json:"net_income" yaml:"netIncome"`
	InterestExpense          float64 `json:"interest_expense" yaml:"interestExpense"`
	TaxExpense               float64 `json:"tax_expense" yaml:"taxExpense"`
	DepreciationAmortization float64 `json:"depreciation_amortization" yaml:"depreciationAmortization"`
	TotalAssets              float64 `json:"total_assets" yaml:"totalAssets"`
	TotalEquity              float64 `json:"total_equity" yaml:"totalEquity"`
}

// BalanceSheetSnapshot is the balance sheet at one point in time.
type BalanceSheetSnapshot struct {
	Period             string  `json:"period" yaml:"period"`
	CurrentAssets      float64 `json:"current_assets" yaml:"currentAssets"`
	CurrentLiabilities float64 `json:"current_liabilities" yaml:"currentLiabilities"`
	TotalAssets        float64 `json:"total_assets" yaml:"totalAssets"`
	TotalLiabilities   float64 `json:"total_liabilities" yaml:"totalLiabilities"`
	TotalEquity        float64 `json:"total_equity" yaml:"totalEquity"`
	CashEquivalents    float64 `json:"cash_equivalents" yaml:"cashEquivalents"`
	Inventory          float64 `json:"inventory" yaml:"inventory"`
	AccountsReceivable float64 `json:"accounts_receivable" yaml:"accountsReceivable"`
	AccountsPayable    float64 `json:"accounts_payable" yaml:"accountsPayable"`
	ShortTermDebt      float64 `json:"short_term_debt" yaml:"shortTermDebt"`
	LongTermDebt       float64 `json:"long_term_debt" yaml:"longTermDebt"`
}

// TotalDebt is short-term plus long-term debt.
func (b BalanceSheetSnapshot) TotalDebt() float64 {
	return b.ShortTermDebt + b.LongTermDebt
}

// Imbalance returns total assets minus total liabilities and equity.
func (b BalanceSheetSnapshot) Imbalance() float64 {
	return b.TotalAssets - (b.TotalLiabilities + b.TotalEquity)
}

// Reconciles reports whether total assets are within the relative tolerance
// of total liabilities plus equity. Advisory only; callers decide what to do
// with an unbalanced sheet.
func (b BalanceSheetSnapshot) Reconciles(tolerance float64) bool {
	diff := math.Abs(b.Imbalance())
	if mathutil.IsZero(diff) {
		return true
	}
	return mathutil.SafeDivide(diff, math.Abs(b.TotalAssets)) <= tolerance && b.TotalAssets != 0
}
