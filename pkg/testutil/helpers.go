// Package testutil provides common fixtures for testing.
package testutil

import (
	"github.com/iwvelando/finance-dashboard/pkg/cashcycle"
	"github.com/iwvelando/finance-dashboard/pkg/forecast"
	"github.com/iwvelando/finance-dashboard/pkg/statements"
	"github.com/iwvelando/finance-dashboard/pkg/valuation"
)

// SamplePerformance returns the March 2024 income statement of the sample
// printing business used throughout the tests.
func SamplePerformance() statements.FinancialPerformance {
	return statements.FinancialPerformance{
		Period:                   "Mar 2024",
		Revenue:                  45750000,
		GrossProfit:              28500000,
		OperatingIncome:          18500000,
		EBITDA:                   22800000,
		NetIncome:                13650000,
		InterestExpense:          1200000,
		TaxExpense:               3650000,
		DepreciationAmortization: 4300000,
	}
}

// SampleBalanceSheet returns the balance sheet matching SamplePerformance.
func SampleBalanceSheet() statements.BalanceSheetSnapshot {
	return statements.BalanceSheetSnapshot{
		Period:             "Mar 2024",
		CurrentAssets:      45000000,
		CurrentLiabilities: 18000000,
		TotalAssets:        125000000,
		TotalLiabilities:   40000000,
		TotalEquity:        85000000,
		CashEquivalents:    15000000,
		Inventory:          8500000,
		AccountsReceivable: 12000000,
		AccountsPayable:    6500000,
		ShortTermDebt:      5000000,
		LongTermDebt:       25000000,
	}
}

// SampleCashConversion returns working-capital inputs with the computed
// fields left at zero.
func SampleCashConversion() cashcycle.Data {
	return cashcycle.Data{
		Period:             "Mar 2024",
		AverageInventory:   8500000,
		CostOfGoodsSold:    17250000,
		CreditSales:        45750000,
		AccountsReceivable: 12000000,
		AccountsPayable:    6500000,
	}
}

// SampleValuationInputs returns valuation inputs in thousands.
func SampleValuationInputs() valuation.Inputs {
	return valuation.Inputs{
		MarketCap:         150000,
		TotalDebt:         30000,
		CashEquivalents:   15000,
		TaxRate:           25,
		CostOfEquity:      12,
		CostOfDebt:        6,
		Beta:              1.2,
		RiskFreeRate:      3.5,
		MarketRiskPremium: 7,
	}
}

// SampleHistory returns six months of actuals, January to June 2024.
func SampleHistory() []forecast.HistoricalPoint {
	return []forecast.HistoricalPoint{
		{Period: "Jan 2024", Revenue: 38000000, Expense: 28000000, Profit: 10000000},
		{Period: "Feb 2024", Revenue: 42000000, Expense: 31000000, Profit: 11000000},
		{Period: "Mar 2024", Revenue: 45750000, Expense: 32100000, Profit: 13650000},
		{Period: "Apr 2024", Revenue: 41000000, Expense: 29500000, Profit: 11500000},
		{Period: "May 2024", Revenue: 48000000, Expense: 34000000, Profit: 14000000},
		{Period: "Jun 2024", Revenue: 52000000, Expense: 36500000, Profit: 15500000},
	}
}
