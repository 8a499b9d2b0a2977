// Package cashcycle computes days inventory, sales and payables outstanding
// and the resulting cash conversion cycle.
package cashcycle

import (
	"github.com/iwvelando/finance-dashboard/pkg/constants"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// Data carries the working-capital inputs for one period together with the
// computed day counts, which are zero until Compute fills them.
type Data struct {
	Period             string  `json:"period" yaml:"period"`
	AverageInventory   float64 `json:"average_inventory" yaml:"averageInventory"`
	CostOfGoodsSold    float64 `json:"cost_of_goods_sold" yaml:"costOfGoodsSold"`
	CreditSales        float64 `json:"credit_sales" yaml:"creditSales"`
	AccountsReceivable float64 `json:"accounts_receivable" yaml:"accountsReceivable"`
	AccountsPayable    float64 `json:"accounts_payable" yaml:"accountsPayable"`

	DIO float64 `json:"dio" yaml:"-"`
	DSO float64 `json:"dso" yaml:"-"`
	DPO float64 `json:"dpo" yaml:"-"`
	CCC float64 `json:"ccc" yaml:"-"`
}

// Compute returns a copy of data with DIO, DSO, DPO and CCC populated.
// A zero cost of goods sold or credit sales yields zero days for the
// corresponding component.
func Compute(data Data) Data {
	result := data
	result.DIO = mathutil.SafeDivide(data.AverageInventory, data.CostOfGoodsSold) * constants.DaysPerYear
	result.DSO = mathutil.SafeDivide(data.AccountsReceivable, data.CreditSales) * constants.DaysPerYear
	result.DPO = mathutil.SafeDivide(data.AccountsPayable, data.CostOfGoodsSold) * constants.DaysPerYear
	result.CCC = result.DIO + result.DSO - result.DPO
	return result
}
