// Package payroll summarizes monthly salary costs and tracks salary history.
package payroll

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/iwvelando/finance-dashboard/pkg/datetime"
	"github.com/iwvelando/finance-dashboard/pkg/mathutil"
)

// EmploymentType classifies how an employee is engaged.
type EmploymentType string

const (
	FullTime  EmploymentType = "full-time"
	Freelance EmploymentType = "freelance"
	Contract  EmploymentType = "contract"
)

// ErrUnknownEmployee is returned when a salary change names an employee
// with no record.
var ErrUnknownEmployee = errors.New("unknown employee")

// Employee is a member of staff with a monthly salary.
type Employee struct {
	ID            int            `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Position      string         `json:"position" yaml:"position"`
	Type          EmploymentType `json:"type" yaml:"type"`
	CurrentSalary float64        `json:"current_salary" yaml:"currentSalary"`
}

// SalaryRecord is a salary in force from StartDate until EndDate, or still
// in force when EndDate is empty. Dates are formatted as 2006-01-02.
type SalaryRecord struct {
	EmployeeID int     `json:"employee_id" yaml:"employeeId"`
	Amount     float64 `json:"amount" yaml:"amount"`
	StartDate  string  `json:"start_date" yaml:"startDate"`
	EndDate    string  `json:"end_date,omitempty" yaml:"endDate,omitempty"`
}

// Summary describes the monthly payroll.
type Summary struct {
	Headcount     int                        `json:"headcount"`
	TotalMonthly  float64                    `json:"total_monthly"`
	AverageSalary float64                    `json:"average_salary"`
	HighestPaid   string                     `json:"highest_paid,omitempty"`
	HighestSalary float64                    `json:"highest_salary"`
	ByType        map[EmploymentType]float64 `json:"by_type"`
}

// Summarize totals the current monthly salaries of the given employees.
func Summarize(employees []Employee) Summary {
	summary := Summary{
		Headcount: len(employees),
		ByType:    make(map[EmploymentType]float64),
	}

	for i, e := range employees {
		summary.TotalMonthly += e.CurrentSalary
		summary.ByType[e.Type] += e.CurrentSalary
		if i == 0 || e.CurrentSalary > summary.HighestSalary {
			summary.HighestPaid = e.Name
			summary.HighestSalary = e.CurrentSalary
		}
	}

	summary.AverageSalary = mathutil.SafeDivide(summary.TotalMonthly, float64(len(employees)))
	return summary
}

// RaiseSalary records a new salary for the employee starting on startDate.
// Any open record for that employee is closed at startDate. The employee's
// CurrentSalary is updated in place in the returned slice; neither input is
// modified.
func RaiseSalary(employees []Employee, history []SalaryRecord, employeeID int, amount float64, startDate string) ([]Employee, []SalaryRecord, error) {
	if _, err := datetime.ParseDate(startDate); err != nil {
		return nil, nil, err
	}

	updatedEmployees := make([]Employee, len(employees))
	copy(updatedEmployees, employees)

	found := false
	for i := range updatedEmployees {
		if updatedEmployees[i].ID == employeeID {
			updatedEmployees[i].CurrentSalary = amount
			found = true
		}
	}
	if !found {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownEmployee, employeeID)
	}

	updatedHistory := make([]SalaryRecord, 0, len(history)+1)
	for _, r := range history {
		if r.EmployeeID == employeeID && r.EndDate == "" {
			r.EndDate = startDate
		}
		updatedHistory = append(updatedHistory, r)
	}
	updatedHistory = append(updatedHistory, SalaryRecord{EmployeeID: employeeID, Amount: amount, StartDate: startDate})

	return updatedEmployees, updatedHistory, nil
}

// SalaryAt returns the salary in force for the employee on asOf. A record
// covers its start date and ends the day before its end date. ok is false
// when no record covers asOf.
func SalaryAt(history []SalaryRecord, employeeID int, asOf time.Time) (amount float64, ok bool, err error) {
	records := make([]SalaryRecord, 0)
	for _, r := range history {
		if r.EmployeeID == employeeID {
			records = append(records, r)
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].StartDate < records[j].StartDate })

	for _, r := range records {
		start, err := datetime.ParseDate(r.StartDate)
		if err != nil {
			return 0, false, err
		}
		if asOf.Before(start) {
			continue
		}
		if r.EndDate != "" {
			end, err := datetime.ParseDate(r.EndDate)
			if err != nil {
				return 0, false, err
			}
			if !asOf.Before(end) {
				continue
			}
		}
		amount, ok = r.Amount, true
	}
	return amount, ok, nil
}

// SalariesAt returns a copy of employees whose CurrentSalary is replaced by
// the salary history in force on asOf. Employees without a covering record
// keep their CurrentSalary.
func SalariesAt(employees []Employee, history []SalaryRecord, asOf time.Time) ([]Employee, error) {
	out := make([]Employee, len(employees))
	copy(out, employees)

	for i := range out {
		amount, ok, err := SalaryAt(history, out[i].ID, asOf)
		if err != nil {
			return nil, fmt.Errorf("salary history for employee %d: %w", out[i].ID, err)
		}
		if ok {
			out[i].CurrentSalary = amount
		}
	}
	return out, nil
}
